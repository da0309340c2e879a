package dashboard

import (
	"fmt"

	"business-console/internal/common/config"
)

const ScreenName = "dashboard"

type Config struct {
	Enabled bool
}

func DefaultConfig() *Config {
	return &Config{Enabled: true}
}

func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("dashboard config is required")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, custom *Config) *Config {
	if custom != nil {
		return custom
	}
	cfg := DefaultConfig()
	if appConfig != nil {
		cfg.Enabled = config.IsScreenEnabled(appConfig, ScreenName)
	}
	return cfg
}
