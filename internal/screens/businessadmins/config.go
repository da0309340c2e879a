package businessadmins

import (
	"fmt"

	"business-console/internal/common/config"
)

const ScreenName = "business-admins"

type Config struct {
	Enabled      bool
	DefaultLimit int
}

// DefaultConfig leaves the page size to the resource registry.
func DefaultConfig() *Config {
	return &Config{Enabled: true}
}

func (c *Config) Validate() error {
	if c.DefaultLimit < 0 {
		return fmt.Errorf("default_limit must not be negative")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, custom *Config) *Config {
	if custom != nil {
		return custom
	}
	cfg := DefaultConfig()
	if appConfig != nil {
		sc := config.GetScreenConfig(appConfig, ScreenName)
		cfg.Enabled = sc.Enabled
		cfg.DefaultLimit = sc.DefaultLimit
	}
	return cfg
}
