// internal/common/config/loader.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseService is the deployment bundle carried by
// BUSINESS_INTERNAL_BASE_SERVICE: two base URLs and the header set sent with
// every backend request.
type BaseService struct {
	URLOne  string            `json:"url_one"`
	URLTwo  string            `json:"url_two"`
	Headers map[string]string `json:"headers"`
}

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := overrideFromEnv(&cfg); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// ParseBaseService decodes the BUSINESS_INTERNAL_BASE_SERVICE JSON bundle.
func ParseBaseService(raw string) (*BaseService, error) {
	var bs BaseService
	if err := json.Unmarshal([]byte(raw), &bs); err != nil {
		return nil, fmt.Errorf("parse base service: %w", err)
	}
	return &bs, nil
}

func parseList(name, raw string) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%s must be a JSON array of strings: %w", name, err)
	}
	return out, nil
}

// overrideFromEnv applies the deployment variables used by the original
// dashboard on top of the file configuration.
func overrideFromEnv(cfg *Config) error {
	if raw := os.Getenv("BUSINESS_INTERNAL_BASE_SERVICE"); raw != "" {
		bs, err := ParseBaseService(raw)
		if err != nil {
			return err
		}
		if bs.URLOne != "" {
			cfg.Backend.PrimaryURL = bs.URLOne
		}
		if bs.URLTwo != "" {
			cfg.Backend.ApplicantURL = bs.URLTwo
		}
		if len(bs.Headers) > 0 {
			if cfg.Backend.Headers == nil {
				cfg.Backend.Headers = map[string]string{}
			}
			for k, v := range bs.Headers {
				cfg.Backend.Headers[k] = v
			}
		}
	}

	lists := []struct {
		env    string
		target *[]string
	}{
		{"USER_STATUS", &cfg.Vocabulary.Statuses},
		{"ROLE", &cfg.Vocabulary.Roles},
		{"USER_GENDER", &cfg.Vocabulary.Genders},
		{"SERVICE_TYPES", &cfg.Vocabulary.ServiceTypes},
	}
	for _, l := range lists {
		raw := os.Getenv(l.env)
		if raw == "" {
			continue
		}
		values, err := parseList(l.env, raw)
		if err != nil {
			return err
		}
		*l.target = values
	}

	if val := os.Getenv("TIME_ZONE"); val != "" {
		cfg.Display.Timezone = val
	}
	if val := os.Getenv("REFERENCE_SERVICE_URL"); val != "" {
		cfg.Display.ReferenceServiceURL = val
	}

	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
	return nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "business-console"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":3000"
	}
	if cfg.Server.MetricsAddress == "" {
		cfg.Server.MetricsAddress = ":8080"
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30000
	}

	cfg.Backend.PrimaryURL = strings.TrimRight(cfg.Backend.PrimaryURL, "/")
	cfg.Backend.ApplicantURL = strings.TrimRight(cfg.Backend.ApplicantURL, "/")
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 15000
	}

	if len(cfg.Vocabulary.Statuses) == 0 {
		cfg.Vocabulary.Statuses = []string{"All", "Active", "Inactive"}
	}
	if len(cfg.Vocabulary.Roles) == 0 {
		cfg.Vocabulary.Roles = []string{"SuperAdmin", "Admin"}
	}
	if len(cfg.Vocabulary.Genders) == 0 {
		cfg.Vocabulary.Genders = []string{"male", "female", "other"}
	}

	if cfg.Display.Timezone == "" {
		cfg.Display.Timezone = "UTC"
	}

	if cfg.Onboarding.PlaceholderAddress == "" {
		cfg.Onboarding.PlaceholderAddress = "lalitpur"
	}
	if cfg.Onboarding.PlaceholderDomain == "" {
		cfg.Onboarding.PlaceholderDomain = "placeholder.invalid"
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Notifications.FlashTTL == 0 {
		cfg.Notifications.FlashTTL = 300
	}

	if cfg.RegistryPath == "" {
		cfg.RegistryPath = "configs/resource-registry.json"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	for key, screen := range cfg.Screens {
		if screen.DefaultLimit < 0 {
			screen.DefaultLimit = 0
		}
		cfg.Screens[key] = screen
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Backend.PrimaryURL == "" {
		return fmt.Errorf("backend.primary_url is required")
	}
	if cfg.Backend.ApplicantURL == "" {
		return fmt.Errorf("backend.applicant_url is required")
	}
	switch cfg.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", cfg.Server.Mode)
	}
	if cfg.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must be positive")
	}
	if _, err := time.LoadLocation(cfg.Display.Timezone); err != nil {
		return fmt.Errorf("display.timezone %q is not a valid location: %w", cfg.Display.Timezone, err)
	}

	if cfg.Database.Postgres.Enabled {
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
	}
	if cfg.Database.Redis.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}

	if cfg.Notifications.AWS.SES.Enabled && cfg.Notifications.AWS.SES.FromEmail == "" {
		return fmt.Errorf("notifications.aws.ses.from_email is required")
	}
	if cfg.Notifications.AWS.SNS.Enabled && cfg.Notifications.AWS.SNS.TopicARN == "" {
		return fmt.Errorf("notifications.aws.sns.topic_arn is required")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetScreenConfig retrieves screen-specific configuration with fallback to defaults
func GetScreenConfig(cfg *Config, screen string) ScreenConfig {
	if sc, exists := cfg.Screens[screen]; exists {
		return sc
	}
	return ScreenConfig{Enabled: true}
}

// IsScreenEnabled checks if a specific screen is enabled
func IsScreenEnabled(cfg *Config, screen string) bool {
	if sc, exists := cfg.Screens[screen]; exists {
		return sc.Enabled
	}
	return true
}
