// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Server        ServerConfig            `mapstructure:"server"`
	Backend       BackendConfig           `mapstructure:"backend"`
	Vocabulary    VocabularyConfig        `mapstructure:"vocabulary"`
	Display       DisplayConfig           `mapstructure:"display"`
	Onboarding    OnboardingConfig        `mapstructure:"onboarding"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Screens       map[string]ScreenConfig `mapstructure:"screens"`
	RegistryPath  string                  `mapstructure:"registry_path"`
	Logging       LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address        string `mapstructure:"address"`
	Mode           string `mapstructure:"mode"` // gin mode: debug, release, test
	MetricsAddress string `mapstructure:"metrics_address"`
	ReadTimeout    int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout   int    `mapstructure:"write_timeout"` // milliseconds
}

// BackendConfig points at the two backend services. PrimaryURL serves every
// resource except applicants, which live on ApplicantURL.
type BackendConfig struct {
	PrimaryURL   string            `mapstructure:"primary_url"`
	ApplicantURL string            `mapstructure:"applicant_url"`
	Headers      map[string]string `mapstructure:"headers"`
	Timeout      int               `mapstructure:"timeout"` // milliseconds
}

// VocabularyConfig holds the option lists shown in filters and forms.
type VocabularyConfig struct {
	Statuses     []string `mapstructure:"statuses"`
	Roles        []string `mapstructure:"roles"`
	Genders      []string `mapstructure:"genders"`
	ServiceTypes []string `mapstructure:"service_types"`
}

// Lookup returns a vocabulary by name, as referenced from the resource registry.
func (v VocabularyConfig) Lookup(name string) []string {
	switch name {
	case "statuses":
		return v.Statuses
	case "roles":
		return v.Roles
	case "genders":
		return v.Genders
	case "service_types":
		return v.ServiceTypes
	}
	return nil
}

type DisplayConfig struct {
	Timezone            string `mapstructure:"timezone"`
	ReferenceServiceURL string `mapstructure:"reference_service_url"`
}

// Location returns the display timezone, falling back to UTC.
func (d DisplayConfig) Location() *time.Location {
	if d.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// OnboardingConfig controls the placeholder data used when an enrolled
// applicant is provisioned.
type OnboardingConfig struct {
	PlaceholderAddress string `mapstructure:"placeholder_address"`
	PlaceholderDomain  string `mapstructure:"placeholder_domain"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NotificationConfig covers flash messages and the optional AWS enrollment
// notices.
type NotificationConfig struct {
	FlashTTL int `mapstructure:"flash_ttl"` // seconds

	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled  bool   `mapstructure:"enabled"`
			TopicARN string `mapstructure:"topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// ScreenConfig holds the settings applicable to every screen.
type ScreenConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	DefaultLimit int  `mapstructure:"default_limit"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
