package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const baseYAML = `
app:
  name: business-console
backend:
  primary_url: http://primary.local/
  applicant_url: http://applicant.local
  headers:
    x-api-key: secret
display:
  timezone: Asia/Kathmandu
screens:
  applicants:
    enabled: true
    default_limit: 10
  users-cashflows:
    enabled: false
`

func TestLoadFromFile(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "http://primary.local", cfg.Backend.PrimaryURL)
	assert.Equal(t, "http://applicant.local", cfg.Backend.ApplicantURL)
	assert.Equal(t, "secret", cfg.Backend.Headers["x-api-key"])
	assert.Equal(t, 15000, cfg.Backend.Timeout)
	assert.Equal(t, ":3000", cfg.Server.Address)
	assert.Equal(t, "lalitpur", cfg.Onboarding.PlaceholderAddress)
	assert.Equal(t, 300, cfg.Notifications.FlashTTL)
	assert.Equal(t, "Asia/Kathmandu", cfg.Display.Location().String())

	assert.Equal(t, 10, GetScreenConfig(cfg, "applicants").DefaultLimit)
	assert.False(t, IsScreenEnabled(cfg, "users-cashflows"))
	assert.True(t, IsScreenEnabled(cfg, "businesses"))
}

func TestLoadFromFile_EnvironmentBundle(t *testing.T) {
	t.Setenv("BUSINESS_INTERNAL_BASE_SERVICE",
		`{"url_one":"http://one.local","url_two":"http://two.local","headers":{"Authorization":"Bearer abc"}}`)
	t.Setenv("ROLE", `["SuperAdmin","Admin"]`)
	t.Setenv("USER_GENDER", `["male","female"]`)
	t.Setenv("SERVICE_TYPES", `["Topup","Electricity"]`)
	t.Setenv("TIME_ZONE", "UTC")
	t.Setenv("REFERENCE_SERVICE_URL", "http://receipts.local")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "http://one.local", cfg.Backend.PrimaryURL)
	assert.Equal(t, "http://two.local", cfg.Backend.ApplicantURL)
	assert.Equal(t, "Bearer abc", cfg.Backend.Headers["Authorization"])
	assert.Equal(t, "secret", cfg.Backend.Headers["x-api-key"])
	assert.Equal(t, []string{"SuperAdmin", "Admin"}, cfg.Vocabulary.Roles)
	assert.Equal(t, []string{"male", "female"}, cfg.Vocabulary.Lookup("genders"))
	assert.Equal(t, []string{"Topup", "Electricity"}, cfg.Vocabulary.ServiceTypes)
	assert.Equal(t, "UTC", cfg.Display.Timezone)
	assert.Equal(t, "http://receipts.local", cfg.Display.ReferenceServiceURL)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		env    map[string]string
		errMsg string
	}{
		{
			name:   "missing primary url",
			yaml:   "backend:\n  applicant_url: http://a.local\n",
			errMsg: "backend.primary_url is required",
		},
		{
			name:   "missing applicant url",
			yaml:   "backend:\n  primary_url: http://p.local\n",
			errMsg: "backend.applicant_url is required",
		},
		{
			name:   "unknown timezone",
			yaml:   "backend:\n  primary_url: http://p.local\n  applicant_url: http://a.local\ndisplay:\n  timezone: Mars/Olympus\n",
			errMsg: "display.timezone",
		},
		{
			name:   "redis enabled without address",
			yaml:   "backend:\n  primary_url: http://p.local\n  applicant_url: http://a.local\ndatabase:\n  redis:\n    enabled: true\n",
			errMsg: "database.redis.address is required",
		},
		{
			name:   "malformed base service bundle",
			yaml:   baseYAML,
			env:    map[string]string{"BUSINESS_INTERNAL_BASE_SERVICE": "{not json"},
			errMsg: "parse base service",
		},
		{
			name:   "malformed vocabulary",
			yaml:   baseYAML,
			env:    map[string]string{"ROLE": "SuperAdmin"},
			errMsg: "ROLE must be a JSON array",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadFromFile(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseBaseService(t *testing.T) {
	bs, err := ParseBaseService(`{"url_one":"a","url_two":"b","headers":{"k":"v"}}`)
	require.NoError(t, err)
	assert.Equal(t, "a", bs.URLOne)
	assert.Equal(t, "b", bs.URLTwo)
	assert.Equal(t, map[string]string{"k": "v"}, bs.Headers)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestDisplayLocation_Fallback(t *testing.T) {
	assert.Equal(t, time.UTC, DisplayConfig{}.Location())
	assert.Equal(t, time.UTC, DisplayConfig{Timezone: "Nowhere/Land"}.Location())
}
