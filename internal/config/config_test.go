package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunhan-cho/LT-GDG/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "service:\n  port: 9000\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Service.Port)
	assert.Equal(t, "callguard", cfg.Service.Name)
	assert.Equal(t, config.ProviderNone, cfg.Classifier.Provider)
	assert.Equal(t, 2*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, "drop", cfg.Turns.LeadingAgentPolicy)
	assert.Equal(t, "drop", cfg.Turns.UnknownSpeakerPolicy)
	assert.Equal(t, "sqlite3", cfg.Storage.Database.Driver)
	assert.Equal(t, 256, cfg.Alerts.QueueSize)
	assert.Equal(t, 5*time.Second, cfg.Alerts.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Storage.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Setenv("CALLGUARD_PORT", "9100")
	t.Setenv("PROFANITY_DISABLED_LEVELS", "politics, minor")
	path := writeConfig(t, "service:\n  port: 9000\nprofanity:\n  disabled_levels: [special]\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Service.Port)
	assert.Equal(t, []string{"politics", "minor"}, cfg.Profanity.DisabledLevels)
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("CALLGUARD_PORT", "eighty")
	t.Setenv("APP_DEBUG", "maybe")
	path := writeConfig(t, "service:\n  port: 9000\n")

	_, err := config.Load(path)
	require.Error(t, err)

	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "CALLGUARD_PORT")
	assert.Contains(t, err.Error(), "APP_DEBUG")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CALLGUARD_PORT", "9200")
	t.Setenv("ALERTS_ENABLED", "yes")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Service.Port)
	assert.True(t, cfg.Alerts.Enabled)

	assert.Equal(t, 8090, config.Default().Service.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"bad port", func(c *config.Config) { c.Service.Port = 70000 }, "service.port"},
		{"unknown provider", func(c *config.Config) { c.Classifier.Provider = "torch" }, "classifier.provider"},
		{"http without url", func(c *config.Config) { c.Classifier.Provider = config.ProviderHTTP }, "classifier.url"},
		{"anthropic without key", func(c *config.Config) {
			c.Classifier.Provider = config.ProviderAnthropic
			c.Classifier.AnthropicAPIKey = ""
		}, "classifier.anthropic_api_key"},
		{"bad leading policy", func(c *config.Config) { c.Turns.LeadingAgentPolicy = "keep" }, "turns.leading_agent_policy"},
		{"bad speaker policy", func(c *config.Config) { c.Turns.UnknownSpeakerPolicy = "both" }, "turns.unknown_speaker_policy"},
		{"bad alert level", func(c *config.Config) { c.Alerts.MinLevel = "urgent" }, "alerts.min_level"},
		{"negative alert queue", func(c *config.Config) { c.Alerts.QueueSize = -1 }, "alerts.queue_size"},
		{"negative alert timeout", func(c *config.Config) { c.Alerts.Timeout = -time.Second }, "alerts.timeout"},
		{"negative storage timeout", func(c *config.Config) { c.Storage.Timeout = -time.Second }, "storage.timeout"},
		{"bad driver", func(c *config.Config) {
			c.Storage.Database.Enabled = true
			c.Storage.Database.Driver = "mysql"
		}, "storage.database.driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			config.SetDefaults(cfg)
			tt.mutate(cfg)

			err := cfg.Validate()
			var verr *config.ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	assert.Equal(t, "config.yml", config.GetConfigPath("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/callguard.yml")
	assert.Equal(t, "/etc/callguard.yml", config.GetConfigPath("config.yml"))
}
