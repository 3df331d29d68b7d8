package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets keys for the duration of the test and restores them afterwards.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

var configKeys = []string{
	"ENV", "LOG_LEVEL", "DATA_PATH", "SERVER_PORT", "CORS_ALLOWED_ORIGINS",
	"ACCESS_TOKEN_DURATION", "REFRESH_TOKEN_DURATION", "SESSION_CLEANUP_INTERVAL",
	"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
	"AUTH_RATE_LIMIT", "AUTH_RATE_BURST",
}

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	missing := filepath.Join(t.TempDir(), "missing.env")
	return LoadConfigFrom(fs, append([]string{"--env-file", missing}, args...))
}

func TestLoadConfigFrom_Defaults(t *testing.T) {
	clearEnv(t, configKeys...)

	cfg, err := load(t)
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, filepath.Join(home, "Journal", "data"), cfg.Data.BasePath)
	assert.Equal(t, filepath.Join(home, "Journal", "data", "journal.db"), cfg.Data.DatabasePath())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, 720*time.Hour, cfg.Auth.RefreshTokenDuration)
	assert.Equal(t, time.Hour, cfg.Auth.SessionCleanupInterval)
	assert.Equal(t, 20, cfg.Auth.RateLimit)
}

func TestLoadConfigFrom_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t, configKeys...)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("SERVER_PORT", "9000")

	dataDir := t.TempDir()
	cfg, err := load(t, "--log-level", "debug", "--data-path", dataDir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, dataDir, cfg.Data.BasePath)
}

func TestLoadConfigFrom_EnvFile(t *testing.T) {
	clearEnv(t, configKeys...)
	t.Setenv("SERVER_PORT", "7000")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "SERVER_PORT=1111\nCORS_ALLOWED_ORIGINS=http://a.test, http://b.test\nACCESS_TOKEN_DURATION=5m\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := LoadConfigFrom(fs, []string{"--env-file", envFile})
	require.NoError(t, err)

	// Existing environment wins over the file.
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenDuration)
}

func TestLoadConfigFrom_InvalidDuration(t *testing.T) {
	clearEnv(t, configKeys...)
	t.Setenv("REFRESH_TOKEN_DURATION", "forever")

	_, err := load(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_TOKEN_DURATION")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:    AppConfig{Environment: "development"},
			Logger: LoggerConfig{Level: "info"},
			Data:   DataConfig{BasePath: "/var/lib/journal"},
			Auth:   AuthConfig{AccessTokenDuration: time.Minute, RefreshTokenDuration: time.Hour},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"valid", func(*Config) {}, true},
		{"production", func(c *Config) { c.App.Environment = "production" }, true},
		{"unknown env", func(c *Config) { c.App.Environment = "test" }, false},
		{"case sensitive env", func(c *Config) { c.App.Environment = "DEVELOPMENT" }, false},
		{"upper-case level", func(c *Config) { c.Logger.Level = "DEBUG" }, true},
		{"bad level", func(c *Config) { c.Logger.Level = "verbose" }, false},
		{"empty data path", func(c *Config) { c.Data.BasePath = "" }, false},
		{"zero access duration", func(c *Config) { c.Auth.AccessTokenDuration = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/notes", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes"), got)

	got, err = ExpandPath("", "/fallback")
	require.NoError(t, err)
	assert.Equal(t, "/fallback", got)

	got, err = ExpandPath("/a/b/../c", "")
	require.NoError(t, err)
	assert.Equal(t, "/a/c", got)
}
