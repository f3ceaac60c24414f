package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:                  "development",
		LogLevel:             "info",
		DBType:               "file",
		DataDir:              "data",
		DefaultTZ:            "Europe/Paris",
		MonthlyAnalysisLimit: 4,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"postgres without dsn", func(c *Config) { c.DBType = "postgres" }, true},
		{"postgres with dsn", func(c *Config) { c.DBType = "postgres"; c.DBDSN = "postgres://x" }, false},
		{"mongo without uri", func(c *Config) { c.DBType = "mongo" }, true},
		{"sqlite without path", func(c *Config) { c.DBType = "sqlite"; c.SQLitePath = "" }, true},
		{"unknown backend", func(c *Config) { c.DBType = "firestore" }, true},
		{"bad env", func(c *Config) { c.Env = "prod" }, true},
		{"production needs auth service", func(c *Config) { c.Env = "production" }, true},
		{"production with auth service", func(c *Config) { c.Env = "production"; c.AuthServiceURL = "http://auth" }, false},
		{"zero limit", func(c *Config) { c.MonthlyAnalysisLimit = 0 }, true},
		{"bad tz", func(c *Config) { c.DefaultTZ = "Mars/Olympus" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/renescens-test.db")
	t.Setenv("ANALYSIS_MONTHLY_LIMIT", "6")
	t.Setenv("VOICE_SESSION_IDLE", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, 6, cfg.MonthlyAnalysisLimit)
	assert.Equal(t, 30*time.Second, cfg.VoiceSessionIdle)
	assert.Equal(t, ":8088", cfg.HTTPAddr)
	assert.Equal(t, "Europe/Paris", cfg.Location().String())
}
