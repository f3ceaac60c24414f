package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      string `envconfig:"APP_ENV" default:"development"` // development|staging|production
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`      // debug|info|warn|error
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8088"`

	DBType     string `envconfig:"STORAGE_BACKEND" default:"file"` // file|sqlite|postgres|mongo
	DBDSN      string `envconfig:"POSTGRES_DSN"`
	DataDir    string `envconfig:"DATA_DIR" default:"data"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"data/renescens.db"`
	MongoURI   string `envconfig:"MONGO_URI"`
	MongoDB    string `envconfig:"MONGO_DB" default:"renescens"`
	RedisAddr  string `envconfig:"REDIS_ADDR"`

	UsersFile      string `envconfig:"USERS_FILE" default:"data/users.json"`
	AuthServiceURL string `envconfig:"AUTH_SERVICE_URL"`

	OpenAIKey     string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`

	DefaultTZ            string        `envconfig:"DEFAULT_TZ" default:"Europe/Paris"`
	MonthlyAnalysisLimit int           `envconfig:"ANALYSIS_MONTHLY_LIMIT" default:"4"`
	VoiceSessionIdle     time.Duration `envconfig:"VOICE_SESSION_IDLE" default:"2m"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBType {
	case "file":
		if c.DataDir == "" {
			return errors.New("file storage requires DATA_DIR to be set")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	case "postgres":
		if c.DBDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "mongo":
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required when STORAGE_BACKEND=mongo")
		}
	default:
		return errors.New("STORAGE_BACKEND must be one of: file, sqlite, postgres, mongo")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Env != "development" && c.AuthServiceURL == "" {
		return errors.New("AUTH_SERVICE_URL is required outside development")
	}
	if c.MonthlyAnalysisLimit < 1 {
		return errors.New("ANALYSIS_MONTHLY_LIMIT must be positive")
	}
	if _, err := time.LoadLocation(c.DefaultTZ); err != nil {
		return errors.New("DEFAULT_TZ is not a valid time zone: " + err.Error())
	}
	return nil
}

// Location returns the configured time zone, UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DefaultTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}
