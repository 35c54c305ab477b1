package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BuildEnvironment is the environment baked in at build time:
//
//	go build -ldflags "-X category-quiz-service/internal/config.BuildEnvironment=production"
var BuildEnvironment = "development"

const EnvironmentProduction = "production"

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port        string   `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL             string `yaml:"ttl"`
		DefaultCategory string `yaml:"default_category"`
	} `yaml:"quiz"`
	API struct {
		URL           string `yaml:"url"`
		ProductionURL string `yaml:"production_url"`
	} `yaml:"api"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// Load reads YAML config from path and applies environment overrides.
// A missing file yields defaults plus overrides.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg, os.Getenv)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("APP_ENV"); v != "" {
		cfg.Environment = v
	}
	if v := getenv("QUIZ_POSTGRES_URL"); v != "" {
		cfg.Postgres.URL = v
	}
	if v := getenv("QUIZ_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := getenv("QUIZ_API_URL"); v != "" {
		cfg.API.URL = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = BuildEnvironment
	}
	if cfg.Quiz.DefaultCategory == "" {
		cfg.Quiz.DefaultCategory = "ms-word"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Production reports whether the resolved environment is production.
func (c Config) Production() bool {
	return c.Environment == EnvironmentProduction
}

// APIBaseURL is the façade base URL for the current environment.
func (c Config) APIBaseURL() string {
	if c.Production() && c.API.ProductionURL != "" {
		return c.API.ProductionURL
	}
	return c.API.URL
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
