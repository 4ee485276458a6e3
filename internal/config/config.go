package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Config is read from YAML; the env tags override file values when set.
type Config struct {
	Server struct {
		Port      string `yaml:"port"`
		PublicURL string `yaml:"public_url" env:"PUBLIC_URL"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" env:"DATABASE_URL"`
	} `yaml:"postgres"`
	Quiz struct {
		Catalog    string `yaml:"catalog" env:"QUIZ_CATALOG"`
		File       string `yaml:"file" env:"QUIZ_FILE"`
		TTL        string `yaml:"ttl"`
		SessionTTL string `yaml:"session_ttl" env:"SESSION_TTL"`
	} `yaml:"quiz"`
	Share struct {
		QREndpoint string `yaml:"qr_endpoint"`
		QRSize     int    `yaml:"qr_size"`
	} `yaml:"share"`
	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
		Env   string `yaml:"env" env:"APP_ENV"`
	} `yaml:"log"`
}

// Load reads YAML config from path. A missing file yields the defaults;
// environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()
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
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Quiz.Catalog = "probability"
	cfg.Quiz.TTL = "10m"
	cfg.Quiz.SessionTTL = "30m"
	cfg.Log.Level = "info"
	cfg.Log.Env = "development"
	return cfg
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
