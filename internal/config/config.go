package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath   = "CONFIG_PATH"
	EnvDBConnection = "DB_CONNECTION"
	EnvCatalogURL   = "CATALOG_URL"
)

// defaultDatabaseDSN is the SQLite file used when nothing is configured.
const defaultDatabaseDSN = "models.db"

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// ServerConfig holds the mirror server settings.
type ServerConfig struct {
	DatabaseDSN        string        `yaml:"database-dsn"`
	CatalogURL         string        `yaml:"catalog-url"`
	SyncInterval       time.Duration `yaml:"sync-interval"`
	Port               int           `yaml:"port"`
	RateLimitPerSecond int           `yaml:"rate-limit-per-second"`
	RedisURL           string        `yaml:"redis-url"`
}

// LoadServerConfig reads server settings from the YAML config file.
//
// A missing config file is not an error; defaults and environment
// overrides still apply.
func LoadServerConfig(configPath string) (ServerConfig, error) {
	var cfg ServerConfig

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
			return ServerConfig{}, fmt.Errorf("parse config file: %w", errUnmarshal)
		}
	} else if !os.IsNotExist(errRead) {
		return ServerConfig{}, fmt.Errorf("read config file: %w", errRead)
	}

	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		cfg.DatabaseDSN = dsn
	}
	if url := strings.TrimSpace(os.Getenv(EnvCatalogURL)); url != "" {
		cfg.CatalogURL = url
	}
	if strings.TrimSpace(cfg.DatabaseDSN) == "" {
		cfg.DatabaseDSN = defaultDatabaseDSN
	}

	return cfg, nil
}
