package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	defaultConfigPath = "./config.yaml"
	dotEnvPath        = ".env"
)

// Load builds the server configuration. Values come from, in increasing
// priority, the env-default tags, the YAML file and the environment.
//
// A .env file in the working directory seeds the environment without
// overriding variables that are already set. The YAML file is CONFIG_PATH,
// or ./config.yaml when unset; only an explicit CONFIG_PATH must exist.
func Load() (*Config, error) {
	if err := loadDotEnv(dotEnvPath); err != nil {
		return nil, err
	}

	path, required := yamlPath()
	cfg, err := readSources(path, required)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("config: load %s: %w", path, err)
}

func yamlPath() (path string, required bool) {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p, true
	}
	return defaultConfigPath, false
}

// readSources fills a Config from the YAML file at path plus the environment.
// cleanenv.ReadConfig applies env overrides itself, so ReadEnv only runs
// when there is no file.
func readSources(path string, required bool) (*Config, error) {
	cfg := new(Config)

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case required:
		return nil, fmt.Errorf("config: file %s: %w", path, statErr)
	default:
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}
	return cfg, nil
}
