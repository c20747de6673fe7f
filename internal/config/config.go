package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	envconfig "github.com/renjie/prism-lca/internal/config/env"
)

type Config struct {
	Paths    Paths
	Analysis Analysis
	Logger   Logger
	Storage  Storage
}

// Load reads configuration from the environment.
// With APP_ENV=local the given .env files (default ".env") are loaded first.
func Load(path ...string) (*Config, error) {
	const op = "config.Load"

	if shouldLoadDotenv() {
		if err := godotenv.Load(path...); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: load .env: %w", op, err)
		}
	}

	pathsCfg, err := envconfig.NewPathsConfig()
	if err != nil {
		return nil, fmt.Errorf("%s Paths: %w", op, err)
	}

	analysisCfg, err := envconfig.NewAnalysisConfig()
	if err != nil {
		return nil, fmt.Errorf("%s Analysis: %w", op, err)
	}

	loggerCfg, err := envconfig.NewLoggerConfig()
	if err != nil {
		return nil, fmt.Errorf("%s Logger: %w", op, err)
	}

	storageCfg, err := envconfig.NewStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("%s Storage: %w", op, err)
	}

	return &Config{
		Paths:    pathsCfg,
		Analysis: analysisCfg,
		Logger:   loggerCfg,
		Storage:  storageCfg,
	}, nil
}

func shouldLoadDotenv() bool {
	return os.Getenv("APP_ENV") == "local"
}
