// Package config loads server configuration from the environment, with an
// optional .env file for local development. Command-line flags in
// cmd/server override what is loaded here.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App AppConfig
}

// AppConfig holds application configuration.
type AppConfig struct {
	Port         int
	DatabasePath string
}

// Load reads configuration from the environment. A missing .env file is
// not an error; the environment alone is enough.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	return &Config{
		App: AppConfig{
			Port:         port,
			DatabasePath: getEnv("DATABASE_PATH", "paylevel.db"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
