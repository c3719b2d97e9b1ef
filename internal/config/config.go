package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port            uint16        `envconfig:"APP_PORT" default:"8080"`
	LogLevel        slog.Level    `envconfig:"APP_LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"APP_SHUTDOWN_TIMEOUT" default:"10s"`

	JWTSecret string        `envconfig:"APP_JWT_SECRET" required:"true"`
	JWTExpiry time.Duration `envconfig:"APP_JWT_EXPIRY" default:"24h"`

	PostgresDSN string `envconfig:"PG_DSN" required:"true"`
}

// Load reads the configuration from the environment, with an optional
// .env file as a fallback for local runs.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment.
	_ = godotenv.Load()

	cfg := new(Config)

	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	return cfg, nil
}
