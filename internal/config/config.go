package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:":8080"`
	PostgresConn  string `env:"POSTGRES_CONN,required"`
	PostgresDB    string `env:"POSTGRES_DATABASE" envDefault:"agro_market"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"file://migrations"`
	JWTSecret     string `env:"JWT_SECRET,required"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	// Settlement retry policy for per-listing lock contention.
	SettleRetries int `env:"SETTLE_RETRIES" envDefault:"3"`
	SettleBackoff int `env:"SETTLE_BACKOFF_MS" envDefault:"50"`
}

// New reads configuration from the environment. A .env file in the working
// directory is loaded first when present, so local runs don't need exports.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}
