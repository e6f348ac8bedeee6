package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// Workers is the number of sharded confirmation workers.
	Workers int `env:"CONFIRMATION_WORKERS, default=8"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Payment PaymentConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=marketplace"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
	// DedupTTL bounds how long a payment confirmation is remembered.
	DedupTTL time.Duration `env:"REDIS_DEDUP_TTL, default=24h"`
}

type PaymentConfig struct {
	BaseURL  string        `env:"PAYMENT_BASE_URL, default=https://api.payments.example.com"`
	APIKey   string        `env:"PAYMENT_API_KEY"`
	Currency string        `env:"PAYMENT_CURRENCY, default=usd"`
	Timeout  time.Duration `env:"PAYMENT_TIMEOUT,  default=10s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
