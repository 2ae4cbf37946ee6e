package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	BaseURL         string        `envconfig:"BASE_URL" default:""`
	ProductsPath    string        `envconfig:"PRODUCTS_PATH" default:"products.json"`
	DBPath          string        `envconfig:"DB_PATH" default:"data/orders.db"`
	MigrationsPath  string        `envconfig:"MIGRATIONS_PATH" default:"internal/repository/migrations"`
	StripeSecretKey string        `envconfig:"STRIPE_SECRET_KEY" default:""`
	RedisAddr       string        `envconfig:"REDIS_ADDR" default:""`
	RedisPassword   string        `envconfig:"REDIS_PASSWORD" default:""`
	KafkaBrokers    string        `envconfig:"KAFKA_BROKERS" default:""`
	SessionTTL      time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
	}
	return &cfg, nil
}
