// Package config loads the server configuration from an optional YAML file,
// environment variables and a local .env file.
package config

import (
	"time"
)

// Backend names accepted in StorageConfig.Backend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Rates   RatesConfig   `yaml:"rates"`
	Events  EventsConfig  `yaml:"events"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	AllowedOrigin   string        `yaml:"allowed_origin"   env:"CORS_ALLOWED_ORIGIN"     env-default:"*"`
}

// StorageConfig selects the data backend.
type StorageConfig struct {
	Backend string `yaml:"backend" env:"DATA_BACKEND" env-default:"memory"`
	DBPath  string `yaml:"db_path" env:"DB_PATH"      env-default:"./data/splitsmart.db"`

	// DemoPassword is the login password of the seeded demo users.
	DemoPassword string `yaml:"demo_password" env:"DEMO_PASSWORD" env-default:"password123"`
}

// AuthConfig holds session settings.
type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"  env:"JWT_SECRET"  env-required:"true"`
	TokenTTL   time.Duration `yaml:"token_ttl"   env:"TOKEN_TTL"   env-default:"24h"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

// RatesConfig holds exchange rate settings.
type RatesConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl" env:"RATES_CACHE_TTL" env-default:"10m"`
}

// EventsConfig holds the expense event publisher settings. An empty URL
// disables publishing.
type EventsConfig struct {
	AMQPURL      string `yaml:"amqp_url"      env:"AMQP_URL"`
	AMQPExchange string `yaml:"amqp_exchange" env:"AMQP_EXCHANGE" env-default:"splitsmart.expenses"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
