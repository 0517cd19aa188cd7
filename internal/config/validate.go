package config

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const minJWTSecretLen = 32

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535 (got %d)", c.Server.Port)
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.DBPath) == "" {
			return fmt.Errorf("storage.db_path is required for the %s backend", BackendSQLite)
		}
	default:
		return fmt.Errorf("storage.backend must be %q or %q (got %q)", BackendMemory, BackendSQLite, c.Storage.Backend)
	}

	if len(c.Auth.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("auth.jwt_secret must be at least %d characters (got %d)", minJWTSecretLen, len(c.Auth.JWTSecret))
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0 (got %s)", c.Auth.TokenTTL)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d (got %d)", bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}

	if c.Rates.CacheTTL < 0 {
		return fmt.Errorf("rates.cache_ttl must be >= 0 (got %s)", c.Rates.CacheTTL)
	}

	if c.Events.AMQPURL != "" && c.Events.AMQPExchange == "" {
		return fmt.Errorf("events.amqp_exchange is required when events.amqp_url is set")
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}

	return nil
}
