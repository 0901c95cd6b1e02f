package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig holds raw environment values before they are copied into the
// runtime Config. Unset variables leave the current values untouched.
type envConfig struct {
	EndpointAddrHTTP      string        `env:"PRODVIZ_ADDRESS"`
	DatabaseDSN           string        `env:"PRODVIZ_DATABASE_DSN"`
	SecretKey             string        `env:"PRODVIZ_SECRET_KEY"`
	TokenValidityDuration time.Duration `env:"PRODVIZ_TOKEN_VALIDITY"`
	BcryptCost            int           `env:"PRODVIZ_BCRYPT_COST"`
}

// parseEnv overlays configuration from PRODVIZ_* environment variables.
// Invalid values panic, matching the JSON stage behavior.
func parseEnv(config *Config) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		panic(err)
	}

	if raw.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = raw.EndpointAddrHTTP
	}
	if raw.DatabaseDSN != "" {
		config.DatabaseDSN = raw.DatabaseDSN
	}
	if raw.SecretKey != "" {
		config.SecretKey = raw.SecretKey
	}
	if raw.TokenValidityDuration != 0 {
		config.TokenValidityDuration = raw.TokenValidityDuration
	}
	if raw.BcryptCost != 0 {
		config.BcryptCost = raw.BcryptCost
	}
}
