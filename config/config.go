package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const (
	modeDevelopment = "development"
	modeProduction  = "production"
)

// Config holds the runtime configuration. Values come from the environment,
// optionally preloaded from config/.env.<APP_ENV> files.
type Config struct {
	AppEnv       string        `envconfig:"APP_ENV" default:"development"`
	GatewayURL   string        `envconfig:"GATEWAY_URL"`
	ListenPort   string        `envconfig:"HTTP_SERVER_PORT" default:"8080"`
	DatabaseURL  string        `envconfig:"DATABASE_URL"`
	SqlitePath   string        `envconfig:"SQLITE_PATH" default:"msafe.db"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"15s"`
	PollRate     float64       `envconfig:"POLL_RATE" default:"5"`

	ChainID         string `envconfig:"CHAIN_ID"`
	InternalChainID int64  `envconfig:"INTERNAL_CHAIN_ID" default:"1"`
	AddressPrefix   string `envconfig:"ADDRESS_PREFIX" default:"aura"`
	Denom           string `envconfig:"DENOM" default:"uaura"`
	Symbol          string `envconfig:"SYMBOL" default:"AURA"`
	Decimals        int32  `envconfig:"DECIMALS" default:"6"`
	GasPrice        string `envconfig:"GAS_PRICE" default:"0.0025"`
}

// Load reads the per-environment .env files the way the dev setup lays them
// out, then fills the struct from the environment. Missing .env files are
// fine in production where everything is injected.
func Load() (*Config, error) {
	env, exists := os.LookupEnv("APP_ENV")
	if !exists {
		env = modeDevelopment
	}
	_ = godotenv.Load("config/.env."+env+".local", "config/.env."+env)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "process env")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate returns an error if the config is unusable.
func (c *Config) Validate() error {
	if c.GatewayURL == "" {
		return errors.New("gateway base url is required")
	}
	if c.ChainID == "" {
		return errors.New("chain id is required")
	}
	if c.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	return nil
}

// IsDevelopment reports whether the app runs in dev mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == modeDevelopment
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == modeProduction
}
