// Package config loads process configuration from the environment.
package config

import (
	"github.com/kelseyhightower/envconfig"

	"github.com/matzehuels/svgtree/pkg/errors"
)

// Prefix is the environment variable prefix, e.g. SVGTREE_THEME.
const Prefix = "SVGTREE"

// Config holds settings that apply to every command. Flags override them.
type Config struct {
	Theme      string `envconfig:"THEME" default:"light"`
	CacheDir   string `envconfig:"CACHE_DIR"`
	RedisAddr  string `envconfig:"REDIS_ADDR"`
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`
	KeyField   string `envconfig:"KEY_FIELD" default:"path"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "read environment")
	}
	if err := errors.ValidateTheme(cfg.Theme); err != nil {
		return nil, err
	}
	if err := errors.ValidateKeyField(cfg.KeyField); err != nil {
		return nil, err
	}
	return &cfg, nil
}
