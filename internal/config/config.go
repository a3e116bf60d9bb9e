// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/robalobadob/numguess/internal/settings"
)

// Config is the full server configuration.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// DBPath enables SQLite profile persistence when set.
	DBPath string `env:"DB_PATH"`

	CookieName   string        `env:"COOKIE_NAME" envDefault:"guess_player"`
	CookieSecret string        `env:"COOKIE_SECRET"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
	CookieTTL    time.Duration `env:"COOKIE_TTL" envDefault:"720h"`

	DefaultRange      int `env:"DEFAULT_RANGE" envDefault:"100"`
	DefaultMaxGuesses int `env:"DEFAULT_MAX_GUESSES" envDefault:"5"`

	NoticeTTL      time.Duration `env:"NOTICE_TTL" envDefault:"3s"`
	PlayerIdleTTL  time.Duration `env:"PLAYER_IDLE_TTL" envDefault:"24h"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Defaults().Validate(); err != nil {
		return Config{}, fmt.Errorf("default settings: %w", err)
	}
	if cfg.SweepInterval <= 0 {
		return Config{}, fmt.Errorf("SWEEP_INTERVAL must be positive, got %s", cfg.SweepInterval)
	}
	return cfg, nil
}

// Defaults returns the settings new players start with.
func (c Config) Defaults() settings.Settings {
	return settings.Settings{Range: c.DefaultRange, MaxGuesses: c.DefaultMaxGuesses}
}

// Addr is the listen address.
func (c Config) Addr() string { return ":" + c.Port }
