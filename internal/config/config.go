// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and LINEUP_ environment variables on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Config contains process configuration shared by the HTTP service and the
// CLI.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: json or text.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Workers bounds concurrent catalogue builds.
	Workers int `koanf:"workers"`

	// Keep is the default number of squads or plans a search retains.
	Keep int `koanf:"keep"`

	// Decay is the default per-round threshold decay, in (0,1).
	Decay float64 `koanf:"decay"`

	// MaxRounds caps decaying rounds before the final exhaustive sweep.
	MaxRounds int `koanf:"max_rounds"`

	// MaxTransfers is the default transfer count when a request omits it.
	MaxTransfers int `koanf:"max_transfers"`

	// CatalogueLimit caps combinations per catalogue; zero disables it.
	CatalogueLimit int `koanf:"catalogue_limit"`

	// MemoSize bounds the per-run score memo.
	MemoSize int `koanf:"memo_size"`

	// MaxBodyBytes caps HTTP request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// SearchTimeoutMS bounds one HTTP-triggered search.
	SearchTimeoutMS int `koanf:"search_timeout_ms"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "json",
		Addr:            ":9080",
		Workers:         runtime.NumCPU(),
		Keep:            10,
		Decay:           0.9,
		MaxRounds:       500,
		MaxTransfers:    2,
		CatalogueLimit:  5_000_000,
		MemoSize:        1 << 20,
		MaxBodyBytes:    8 << 20,
		SearchTimeoutMS: 60_000,
	}
}

// SearchTimeout returns SearchTimeoutMS as a duration.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutMS) * time.Millisecond
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "json" && c.LogFormat != "text":
		return fmt.Errorf("%w: log_format %q must be json or text", ErrInvalidConfig, c.LogFormat)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case c.Keep < 1:
		return fmt.Errorf("%w: keep must be positive", ErrInvalidConfig)
	case !(c.Decay > 0 && c.Decay < 1):
		return fmt.Errorf("%w: decay %v outside (0,1)", ErrInvalidConfig, c.Decay)
	case c.MaxRounds < 1:
		return fmt.Errorf("%w: max_rounds must be positive", ErrInvalidConfig)
	case c.MaxTransfers < 0:
		return fmt.Errorf("%w: max_transfers must not be negative", ErrInvalidConfig)
	case c.CatalogueLimit < 0:
		return fmt.Errorf("%w: catalogue_limit must not be negative", ErrInvalidConfig)
	case c.MemoSize < 1:
		return fmt.Errorf("%w: memo_size must be positive", ErrInvalidConfig)
	case c.MaxBodyBytes < 1:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	case c.SearchTimeoutMS < 1:
		return fmt.Errorf("%w: search_timeout_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
