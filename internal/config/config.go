// Package config loads ecstour settings from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config holds settings shared by every example.
type Config struct {
	// Minimum log level: trace, debug, info, warn or error.
	LogLevel string `env:"ECSTOUR_LOG_LEVEL" envDefault:"info"`

	// Human-readable console output instead of JSON lines.
	LogPretty bool `env:"ECSTOUR_LOG_PRETTY" envDefault:"true"`

	// Window size in pixels.
	WindowWidth  int `env:"ECSTOUR_WINDOW_WIDTH" envDefault:"1280"`
	WindowHeight int `env:"ECSTOUR_WINDOW_HEIGHT" envDefault:"720"`

	// Period of the clock pacing the script interpreter.
	TickPeriod time.Duration `env:"ECSTOUR_TICK_PERIOD" envDefault:"1s"`

	// Directory sprites are loaded from.
	AssetsDir string `env:"ECSTOUR_ASSETS_DIR" envDefault:"assets"`

	// Step the interpreter once per clock pulse instead of once per frame.
	DrainPulses bool `env:"ECSTOUR_DRAIN_PULSES" envDefault:"false"`

	// Run the frame loop without opening a window.
	Headless bool `env:"ECSTOUR_HEADLESS" envDefault:"false"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{}

	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse config")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate config")
	}

	return cfg, nil
}

// Validate checks the configuration for values the examples cannot run with.
func (cfg *Config) Validate() error {
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return eris.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}
	if cfg.WindowWidth <= 0 || cfg.WindowHeight <= 0 {
		return eris.Errorf("window size must be positive, got %dx%d", cfg.WindowWidth, cfg.WindowHeight)
	}
	if cfg.TickPeriod <= 0 {
		return eris.New("tick period must be positive")
	}
	if cfg.AssetsDir == "" {
		return eris.New("assets directory cannot be empty")
	}
	return nil
}
