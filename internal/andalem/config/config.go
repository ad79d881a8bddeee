package config

import (
	"github.com/kiosk404/andalem/internal/andalem/options"
)

// Config is the running configuration structure of the andalem service.
type Config struct {
	*options.Options
}

// CreateConfigFromOptions creates a running configuration instance based
// on a given andalem command line or configuration file option.
func CreateConfigFromOptions(opts *options.Options) (*Config, error) {
	return &Config{opts}, nil
}
