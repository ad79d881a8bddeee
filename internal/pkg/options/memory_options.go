package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// MemoryOptions configures the store behind agents and crews with memory enabled.
type MemoryOptions struct {
	// Enabled turns the memory store on. When off, memory_enabled settings are ignored.
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	// Path is the SQLite database file.
	Path string `json:"path" mapstructure:"path"`
	// RecallLimit caps the memories injected into one task prompt.
	RecallLimit int `json:"recall-limit" mapstructure:"recall-limit"`
}

// NewMemoryOptions returns a new instance of MemoryOptions.
func NewMemoryOptions() *MemoryOptions {
	return &MemoryOptions{
		Enabled:     true,
		Path:        "data/memory.db",
		RecallLimit: 3,
	}
}

// Validate checks MemoryOptions fields.
func (o *MemoryOptions) Validate() []error {
	var errs []error
	if o.Enabled && o.Path == "" {
		errs = append(errs, fmt.Errorf("memory.path must be set when memory is enabled"))
	}
	if o.RecallLimit < 1 || o.RecallLimit > 20 {
		errs = append(errs, fmt.Errorf("memory.recall-limit must be in [1, 20], got %d", o.RecallLimit))
	}
	return errs
}

// AddFlags adds flags for the memory options.
func (o *MemoryOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Enabled, "memory.enabled", o.Enabled, "Enable agent and crew memory.")
	fs.StringVar(&o.Path, "memory.path", o.Path, "SQLite file holding agent and crew memories.")
	fs.IntVar(&o.RecallLimit, "memory.recall-limit", o.RecallLimit, "Maximum memories recalled into one task.")
}
