package options

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// LogOptions configures the platform log.
type LogOptions struct {
	// Path is the error log file, written alongside stdout.
	Path  string `json:"path"  mapstructure:"path"`
	Level string `json:"level" mapstructure:"level"`
}

func NewLogOptions() *LogOptions {
	return &LogOptions{
		Path:  "logs/platform_log.log",
		Level: "info",
	}
}

func (o *LogOptions) Validate() []error {
	var errs []error
	if _, err := logrus.ParseLevel(o.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errs
}

func (o *LogOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Path, "log.path", o.Path, "Log file written alongside stdout.")
	fs.StringVar(&o.Level, "log.level", o.Level, "Minimum log level: debug, info, warn or error.")
}
