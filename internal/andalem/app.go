package andalem

import (
	"github.com/kiosk404/andalem/internal/andalem/config"
	"github.com/kiosk404/andalem/internal/andalem/options"
	"github.com/kiosk404/andalem/pkg/app"
	"github.com/kiosk404/andalem/pkg/logger"
)

const commandDesc = `The andalem server assembles crews of AI agents.

Each session edits one crew: its agents, their tasks and the process that ties
them together. Crews are validated, run against the configured LLM providers
and saved to crew files that can be loaded again later.`

// NewApp creates an App object with default parameters.
func NewApp(basename string) *app.App {
	opts := options.NewOptions()
	application := app.NewApp("Andalem crew server",
		basename,
		app.WithOptions(opts),
		app.WithDescription(commandDesc),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)

	return application
}

func run(opts *options.Options) app.RunFunc {
	return func(basename string) error {
		if err := logger.InitLog(opts.LogOptions.Path); err != nil {
			return err
		}
		defer logger.FlushLog()
		if err := logger.SetLevel(opts.LogOptions.Level); err != nil {
			return err
		}

		cfg, err := config.CreateConfigFromOptions(opts)
		if err != nil {
			return err
		}

		return Run(cfg)
	}
}
