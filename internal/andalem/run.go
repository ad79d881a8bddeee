package andalem

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kiosk404/andalem/internal/andalem/config"
)

// Run runs the specified APIServer. This should never exit.
func Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := createAPIServer(ctx, cfg)
	if err != nil {
		return err
	}

	return server.PrepareRun().Run(ctx)
}
