package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/kiosk404/andalem/internal/pkg/core"
	"github.com/kiosk404/andalem/pkg/logger"
	"github.com/kiosk404/andalem/pkg/version"
)

// GenericAPIServer contains state for a gin api server.
type GenericAPIServer struct {
	address         string
	healthz         bool
	enableProfiling bool
	shutdownTimeout time.Duration

	*gin.Engine

	insecureServer *http.Server
}

func initGenericAPIServer(s *GenericAPIServer) {
	s.InstallAPIs()
}

// InstallAPIs installs the generic apis.
func (s *GenericAPIServer) InstallAPIs() {
	if s.healthz {
		s.GET("/healthz", func(c *gin.Context) {
			core.WriteResponse(c, nil, map[string]string{"status": "ok"})
		})
	}

	if s.enableProfiling {
		pprof.Register(s.Engine)
	}

	s.GET("/version", func(c *gin.Context) {
		core.WriteResponse(c, nil, version.Get())
	})
}

// Address returns the host:port the server listens on.
func (s *GenericAPIServer) Address() string {
	return s.address
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (s *GenericAPIServer) Run(ctx context.Context) error {
	s.insecureServer = &http.Server{
		Addr:    s.address,
		Handler: s,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[Server] Start to listening the incoming requests on http address: %s", s.address)
		if err := s.insecureServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", s.address, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("[Server] shutting down http server on %s", s.address)
	s.Close()
	return <-errCh
}

// Close graceful shutdown the api server.
func (s *GenericAPIServer) Close() {
	if s.insecureServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.insecureServer.Shutdown(ctx); err != nil {
		logger.Warn("[Server] Shutdown insecure server failed: %s", err.Error())
	}
}
