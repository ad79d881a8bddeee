package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, mutate func(c *Config)) *GenericAPIServer {
	t.Helper()
	cfg := NewConfig()
	cfg.Mode = gin.TestMode
	if mutate != nil {
		mutate(cfg)
	}
	s, err := cfg.Complete().New()
	require.NoError(t, err)
	return s
}

func TestGenericAPIServer(t *testing.T) {
	t.Run("Should serve healthz and version", func(t *testing.T) {
		s := newTestServer(t, nil)

		for _, path := range []string{"/healthz", "/version"} {
			w := httptest.NewRecorder()
			s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})

	t.Run("Should not install healthz when disabled", func(t *testing.T) {
		s := newTestServer(t, func(c *Config) { c.Healthz = false })

		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Should install pprof when profiling is on", func(t *testing.T) {
		s := newTestServer(t, func(c *Config) { c.EnableProfiling = true })

		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Should join the bind address and port", func(t *testing.T) {
		s := newTestServer(t, func(c *Config) { c.BindAddress = "0.0.0.0"; c.BindPort = 9000 })
		assert.Equal(t, "0.0.0.0:9000", s.Address())
	})
}
