package metrics

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	server := NewServer(provider, 9090, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NotNil(t, server)
	assert.Equal(t, ":9090", server.httpServer.Addr)
}

func TestServer_Routes(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	server := NewServer(provider, 9090, slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("Success_MetricsEndpoint", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/metrics", nil)
		rec := httptest.NewRecorder()

		server.httpServer.Handler.ServeHTTP(rec, req)

		assert.Equal(t, 200, rec.Code)
	})

	t.Run("Success_HealthzEndpoint", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/healthz", nil)
		rec := httptest.NewRecorder()

		server.httpServer.Handler.ServeHTTP(rec, req)

		assert.Equal(t, 200, rec.Code)
	})

	t.Run("NotFound_UnknownPath", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/unknown", nil)
		rec := httptest.NewRecorder()

		server.httpServer.Handler.ServeHTTP(rec, req)

		assert.Equal(t, 404, rec.Code)
	})
}
