package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compsred/comps-engine/internal/config"
	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
)

func TestNewServer_Defaults(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	srv := NewServer(config.ServerConfig{Port: 8080}, handler, logging.NewNopLogger())

	require.NotNil(t, srv)
	assert.Equal(t, ":8080", srv.srv.Addr)
	assert.Equal(t, 15*time.Second, srv.srv.ReadTimeout)
	assert.Equal(t, 15*time.Second, srv.srv.WriteTimeout)
	assert.Equal(t, 30*time.Second, srv.shutdownTimeout)
}

func TestNewServer_ConfiguredTimeouts(t *testing.T) {
	cfg := config.ServerConfig{
		Port:            9090,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 20 * time.Second,
	}
	srv := NewServer(cfg, nil, logging.NewNopLogger())

	assert.Equal(t, ":9090", srv.srv.Addr)
	assert.Equal(t, 5*time.Second, srv.srv.ReadTimeout)
	assert.Equal(t, 10*time.Second, srv.srv.WriteTimeout)
	assert.Equal(t, 20*time.Second, srv.shutdownTimeout)
}

func TestServer_StartAndStop(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	// Port 0 lets the OS pick a free port.
	srv := NewServer(config.ServerConfig{Port: 0}, handler, logging.NewNopLogger())

	done := make(chan error, 1)
	go func() {
		done <- srv.Start()
	}()

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err, "Start should return nil after graceful shutdown")
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop in time")
	}
}

func TestServer_HandlerAccessor(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	srv := NewServer(config.ServerConfig{Port: 8080}, handler, logging.NewNopLogger())

	assert.NotNil(t, srv.Handler())
}

//Personal.AI order the ending
