package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ordercard/internal/config"
)

func TestNew_WriteTimeoutCoversLockWait(t *testing.T) {
	srv := New(config.ServerConfig{Port: 9090, LockTimeout: 30 * time.Second}, http.NotFoundHandler(), zap.NewNop())

	assert.Equal(t, ":9090", srv.httpServer.Addr)
	assert.Equal(t, 60*time.Second, srv.httpServer.WriteTimeout)
	assert.Greater(t, srv.httpServer.WriteTimeout, 30*time.Second)
}

func TestShutdown_StopsStart(t *testing.T) {
	srv := New(config.ServerConfig{Port: 0, LockTimeout: time.Second}, http.NotFoundHandler(), zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.Eventually(t, func() bool {
		return srv.Shutdown(ctx) == nil
	}, 2*time.Second, 10*time.Millisecond)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}
