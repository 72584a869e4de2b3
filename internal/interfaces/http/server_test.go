package http

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/netmodel/internal/config"
)

func TestNewServer_Address(t *testing.T) {
	srv := NewServer(config.ServerConfig{Port: 9191, ReadTimeout: time.Second}, http.NotFoundHandler(), nil)
	assert.Equal(t, ":9191", srv.srv.Addr)
	assert.Equal(t, time.Second, srv.srv.ReadTimeout)
}

func TestServer_ServeAndStop(t *testing.T) {
	r := newTestRouter(t)
	srv := NewServer(config.ServerConfig{ShutdownTimeout: 5 * time.Second}, r, nil)
	assert.Equal(t, r, srv.Handler())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Stop(context.Background()))
	assert.NoError(t, <-done)
}
