package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPServer_StartStop(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
	srv := NewHTTPServer("127.0.0.1:0", handler)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start(context.Background()) }()

	require.Eventually(t, func() bool {
		return srv.Addr() != "127.0.0.1:0"
	}, time.Second, 5*time.Millisecond)

	resp, err := http.Get("http://" + srv.Addr())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	require.NoError(t, srv.Stop(context.Background()))
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestHTTPServer_StopBeforeStart(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", http.NotFoundHandler())
	assert.NoError(t, srv.Stop(context.Background()))

	requireReturns(t, func() error { return srv.Start(context.Background()) })
}

func TestHTTPServer_StartWithCancelledContext(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", http.NotFoundHandler())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	requireReturns(t, func() error { return srv.Start(ctx) })
}

func requireReturns(t *testing.T, start func() error) {
	t.Helper()
	errc := make(chan error, 1)
	go func() { errc <- start() }()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start kept serving after the server was stopped")
	}
}
