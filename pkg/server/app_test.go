package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"CapLens/pkg/cache"
	"CapLens/pkg/config"
	xhttp "CapLens/pkg/http"
	"CapLens/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func newTestApp(t *testing.T) (*App, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Server.ShutdownTimeout = time.Second
	srv := xhttp.NewServer(nil, nil,
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(0),
		xhttp.WithMetricsPath(""),
	)
	return New(cfg, logger.NewNop(), srv, nil, nil, cache.NewMemoryCache()), cfg
}

func TestRunContextShutsDownInOrder(t *testing.T) {
	app, _ := newTestApp(t)

	var closed []string
	app.OnShutdown("publisher", closerFunc(func() error {
		closed = append(closed, "publisher")
		return nil
	}))
	app.OnShutdown("failing", closerFunc(func() error {
		closed = append(closed, "failing")
		return errors.New("already closed")
	}))
	app.OnShutdown("nil", nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	// Give the listener a moment, then trigger shutdown.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not shut down")
	}
	// Closer errors are logged, not returned.
	assert.Equal(t, []string{"publisher", "failing"}, closed)
}

func TestRunContextWithoutFeed(t *testing.T) {
	app, cfg := newTestApp(t)
	assert.False(t, cfg.Kafka.Enabled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, app.RunContext(ctx))
}
