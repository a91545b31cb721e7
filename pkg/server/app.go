package server

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"CapLens/pkg/cache"
	"CapLens/pkg/config"
	xhttp "CapLens/pkg/http"
	pkgkafka "CapLens/pkg/kafka"
	applogger "CapLens/pkg/logger"
)

// Closer is anything the app releases on shutdown.
type Closer interface {
	Close() error
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	consumer   *pkgkafka.Consumer
	feed       pkgkafka.MessageHandler
	cache      cache.Service
	closers    []namedCloser
}

type namedCloser struct {
	name string
	c    Closer
}

// New assembles the app. consumer and feed are nil when the trigger feed is disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	consumer *pkgkafka.Consumer,
	feed pkgkafka.MessageHandler,
	c cache.Service,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: httpServer,
		consumer:   consumer,
		feed:       feed,
		cache:      c,
	}
}

// OnShutdown registers a resource closed after the servers stop, in registration order.
func (a *App) OnShutdown(name string, c Closer) {
	if c != nil {
		a.closers = append(a.closers, namedCloser{name: name, c: c})
	}
}

// Run starts the HTTP server and the trigger feed and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext is Run with a caller-controlled lifetime.
func (a *App) RunContext(ctx context.Context) error {
	if a.consumer != nil && a.feed != nil {
		a.consumer.RegisterHandler(a.feed)
		if err := a.consumer.Start(); err != nil {
			return fmt.Errorf("start trigger feed: %w", err)
		}
		a.log.Info("trigger feed started", applogger.String("topic", a.feed.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}
	a.log.Info("caplens started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("cache", a.cfg.Cache.Backend),
		applogger.Bool("kafka", a.cfg.Kafka.Enabled))

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	// Stop the feed before closing the publisher it may still write through.
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	for _, nc := range a.closers {
		if err := nc.c.Close(); err != nil {
			a.log.Warn("close error", applogger.String("resource", nc.name), applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return firstErr
}
