//go:build wireinject
// +build wireinject

package di

import (
	"CapLens/internal/domain/repository"
	internalrepo "CapLens/internal/repository"
	"CapLens/pkg/config"
	"CapLens/pkg/metrics"
	"CapLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,

		// Catalog and state
		ProvideCatalog,
		wire.Bind(new(repository.CompanyCatalog), new(*internalrepo.Catalog)),
		ProvideStanceStore,
		wire.Bind(new(repository.StanceStore), new(*internalrepo.StanceStore)),

		// Metrics
		ProvideMetrics,
		wire.Bind(new(repository.Metrics), new(*metrics.Recorder)),

		// Engines
		ProvideScorer,
		ProvideEventEngine,

		// Infrastructure
		ProvideCache,
		ProvideKafkaProducer,
		ProvideStancePublisher,
		ProvideKafkaConsumer,

		// Use cases and transport
		ProvideDashboard,
		ProvideStanceFeedHandler,
		ProvideRateLimiter,
		ProvideDashboardHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return &server.App{}, nil
}
