package di

import (
	"fmt"

	"CapLens/internal/domain/repository"
	domsvc "CapLens/internal/domain/service"
	"CapLens/internal/handler/api"
	internalrepo "CapLens/internal/repository"
	"CapLens/internal/service/ratelimit"
	"CapLens/internal/services/events"
	"CapLens/internal/services/scoring"
	"CapLens/internal/usecase"
	"CapLens/pkg/cache"
	"CapLens/pkg/config"
	xhttp "CapLens/pkg/http"
	"CapLens/pkg/http/middleware"
	pkgkafka "CapLens/pkg/kafka"
	"CapLens/pkg/logger"
	"CapLens/pkg/metrics"
	"CapLens/pkg/server"
)

// ProvideLogger builds the zerolog-backed logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideCatalog loads and validates the dataset. Load errors abort startup.
func ProvideCatalog(cfg *config.Config) (*internalrepo.Catalog, error) {
	var (
		cat *internalrepo.Catalog
		err error
	)
	if cfg.Catalog.CompaniesPath != "" {
		cat, err = internalrepo.LoadFiles(cfg.Catalog.CompaniesPath, cfg.Catalog.EventsPath)
	} else {
		cat, err = internalrepo.LoadEmbedded()
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return cat, nil
}

func ProvideStanceStore(cat *internalrepo.Catalog) *internalrepo.StanceStore {
	return internalrepo.NewStanceStore(cat.DecisionRules())
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cat *internalrepo.Catalog) *metrics.Recorder {
	m := metrics.New()
	eventCount := 0
	for _, b := range cat.Buckets() {
		eventCount += len(cat.Events(b))
	}
	m.RecordCatalog(len(cat.Companies()), eventCount)
	return m
}

func ProvideScorer() domsvc.Scorer {
	return scoring.NewService()
}

// ProvideEventEngine takes the BTC reference for CASH3 from the catalog's fundamental updates.
func ProvideEventEngine(cat *internalrepo.Catalog, stances repository.StanceStore) domsvc.EventEngine {
	btcRef, _ := cat.Fundamental("CASH3", "btc_avg_acquisition_price_usd")
	return events.NewEngine(cat, events.DefaultRegistry(btcRef), stances)
}

// ProvideCache picks the report cache backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	cc := cfg.Cache
	switch cc.Backend {
	case "redis", "layered":
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cc.Redis.Addr),
			cache.WithRedisPassword(cc.Redis.Password),
			cache.WithRedisDB(cc.Redis.DB),
			cache.WithRedisPrefix(cc.Redis.Prefix),
			cache.WithRedisPool(cc.Redis.PoolSize, cc.Redis.MinIdle, cc.Redis.PoolTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("cache: %w", err)
		}
		if cc.Backend == "redis" {
			return rc, nil
		}
		return cache.NewLayeredCache(rc,
			cache.WithLayeredMemorySize(cc.MemoryMaxSize),
			cache.WithLayeredMemoryTTL(cc.MemoryTTL),
		), nil
	default:
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cc.MemoryMaxSize)), nil
	}
}

// ProvideKafkaProducer returns nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	p := cfg.Kafka.Producer
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(p.Compression),
		pkgkafka.WithRequiredAcks(p.RequiredAcks),
		pkgkafka.WithBatchSize(p.BatchSize),
		pkgkafka.WithBatchTimeout(p.Linger),
		pkgkafka.WithTimeouts(p.WriteTimeout, p.ReadTimeout),
		pkgkafka.WithMaxAttempts(p.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideStancePublisher returns a nil interface, not a typed nil, without a producer.
func ProvideStancePublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.StancePublisher {
	if producer == nil {
		return nil
	}
	return usecase.NewKafkaStancePublisher(cfg.Kafka.StanceTopic, producer)
}

func ProvideDashboard(
	cfg *config.Config,
	companies repository.CompanyCatalog,
	scorer domsvc.Scorer,
	engine domsvc.EventEngine,
	stances repository.StanceStore,
	c cache.Service,
	m repository.Metrics,
	publisher repository.StancePublisher,
	log *logger.Logger,
) *usecase.Dashboard {
	return usecase.NewDashboard(companies, scorer, engine, stances, c, m, log,
		usecase.WithPublisher(publisher),
		usecase.WithCacheTTL(cfg.Cache.TTL),
	)
}

// ProvideRateLimiter returns nil when rate limiting is off.
func ProvideRateLimiter(cfg *config.Config) middleware.Allower {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSecond)
}

func ProvideDashboardHandler(log *logger.Logger, dash *usecase.Dashboard, limiter middleware.Allower) *api.DashboardEchoHandler {
	return api.NewDashboardEchoHandler(log, dash, limiter)
}

func ProvideHTTPServer(cfg *config.Config, handler *api.DashboardEchoHandler, log *logger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(handler, log,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowRequest(cfg.Server.SlowRequest),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideKafkaConsumer returns nil when Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config, log *logger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	cc := cfg.Kafka.Consumer
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cc.GroupID),
		pkgkafka.WithConsumerAutoOffsetReset(cc.AutoOffsetReset),
		pkgkafka.WithConsumerWorkers(cc.Workers),
		pkgkafka.WithConsumerBufferSize(cc.BufferSize),
		pkgkafka.WithConsumerRetry(cc.RetryMax, cc.BackoffMin, cc.BackoffMax),
		pkgkafka.WithConsumerDLQ(cc.DLQTopic),
		pkgkafka.WithConsumerLogger(log.With(logger.String("component", "trigger_feed"))),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NewHookChain(pkgkafka.TracingHook()))
	return consumer, nil
}

func ProvideStanceFeedHandler(cfg *config.Config, dash *usecase.Dashboard, m repository.Metrics, log *logger.Logger) *usecase.StanceFeedHandler {
	return usecase.NewStanceFeedHandler(cfg.Kafka.TriggersTopic, dash, m, log)
}

// ProvideApp creates the application and registers resources to release on shutdown.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	srv *xhttp.Server,
	consumer *pkgkafka.Consumer,
	feed *usecase.StanceFeedHandler,
	c cache.Service,
	publisher repository.StancePublisher,
) *server.App {
	var handler pkgkafka.MessageHandler
	if consumer != nil {
		handler = feed
	}
	app := server.New(cfg, log, srv, consumer, handler, c)
	if publisher != nil {
		app.OnShutdown("stance publisher", publisher)
	}
	return app
}
