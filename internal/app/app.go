package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Eggie20/Online-Supermarket/internal/catalog"
	"github.com/Eggie20/Online-Supermarket/internal/config"
	"github.com/Eggie20/Online-Supermarket/internal/confirm"
	"github.com/Eggie20/Online-Supermarket/internal/event"
	handler "github.com/Eggie20/Online-Supermarket/internal/handler/http"
	"github.com/Eggie20/Online-Supermarket/internal/repository"
	"github.com/Eggie20/Online-Supermarket/internal/repository/memory"
	redisrepo "github.com/Eggie20/Online-Supermarket/internal/repository/redis"
	sqliterepo "github.com/Eggie20/Online-Supermarket/internal/repository/sqlite"
	"github.com/Eggie20/Online-Supermarket/internal/service"
	"github.com/Eggie20/Online-Supermarket/pkg/database"
	"github.com/Eggie20/Online-Supermarket/pkg/health"
	pkgkafka "github.com/Eggie20/Online-Supermarket/pkg/kafka"
	"github.com/Eggie20/Online-Supermarket/pkg/tracing"
)

// closer is one resource released during Shutdown, after the HTTP drain
// and the span flush. Closers run in reverse order of registration.
type closer struct {
	name  string
	close func() error
}

// App owns the storefront's long-lived resources.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	consumers      []*pkgkafka.Consumer
	confirms       *confirm.Registry
	sessions       *service.Sessions
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
	closers        []closer
}

func (a *App) onShutdown(name string, fn func() error) {
	a.closers = append(a.closers, closer{name: name, close: fn})
}

// NewApp connects storage, optional Kafka and tracing and builds the router.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		InstanceID:     cfg.InstanceID,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{
		cfg:            cfg,
		logger:         logger,
		tracerShutdown: tracerShutdown,
	}
	healthHandler := health.NewHandler()

	repo, err := a.openStorage(ctx, healthHandler)
	if err != nil {
		return nil, err
	}

	bus := event.NewBus(logger)
	sessions := service.NewSessions(repo, bus, cfg.SessionIdleTTL, logger)
	a.sessions = sessions
	a.confirms = confirm.NewRegistry(cfg.ConfirmTTL, logger)
	storefront := service.NewStorefrontService(catalog.Default(), sessions, a.confirms, logger)
	seller := service.NewSellerService(a.confirms, logger)

	if cfg.KafkaEnabled {
		a.setupKafka(ctx, bus, sessions, healthHandler)
	}

	router := handler.NewRouter(cfg, handler.Deps{
		Storefront: storefront,
		Seller:     seller,
		Confirms:   a.confirms,
		Bus:        bus,
		Health:     healthHandler,
	}, logger)

	// The event stream clears its own write deadline.
	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// openStorage connects the configured backend and registers its health check.
func (a *App) openStorage(ctx context.Context, healthHandler *health.Handler) (repository.KeyValueStore, error) {
	switch a.cfg.StorageBackend {
	case config.BackendSQLite:
		db, err := database.OpenSQLite(ctx, database.SQLiteConfig{
			Path:        a.cfg.SQLitePath,
			BusyTimeout: a.cfg.SQLiteBusyTimeout,
		}, a.logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		store, err := sqliterepo.NewStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init sqlite store: %w", err)
		}
		healthHandler.RegisterCritical("sqlite", db.PingContext)
		a.onShutdown("sqlite", db.Close)
		a.logger.Info("using sqlite storage", slog.String("path", a.cfg.SQLitePath))
		return store, nil

	case config.BackendRedis:
		client, err := database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPass,
			DB:       a.cfg.RedisDB,
		}, a.logger)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		a.onShutdown("redis", client.Close)
		a.logger.Info("using redis storage",
			slog.String("addr", a.cfg.RedisAddr),
			slog.Duration("ttl", a.cfg.RedisTTLDuration()),
		)
		return redisrepo.NewStore(client, a.cfg.RedisTTLDuration()), nil

	default:
		a.logger.Warn("using in-memory storage, state is lost on restart")
		return memory.New(), nil
	}
}

// setupKafka forwards local notifications to Kafka and replays changes made
// by other replicas. Every replica reads every event, so each uses its own
// consumer group. An unreachable broker leaves the storefront degraded, not down.
func (a *App) setupKafka(ctx context.Context, bus *event.Bus, sessions *service.Sessions, healthHandler *health.Handler) {
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(a.cfg.KafkaBrokers), a.logger)
	if err := database.ConnectWithRetry(ctx, "kafka", a.logger, producer.Ping); err != nil {
		a.logger.Warn("kafka unreachable, replica sync degraded", slog.String("error", err.Error()))
	} else {
		a.logger.Info("kafka producer ready", slog.Any("brokers", a.cfg.KafkaBrokers))
	}
	healthHandler.RegisterNonCritical("kafka", producer.Ping)

	detach := event.NewProducer(producer, a.cfg.InstanceID, a.logger).Attach(bus)
	a.onShutdown("kafka producer", func() error {
		detach()
		return producer.Close()
	})

	replay := pkgkafka.IdempotentHandler(
		pkgkafka.NewMemoryIdempotencyStore(time.Hour),
		event.NewConsumer(a.cfg.InstanceID, sessions, a.logger).Handle,
		a.logger,
	)
	for _, topic := range []string{event.TopicCartUpdated, event.TopicWishlistUpdated} {
		a.consumers = append(a.consumers, pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
			Brokers:   a.cfg.KafkaBrokers,
			GroupID:   "storefront-sync-" + a.cfg.InstanceID,
			Topic:     topic,
			MinBytes:  1,
			MaxBytes:  10e6,
			EnableDLQ: true,
		}, replay, a.logger))
	}
}

// Handler returns the HTTP handler serving the API.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run serves HTTP, consumes replica events and sweeps expired confirmations
// and idle sessions until ctx is canceled or a component fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1+len(a.consumers))

	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	for _, c := range a.consumers {
		go func() {
			if err := c.Start(ctx); err != nil {
				errCh <- fmt.Errorf("sync consumer: %w", err)
			}
		}()
	}

	go a.confirms.Run(ctx, a.cfg.ConfirmSweepInterval)
	go a.sessions.Run(ctx, a.cfg.SessionSweepInterval)

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown drains HTTP first so request spans finish, flushes the tracer,
// stops the sync consumers and then releases the producer and storage.
// Every step runs even if an earlier one fails.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down storefront")
	var errs []error
	record := func(name string, err error) {
		if err != nil {
			a.logger.Error("shutdown step failed", slog.String("step", name), slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	// Open event streams only end when the drain budget runs out.
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelDrain()
	if err := a.httpServer.Shutdown(drainCtx); errors.Is(err, context.DeadlineExceeded) {
		_ = a.httpServer.Close()
	} else {
		record("http server", err)
	}

	if a.tracerShutdown != nil {
		flushCtx, cancelFlush := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancelFlush()
		record("tracer", a.tracerShutdown(flushCtx))
	}

	for _, c := range a.consumers {
		record("sync consumer", c.Close())
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		record(a.closers[i].name, a.closers[i].close())
	}

	a.logger.Info("storefront shutdown complete")
	return errors.Join(errs...)
}
