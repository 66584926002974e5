// Command catalogd serves the catalog API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/apikit/modules/catalog"
	"github.com/dmitrymomot/apikit/pkg/config"
	"github.com/dmitrymomot/apikit/pkg/deferred"
	"github.com/dmitrymomot/apikit/pkg/environment"
	"github.com/dmitrymomot/apikit/pkg/httpserver"
	"github.com/dmitrymomot/apikit/pkg/logger"
	"github.com/dmitrymomot/apikit/pkg/metrics"
	"github.com/dmitrymomot/apikit/pkg/pg"
	"github.com/dmitrymomot/apikit/pkg/redis"
	"github.com/dmitrymomot/apikit/pkg/requestid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("catalogd stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithLevel(cfg.LogLevel),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			environment.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	reg, err := catalog.NewRegistry()
	if err != nil {
		return err
	}

	notifier, checks, cleanup, err := openSink(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	m := metrics.New("catalog", metrics.WithRuntimeCollectors())
	tracker := deferred.NewTracker()

	svc, err := catalog.New(reg, notifier,
		catalog.WithLogger(log),
		catalog.WithMetrics(m),
		catalog.WithTaskOptions(deferred.WithTracker(tracker)),
		catalog.WithBcryptCost(cfg.BcryptCost),
		catalog.WithMaxFileSize(cfg.MaxFileSize),
	)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware, environment.Middleware(cfg.Env))
	r.Get("/healthz", httpserver.HealthCheckHandler(log))
	r.Get("/readyz", httpserver.HealthCheckHandler(log, checks...))
	r.Method(http.MethodGet, cfg.MetricsPath, m.Handler())
	r.Mount("/", svc.Handler())

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithDrain(tracker.Wait),
	)
	return srv.Run(ctx, r)
}

// openSink connects the configured notification sink. cleanup releases its
// connections and is safe to call when nothing was opened.
func openSink(ctx context.Context, cfg Config, log *slog.Logger) (catalog.Notifier, []func(context.Context) error, func(), error) {
	noop := func() {}

	switch cfg.NotificationSink {
	case sinkPostgres:
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, noop, err
		}
		if err := pg.Migrate(ctx, pool, cfg.Postgres, log); err != nil {
			pool.Close()
			return nil, nil, noop, err
		}
		log.InfoContext(ctx, "notifications go to postgres", logger.Component("catalogd"))
		return pg.NewNotificationLog(pool), []func(context.Context) error{pg.Healthcheck(pool)}, pool.Close, nil

	case sinkRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, noop, err
		}
		stream, err := redis.NewStreamLog(client, cfg.Redis)
		if err != nil {
			_ = client.Close()
			return nil, nil, noop, err
		}
		log.InfoContext(ctx, "notifications go to redis",
			logger.Component("catalogd"),
			slog.String("stream", cfg.Redis.Stream),
		)
		closeClient := func() {
			if err := client.Close(); err != nil {
				log.Error("failed to close redis client", logger.Error(err))
			}
		}
		return stream, []func(context.Context) error{redis.Healthcheck(client)}, closeClient, nil

	case sinkFile:
		fl, err := catalog.NewFileLog(cfg.NotificationLogPath)
		if err != nil {
			return nil, nil, noop, err
		}
		log.InfoContext(ctx, "notifications go to file",
			logger.Component("catalogd"),
			slog.String("path", fl.Path()),
		)
		return fl, nil, noop, nil
	}
	return nil, nil, noop, fmt.Errorf("%w: %q", ErrInvalidSink, cfg.NotificationSink)
}
