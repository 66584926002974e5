// Package httpserver runs an http.Handler with graceful shutdown, configurable
// timeouts, health probes and structured logging via slog.
//
// Run blocks until its context is cancelled or an interrupt/TERM signal
// arrives, then shuts the server down with http.Server.Shutdown bounded by
// the shutdown timeout. Drains registered with WithDrain run after in-flight
// requests have finished; the engine uses one to wait for deferred tasks
// that were flushed after their responses were written.
//
// # Usage
//
//	tracker := deferred.NewTracker()
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(log))
//	r.Get("/readyz", httpserver.HealthCheckHandler(log, pg.Healthcheck(pool)))
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithDrain(tracker.Wait),
//	)
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// # Errors
//
// Run wraps listen errors with ErrStart; Shutdown wraps shutdown and drain
// errors with ErrShutdown.
package httpserver
