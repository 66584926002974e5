package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/apikit/pkg/logger"
)

type config struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	drainTimeout    time.Duration
	server          *http.Server
	logger          *slog.Logger
	startHooks      []func(*slog.Logger)
	stopHooks       []func(*slog.Logger)
	drains          []func(context.Context) error
}

// Server runs an http.Server until its context is cancelled or the process
// gets SIGINT/SIGTERM, then shuts down in two phases: in-flight requests
// first, then the registered drains.
type Server struct {
	cfg  *config
	srv  *http.Server
	once sync.Once
	mu   sync.Mutex
}

func New(opts ...Option) *Server {
	cfg := &config{
		addr:            ":8080",
		shutdownTimeout: 5 * time.Second,
		drainTimeout:    10 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return &Server{cfg: cfg}
}

// Run serves handler and blocks until shutdown. A nil handler answers 404.
// Failing to listen returns ErrStart joined with the cause.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	srv, err := s.prepare(handler)
	if err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	for _, h := range s.cfg.startHooks {
		h(s.cfg.logger)
	}
	s.cfg.logger.InfoContext(ctx, "http server listening",
		logger.Component("httpserver"),
		slog.String("addr", srv.Addr),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	var runErr error
	select {
	case <-ctx.Done():
		runErr = s.stopAndWait(context.WithoutCancel(ctx), errCh)
	case sig := <-stop:
		s.cfg.logger.Info("shutdown signal received",
			logger.Component("httpserver"),
			slog.String("signal", sig.String()),
		)
		runErr = s.stopAndWait(context.Background(), errCh)
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return errors.Join(ErrStart, runErr)
	}
	return nil
}

func (s *Server) prepare(handler http.Handler) (*http.Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return nil, errors.Join(ErrStart, errors.New("server already running"))
	}

	srv := s.cfg.server
	if srv == nil {
		srv = &http.Server{}
	}
	if srv.Addr == "" {
		srv.Addr = s.cfg.addr
	}
	// Values already set on a WithServer instance win.
	setIfZero(&srv.ReadTimeout, s.cfg.readTimeout)
	setIfZero(&srv.WriteTimeout, s.cfg.writeTimeout)
	setIfZero(&srv.IdleTimeout, s.cfg.idleTimeout)
	srv.Handler = handler

	s.srv = srv
	return srv, nil
}

func setIfZero(dst *time.Duration, v time.Duration) {
	if *dst == 0 && v != 0 {
		*dst = v
	}
}

// stopAndWait shuts down and returns ListenAndServe's result. Shutdown
// errors are logged by Shutdown itself.
func (s *Server) stopAndWait(ctx context.Context, errCh <-chan error) error {
	_ = s.Shutdown(ctx)
	return <-errCh
}

// Shutdown stops accepting requests and waits for in-flight ones within the
// shutdown timeout, then runs the drains within the drain timeout, then the
// stop hooks. Only the first call does anything; later calls return nil.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()
		if srv == nil {
			return
		}

		err = s.shutdownRequests(ctx, srv)
		if derr := s.runDrains(ctx); derr != nil {
			err = errors.Join(err, ErrDrain, derr)
		}
		for _, h := range s.cfg.stopHooks {
			h(s.cfg.logger)
		}

		if err != nil {
			s.cfg.logger.ErrorContext(ctx, "http server shutdown failed",
				logger.Component("httpserver"),
				logger.Error(err),
			)
			return
		}
		s.cfg.logger.InfoContext(ctx, "http server stopped", logger.Component("httpserver"))
	})

	if err != nil {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}

func (s *Server) shutdownRequests(ctx context.Context, srv *http.Server) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) runDrains(ctx context.Context) error {
	if len(s.cfg.drains) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.drainTimeout)
	defer cancel()

	start := time.Now()
	var errs []error
	for _, drain := range s.cfg.drains {
		if err := drain(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.cfg.logger.DebugContext(ctx, "drains finished",
		logger.Component("httpserver"),
		logger.Duration(time.Since(start)),
		slog.Int("failed", len(errs)),
	)
	return errors.Join(errs...)
}
