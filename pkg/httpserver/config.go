package httpserver

import "time"

// Config is the env-parsed form of the server options. Zero values keep the
// package defaults.
type Config struct {
	Addr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`

	// ShutdownTimeout bounds waiting for in-flight requests.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	// DrainTimeout bounds the drains that run after requests are done, such
	// as deferred tasks still writing notifications.
	DrainTimeout time.Duration `env:"HTTP_DRAIN_TIMEOUT" envDefault:"10s"`
}

// NewFromConfig creates a Server from cfg. opts are applied after the
// config and win over it.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	durations := []struct {
		d   time.Duration
		opt func(time.Duration) Option
	}{
		{cfg.ReadTimeout, WithReadTimeout},
		{cfg.WriteTimeout, WithWriteTimeout},
		{cfg.IdleTimeout, WithIdleTimeout},
		{cfg.ShutdownTimeout, WithShutdownTimeout},
		{cfg.DrainTimeout, WithDrainTimeout},
	}

	all := make([]Option, 0, len(durations)+1+len(opts))
	if cfg.Addr != "" {
		all = append(all, WithAddr(cfg.Addr))
	}
	for _, d := range durations {
		if d.d > 0 {
			all = append(all, d.opt(d.d))
		}
	}
	return New(append(all, opts...)...)
}
