package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/apikit/pkg/environment"
	"github.com/dmitrymomot/apikit/pkg/httpserver"
	"github.com/dmitrymomot/apikit/pkg/pg"
	"github.com/dmitrymomot/apikit/pkg/redis"
)

// Notification sinks selectable with NOTIFICATION_SINK.
const (
	sinkFile     = "file"
	sinkPostgres = "postgres"
	sinkRedis    = "redis"
)

var ErrInvalidSink = errors.New("catalogd: invalid notification sink")

type Config struct {
	Env         environment.Environment `env:"APP_ENV" envDefault:"development"`
	ServiceName string                  `env:"SERVICE_NAME" envDefault:"catalogd"`
	LogLevel    slog.Level              `env:"LOG_LEVEL" envDefault:"info"`
	MetricsPath string                  `env:"METRICS_PATH" envDefault:"/metrics"`

	MaxFileSize int64 `env:"MAX_FILE_SIZE" envDefault:"33554432"` // MaxFileSize limits a single upload, in bytes.
	BcryptCost  int   `env:"BCRYPT_COST" envDefault:"10"`

	NotificationSink    string `env:"NOTIFICATION_SINK" envDefault:"file"` // NotificationSink is one of file, postgres or redis.
	NotificationLogPath string `env:"NOTIFICATION_LOG_PATH" envDefault:"log.txt"`

	HTTP     httpserver.Config
	Postgres pg.Config
	Redis    redis.Config
}

// Validate checks that the selected sink has what it needs.
func (c *Config) Validate() error {
	switch c.NotificationSink {
	case sinkFile:
		if c.NotificationLogPath == "" {
			return fmt.Errorf("%w: NOTIFICATION_LOG_PATH is empty", ErrInvalidSink)
		}
	case sinkPostgres:
		if _, err := c.Postgres.ConnString(); err != nil {
			return errors.Join(ErrInvalidSink, err)
		}
	case sinkRedis:
		if c.Redis.ConnectionURL == "" || c.Redis.Stream == "" {
			return fmt.Errorf("%w: REDIS_URL and REDIS_NOTIFICATION_STREAM are required", ErrInvalidSink)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSink, c.NotificationSink)
	}
	return nil
}
