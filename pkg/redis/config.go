package redis

import "time"

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"` // ConnectionURL is the URL of the database. It should be in the format "redis://:password@localhost:6379/0"
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`             // RetryAttempts is the number of retry attempts to connect to the database.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`            // RetryInterval is the interval between retry attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`          // ConnectTimeout bounds the whole connect loop.

	Stream       string `env:"REDIS_NOTIFICATION_STREAM" envDefault:"notifications"` // Stream is the key of the notification stream.
	StreamMaxLen int64  `env:"REDIS_NOTIFICATION_MAXLEN" envDefault:"10000"`         // StreamMaxLen caps the stream approximately; 0 disables trimming.
}
