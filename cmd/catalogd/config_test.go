package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/apikit/pkg/pg"
	"github.com/dmitrymomot/apikit/pkg/redis"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "file sink",
			cfg:  Config{NotificationSink: sinkFile, NotificationLogPath: "log.txt"},
		},
		{
			name:    "file sink without path",
			cfg:     Config{NotificationSink: sinkFile},
			wantErr: true,
		},
		{
			name: "postgres sink",
			cfg: Config{
				NotificationSink: sinkPostgres,
				Postgres:         pg.Config{Host: "localhost:5432", Database: "catalog"},
			},
		},
		{
			name:    "postgres sink without database",
			cfg:     Config{NotificationSink: sinkPostgres, Postgres: pg.Config{Host: "localhost:5432"}},
			wantErr: true,
		},
		{
			name: "redis sink",
			cfg: Config{
				NotificationSink: sinkRedis,
				Redis:            redis.Config{ConnectionURL: "redis://localhost:6379/0", Stream: "notifications"},
			},
		},
		{
			name:    "redis sink without stream",
			cfg:     Config{NotificationSink: sinkRedis, Redis: redis.Config{ConnectionURL: "redis://localhost:6379/0"}},
			wantErr: true,
		},
		{
			name:    "unknown sink",
			cfg:     Config{NotificationSink: "kafka"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSink)
				return
			}
			assert.NoError(t, err)
		})
	}
}
