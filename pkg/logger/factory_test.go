package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/pkg/logger"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	type ctxKey struct{}

	tests := []struct {
		name  string
		opts  []logger.Option
		ctx   context.Context
		check func(t *testing.T, buf *bytes.Buffer)
	}{
		{
			name: "json by default",
			check: func(t *testing.T, buf *bytes.Buffer) {
				entry := decodeEntry(t, buf)
				assert.Equal(t, "INFO", entry["level"])
				assert.Equal(t, "shaped response", entry["msg"])
			},
		},
		{
			name: "text formatter",
			opts: []logger.Option{logger.WithTextFormatter()},
			check: func(t *testing.T, buf *bytes.Buffer) {
				assert.Contains(t, buf.String(), `level=INFO msg="shaped response"`)
			},
		},
		{
			name: "last formatter wins",
			opts: []logger.Option{logger.WithTextFormatter(), logger.WithFormat(logger.FormatJSON)},
			check: func(t *testing.T, buf *bytes.Buffer) {
				assert.Equal(t, "shaped response", decodeEntry(t, buf)["msg"])
			},
		},
		{
			name: "level filters records",
			opts: []logger.Option{logger.WithLevel(slog.LevelWarn)},
			check: func(t *testing.T, buf *bytes.Buffer) {
				assert.Empty(t, buf.String())
			},
		},
		{
			name: "static attributes",
			opts: []logger.Option{logger.WithAttr(logger.Component("shaper"))},
			check: func(t *testing.T, buf *bytes.Buffer) {
				assert.Equal(t, "shaper", decodeEntry(t, buf)["component"])
			},
		},
		{
			name: "context value",
			opts: []logger.Option{logger.WithContextValue("tenant", ctxKey{})},
			ctx:  context.WithValue(context.Background(), ctxKey{}, "acme"),
			check: func(t *testing.T, buf *bytes.Buffer) {
				assert.Equal(t, "acme", decodeEntry(t, buf)["tenant"])
			},
		},
		{
			name: "context value ignored without key",
			opts: []logger.Option{logger.WithContextValue("", ctxKey{})},
			ctx:  context.WithValue(context.Background(), ctxKey{}, "acme"),
			check: func(t *testing.T, buf *bytes.Buffer) {
				assert.NotContains(t, buf.String(), "acme")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			log := logger.New(append([]logger.Option{logger.WithOutput(buf)}, tt.opts...)...)
			ctx := tt.ctx
			if ctx == nil {
				ctx = context.Background()
			}
			log.InfoContext(ctx, "shaped response")
			tt.check(t, buf)
		})
	}
}

// Not parallel: replaces the process-wide default logger.
func TestSetAsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	buf := &bytes.Buffer{}
	logger.SetAsDefault(logger.New(logger.WithOutput(buf)))
	slog.Info("default")
	assert.Equal(t, "default", decodeEntry(t, buf)["msg"])
}

func TestWithFormatPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}
