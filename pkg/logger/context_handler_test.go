package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/pkg/logger"
)

type ridKey struct{}

func ridExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := ctx.Value(ridKey{}).(string)
	if !ok {
		return slog.Attr{}, false
	}
	return logger.RequestID(id), true
}

func TestContextHandler(t *testing.T) {
	t.Parallel()

	t.Run("adds extracted attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(logger.NewContextHandler(slog.NewJSONHandler(&buf, nil), ridExtractor, nil))
		log.InfoContext(context.WithValue(context.Background(), ridKey{}, "abc"), "hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "abc", entry["request_id"])
	})

	t.Run("does not duplicate keys logged explicitly", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(logger.NewContextHandler(slog.NewJSONHandler(&buf, nil), ridExtractor))
		ctx := context.WithValue(context.Background(), ridKey{}, "from-ctx")
		log.InfoContext(ctx, "hello", logger.RequestID("explicit"))

		assert.Equal(t, 1, strings.Count(buf.String(), `"request_id"`))
		assert.Contains(t, buf.String(), `"request_id":"explicit"`)
	})

	t.Run("keeps extractors across WithAttrs and WithGroup", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(logger.NewContextHandler(slog.NewTextHandler(&buf, nil), ridExtractor)).
			With(logger.Component("catalog")).
			WithGroup("req")
		log.InfoContext(context.WithValue(context.Background(), ridKey{}, "abc"), "hello")

		assert.Contains(t, buf.String(), "component=catalog")
		assert.Contains(t, buf.String(), "req.request_id=abc")
	})

	t.Run("no context value", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(logger.NewContextHandler(slog.NewJSONHandler(&buf, nil), ridExtractor))
		log.InfoContext(context.Background(), "hello")
		assert.NotContains(t, buf.String(), "request_id")
	})
}
