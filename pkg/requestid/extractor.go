package requestid

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/apikit/pkg/logger"
)

// LoggerExtractor logs the request ID of the context under "request_id".
// Register it with logger.WithContextExtractors.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := FromContext(ctx)
		if id == "" {
			return slog.Attr{}, false
		}
		return logger.RequestID(id), true
	}
}
