package environment

import (
	"context"
	"log/slog"
)

// LoggerExtractor adds an "env" attribute to records logged with a request
// context. Register it with logger.WithContextExtractors.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if env := FromContext(ctx); env != "" {
			return slog.String("env", string(env)), true
		}
		return slog.Attr{}, false
	}
}
