package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/apikit/pkg/binder"
	"github.com/dmitrymomot/apikit/pkg/logger"
	"github.com/dmitrymomot/apikit/pkg/requestid"
	"github.com/dmitrymomot/apikit/pkg/shaper"
	"github.com/dmitrymomot/apikit/pkg/variant"
)

// Helper functions for HTTP status code classification
func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

// determineLogLevel maps HTTP status codes to appropriate log levels
func determineLogLevel(statusCode int, unhandled bool) slog.Level {
	switch {
	case unhandled:
		return slog.LevelError
	case isClientError(statusCode):
		return slog.LevelDebug
	case statusCode >= http.StatusInternalServerError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// serverErrorKind names the class of a server-side failure for metrics.
func serverErrorKind(err error) string {
	switch {
	case errors.Is(err, shaper.ErrResponseValidation):
		return "response"
	case errors.Is(err, variant.ErrNoMatchingVariant):
		return "variant"
	case errors.Is(err, ErrEncodeResponse):
		return "encode"
	default:
		return "unhandled"
	}
}

// handleError routes err through the router, logs it and writes the result.
// It returns the status written.
func (c *config) handleError(w http.ResponseWriter, r *http.Request, err error) int {
	res := c.router.Handle(r, err)

	var vf *binder.ValidationFailure
	if errors.As(err, &vf) {
		c.metrics.ValidationFailed(c.name, vf.Errors())
	}
	if res.Status >= http.StatusInternalServerError {
		c.metrics.ServerError(c.name, serverErrorKind(err))
	}

	ctx := r.Context()
	level := determineLogLevel(res.Status, res.Unhandled)
	if c.log.Enabled(ctx, level) {
		msg := "request error"
		if res.Unhandled {
			msg = "unhandled request error"
		}
		c.log.LogAttrs(ctx, level, msg,
			logger.RequestID(requestid.FromContext(ctx)),
			logger.Error(err),
			logger.Status(res.Status),
			logger.Route(r.Method, r.URL.Path),
			logger.Handler(c.name),
			logger.Component("handler"),
		)
	}

	if werr := res.Write(w); werr != nil {
		c.log.ErrorContext(ctx, "failed to write error response",
			logger.Error(werr),
			logger.Handler(c.name),
			logger.Event("write_error_response"),
		)
	}
	return res.Status
}
