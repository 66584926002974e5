package httperr

import (
	"maps"
	"net/http"
)

// HTTPError is an HTTP status with a machine-readable key. Values are
// comparable, so the table below works with errors.Is.
type HTTPError struct {
	Code int    // HTTP status code
	Key  string // translation key, e.g. "not_found"
}

func (e HTTPError) Error() string {
	return e.Key
}

// WithDetail attaches a response detail to the error. The detail is rendered
// as {"detail": detail}.
func (e HTTPError) WithDetail(detail any) *DetailError {
	return &DetailError{HTTPError: e, Detail: detail}
}

// 4xx Client Errors
var (
	ErrBadRequest                   = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrUnauthorized                 = HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized"}
	ErrPaymentRequired              = HTTPError{Code: http.StatusPaymentRequired, Key: "payment_required"}
	ErrForbidden                    = HTTPError{Code: http.StatusForbidden, Key: "forbidden"}
	ErrNotFound                     = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrMethodNotAllowed             = HTTPError{Code: http.StatusMethodNotAllowed, Key: "method_not_allowed"}
	ErrNotAcceptable                = HTTPError{Code: http.StatusNotAcceptable, Key: "not_acceptable"}
	ErrRequestTimeout               = HTTPError{Code: http.StatusRequestTimeout, Key: "request_timeout"}
	ErrConflict                     = HTTPError{Code: http.StatusConflict, Key: "conflict"}
	ErrGone                         = HTTPError{Code: http.StatusGone, Key: "gone"}
	ErrLengthRequired               = HTTPError{Code: http.StatusLengthRequired, Key: "length_required"}
	ErrPreconditionFailed           = HTTPError{Code: http.StatusPreconditionFailed, Key: "precondition_failed"}
	ErrRequestEntityTooLarge        = HTTPError{Code: http.StatusRequestEntityTooLarge, Key: "request_entity_too_large"}
	ErrUnsupportedMediaType         = HTTPError{Code: http.StatusUnsupportedMediaType, Key: "unsupported_media_type"}
	ErrRequestedRangeNotSatisfiable = HTTPError{Code: http.StatusRequestedRangeNotSatisfiable, Key: "requested_range_not_satisfiable"}
	ErrTeapot                       = HTTPError{Code: http.StatusTeapot, Key: "teapot"}
	ErrUnprocessableEntity          = HTTPError{Code: http.StatusUnprocessableEntity, Key: "unprocessable_entity"}
	ErrLocked                       = HTTPError{Code: http.StatusLocked, Key: "locked"}
	ErrTooManyRequests              = HTTPError{Code: http.StatusTooManyRequests, Key: "too_many_requests"}
)

// 5xx Server Errors
var (
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Key: "internal_server_error"}
	ErrNotImplemented      = HTTPError{Code: http.StatusNotImplemented, Key: "not_implemented"}
	ErrBadGateway          = HTTPError{Code: http.StatusBadGateway, Key: "bad_gateway"}
	ErrServiceUnavailable  = HTTPError{Code: http.StatusServiceUnavailable, Key: "service_unavailable"}
	ErrGatewayTimeout      = HTTPError{Code: http.StatusGatewayTimeout, Key: "gateway_timeout"}
)

// NewHTTPError creates a custom HTTP error with the given status code and key.
func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}

// DetailError is an HTTPError with a response detail and extra headers.
// It unwraps to its HTTPError, so errors.Is(err, ErrNotFound) holds.
//
// Example:
//
//	return nil, httperr.ErrNotFound.WithDetail("Item not found").
//		WithHeader("X-Error", "There goes my error")
type DetailError struct {
	HTTPError
	Detail  any
	Headers map[string]string
}

// Abort creates a DetailError for an arbitrary status code.
func Abort(code int, detail any) *DetailError {
	return &DetailError{HTTPError: HTTPError{Code: code, Key: http.StatusText(code)}, Detail: detail}
}

func (e *DetailError) Error() string {
	if s, ok := e.Detail.(string); ok && s != "" {
		return s
	}
	return e.HTTPError.Error()
}

func (e *DetailError) Unwrap() error { return e.HTTPError }

// WithHeader returns a copy of the error carrying an extra response header.
func (e *DetailError) WithHeader(key, value string) *DetailError {
	out := *e
	out.Headers = make(map[string]string, len(e.Headers)+1)
	maps.Copy(out.Headers, e.Headers)
	out.Headers[key] = value
	return &out
}
