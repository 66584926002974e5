package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sync"

	"github.com/dmitrymomot/apikit/pkg/binder"
)

// Result is the HTTP response an error maps to.
type Result struct {
	Status  int
	Body    any
	Headers http.Header
	// Unhandled is set when no mapping or built-in formatter matched. The
	// caller is expected to log the error; the body is opaque.
	Unhandled bool
}

// Write renders the result as JSON.
func (res Result) Write(w http.ResponseWriter) error {
	for k, vs := range res.Headers {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(res.Status)
	if res.Body == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(res.Body)
}

type mapping struct {
	status  int
	body    func(*http.Request, error) any
	headers map[string]string
}

// Router maps errors to responses. Mappings are registered at startup and the
// router is sealed before serving; Handle is safe for concurrent use.
type Router struct {
	mu       sync.RWMutex
	sealed   bool
	mappings map[reflect.Type]mapping

	validationStatus int
	fallbackStatus   int
	fallbackBody     any
}

// Option configures a Router.
type Option func(*Router)

// WithValidationStatus overrides the status of request validation failures.
func WithValidationStatus(code int) Option {
	return func(r *Router) {
		if code > 0 {
			r.validationStatus = code
		}
	}
}

// WithFallback overrides the response for unmapped errors.
func WithFallback(code int, body any) Option {
	return func(r *Router) {
		if code > 0 {
			r.fallbackStatus = code
		}
		r.fallbackBody = body
	}
}

// NewRouter creates an empty router with the built-in formatters.
func NewRouter(opts ...Option) *Router {
	r := &Router{
		mappings:         make(map[reflect.Type]mapping),
		validationStatus: http.StatusUnprocessableEntity,
		fallbackStatus:   http.StatusInternalServerError,
		fallbackBody:     map[string]any{"detail": http.StatusText(http.StatusInternalServerError)},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MappingOption configures one registered mapping.
type MappingOption func(*mapping)

// WithHeaders adds headers to every response of the mapping.
func WithHeaders(headers map[string]string) MappingOption {
	return func(m *mapping) {
		if m.headers == nil {
			m.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			m.headers[k] = v
		}
	}
}

// Register maps the concrete error type E to a status and a body builder.
// Matching is by exact dynamic type, so E must not be an interface.
//
// Example:
//
//	httperr.Register(router, http.StatusTeapot, func(_ *http.Request, e *UnicornError) any {
//		return map[string]string{"message": "Oops! " + e.Name + " did something."}
//	})
func Register[E error](r *Router, status int, body func(*http.Request, E) any, opts ...MappingOption) error {
	typ := reflect.TypeFor[E]()
	if typ.Kind() == reflect.Interface {
		return fmt.Errorf("%w: %s is an interface type", ErrInvalidMapping, typ)
	}
	if body == nil || status < 100 || status > 999 {
		return fmt.Errorf("%w: %s", ErrInvalidMapping, typ)
	}

	m := mapping{
		status: status,
		body: func(req *http.Request, err error) any {
			return body(req, err.(E))
		},
	}
	for _, opt := range opts {
		opt(&m)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrRouterSealed
	}
	if _, ok := r.mappings[typ]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateMapping, typ)
	}
	r.mappings[typ] = m
	return nil
}

// MustRegister is like Register but panics on error. Intended for startup.
func MustRegister[E error](r *Router, status int, body func(*http.Request, E) any, opts ...MappingOption) {
	if err := Register(r, status, body, opts...); err != nil {
		panic(err)
	}
}

// Seal freezes the router. Later registrations fail with ErrRouterSealed.
func (r *Router) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Handle maps err to a response. Registered mappings win, searched through the
// wrapped error tree from the outermost error inward. Then come the built-in
// formatters for request validation failures and HTTP errors; anything else
// yields the opaque fallback with Unhandled set.
func (r *Router) Handle(req *http.Request, err error) Result {
	if err == nil {
		return Result{Status: http.StatusOK}
	}

	if res, ok := r.lookup(req, err); ok {
		return res
	}

	var vf *binder.ValidationFailure
	if errors.As(err, &vf) {
		return Result{Status: r.validationStatus, Body: ValidationBody(vf)}
	}

	var de *DetailError
	if errors.As(err, &de) {
		return Result{
			Status:  de.Code,
			Body:    map[string]any{"detail": detail(de.Detail, de.Code)},
			Headers: toHeader(de.Headers),
		}
	}

	var he HTTPError
	if errors.As(err, &he) {
		return Result{
			Status: he.Code,
			Body:   map[string]any{"detail": http.StatusText(he.Code)},
		}
	}

	return Result{
		Status:    r.fallbackStatus,
		Body:      r.fallbackBody,
		Unhandled: true,
	}
}

func (r *Router) lookup(req *http.Request, err error) (Result, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.mappings) == 0 {
		return Result{}, false
	}

	var found Result
	ok := walk(err, func(e error) bool {
		m, hit := r.mappings[reflect.TypeOf(e)]
		if !hit {
			return false
		}
		found = Result{
			Status:  m.status,
			Body:    m.body(req, e),
			Headers: toHeader(m.headers),
		}
		return true
	})
	return found, ok
}

// walk visits err and everything it wraps, depth first, outermost first.
func walk(err error, visit func(error) bool) bool {
	if err == nil {
		return false
	}
	if visit(err) {
		return true
	}
	switch x := err.(type) {
	case interface{ Unwrap() error }:
		return walk(x.Unwrap(), visit)
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			if walk(e, visit) {
				return true
			}
		}
	}
	return false
}

func detail(d any, code int) any {
	if d == nil {
		return http.StatusText(code)
	}
	return d
}

func toHeader(h map[string]string) http.Header {
	if len(h) == 0 {
		return nil
	}
	out := make(http.Header, len(h))
	for k, v := range h {
		out.Set(k, v)
	}
	return out
}
