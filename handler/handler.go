package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/apikit/pkg/binder"
	"github.com/dmitrymomot/apikit/pkg/deferred"
	"github.com/dmitrymomot/apikit/pkg/httperr"
	"github.com/dmitrymomot/apikit/pkg/logger"
	"github.com/dmitrymomot/apikit/pkg/metrics"
	"github.com/dmitrymomot/apikit/pkg/schema"
	"github.com/dmitrymomot/apikit/pkg/shaper"
	"github.com/dmitrymomot/apikit/pkg/validator"
)

// HandlerFunc receives the validated parameters of a request and returns the
// response value or an error.
//
// The value is shaped by the declared response model unless it implements
// Response. Errors go through the error router.
//
// Example:
//
//	func readItem(ctx handler.Context, args binder.Values) (any, error) {
//		id := args.Int("item_id")
//		if id == 3 {
//			return nil, httperr.Abort(http.StatusTeapot, "Nope! I don't like 3.")
//		}
//		return map[string]any{"item_id": id, "q": args.Get("q")}, nil
//	}
type HandlerFunc func(ctx Context, args binder.Values) (any, error)

// Decorator wraps a HandlerFunc to add cross-cutting functionality.
// Decorators are applied in order, with the first decorator in the list
// being the outermost wrapper.
type Decorator func(HandlerFunc) HandlerFunc

// Option configures Wrap.
type Option func(*config)

type config struct {
	name       string
	params     []binder.Param
	response   shaper.Declaration
	status     int
	router     *httperr.Router
	validator  *validator.Validator
	binderOpts []binder.Option
	reqOpts    []binder.RequestOption
	path       binder.PathExtractor
	log        *slog.Logger
	metrics    *metrics.Metrics
	taskOpts   []deferred.Option
	decorators []Decorator
}

// WithName labels the endpoint in logs and metrics.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithParams declares the parameters to bind, in order. Errors are reported
// in this order.
func WithParams(params ...binder.Param) Option {
	return func(c *config) {
		c.params = append(c.params, params...)
	}
}

// WithResponse declares the response model.
func WithResponse(d shaper.Declaration) Option {
	return func(c *config) {
		c.response = d
	}
}

// WithStatus sets the success status code. Default 200.
func WithStatus(code int) Option {
	return func(c *config) {
		if code > 0 {
			c.status = code
		}
	}
}

// WithRouter sets the error router shared by all endpoints.
func WithRouter(r *httperr.Router) Option {
	return func(c *config) {
		if r != nil {
			c.router = r
		}
	}
}

// WithValidator sets the validator, which also resolves nested models.
func WithValidator(v *validator.Validator) Option {
	return func(c *config) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithBinderOptions configures the parameter binder, e.g. the upload limit.
func WithBinderOptions(opts ...binder.Option) Option {
	return func(c *config) {
		c.binderOpts = append(c.binderOpts, opts...)
	}
}

// WithRequestOptions configures request body and form limits.
func WithRequestOptions(opts ...binder.RequestOption) Option {
	return func(c *config) {
		c.reqOpts = append(c.reqOpts, opts...)
	}
}

// WithPathExtractor sets how path parameters are read, e.g. chi.URLParam.
func WithPathExtractor(p binder.PathExtractor) Option {
	return func(c *config) {
		if p != nil {
			c.path = p
		}
	}
}

// WithLogger sets the logger for errors and deferred tasks.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics records requests, validation failures and task outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithTaskOptions configures each request's deferred task queue.
func WithTaskOptions(opts ...deferred.Option) Option {
	return func(c *config) {
		c.taskOpts = append(c.taskOpts, opts...)
	}
}

// WithDecorators adds decorators to wrap the handler.
// Decorators are applied in order, with the first decorator being the outermost.
func WithDecorators(decorators ...Decorator) Option {
	return func(c *config) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// Wrap converts a HandlerFunc to http.HandlerFunc.
//
// Per request it binds every declared parameter, aggregates failures into
// one validation error, calls the handler, shapes its value against the
// declared response and writes it. Any error on the way is mapped by the
// router and written instead. Deferred tasks run after the handler's own
// response has been written and are dropped otherwise. A request cancelled
// during binding gets no response.
//
// Usage:
//
//	r.Get("/items/{item_id}", handler.Wrap(readItem,
//		handler.WithParams(
//			binder.Path("item_id", schema.Int(), schema.Ge(1)),
//			binder.Query("q", schema.Optional(schema.String()), schema.Default(nil)),
//		),
//		handler.WithResponse(shaper.Single(item, shaper.ExcludeUnset())),
//		handler.WithValidator(v),
//		handler.WithRouter(router),
//		handler.WithPathExtractor(chi.URLParam),
//	))
func Wrap(h HandlerFunc, opts ...Option) http.HandlerFunc {
	cfg := &config{
		status: http.StatusOK,
		log:    slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.router == nil {
		cfg.router = httperr.NewRouter()
	}
	if cfg.validator == nil {
		cfg.validator = validator.New(schema.NewRegistry())
	}
	if cfg.metrics != nil {
		cfg.taskOpts = append(cfg.taskOpts, deferred.WithObserver(cfg.metrics))
	}
	b := binder.New(cfg.validator, cfg.binderOpts...)

	// Apply decorators in reverse order so first decorator is outermost
	finalHandler := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		finalHandler = cfg.decorators[i](finalHandler)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		q := deferred.New(cfg.log, cfg.taskOpts...)
		r = r.WithContext(deferred.WithContext(r.Context(), q))
		ctx := NewContext(w, r, q)

		status := cfg.serve(ctx, b, finalHandler)
		if status == 0 {
			q.Discard()
			cfg.log.DebugContext(r.Context(), "request cancelled during binding",
				logger.Route(r.Method, r.URL.Path),
				logger.Handler(cfg.name),
			)
			return
		}
		cfg.metrics.ObserveRequest(cfg.name, r.Method, status, time.Since(start))
	}
}

// serve runs one request and returns the status written, or 0 when nothing
// was written.
func (c *config) serve(ctx Context, b *binder.Binder, h HandlerFunc) int {
	w, r := ctx.ResponseWriter(), ctx.Request()
	q := ctx.Tasks()

	fail := func(err error) int {
		q.Discard()
		return c.handleError(w, r, err)
	}

	req := binder.FromHTTP(r, c.path, c.reqOpts...)
	bound, err := b.Bind(r.Context(), req, c.params)
	if err != nil {
		return 0
	}

	var raw any
	for _, bv := range bound {
		if !bv.OK() {
			raw = binder.DecodedBody(r.Context(), req)
			break
		}
	}

	args, err := binder.Aggregate(bound, raw)
	if err != nil {
		return fail(err)
	}

	result, err := h(ctx, args)
	if err != nil {
		return fail(err)
	}

	resp, ok := result.(Response)
	if !ok {
		body, err := c.response.Shape(result, c.validator)
		if err != nil {
			return fail(err)
		}
		resp = JSON(body, WithJSONStatus(c.status))
	}

	status := statusOf(resp)
	if err := resp.Render(w, r); err != nil {
		if errors.Is(err, ErrEncodeResponse) {
			return fail(err)
		}
		q.Discard()
		c.log.ErrorContext(r.Context(), "failed to render response",
			logger.Error(err),
			logger.Handler(c.name),
			logger.Event("render_response"),
		)
		return status
	}

	q.Flush(r.Context())
	return status
}
