package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrymomot/apikit/pkg/deferred"
)

// Context wraps http.Request and http.ResponseWriter with context.Context.
// It embeds the request's context and gives access to the request's deferred
// task queue.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Tasks() *deferred.Queue
}

// NewContext creates a Context from HTTP request, response writer and task queue.
// A nil queue is replaced by an empty one.
func NewContext(w http.ResponseWriter, r *http.Request, q *deferred.Queue) Context {
	if q == nil {
		q = deferred.New(nil)
	}
	return &httpContext{w: w, r: r, q: q}
}

// httpContext is the default implementation of Context.
type httpContext struct {
	w http.ResponseWriter
	r *http.Request
	q *deferred.Queue
}

func (c *httpContext) Request() *http.Request {
	return c.r
}

func (c *httpContext) ResponseWriter() http.ResponseWriter {
	return c.w
}

func (c *httpContext) Tasks() *deferred.Queue {
	return c.q
}

// context.Context methods delegate to the request context.

func (c *httpContext) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

func (c *httpContext) Done() <-chan struct{} {
	return c.r.Context().Done()
}

func (c *httpContext) Err() error {
	return c.r.Context().Err()
}

func (c *httpContext) Value(key any) any {
	return c.r.Context().Value(key)
}
