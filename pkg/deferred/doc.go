// Package deferred runs side-effect tasks after a response has been written.
//
// Each request owns one Queue. Handlers and helpers enqueue named tasks while
// the request is served; the handler engine calls Flush once the response is
// on the wire, or Discard when the request ended without a response of its
// own (validation failure, handler error, cancellation).
//
//	q := deferred.New(log)
//	_ = deferred.Add(q, "write_notification", notify, "message to "+email)
//	// ... write the response ...
//	q.Flush(r.Context())
//
// Flush returns immediately. Tasks run sequentially in enqueue order on their
// own goroutine, under a context that keeps request values but ignores the
// request's cancellation. A failing or panicking task is logged, reported to
// the Observer and recorded in the Report; later tasks still run and the
// client never sees the failure.
package deferred
