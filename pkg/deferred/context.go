package deferred

import "context"

type queueKey struct{}

// WithContext stores q in ctx so helpers deeper in the call chain can enqueue.
func WithContext(ctx context.Context, q *Queue) context.Context {
	return context.WithValue(ctx, queueKey{}, q)
}

// FromContext returns the queue stored by WithContext.
func FromContext(ctx context.Context) (*Queue, bool) {
	q, ok := ctx.Value(queueKey{}).(*Queue)
	return q, ok && q != nil
}

// EnqueueContext adds a task to the queue stored in ctx.
func EnqueueContext(ctx context.Context, name string, fn TaskFunc) error {
	q, ok := FromContext(ctx)
	if !ok {
		return ErrNoQueue
	}
	return q.Enqueue(name, fn)
}
