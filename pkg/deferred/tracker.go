package deferred

import (
	"context"
	"errors"
	"sync"
)

// Tracker counts flushes whose tasks are still running, so a server can wait
// for them during shutdown. Share one Tracker across every request queue with
// WithTracker. Use NewTracker; the zero value is not usable.
type Tracker struct {
	mu   sync.Mutex
	n    int
	idle chan struct{} // closed while n == 0
}

func NewTracker() *Tracker {
	idle := make(chan struct{})
	close(idle)
	return &Tracker{idle: idle}
}

// WithTracker registers every non-empty flush with t.
func WithTracker(t *Tracker) Option {
	return func(q *Queue) {
		q.tracker = t
	}
}

// Active returns the number of flushes still running.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.n
}

// Wait blocks until no flush is running or ctx is done.
func (t *Tracker) Wait(ctx context.Context) error {
	t.mu.Lock()
	idle := t.idle
	t.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return errors.Join(ErrDrainTimeout, ctx.Err())
	}
}

func (t *Tracker) add() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.n == 0 {
		t.idle = make(chan struct{})
	}
	t.n++
}

func (t *Tracker) done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.n--
	if t.n == 0 {
		close(t.idle)
	}
}
