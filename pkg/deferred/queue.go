package deferred

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/apikit/pkg/async"
	"github.com/dmitrymomot/apikit/pkg/logger"
)

// TaskFunc is the body of a deferred task. The context is detached from the
// request: it carries request values but is never cancelled with it.
type TaskFunc func(ctx context.Context) error

// Task is a named unit of deferred work.
type Task struct {
	Name string
	Fn   TaskFunc
}

// TaskError is the failure of one task.
type TaskError struct {
	Name  string
	Index int
	Err   error
}

func (e TaskError) Error() string {
	return fmt.Sprintf("task %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e TaskError) Unwrap() error { return e.Err }

// Report summarizes one flush.
type Report struct {
	ID       string
	Run      int
	Failures []TaskError
	Duration time.Duration
}

// Err joins the task failures, or returns nil.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Observer receives the outcome of every task. err is nil on success.
type Observer interface {
	TaskDone(name string, d time.Duration, err error)
}

// Queue holds the deferred tasks of one request. Tasks run after the response
// has been written, one after another in enqueue order.
type Queue struct {
	mu     sync.Mutex
	tasks  []Task
	closed bool

	log      *slog.Logger
	observer Observer
	tracker  *Tracker
	timeout  time.Duration
}

// Option configures a Queue.
type Option func(*Queue)

// WithObserver reports every task outcome to o, typically metrics.
func WithObserver(o Observer) Option {
	return func(q *Queue) {
		q.observer = o
	}
}

// WithTaskTimeout bounds each task's run time. Zero means no bound.
func WithTaskTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// New creates an empty queue. A nil logger falls back to slog.Default.
func New(log *slog.Logger, opts ...Option) *Queue {
	if log == nil {
		log = slog.Default()
	}
	q := &Queue{log: log}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends a task. It fails with ErrQueueClosed once the queue has
// been flushed or discarded.
func (q *Queue) Enqueue(name string, fn TaskFunc) error {
	if fn == nil {
		return ErrNilTask
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	q.tasks = append(q.tasks, Task{Name: name, Fn: fn})
	return nil
}

// Add enqueues fn with a bound argument.
//
//	deferred.Add(q, "write_notification", writeNotification, "some notification")
func Add[T any](q *Queue, name string, fn func(context.Context, T) error, arg T) error {
	if fn == nil {
		return ErrNilTask
	}
	return q.Enqueue(name, func(ctx context.Context) error {
		return fn(ctx, arg)
	})
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Flush closes the queue and runs its tasks on a separate goroutine with a
// context detached from ctx's cancellation. It returns at once; the future
// completes when every task has finished. Task failures and panics are logged
// and collected in the report, never returned as the future's error.
func (q *Queue) Flush(ctx context.Context) *async.Future[Report] {
	tasks, ok := q.take()
	if !ok {
		return async.Resolved(Report{}, ErrQueueClosed)
	}
	if len(tasks) == 0 {
		return async.Resolved(Report{}, nil)
	}
	if q.tracker == nil {
		return async.Async(context.WithoutCancel(ctx), tasks, q.run)
	}

	q.tracker.add()
	return async.Async(context.WithoutCancel(ctx), tasks, func(ctx context.Context, tasks []Task) (Report, error) {
		defer q.tracker.done()
		return q.run(ctx, tasks)
	})
}

// Discard closes the queue and drops pending tasks, returning how many were
// dropped.
func (q *Queue) Discard() int {
	tasks, _ := q.take()
	if len(tasks) > 0 {
		q.log.Debug("deferred tasks discarded",
			logger.Component("deferred"),
			slog.Int("count", len(tasks)),
		)
	}
	return len(tasks)
}

func (q *Queue) take() ([]Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, false
	}
	q.closed = true
	tasks := q.tasks
	q.tasks = nil
	return tasks, true
}

func (q *Queue) run(ctx context.Context, tasks []Task) (Report, error) {
	report := Report{ID: uuid.NewString()}
	start := time.Now()

	for i, t := range tasks {
		taskStart := time.Now()
		err := q.runOne(ctx, t)
		elapsed := time.Since(taskStart)
		report.Run++

		if q.observer != nil {
			q.observer.TaskDone(t.Name, elapsed, err)
		}
		if err == nil {
			continue
		}

		report.Failures = append(report.Failures, TaskError{Name: t.Name, Index: i, Err: err})
		q.log.ErrorContext(ctx, "deferred task failed",
			logger.Component("deferred"),
			logger.TaskID(report.ID),
			logger.Task(t.Name, i),
			logger.Duration(elapsed),
			logger.Error(err),
		)
	}

	report.Duration = time.Since(start)
	return report, nil
}

func (q *Queue) runOne(ctx context.Context, t Task) error {
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}
	return async.Recover(func() error {
		return t.Fn(ctx)
	})
}
