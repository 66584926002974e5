package deferred

import "errors"

var (
	ErrQueueClosed  = errors.New("deferred: queue is closed")
	ErrNilTask      = errors.New("deferred: nil task function")
	ErrNoQueue      = errors.New("deferred: no queue in context")
	ErrDrainTimeout = errors.New("deferred: tasks still running")
)
