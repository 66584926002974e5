package httpserver

import "errors"

var (
	ErrStart    = errors.New("httpserver: failed to start")
	ErrShutdown = errors.New("httpserver: graceful shutdown failed")
	// ErrDrain marks a drain registered with WithDrain that failed or ran
	// out of time. It is always joined with ErrShutdown.
	ErrDrain = errors.New("httpserver: drain did not complete")
)
