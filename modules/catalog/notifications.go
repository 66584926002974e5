package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrymomot/apikit/pkg/deferred"
)

// Notifier records a notification for an email address. FileLog,
// pg.NotificationLog and redis.StreamLog implement it.
type Notifier interface {
	Write(ctx context.Context, email, message string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, email, message string) error

func (f NotifierFunc) Write(ctx context.Context, email, message string) error {
	return f(ctx, email, message)
}

// FileLog appends one line per notification to a file.
type FileLog struct {
	mu   sync.Mutex
	path string
}

// NewFileLog returns a FileLog writing to path. The file and its directory
// are created on first write.
func NewFileLog(path string) (*FileLog, error) {
	if path == "" {
		return nil, ErrEmptyLogPath
	}
	return &FileLog{path: path}, nil
}

func (l *FileLog) Path() string { return l.path }

// Write appends "notification for <email>: <message>\n".
func (l *FileLog) Write(ctx context.Context, email, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Join(ErrNotificationLog, err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Join(ErrNotificationLog, err)
	}
	_, werr := fmt.Fprintf(f, "notification for %s: %s\n", email, message)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		return errors.Join(ErrNotificationLog, err)
	}
	return nil
}

type notification struct {
	email   string
	message string
}

// enqueueNotification schedules a write to n after the response.
func enqueueNotification(q *deferred.Queue, n Notifier, email, message string) error {
	return deferred.Add(q, "write_notification", func(ctx context.Context, nt notification) error {
		return n.Write(ctx, nt.email, nt.message)
	}, notification{email: email, message: message})
}
