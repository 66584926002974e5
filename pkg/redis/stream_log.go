package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// StreamClient is the subset of redis.UniversalClient used by StreamLog.
type StreamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	XRevRangeN(ctx context.Context, stream, start, stop string, count int64) *redis.XMessageSliceCmd
}

// Notification is one entry of the notification stream.
type Notification struct {
	ID      string
	Email   string
	Message string
}

// StreamLog appends notifications to a Redis stream with XADD.
type StreamLog struct {
	client StreamClient
	stream string
	maxLen int64
}

// NewStreamLog returns a StreamLog writing to cfg.Stream. The stream is
// trimmed approximately to cfg.StreamMaxLen entries.
func NewStreamLog(client StreamClient, cfg Config) (*StreamLog, error) {
	if cfg.Stream == "" {
		return nil, ErrEmptyStream
	}
	return &StreamLog{client: client, stream: cfg.Stream, maxLen: cfg.StreamMaxLen}, nil
}

// Write appends one notification and discards the generated entry ID.
func (l *StreamLog) Write(ctx context.Context, email, message string) error {
	args := &redis.XAddArgs{
		Stream: l.stream,
		Values: map[string]any{"email": email, "message": message},
	}
	if l.maxLen > 0 {
		args.MaxLen = l.maxLen
		args.Approx = true
	}
	if err := l.client.XAdd(ctx, args).Err(); err != nil {
		return errors.Join(ErrStreamWrite, err)
	}
	return nil
}

// Recent returns up to count entries, newest first.
func (l *StreamLog) Recent(ctx context.Context, count int64) ([]Notification, error) {
	msgs, err := l.client.XRevRangeN(ctx, l.stream, "+", "-", count).Result()
	if err != nil {
		return nil, errors.Join(ErrStreamRead, err)
	}
	out := make([]Notification, 0, len(msgs))
	for _, m := range msgs {
		email, _ := m.Values["email"].(string)
		message, _ := m.Values["message"].(string)
		out = append(out, Notification{ID: m.ID, Email: email, Message: message})
	}
	return out, nil
}
