package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool used by NotificationLog.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Notification is one stored row of the notifications table.
type Notification struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

const (
	insertNotification  = `INSERT INTO notifications (email, message) VALUES ($1, $2)`
	recentNotifications = `SELECT id, email, message, created_at FROM notifications
WHERE email = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
)

// NotificationLog persists notifications written by deferred tasks.
type NotificationLog struct {
	db DB
}

func NewNotificationLog(db DB) *NotificationLog {
	return &NotificationLog{db: db}
}

// Write stores one notification for email.
func (l *NotificationLog) Write(ctx context.Context, email, message string) error {
	if _, err := l.db.Exec(ctx, insertNotification, email, message); err != nil {
		return errors.Join(ErrNotificationWrite, err)
	}
	return nil
}

// Recent returns up to limit notifications for email, newest first.
func (l *NotificationLog) Recent(ctx context.Context, email string, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := l.db.Query(ctx, recentNotifications, email, limit)
	if err != nil {
		return nil, errors.Join(ErrNotificationRead, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[Notification])
	if err != nil {
		return nil, errors.Join(ErrNotificationRead, err)
	}
	return out, nil
}
