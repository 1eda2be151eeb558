package domain

import (
	"context"
	"time"
)

type Notification struct {
	ID         string
	Title      string
	Body       string
	Tag        string
	ReminderID string
	Category   string
	Slot       string
	DueAt      time.Time
	FiredAt    time.Time
}

// NotificationRecorder keeps a history of fired notifications.
type NotificationRecorder interface {
	RecordNotification(ctx context.Context, n Notification) error
	Close() error
}
