package notifyrecorder

import (
	"context"

	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.NotificationRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordNotification(_ context.Context, _ domain.Notification) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
