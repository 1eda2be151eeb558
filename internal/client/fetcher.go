package client

import (
	"context"

	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
)

//go:generate mockgen -source=fetcher.go -destination=fetcher_mock.go -package=client

type ReminderFetcher interface {
	FetchReminders(ctx context.Context) ([]domain.Reminder, error)
}
