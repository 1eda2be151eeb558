package notification

import (
	"context"

	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
)

//go:generate mockgen -source=notifier.go -destination=mock.go -package=notification

// Notifier is a notification display capability with a permission model.
type Notifier interface {
	Supported() bool
	Permission(ctx context.Context) domain.Permission
	// RequestPermission prompts the user. Callers should only invoke it while
	// the permission is still undecided.
	RequestPermission(ctx context.Context) (domain.Permission, error)
	Show(ctx context.Context, n domain.Notification) error
}
