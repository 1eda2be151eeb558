package notification

import (
	"context"
	"log/slog"

	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
)

// LogNotifier "displays" notifications as structured log lines.
type LogNotifier struct {
	logger   *slog.Logger
	prompter Prompter
	perms    *permissionStore
}

func NewLogNotifier(logger *slog.Logger, store domain.KeyValueStore, prompter Prompter) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{
		logger:   logger,
		prompter: prompter,
		perms:    newPermissionStore(store),
	}
}

func (n *LogNotifier) Supported() bool {
	return true
}

func (n *LogNotifier) Permission(ctx context.Context) domain.Permission {
	return n.perms.load(ctx)
}

func (n *LogNotifier) RequestPermission(ctx context.Context) (domain.Permission, error) {
	return requestPermission(ctx, n.prompter, n.perms)
}

func (n *LogNotifier) Show(ctx context.Context, notif domain.Notification) error {
	n.logger.InfoContext(ctx, notif.Title,
		slog.String("event", "notification.show"),
		slog.String("notification_id", notif.ID),
		slog.String("body", notif.Body),
		slog.String("tag", notif.Tag),
		slog.String("reminder_id", notif.ReminderID),
	)
	return nil
}
