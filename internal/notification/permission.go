package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
)

var ErrPromptDismissed = errors.New("permission prompt dismissed")

// Prompter asks the user for notification permission.
type Prompter interface {
	Prompt(ctx context.Context) (domain.Permission, error)
}

// StaticPrompter answers every prompt with the same decision. It stands in for
// the interactive prompt on headless hosts.
type StaticPrompter struct {
	Decision domain.Permission
}

func (p StaticPrompter) Prompt(_ context.Context) (domain.Permission, error) {
	if !p.Decision.IsDecided() {
		return domain.PermissionDefault, ErrPromptDismissed
	}
	return p.Decision, nil
}

// permissionStore remembers the user's decision across restarts. A decision
// made in this process is kept in memory even when persisting it fails.
type permissionStore struct {
	store domain.KeyValueStore

	mu      sync.RWMutex
	decided domain.Permission
}

func newPermissionStore(store domain.KeyValueStore) *permissionStore {
	return &permissionStore{store: store}
}

func (s *permissionStore) load(ctx context.Context) domain.Permission {
	s.mu.RLock()
	decided := s.decided
	s.mu.RUnlock()
	if decided.IsDecided() {
		return decided
	}

	raw, err := s.store.Get(ctx, domain.KeyNotificationPermission)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			slog.WarnContext(ctx, "failed to read notification permission",
				slog.String("error", err.Error()),
			)
		}
		return domain.PermissionDefault
	}
	return domain.ParsePermission(raw)
}

func (s *permissionStore) save(ctx context.Context, p domain.Permission) error {
	s.mu.Lock()
	s.decided = p
	s.mu.Unlock()

	return s.store.Set(ctx, domain.KeyNotificationPermission, p.String())
}

// requestPermission runs the prompt and persists a decided answer. Only a prompt
// failure is returned as an error; the user's answer stands even if it could not
// be written.
func requestPermission(ctx context.Context, prompter Prompter, perms *permissionStore) (domain.Permission, error) {
	decision, err := prompter.Prompt(ctx)
	if err != nil {
		return domain.PermissionDenied, err
	}
	if decision.IsDecided() {
		if err := perms.save(ctx, decision); err != nil {
			slog.WarnContext(ctx, "failed to persist notification permission",
				slog.String("permission", decision.String()),
				slog.String("error", err.Error()),
			)
		}
	}
	return decision, nil
}
