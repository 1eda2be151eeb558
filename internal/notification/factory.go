package notification

import (
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-habit-notifier/internal/config"
	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
)

func New(cfg *config.NotifierConfig, store domain.KeyValueStore, logger *slog.Logger) (Notifier, error) {
	prompter := StaticPrompter{Decision: domain.PermissionGranted}
	if cfg.Prompt == config.PromptDeny {
		prompter.Decision = domain.PermissionDenied
	}

	switch cfg.Backend {
	case config.NotifierBackendLog:
		return NewLogNotifier(logger, store, prompter), nil
	case config.NotifierBackendWebPush:
		return NewWebPushNotifier(WebPushConfig{
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			VAPIDSubject:    cfg.VAPIDSubject,
			Subscription:    cfg.Subscription,
		}, store, prompter)
	default:
		return nil, fmt.Errorf("unknown notifier backend: %s", cfg.Backend)
	}
}
