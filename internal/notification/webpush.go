package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
)

var (
	ErrWebPushNotConfigured = errors.New("web push is not configured")
	ErrSubscriptionExpired  = errors.New("push subscription expired")
	ErrPushRejected         = errors.New("push service rejected notification")
)

const webPushTTL = 120

// PushPayload is what the service worker receives.
type PushPayload struct {
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Tag   string         `json:"tag,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}

type WebPushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
	// Subscription is the browser's PushSubscription serialized as JSON.
	Subscription string
	HTTPClient   webpush.HTTPClient
}

// WebPushNotifier delivers notifications to one browser push subscription.
type WebPushNotifier struct {
	subscription *webpush.Subscription
	options      *webpush.Options
	prompter     Prompter
	perms        *permissionStore
}

func NewWebPushNotifier(cfg WebPushConfig, store domain.KeyValueStore, prompter Prompter) (*WebPushNotifier, error) {
	n := &WebPushNotifier{
		prompter: prompter,
		perms:    newPermissionStore(store),
	}

	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" || cfg.VAPIDSubject == "" || cfg.Subscription == "" {
		slog.Warn("web push not configured, notifications unsupported")
		return n, nil
	}

	var sub webpush.Subscription
	if err := json.Unmarshal([]byte(cfg.Subscription), &sub); err != nil {
		return nil, fmt.Errorf("failed to parse push subscription: %w", err)
	}
	if sub.Endpoint == "" {
		return nil, fmt.Errorf("failed to parse push subscription: missing endpoint")
	}

	n.subscription = &sub
	n.options = &webpush.Options{
		Subscriber:      cfg.VAPIDSubject,
		VAPIDPublicKey:  cfg.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.VAPIDPrivateKey,
		TTL:             webPushTTL,
		Urgency:         webpush.UrgencyHigh,
		HTTPClient:      cfg.HTTPClient,
	}
	return n, nil
}

func (n *WebPushNotifier) Supported() bool {
	return n.subscription != nil
}

func (n *WebPushNotifier) Permission(ctx context.Context) domain.Permission {
	if !n.Supported() {
		return domain.PermissionUnsupported
	}
	return n.perms.load(ctx)
}

func (n *WebPushNotifier) RequestPermission(ctx context.Context) (domain.Permission, error) {
	if !n.Supported() {
		return domain.PermissionUnsupported, ErrWebPushNotConfigured
	}
	return requestPermission(ctx, n.prompter, n.perms)
}

func (n *WebPushNotifier) Show(ctx context.Context, notif domain.Notification) error {
	if !n.Supported() {
		return ErrWebPushNotConfigured
	}

	payload, err := json.Marshal(PushPayload{
		Title: notif.Title,
		Body:  notif.Body,
		Tag:   notif.Tag,
		Data: map[string]any{
			"notificationId": notif.ID,
			"reminderId":     notif.ReminderID,
			"slot":           notif.Slot,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, n.subscription, n.options)
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrSubscriptionExpired
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrPushRejected, resp.StatusCode, string(body))
	}

	slog.DebugContext(ctx, "push notification delivered",
		slog.String("reminder_id", notif.ReminderID),
		slog.Int("status_code", resp.StatusCode),
	)
	return nil
}
