package notification

import (
	"bytes"
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-habit-notifier/internal/config"
	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
	"github.com/KasumiMercury/primind-habit-notifier/internal/infra/kvstore"
)

func TestContent(t *testing.T) {
	tests := []struct {
		name      string
		reminder  domain.Reminder
		wantTitle string
		wantBody  string
	}{
		{
			name: "with category",
			reminder: domain.Reminder{Habit: domain.Habit{
				Title:    "Stretch",
				Category: &domain.Category{Name: "Health"},
			}},
			wantTitle: "Reminder: Stretch",
			wantBody:  `Category: Health. Time to complete "Stretch".`,
		},
		{
			name:      "without category",
			reminder:  domain.Reminder{Habit: domain.Habit{Title: "Journal"}},
			wantTitle: "Reminder: Journal",
			wantBody:  `Time to complete "Journal".`,
		},
		{
			name: "empty category name",
			reminder: domain.Reminder{Habit: domain.Habit{
				Title:    "Read",
				Category: &domain.Category{},
			}},
			wantTitle: "Reminder: Read",
			wantBody:  `Time to complete "Read".`,
		},
		{
			name: "title with quotes and backslash",
			reminder: domain.Reminder{Habit: domain.Habit{
				Title:    `Say "hi" \ 水`,
				Category: &domain.Category{Name: "Social"},
			}},
			wantTitle: `Reminder: Say "hi" \ 水`,
			wantBody:  `Category: Social. Time to complete "Say "hi" \ 水".`,
		},
		{
			name:      "title with newline",
			reminder:  domain.Reminder{Habit: domain.Habit{Title: "Walk\ndog"}},
			wantTitle: "Reminder: Walk\ndog",
			wantBody:  "Time to complete \"Walk\ndog\".",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body := Content(tt.reminder)
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestStaticPrompter(t *testing.T) {
	ctx := context.Background()

	got, err := StaticPrompter{Decision: domain.PermissionGranted}.Prompt(ctx)
	if err != nil || got != domain.PermissionGranted {
		t.Errorf("expected granted, got %q (%v)", got, err)
	}

	_, err = StaticPrompter{}.Prompt(ctx)
	if !errors.Is(err, ErrPromptDismissed) {
		t.Errorf("expected ErrPromptDismissed, got %v", err)
	}
}

func TestLogNotifier_PermissionFlow(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	n := NewLogNotifier(slog.Default(), store, StaticPrompter{Decision: domain.PermissionGranted})

	if !n.Supported() {
		t.Fatal("log notifier must always be supported")
	}
	if got := n.Permission(ctx); got != domain.PermissionDefault {
		t.Fatalf("expected default permission, got %q", got)
	}

	got, err := n.RequestPermission(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.PermissionGranted {
		t.Fatalf("expected granted, got %q", got)
	}

	// a fresh notifier over the same store remembers the decision
	again := NewLogNotifier(slog.Default(), store, StaticPrompter{Decision: domain.PermissionDenied})
	if got := again.Permission(ctx); got != domain.PermissionGranted {
		t.Errorf("expected persisted granted, got %q", got)
	}
}

func TestLogNotifier_GrantSurvivesPersistFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := domain.NewMockKeyValueStore(ctrl)
	store.EXPECT().
		Get(gomock.Any(), domain.KeyNotificationPermission).
		Return("", domain.ErrKeyNotFound)
	store.EXPECT().
		Set(gomock.Any(), domain.KeyNotificationPermission, "granted").
		Return(errors.New("disk full"))

	n := NewLogNotifier(slog.Default(), store, StaticPrompter{Decision: domain.PermissionGranted})

	if got := n.Permission(ctx); got != domain.PermissionDefault {
		t.Fatalf("expected default permission, got %q", got)
	}

	got, err := n.RequestPermission(ctx)
	if err != nil {
		t.Fatalf("expected the decision to stand without error, got %v", err)
	}
	if got != domain.PermissionGranted {
		t.Fatalf("expected granted, got %q", got)
	}

	// answered from memory; the store is not consulted again
	if got := n.Permission(ctx); got != domain.PermissionGranted {
		t.Errorf("expected granted for the rest of the process, got %q", got)
	}
}

func TestLogNotifier_DismissedPrompt(t *testing.T) {
	ctx := context.Background()
	n := NewLogNotifier(slog.Default(), kvstore.NewMemoryStore(), StaticPrompter{})

	got, err := n.RequestPermission(ctx)
	if !errors.Is(err, ErrPromptDismissed) {
		t.Fatalf("expected ErrPromptDismissed, got %v", err)
	}
	if got != domain.PermissionDenied {
		t.Errorf("expected denied on prompt failure, got %q", got)
	}
	if n.Permission(ctx) != domain.PermissionDefault {
		t.Error("a failed prompt must not persist a decision")
	}
}

func TestLogNotifier_Show(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	n := NewLogNotifier(logger, kvstore.NewMemoryStore(), StaticPrompter{Decision: domain.PermissionGranted})

	err := n.Show(context.Background(), domain.Notification{
		ID:         "n1",
		Title:      "Reminder: Stretch",
		Body:       `Time to complete "Stretch".`,
		ReminderID: "r1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line: %v", err)
	}
	if entry["msg"] != "Reminder: Stretch" {
		t.Errorf("expected title as message, got %v", entry["msg"])
	}
	if entry["reminder_id"] != "r1" {
		t.Errorf("expected reminder_id attr, got %v", entry["reminder_id"])
	}
}

func testSubscription(t *testing.T, endpoint string) string {
	t.Helper()

	key, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate subscription key: %v", err)
	}
	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		t.Fatalf("failed to generate auth secret: %v", err)
	}

	sub := webpush.Subscription{
		Endpoint: endpoint,
		Keys: webpush.Keys{
			P256dh: base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
			Auth:   base64.RawURLEncoding.EncodeToString(secret),
		},
	}
	data, err := json.Marshal(sub)
	if err != nil {
		t.Fatalf("failed to marshal subscription: %v", err)
	}
	return string(data)
}

func newTestWebPush(t *testing.T, status int) (*WebPushNotifier, *atomic.Int32) {
	t.Helper()

	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !strings.HasPrefix(r.Header.Get("Authorization"), "vapid ") {
			t.Errorf("expected VAPID authorization, got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("TTL") == "" {
			t.Error("expected TTL header")
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("failed to generate VAPID keys: %v", err)
	}

	n, err := NewWebPushNotifier(WebPushConfig{
		VAPIDPublicKey:  publicKey,
		VAPIDPrivateKey: privateKey,
		VAPIDSubject:    "mailto:habits@example.com",
		Subscription:    testSubscription(t, srv.URL+"/push/abc"),
		HTTPClient:      srv.Client(),
	}, kvstore.NewMemoryStore(), StaticPrompter{Decision: domain.PermissionGranted})
	if err != nil {
		t.Fatalf("failed to create web push notifier: %v", err)
	}
	return n, calls
}

func TestWebPushNotifier_Show(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "created", status: http.StatusCreated, wantErr: nil},
		{name: "gone", status: http.StatusGone, wantErr: ErrSubscriptionExpired},
		{name: "not found", status: http.StatusNotFound, wantErr: ErrSubscriptionExpired},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: ErrPushRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, calls := newTestWebPush(t, tt.status)

			err := n.Show(context.Background(), domain.Notification{
				ID:         "n1",
				Title:      "Reminder: Stretch",
				Body:       `Time to complete "Stretch".`,
				ReminderID: "r1",
				Slot:       "2024-06-03:08:00",
			})

			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if got := calls.Load(); got != 1 {
				t.Errorf("expected one push request, got %d", got)
			}
		})
	}
}

func TestWebPushNotifier_Unconfigured(t *testing.T) {
	ctx := context.Background()
	n, err := NewWebPushNotifier(WebPushConfig{}, kvstore.NewMemoryStore(), StaticPrompter{Decision: domain.PermissionGranted})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n.Supported() {
		t.Error("expected unsupported without VAPID keys")
	}
	if got := n.Permission(ctx); got != domain.PermissionUnsupported {
		t.Errorf("expected unsupported permission, got %q", got)
	}
	if err := n.Show(ctx, domain.Notification{}); !errors.Is(err, ErrWebPushNotConfigured) {
		t.Errorf("expected ErrWebPushNotConfigured, got %v", err)
	}
}

func TestWebPushNotifier_BadSubscription(t *testing.T) {
	_, err := NewWebPushNotifier(WebPushConfig{
		VAPIDPublicKey:  "pub",
		VAPIDPrivateKey: "priv",
		VAPIDSubject:    "mailto:habits@example.com",
		Subscription:    "{not json",
	}, kvstore.NewMemoryStore(), StaticPrompter{})
	if err == nil {
		t.Fatal("expected error for malformed subscription")
	}
}

func TestNew(t *testing.T) {
	store := kvstore.NewMemoryStore()

	n, err := New(&config.NotifierConfig{Backend: config.NotifierBackendLog, Prompt: config.PromptDeny}, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := n.(*LogNotifier); !ok {
		t.Fatalf("expected *LogNotifier, got %T", n)
	}
	got, err := n.RequestPermission(context.Background())
	if err != nil || got != domain.PermissionDenied {
		t.Errorf("expected deny prompt, got %q (%v)", got, err)
	}

	n, err = New(&config.NotifierConfig{Backend: config.NotifierBackendWebPush, Prompt: config.PromptGrant}, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Supported() {
		t.Error("expected unconfigured web push to be unsupported")
	}

	if _, err := New(&config.NotifierConfig{Backend: "sms"}, store, nil); err == nil {
		t.Error("expected error for unknown backend")
	}
}
