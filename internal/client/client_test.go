package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KasumiMercury/primind-habit-notifier/internal/auth"
	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
	"github.com/KasumiMercury/primind-habit-notifier/internal/infra/kvstore"
)

type testEnv struct {
	store     *kvstore.MemoryStore
	tokens    *auth.TokenStore
	navigator *LogNavigator
	client    *Client
}

func newTestEnv(t *testing.T, handler http.HandlerFunc) *testEnv {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := kvstore.NewMemoryStore()
	tokens := auth.NewTokenStore(store)
	navigator := NewLogNavigator()

	return &testEnv{
		store:     store,
		tokens:    tokens,
		navigator: navigator,
		client:    NewClient(srv.URL+"/api/", store, tokens, WithNavigator(navigator, "/login")),
	}
}

func TestClient_AttachesHeaders(t *testing.T) {
	var gotAuth, gotContentType, gotAccept, gotPath, gotRequestID string
	var gotBody map[string]any

	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		gotRequestID = r.Header.Get("x-request-id")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true}`)
	})

	ctx := context.Background()
	if err := env.tokens.Set(ctx, "jwt-123"); err != nil {
		t.Fatalf("failed to set token: %v", err)
	}

	var out struct {
		OK bool `json:"ok"`
	}
	if err := env.client.Post(ctx, "/habits", map[string]string{"title": "Read"}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer jwt-123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("expected JSON content type, got %q", gotContentType)
	}
	if gotAccept != "application/json" {
		t.Errorf("expected JSON accept header, got %q", gotAccept)
	}
	if gotRequestID == "" {
		t.Error("expected x-request-id header")
	}
	if gotPath != "/api/habits" {
		t.Errorf("expected /api/habits, got %q", gotPath)
	}
	if gotBody["title"] != "Read" {
		t.Errorf("expected body to be forwarded, got %v", gotBody)
	}
	if !out.OK {
		t.Error("expected response to be decoded")
	}
}

func TestClient_NoTokenNoAuthorization(t *testing.T) {
	var gotAuth, gotContentType string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	})

	if err := env.client.Get(context.Background(), "/reminders", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
	if gotContentType != "" {
		t.Errorf("expected no Content-Type without body, got %q", gotContentType)
	}
}

func TestClient_APIBaseOverride(t *testing.T) {
	override := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `"override"`)
	}))
	defer override.Close()

	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `"default"`)
	})

	ctx := context.Background()
	var got string
	if err := env.client.Get(ctx, "/ping", &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "default" {
		t.Errorf("expected default server, got %q", got)
	}

	if err := env.store.Set(ctx, domain.KeyAPIBase, override.URL+"/"); err != nil {
		t.Fatalf("failed to set override: %v", err)
	}
	if err := env.client.Get(ctx, "/ping", &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "override" {
		t.Errorf("expected override server, got %q", got)
	}
}

func TestClient_RawTextFallback(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "pong")
	})

	var got string
	if err := env.client.Get(context.Background(), "/ping", &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "pong" {
		t.Errorf("expected raw text, got %q", got)
	}
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "message field", status: http.StatusBadRequest, body: `{"message":"title is required"}`, wantMessage: "title is required"},
		{name: "error field", status: http.StatusConflict, body: `{"error":"already exists"}`, wantMessage: "already exists"},
		{name: "detail field", status: http.StatusUnprocessableEntity, body: `{"detail":"bad time"}`, wantMessage: "bad time"},
		{name: "raw text", status: http.StatusBadGateway, body: "upstream down", wantMessage: "upstream down"},
		{name: "json without message", status: http.StatusInternalServerError, body: `{"code":7}`, wantMessage: "Request failed (500)"},
		{name: "empty body", status: http.StatusServiceUnavailable, body: "", wantMessage: "Request failed (503)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := env.client.Get(context.Background(), "/habits", nil)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.Status)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, apiErr.Message)
			}
			if errors.Is(err, ErrUnauthorized) {
				t.Error("non-auth failure must not match ErrUnauthorized")
			}
		})
	}
}

func TestClient_SessionExpired(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		currentPath  string
		wantRedirect bool
	}{
		{name: "401 on dashboard redirects", status: http.StatusUnauthorized, currentPath: "/dashboard", wantRedirect: true},
		{name: "403 on habits redirects", status: http.StatusForbidden, currentPath: "/habits/42", wantRedirect: true},
		{name: "401 on login page stays", status: http.StatusUnauthorized, currentPath: "/login", wantRedirect: false},
		{name: "401 on register page stays", status: http.StatusUnauthorized, currentPath: "/register", wantRedirect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"message":"token expired"}`)
			})

			ctx := context.Background()
			if err := env.tokens.Set(ctx, "stale"); err != nil {
				t.Fatalf("failed to set token: %v", err)
			}
			env.navigator.SetCurrentPath(tt.currentPath)

			err := env.client.Get(ctx, "/reminders", nil)
			if !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}

			if env.tokens.HasToken(ctx) {
				t.Error("expected credential to be cleared")
			}

			redirect, _ := env.navigator.LastRedirect()
			if tt.wantRedirect {
				if redirect != "/login" {
					t.Errorf("expected redirect to /login, got %q", redirect)
				}
				if env.navigator.CurrentPath() != "/login" {
					t.Errorf("expected current path /login, got %q", env.navigator.CurrentPath())
				}
			} else if redirect != "" {
				t.Errorf("expected no redirect, got %q", redirect)
			}
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	store := kvstore.NewMemoryStore()
	c := NewClient(url, store, auth.NewTokenStore(store))

	err := c.Get(context.Background(), "/reminders", nil)
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure should not be an APIError, got %v", apiErr)
	}
}

func TestClient_FetchReminders(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantIDs []string
	}{
		{
			name: "array of reminders",
			body: `[
				{"id":"r1","time":"08:00","daysOfWeek":["mon"],"habit":{"title":"Stretch","category":{"name":"Health"}}},
				{"id":"r2","time":"21:30","enabled":false,"habit":{"title":"Journal"}}
			]`,
			wantIDs: []string{"r1", "r2"},
		},
		{name: "object body", body: `{}`, wantIDs: nil},
		{name: "null body", body: `null`, wantIDs: nil},
		{name: "text body", body: `ok`, wantIDs: nil},
		{name: "empty body", body: ``, wantIDs: nil},
		{
			name:    "malformed element skipped",
			body:    `[{"id":"r1","time":"08:00","habit":{"title":"A"}}, {"id":5,"time":true}]`,
			wantIDs: []string{"r1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/reminders" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				if r.Method != http.MethodGet {
					t.Errorf("unexpected method %q", r.Method)
				}
				_, _ = io.WriteString(w, tt.body)
			})

			reminders, err := env.client.FetchReminders(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if reminders == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(reminders) != len(tt.wantIDs) {
				t.Fatalf("expected %d reminders, got %d", len(tt.wantIDs), len(reminders))
			}
			for i, id := range tt.wantIDs {
				if reminders[i].ID != id {
					t.Errorf("reminder[%d].ID = %q, want %q", i, reminders[i].ID, id)
				}
			}
		})
	}
}

func TestClient_FetchRemindersDecodesFields(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"r1","time":"08:00","enabled":false,"daysOfWeek":["mon","wed"],"habit":{"title":"Stretch","category":{"name":"Health"}}}]`)
	})

	reminders, err := env.client.FetchReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reminders) != 1 {
		t.Fatalf("expected one reminder, got %d", len(reminders))
	}

	r := reminders[0]
	if r.IsEnabled() {
		t.Error("expected enabled=false to be decoded")
	}
	if len(r.DaysOfWeek) != 2 || r.DaysOfWeek[1] != "wed" {
		t.Errorf("unexpected daysOfWeek: %v", r.DaysOfWeek)
	}
	if r.Habit.Title != "Stretch" || r.CategoryName() != "Health" {
		t.Errorf("unexpected habit: %+v", r.Habit)
	}
}

func TestClient_FetchRemindersError(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	reminders, err := env.client.FetchReminders(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if reminders != nil {
		t.Errorf("expected nil reminders on error, got %v", reminders)
	}
}

func TestIsAuthPage(t *testing.T) {
	tests := map[string]bool{
		"/login":          true,
		"/login?next=/":   true,
		"/register":       true,
		"/register/step2": true,
		"/":               false,
		"/loginhelp":      false,
		"/habits":         false,
	}

	for path, want := range tests {
		if got := isAuthPage(path); got != want {
			t.Errorf("isAuthPage(%q) = %v, want %v", path, got, want)
		}
	}
}
