package notifyrecorder

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
)

func TestNewRecorder_FallsBackToNoop(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "disabled", cfg: &Config{Disabled: true, InfluxDBToken: "t", InfluxDBOrg: "o"}},
		{name: "missing token", cfg: &Config{InfluxDBOrg: "o"}},
		{name: "missing org", cfg: &Config{InfluxDBToken: "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecorder(context.Background(), tt.cfg)
			if _, ok := rec.(*noopRecorder); !ok {
				t.Errorf("expected noop recorder, got %T", rec)
			}
			if err := rec.RecordNotification(context.Background(), domain.Notification{}); err != nil {
				t.Errorf("noop recorder returned error: %v", err)
			}
		})
	}
}

func TestInfluxDBRecorder_WritesLineProtocol(t *testing.T) {
	var (
		mu   sync.Mutex
		body string
		path string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		body = string(data)
		path = r.URL.Path
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	rec := NewRecorder(context.Background(), &Config{
		InfluxDBURL:    srv.URL,
		InfluxDBToken:  "token",
		InfluxDBOrg:    "habits",
		InfluxDBBucket: "reminder_notifications",
	})
	defer rec.Close()

	due := time.Date(2024, time.June, 3, 8, 0, 0, 0, time.UTC)
	err := rec.RecordNotification(context.Background(), domain.Notification{
		ID:         "n1",
		Title:      "Reminder: Stretch",
		ReminderID: "r1",
		Category:   "Health",
		Slot:       "2024-06-03:08:00",
		DueAt:      due,
		FiredAt:    due.Add(30 * time.Second),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if path != "/api/v2/write" {
		t.Errorf("expected write endpoint, got %q", path)
	}
	for _, want := range []string{
		"reminder_notification,",
		"category=Health",
		"reminder_id=r1",
		"delay_seconds=30",
		`slot="2024-06-03:08:00"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected line protocol to contain %q, got %q", want, body)
		}
	}
}
