package notifyrecorder

import (
	"context"
	"fmt"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
)

const measurement = "reminder_notification"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

// NewRecorder returns an InfluxDB recorder, or a noop recorder when history is
// disabled or InfluxDB credentials are missing.
func NewRecorder(ctx context.Context, cfg *Config) domain.NotificationRecorder {
	if cfg.Disabled {
		slog.InfoContext(ctx, "notification history recording disabled")
		return NewNoopRecorder()
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, notification history disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder()
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)

	slog.InfoContext(ctx, "notification history recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket),
	}
}

func (r *influxDBRecorder) RecordNotification(ctx context.Context, n domain.Notification) error {
	if err := r.writeAPI.WritePoint(ctx, notificationPoint(n)); err != nil {
		return fmt.Errorf("failed to write notification to InfluxDB: %w", err)
	}
	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}

func notificationPoint(n domain.Notification) *write.Point {
	category := n.Category
	if category == "" {
		category = "none"
	}

	return influxdb2.NewPoint(
		measurement,
		map[string]string{
			"reminder_id": n.ReminderID,
			"category":    category,
		},
		map[string]any{
			"notification_id": n.ID,
			"slot":            n.Slot,
			"title":           n.Title,
			"delay_seconds":   n.FiredAt.Sub(n.DueAt).Seconds(),
		},
		n.FiredAt,
	)
}
