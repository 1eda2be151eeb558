package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	notifierMeterName = "reminder.notifier"

	OutcomeFired        = "fired"
	OutcomeDeduplicated = "deduplicated"
	OutcomeFailed       = "failed"

	TickCompleted   = "completed"
	TickFetchFailed = "fetch_failed"
	TickSkipped     = "skipped"
)

type NotifierMetrics struct {
	ticks         metric.Int64Counter
	notifications metric.Int64Counter
	tickDuration  metric.Float64Histogram
	remindersSeen metric.Int64Counter
}

func NewNotifierMetrics() (*NotifierMetrics, error) {
	meter := otel.Meter(notifierMeterName)

	ticks, err := meter.Int64Counter(
		"reminder_ticks_total",
		metric.WithDescription("Total number of reminder poll ticks"),
		metric.WithUnit("{tick}"),
	)
	if err != nil {
		return nil, err
	}

	notifications, err := meter.Int64Counter(
		"reminder_notifications_total",
		metric.WithDescription("Due reminders by notification outcome"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	tickDuration, err := meter.Float64Histogram(
		"reminder_tick_duration_seconds",
		metric.WithDescription("Time spent in a single poll tick"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
		),
	)
	if err != nil {
		return nil, err
	}

	remindersSeen, err := meter.Int64Counter(
		"reminder_fetched_total",
		metric.WithDescription("Reminder records received from the habit API"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	return &NotifierMetrics{
		ticks:         ticks,
		notifications: notifications,
		tickDuration:  tickDuration,
		remindersSeen: remindersSeen,
	}, nil
}

func (m *NotifierMetrics) RecordTick(ctx context.Context, outcome string, duration time.Duration) {
	m.ticks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
	m.tickDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *NotifierMetrics) RecordNotification(ctx context.Context, outcome, category string) {
	m.notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("category", category),
	))
}

func (m *NotifierMetrics) RecordRemindersFetched(ctx context.Context, count int) {
	m.remindersSeen.Add(ctx, int64(count))
}
