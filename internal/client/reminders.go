package client

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
)

const remindersPath = "/reminders"

// FetchReminders lists the user's reminders. Anything other than a JSON array is
// treated as an empty list, and array elements that do not decode are skipped.
func (c *Client) FetchReminders(ctx context.Context) ([]domain.Reminder, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, remindersPath, &raw); err != nil {
		return nil, err
	}

	return decodeReminders(ctx, raw), nil
}

func decodeReminders(ctx context.Context, raw json.RawMessage) []domain.Reminder {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []domain.Reminder{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return []domain.Reminder{}
	}

	reminders := make([]domain.Reminder, 0, len(items))
	for i, item := range items {
		var r domain.Reminder
		if err := json.Unmarshal(item, &r); err != nil {
			slog.DebugContext(ctx, "skipping malformed reminder record",
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		reminders = append(reminders, r)
	}
	return reminders
}
