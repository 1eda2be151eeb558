package domain

import (
	"strings"
)

// Reminder is a scheduled habit reminder as returned by the habit API.
type Reminder struct {
	ID         string   `json:"id"`
	Time       string   `json:"time"`
	Enabled    *bool    `json:"enabled,omitempty"`
	DaysOfWeek []string `json:"daysOfWeek,omitempty"`
	Habit      Habit    `json:"habit"`
}

type Habit struct {
	Title    string    `json:"title"`
	Category *Category `json:"category,omitempty"`
}

type Category struct {
	Name string `json:"name"`
}

// IsEnabled reports whether the reminder is active. A missing flag means enabled.
func (r Reminder) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// CategoryName returns the habit category name or an empty string.
func (r Reminder) CategoryName() string {
	if r.Habit.Category == nil {
		return ""
	}
	return r.Habit.Category.Name
}

// Validate checks the fields the notifier relies on.
func (r Reminder) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrReminderIDMissing
	}
	if r.Time == "" {
		return ErrInvalidReminderTime
	}
	return nil
}

// NotifiedSlots maps a reminder ID to the latest slot token a notification was shown for.
type NotifiedSlots map[string]string

// Storage keys shared by the client-side stores.
const (
	KeyToken                  = "token"
	KeyNotifiedSlots          = "reminderNotifiedSlots"
	KeyAPIBase                = "apiBase"
	KeyNotificationPermission = "notificationPermission"
)
