package notification

import (
	"fmt"

	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
)

// Content renders the title and body shown for a due reminder.
func Content(r domain.Reminder) (title, body string) {
	title = fmt.Sprintf("Reminder: %s", r.Habit.Title)

	if category := r.CategoryName(); category != "" {
		body = fmt.Sprintf("Category: %s. Time to complete \"%s\".", category, r.Habit.Title)
	} else {
		body = fmt.Sprintf("Time to complete \"%s\".", r.Habit.Title)
	}
	return title, body
}
