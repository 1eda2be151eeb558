package domain

import "errors"

var (
	ErrKeyNotFound         = errors.New("key not found")
	ErrReminderIDMissing   = errors.New("reminder id is missing")
	ErrInvalidReminderTime = errors.New("reminder time is invalid")
)
