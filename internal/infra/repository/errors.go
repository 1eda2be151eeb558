package repository

import "errors"

var ErrInvalidSlotData = errors.New("invalid notified slot data")
