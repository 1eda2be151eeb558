package kvstore

import "errors"

var (
	ErrStoreUnavailable = errors.New("key-value store unavailable")
	ErrUnknownBackend   = errors.New("unknown store backend")
)
