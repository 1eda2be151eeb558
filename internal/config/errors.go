package config

import "errors"

var (
	ErrRedisAddrMissing       = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB         = errors.New("REDIS_DB must be a valid integer")
	ErrStorePathMissing       = errors.New("STORE_PATH is required for the sqlite backend")
	ErrUnknownStoreBackend    = errors.New("STORE_BACKEND must be one of redis, sqlite, memory")
	ErrInvalidPollInterval    = errors.New("POLL_INTERVAL must be a positive duration")
	ErrInvalidRequestTimeout  = errors.New("REQUEST_TIMEOUT must be a positive duration")
	ErrUnknownNotifierBackend = errors.New("NOTIFIER_BACKEND must be one of log, webpush")
	ErrUnknownPrompt          = errors.New("NOTIFY_PROMPT must be one of grant, deny")
	ErrAPIBaseMissing         = errors.New("API_BASE must not be empty")
)
