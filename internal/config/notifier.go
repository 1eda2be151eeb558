package config

import (
	"os"
	"strings"
	"time"
)

const (
	NotifierBackendLog     = "log"
	NotifierBackendWebPush = "webpush"

	PromptGrant = "grant"
	PromptDeny  = "deny"

	defaultPollInterval   = 30 * time.Second
	defaultRequestTimeout = 30 * time.Second
)

type NotifierConfig struct {
	Backend        string
	Prompt         string
	PollInterval   time.Duration
	RequestTimeout time.Duration

	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
	Subscription    string
}

func LoadNotifierConfig() (*NotifierConfig, error) {
	backend := strings.ToLower(os.Getenv("NOTIFIER_BACKEND"))
	if backend == "" {
		backend = NotifierBackendLog
	}

	prompt := strings.ToLower(os.Getenv("NOTIFY_PROMPT"))
	if prompt == "" {
		prompt = PromptGrant
	}

	pollInterval := defaultPollInterval
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			return nil, ErrInvalidPollInterval
		}
		pollInterval = parsed
	}

	requestTimeout := defaultRequestTimeout
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			return nil, ErrInvalidRequestTimeout
		}
		requestTimeout = parsed
	}

	return &NotifierConfig{
		Backend:        backend,
		Prompt:         prompt,
		PollInterval:   pollInterval,
		RequestTimeout: requestTimeout,

		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		VAPIDSubject:    os.Getenv("VAPID_SUBJECT"),
		Subscription:    os.Getenv("WEBPUSH_SUBSCRIPTION"),
	}, nil
}

func (c *NotifierConfig) Validate() error {
	switch c.Backend {
	case NotifierBackendLog, NotifierBackendWebPush:
	default:
		return ErrUnknownNotifierBackend
	}

	switch c.Prompt {
	case PromptGrant, PromptDeny:
	default:
		return ErrUnknownPrompt
	}

	return nil
}
