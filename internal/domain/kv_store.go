package domain

import "context"

//go:generate mockgen -source=kv_store.go -destination=kv_store_mock.go -package=domain

// KeyValueStore is the persistent string store backing credentials and notifier state.
// Get returns ErrKeyNotFound when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
