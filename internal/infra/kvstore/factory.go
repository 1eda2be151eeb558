package kvstore

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-habit-notifier/internal/config"
	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
)

// New builds the store selected by cfg.Backend and verifies it is reachable.
func New(ctx context.Context, cfg *config.StoreConfig, redisCfg *config.RedisConfig) (domain.KeyValueStore, error) {
	switch cfg.Backend {
	case config.StoreBackendMemory:
		slog.Warn("using in-memory store, credential and notified slots will not survive restarts")
		return NewMemoryStore(), nil

	case config.StoreBackendSQLite:
		store, err := NewSQLiteStore(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		slog.Info("sqlite store opened", slog.String("path", cfg.Path))
		return store, nil

	case config.StoreBackendRedis:
		return newRedis(ctx, redisCfg)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}

func newRedis(ctx context.Context, cfg *config.RedisConfig) (domain.KeyValueStore, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)

	if err := redisotel.InstrumentTracing(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}

	if err := redisotel.InstrumentMetrics(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to instrument redis metrics: %w", err)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	slog.Info("redis connected",
		slog.String("addr", cfg.Addr),
		slog.String("key_prefix", cfg.KeyPrefix),
	)

	return NewRedisStore(client, cfg.KeyPrefix), nil
}
