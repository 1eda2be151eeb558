package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
)

var ErrEmptyToken = errors.New("token must not be empty")

// TokenStore holds the single active bearer credential. Expiry is only
// discovered when the API answers 401/403.
type TokenStore struct {
	store domain.KeyValueStore
}

func NewTokenStore(store domain.KeyValueStore) *TokenStore {
	return &TokenStore{
		store: store,
	}
}

// Get returns an empty string when no credential is stored.
func (s *TokenStore) Get(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx, domain.KeyToken)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}

func (s *TokenStore) Set(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if err := s.store.Set(ctx, domain.KeyToken, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, domain.KeyToken); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// HasToken treats a store failure as "no credential".
func (s *TokenStore) HasToken(ctx context.Context) bool {
	token, err := s.Get(ctx)
	if err != nil {
		slog.WarnContext(ctx, "token lookup failed", slog.String("error", err.Error()))
		return false
	}
	return token != ""
}
