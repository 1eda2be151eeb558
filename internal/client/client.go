package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
	"github.com/KasumiMercury/primind-habit-notifier/internal/observability/logging"
	"github.com/KasumiMercury/primind-habit-notifier/internal/observability/tracing"
)

// CredentialStore is the subset of the token store the client needs.
type CredentialStore interface {
	Get(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

type Client struct {
	baseURL    string
	store      domain.KeyValueStore
	tokens     CredentialStore
	navigator  Navigator
	loginPath  string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithNavigator(navigator Navigator, loginPath string) Option {
	return func(c *Client) {
		c.navigator = navigator
		if loginPath != "" {
			c.loginPath = loginPath
		}
	}
}

// NewClient builds a client for baseURL. A value stored under domain.KeyAPIBase
// in store takes precedence over baseURL on every request.
func NewClient(baseURL string, store domain.KeyValueStore, tokens CredentialStore, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		store:     store,
		tokens:    tokens,
		loginPath: "/login",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends a JSON request. A JSON response body is decoded into out; a non-JSON
// body is copied into out when it is a *string.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	endpoint := c.resolveBaseURL(ctx) + "/" + strings.TrimLeft(path, "/")

	ctx, span := tracing.StartExternalAPISpan(ctx, strings.ToLower(method), endpoint)
	defer span.End()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			tracing.RecordError(span, err)
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-request-id", logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx)))

	token, err := c.tokens.Get(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to read credential, sending unauthenticated request",
			slog.String("error", err.Error()),
		)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.DebugContext(ctx, "request to habit API failed",
			slog.String("method", method),
			slog.String("url", endpoint),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		tracing.RecordHTTPResult(span, resp.StatusCode, err)
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if isAuthFailure(resp.StatusCode) {
		c.handleSessionExpired(ctx)
	}

	trimmed := bytes.TrimSpace(raw)
	isJSON := len(trimmed) > 0 && json.Valid(trimmed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(trimmed, isJSON, resp.StatusCode),
		}
		slog.DebugContext(ctx, "habit API returned an error",
			slog.String("method", method),
			slog.String("url", endpoint),
			slog.Int("status_code", resp.StatusCode),
			slog.String("message", apiErr.Message),
		)
		tracing.RecordHTTPResult(span, resp.StatusCode, apiErr)
		return apiErr
	}

	tracing.RecordHTTPResult(span, resp.StatusCode, nil)

	if out == nil || len(trimmed) == 0 {
		return nil
	}
	if !isJSON {
		if s, ok := out.(*string); ok {
			*s = string(raw)
		}
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) resolveBaseURL(ctx context.Context) string {
	if c.store != nil {
		override, err := c.store.Get(ctx, domain.KeyAPIBase)
		if err == nil && strings.TrimSpace(override) != "" {
			return strings.TrimRight(strings.TrimSpace(override), "/")
		}
		if err != nil && !errors.Is(err, domain.ErrKeyNotFound) {
			slog.WarnContext(ctx, "failed to read api base override",
				slog.String("error", err.Error()),
			)
		}
	}
	return c.baseURL
}

// handleSessionExpired drops the credential and sends the user to the login page
// unless they are already on an auth page.
func (c *Client) handleSessionExpired(ctx context.Context) {
	if err := c.tokens.Clear(ctx); err != nil {
		slog.WarnContext(ctx, "failed to clear expired credential",
			slog.String("error", err.Error()),
		)
	}

	if c.navigator == nil {
		return
	}
	if isAuthPage(c.navigator.CurrentPath()) {
		return
	}
	c.navigator.Redirect(ctx, c.loginPath)
}

func errorMessage(body []byte, isJSON bool, status int) string {
	if isJSON {
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err == nil {
			for _, key := range []string{"message", "error", "detail"} {
				if s, ok := payload[key].(string); ok && s != "" {
					return s
				}
			}
		}
	} else if len(body) > 0 {
		return string(body)
	}
	return fmt.Sprintf("Request failed (%d)", status)
}
