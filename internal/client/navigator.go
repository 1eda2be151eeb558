package client

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Navigator is the page-routing side of the host application.
type Navigator interface {
	CurrentPath() string
	Redirect(ctx context.Context, path string)
}

var authPages = []string{"/login", "/register"}

func isAuthPage(path string) bool {
	for _, p := range authPages {
		if path == p || strings.HasPrefix(path, p+"/") || strings.HasPrefix(path, p+"?") {
			return true
		}
	}
	return false
}

// LogNavigator records the current page reported by the UI and logs redirects.
type LogNavigator struct {
	mu           sync.RWMutex
	current      string
	lastRedirect string
	redirectedAt time.Time
}

func NewLogNavigator() *LogNavigator {
	return &LogNavigator{current: "/"}
}

func (n *LogNavigator) SetCurrentPath(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = path
}

func (n *LogNavigator) CurrentPath() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

func (n *LogNavigator) Redirect(ctx context.Context, path string) {
	n.mu.Lock()
	from := n.current
	n.current = path
	n.lastRedirect = path
	n.redirectedAt = time.Now()
	n.mu.Unlock()

	slog.InfoContext(ctx, "session expired, redirecting",
		slog.String("event", "session.redirect"),
		slog.String("from", from),
		slog.String("to", path),
	)
}

// LastRedirect returns the most recent redirect target and when it happened.
func (n *LogNavigator) LastRedirect() (string, time.Time) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.lastRedirect, n.redirectedAt
}
