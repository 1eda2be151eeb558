package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-habit-notifier/internal/auth"
)

type CredentialStore interface {
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// PathRecorder receives the page the UI is currently showing.
type PathRecorder interface {
	SetCurrentPath(path string)
}

type SessionHandler struct {
	credentials CredentialStore
	notifier    ReminderController
	paths       PathRecorder
}

func NewSessionHandler(credentials CredentialStore, notifier ReminderController, paths PathRecorder) *SessionHandler {
	return &SessionHandler{
		credentials: credentials,
		notifier:    notifier,
		paths:       paths,
	}
}

type SessionRequest struct {
	Token string `json:"token" binding:"required"`
}

type NavigationRequest struct {
	Path string `json:"path" binding:"required"`
}

// HandleLogin stores the credential and starts the notifier, the way the UI
// does after a successful sign-in.
func (h *SessionHandler) HandleLogin(c *gin.Context) {
	ctx := c.Request.Context()

	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "session request validation failed",
			slog.String("error", err.Error()),
		)
		respondValidationError(c, "token is required")
		return
	}

	if err := h.credentials.Set(ctx, req.Token); err != nil {
		if errors.Is(err, auth.ErrEmptyToken) {
			respondValidationError(c, err.Error())
			return
		}
		slog.ErrorContext(ctx, "failed to store session credential",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, errTypeProcessing, "failed to store credential")
		return
	}

	h.notifier.Start(ctx)

	slog.InfoContext(ctx, "session started", slog.String("event", "session.login"))
	c.JSON(http.StatusOK, StatusResponse{Status: h.notifier.Status(ctx)})
}

// HandleLogout stops the notifier and forgets the credential.
func (h *SessionHandler) HandleLogout(c *gin.Context) {
	ctx := c.Request.Context()

	h.notifier.Stop()

	if err := h.credentials.Clear(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to clear session credential",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, errTypeProcessing, "failed to clear credential")
		return
	}

	slog.InfoContext(ctx, "session ended", slog.String("event", "session.logout"))
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) HandleNavigation(c *gin.Context) {
	var req NavigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "path is required")
		return
	}

	h.paths.SetCurrentPath(req.Path)
	c.Status(http.StatusNoContent)
}
