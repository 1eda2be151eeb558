package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
	"github.com/KasumiMercury/primind-habit-notifier/internal/service/reminder"
)

// ReminderController is the part of the reminder notifier the control API drives.
type ReminderController interface {
	Start(ctx context.Context)
	Stop()
	RequestPermission(ctx context.Context) domain.Permission
	CheckDueReminders(ctx context.Context) int
	Status(ctx context.Context) reminder.Status
}

// RedirectTracker exposes the last session-expiry redirect.
type RedirectTracker interface {
	LastRedirect() (string, time.Time)
}

type NotifierHandler struct {
	notifier  ReminderController
	redirects RedirectTracker
}

func NewNotifierHandler(notifier ReminderController, redirects RedirectTracker) *NotifierHandler {
	return &NotifierHandler{
		notifier:  notifier,
		redirects: redirects,
	}
}

type StatusResponse struct {
	reminder.Status
	LastRedirect   string     `json:"lastRedirect,omitempty"`
	LastRedirectAt *time.Time `json:"lastRedirectAt,omitempty"`
}

type PermissionResponse struct {
	Permission domain.Permission `json:"permission"`
}

type CheckResponse struct {
	Fired int `json:"fired"`
}

func (h *NotifierHandler) HandleStart(c *gin.Context) {
	ctx := c.Request.Context()

	h.notifier.Start(ctx)

	slog.InfoContext(ctx, "notifier start requested")
	h.respondStatus(c)
}

func (h *NotifierHandler) HandleStop(c *gin.Context) {
	ctx := c.Request.Context()

	h.notifier.Stop()

	slog.InfoContext(ctx, "notifier stop requested")
	h.respondStatus(c)
}

func (h *NotifierHandler) HandleRequestPermission(c *gin.Context) {
	ctx := c.Request.Context()

	permission := h.notifier.RequestPermission(ctx)

	slog.InfoContext(ctx, "notification permission resolved",
		slog.String("permission", permission.String()),
	)
	c.JSON(http.StatusOK, PermissionResponse{Permission: permission})
}

func (h *NotifierHandler) HandleCheck(c *gin.Context) {
	fired := h.notifier.CheckDueReminders(c.Request.Context())
	c.JSON(http.StatusOK, CheckResponse{Fired: fired})
}

func (h *NotifierHandler) HandleStatus(c *gin.Context) {
	h.respondStatus(c)
}

func (h *NotifierHandler) respondStatus(c *gin.Context) {
	resp := StatusResponse{
		Status: h.notifier.Status(c.Request.Context()),
	}

	if h.redirects != nil {
		if path, at := h.redirects.LastRedirect(); path != "" {
			resp.LastRedirect = path
			resp.LastRedirectAt = &at
		}
	}

	c.JSON(http.StatusOK, resp)
}
