package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-habit-notifier/internal/auth"
	"github.com/KasumiMercury/primind-habit-notifier/internal/client"
	"github.com/KasumiMercury/primind-habit-notifier/internal/config"
	"github.com/KasumiMercury/primind-habit-notifier/internal/handler"
	"github.com/KasumiMercury/primind-habit-notifier/internal/health"
	"github.com/KasumiMercury/primind-habit-notifier/internal/infra/kvstore"
	"github.com/KasumiMercury/primind-habit-notifier/internal/infra/notifyrecorder"
	"github.com/KasumiMercury/primind-habit-notifier/internal/infra/repository"
	"github.com/KasumiMercury/primind-habit-notifier/internal/notification"
	"github.com/KasumiMercury/primind-habit-notifier/internal/observability/metrics"
	"github.com/KasumiMercury/primind-habit-notifier/internal/observability/middleware"
	"github.com/KasumiMercury/primind-habit-notifier/internal/service/reminder"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	notifierMetrics, err := metrics.NewNotifierMetrics()
	if err != nil {
		slog.Error("failed to initialize notifier metrics", slog.String("error", err.Error()))
		return 1
	}

	store, err := kvstore.New(ctx, cfg.Store, cfg.Redis)
	if err != nil {
		slog.Error("failed to open key-value store",
			slog.String("event", "store.open.fail"),
			slog.String("backend", cfg.Store.Backend),
			slog.String("error", err.Error()),
		)
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("failed to close key-value store", slog.String("error", err.Error()))
		}
	}()

	slog.Info("key-value store ready", slog.String("backend", cfg.Store.Backend))

	historyRecorder := notifyrecorder.NewRecorder(ctx, notifyrecorder.LoadConfig())
	defer func() {
		if err := historyRecorder.Close(); err != nil {
			slog.Warn("failed to close notification recorder", slog.String("error", err.Error()))
		}
	}()

	tokens := auth.NewTokenStore(store)
	navigator := client.NewLogNavigator()

	apiClient := client.NewClient(cfg.APIBase, store, tokens,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Notifier.RequestTimeout}),
		client.WithNavigator(navigator, cfg.LoginPath),
	)

	display, err := notification.New(cfg.Notifier, store, slog.Default())
	if err != nil {
		slog.Error("failed to initialize notification backend",
			slog.String("backend", cfg.Notifier.Backend),
			slog.String("error", err.Error()),
		)
		return 1
	}

	reminderNotifier := reminder.NewNotifier(
		apiClient,
		tokens,
		repository.NewSlotRepository(store),
		display,
		reminder.WithInterval(cfg.Notifier.PollInterval),
		reminder.WithRecorder(historyRecorder),
		reminder.WithMetrics(notifierMetrics),
	)

	// resume polling for a credential left over from a previous run
	reminderNotifier.Start(ctx)
	defer reminderNotifier.Stop()

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths: []string{"/health", "/health/live", "/health/ready"},
		Module:    defaultModule,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(store, cfg.Store.Backend, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	handler.RegisterRoutes(r,
		handler.NewNotifierHandler(reminderNotifier, navigator),
		handler.NewSessionHandler(tokens, reminderNotifier, navigator),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("api_base", cfg.APIBase),
			slog.String("notifier_backend", cfg.Notifier.Backend),
			slog.Duration("poll_interval", cfg.Notifier.PollInterval),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
