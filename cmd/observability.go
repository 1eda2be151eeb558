package main

import (
	"context"
	"os"

	"github.com/KasumiMercury/primind-habit-notifier/internal/config"
	"github.com/KasumiMercury/primind-habit-notifier/internal/observability"
	"github.com/KasumiMercury/primind-habit-notifier/internal/observability/logging"
)

const defaultModule = logging.Module("habit-notifier")

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "habit-notifier"
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:    serviceName,
			Version: Version,
		},
		Environment:   logging.Environment(cfg.Environment),
		LogLevel:      cfg.LogLevel,
		DefaultModule: defaultModule,
		OTLPEndpoint:  cfg.OTLPEndpoint,
		SamplingRate:  1.0,
	})
}
