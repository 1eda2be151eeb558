package config

import (
	"log/slog"
	"os"
	"strings"
)

const defaultAPIBase = "http://localhost:8000/api"

type Config struct {
	APIBase      string
	LoginPath    string
	Port         string
	Environment  string
	LogLevel     slog.Level
	OTLPEndpoint string
	Store        *StoreConfig
	Redis        *RedisConfig
	Notifier     *NotifierConfig
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8089"
	}

	apiBase := strings.TrimRight(os.Getenv("API_BASE"), "/")
	if apiBase == "" {
		apiBase = defaultAPIBase
	}

	loginPath := os.Getenv("LOGIN_PATH")
	if loginPath == "" {
		loginPath = "/login"
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "dev"
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	notifierConfig, err := LoadNotifierConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		APIBase:      apiBase,
		LoginPath:    loginPath,
		Port:         port,
		Environment:  env,
		LogLevel:     parseLogLevel(os.Getenv("LOG_LEVEL")),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Store:        LoadStoreConfig(),
		Redis:        redisConfig,
		Notifier:     notifierConfig,
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
