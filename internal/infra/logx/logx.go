package logx

import (
	"log/slog"
	"os"
	"strings"
)

func New() *slog.Logger {
	level := new(slog.LevelVar)
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}

	// JSON by default: botd runs under a supervisor that ships logs,
	// LOG_FORMAT=text for a terminal
	var h slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "text" {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	l := slog.New(h)
	slog.SetDefault(l)
	return l
}
