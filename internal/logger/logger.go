// Package logger provides structured logging setup for AgentDesk.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/agentdeskhq/agentdesk/internal/config"
)

// New builds the process logger: JSON records on stdout, leveled per
// config, with the service name attached to every record.
func New(cfg config.Logging) *slog.Logger {
	level := parseLevel(cfg.Level)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler).With("service", cfg.Service)
}

// parseLevel maps a config level string to slog, defaulting to info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
