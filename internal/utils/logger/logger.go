package logger

import (
	"os"
	"strings"

	"golang.org/x/exp/slog"

	"lensadmin/internal/app/client/config"
)

// New создает логгер для окружения env.
// local - цветной вывод в stderr, dev и prod - JSON.
func New(env string) *slog.Logger {
	switch env {
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case config.EnvProd:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return setupPrettySlog()
	}
}

// NewWithLevel как New, но с явным уровнем (LOG_LEVEL или --debug).
// Пустой или неизвестный уровень оставляет уровень окружения.
func NewWithLevel(env, level string) *slog.Logger {
	lvl, ok := ParseLevel(level)
	if !ok {
		return New(env)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch env {
	case config.EnvDev, config.EnvProd:
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	default:
		return slog.New(NewPrettyHandler(os.Stderr, PrettyHandlerOptions{SlogOpts: opts}))
	}
}

// ParseLevel разбирает debug/info/warn/error без учета регистра.
func ParseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func setupPrettySlog() *slog.Logger {
	opts := PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug},
	}

	return slog.New(NewPrettyHandler(os.Stderr, opts))
}
