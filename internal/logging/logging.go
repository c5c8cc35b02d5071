// Package logging initializes the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/formward/formward/internal/core/config"
)

// Init configures the default slog logger. With a log file configured the
// output goes to stdout and a size-rotated file; otherwise stdout only.
func Init(cfg config.LogConfig) {
	opts := &slog.HandlerOptions{
		Level: levelFromString(cfg.Level),
	}

	var logger *slog.Logger
	if cfg.File != "" {
		logTarget := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB, // megabytes
			MaxAge:     cfg.MaxAgeDays,
			MaxBackups: cfg.MaxBackups,
		}

		w := io.MultiWriter(os.Stdout, logTarget)
		logger = slog.New(slog.NewJSONHandler(w, opts))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}

	slog.SetDefault(logger)
}

func levelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
