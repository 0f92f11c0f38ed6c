package utils

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

var logger *slog.Logger

// InitLogger sets up the process-wide logger. Development gets colorized
// tint output, everything else gets JSON for log shipping.
func InitLogger(env string) {
	var handler slog.Handler
	if env == "development" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func Log() *slog.Logger {
	if logger == nil {
		InitLogger("development")
	}
	return logger
}

func LogInfo(message string, args ...any) {
	Log().Info(message, args...)
}

func LogWarning(message string, args ...any) {
	Log().Warn(message, args...)
}

func LogError(message string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err)
	}
	Log().Error(message, args...)
}
