package logging

import (
	"log/slog"
	"os"
)

// Init installs the default slog logger. The level comes from LOG_LEVEL and
// defaults to info, since a relay operator wants to see rooms come and go.
func Init() {
	slog.SetDefault(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: ParseLevel(os.Getenv("LOG_LEVEL")),
		}),
	))
}

// ParseLevel maps a LOG_LEVEL value to a slog level.
func ParseLevel(l string) slog.Level {
	switch l {
	case "dev", "development", "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "production", "prod":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
