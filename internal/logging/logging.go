package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init builds the process logger: JSON records to both the console and
// a combined log file, tagged with the service name. If the file can't
// be opened, logging degrades to console only.
func Init(level, logFile string) *slog.Logger {
	var sink io.Writer = os.Stdout
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			sink = io.MultiWriter(os.Stdout, f)
		}
	}

	handler := slog.NewJSONHandler(sink, &slog.HandlerOptions{
		Level: parseLevel(level),
	})

	logger := slog.New(handler).With("service", "tech-news-extractor")
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
