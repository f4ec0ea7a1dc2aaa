// Package logging configures the process-wide structured logger used by
// the ftndb commands, built on log/slog.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/MatusOllah/slogcolor"
)

// Setup configures the global slog logger.
//
// Level values: "debug", "info", "warn", "error" (default: "info").
// Format values: "color" for human-readable terminal output, "text" or
// "json" for plain handlers (use "json" when the log is shipped off for
// machine parsing). When file is non-empty, output is appended there and
// the format falls back from "color" to "text" since the color escapes
// are useless in a file.
//
// The returned closer releases the log file, if one was opened.
func Setup(level, format, file string) (func() error, error) {
	var out io.Writer = os.Stderr
	closer := func() error { return nil }

	format = strings.ToLower(format)

	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", file, err)
		}
		out = f
		closer = f.Close
		if format == "color" {
			format = "text"
		}
	}

	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(out, opts)
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		colorOpts := *slogcolor.DefaultOptions
		colorOpts.Level = parseLevel(level)
		handler = slogcolor.NewHandler(out, &colorOpts)
	}

	slog.SetDefault(slog.New(handler))
	return closer, nil
}

// parseLevel converts a string log level to slog.Level.
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
