package cli

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
// With jsonFormat set, records are emitted as JSON lines instead.
func newLogger(w io.Writer, level log.Level, jsonFormat bool) *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	}
	if jsonFormat {
		opts.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, opts)
}
