// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Setup builds a logger for the given level and format ("json", "text" or
// "logfmt") and installs it as the package default.
func Setup(level, format string) *log.Logger {
	logger := New(os.Stderr, level, format)
	log.SetDefault(logger)
	return logger
}

func New(w io.Writer, level, format string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       formatter(format),
	})
	if err != nil && level != "" {
		logger.Warn("unknown log level, using info", "level", level)
	}
	return logger
}

func formatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text":
		return log.TextFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.JSONFormatter
	}
}
