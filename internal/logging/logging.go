// Package logging configures charmbracelet/log for the CLI and its components.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

var output io.Writer = os.Stderr

// New creates a logger with the given prefix that follows the global level.
// Output goes to stderr so that JSON written to stdout stays parseable.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(output, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a logger with a custom level and formatter.
func NewWithConfig(prefix string, level log.Level, showTimestamp bool, f log.Formatter) *log.Logger {
	return log.NewWithOptions(output, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportTimestamp: showTimestamp,
		Formatter:       f,
	})
}

// Configure sets the global level and installs a default logger using the
// requested format ("text", "json" or "logfmt"). Unknown levels fall back to
// info.
func Configure(level, format string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)

	l := NewWithConfig("stdphrase", lvl, lvl == log.DebugLevel, ParseFormatter(format))
	log.SetDefault(l)
	return l
}

// ParseFormatter maps a config string to a formatter.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// OrDefault returns l, or the package default logger when l is nil.
func OrDefault(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.Default()
}
