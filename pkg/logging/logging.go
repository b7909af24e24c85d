// Package logging builds the logrus loggers used for diagnostics. Every
// logger writes to stderr by default: stdout is reserved for the payload.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options configures a root logger
type Options struct {
	Output  io.Writer // Destination, os.Stderr when nil
	Format  string    // "text" (default) or "json"
	Level   string    // logrus level name, "info" when empty
	Verbose bool      // Forces debug level
}

// DebugFromEnv reports whether debug logging was requested through the environment.
func DebugFromEnv() bool {
	return os.Getenv("NOTIFY_TEMPLATE_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}

// New creates a root logger from opts.
func New(opts Options) (*logrus.Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(out)

	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors:    !IsTerminal(out),
			DisableTimestamp: true,
		})
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = parsed
	}
	if opts.Verbose || DebugFromEnv() {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	return logger, nil
}

// NewLogger returns an entry of base tagged with the component name.
func NewLogger(base *logrus.Logger, component string) *logrus.Entry {
	return base.WithField("component", component)
}

// Discard returns a logger that drops everything, for callers that don't log.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
