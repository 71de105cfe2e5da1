package observability

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Options selects the handler built by NewLogger
type Options struct {
	JSON  bool
	Level slog.Level
}

// NewSlog creates a structured logger tagged with component
func NewSlog(w io.Writer, component string, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler).With("component", component)
}

// ParseLevel accepts debug, info, warn or error in any case
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Logger adds printf helpers on top of a slog.Logger
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a Logger for component
func NewLogger(w io.Writer, component string, opts Options) Logger {
	return Logger{logger: NewSlog(w, component, opts)}
}

// Slog returns the wrapped structured logger
func (l Logger) Slog() *slog.Logger { return l.logger }

func (l Logger) Infof(format string, args ...any) {
	l.logger.Info("info", "message", fmt.Sprintf(format, args...))
}

func (l Logger) Errorf(format string, args ...any) {
	l.logger.Error("error", "message", fmt.Sprintf(format, args...))
}
