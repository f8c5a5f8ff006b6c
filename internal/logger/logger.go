package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-validator/internal/models"
)

// New creates a structured logger writing to w. format is "console" or
// "json"; level is a zerolog level name and defaults to info.
func New(w io.Writer, level, format string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// WithContext adds the logger to the context.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// FromContext retrieves the logger from the context. A context without one
// yields a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// LogDiagnostics reports pipeline diagnostics. Conversion failures are
// warnings; missing fields are expected on noisy input and logged at debug.
func LogDiagnostics(l *zerolog.Logger, diags []models.Diagnostic) {
	for _, d := range diags {
		var ev *zerolog.Event
		switch d.Kind {
		case models.DiagInvalidAmount, models.DiagInvalidBalance, models.DiagUnknownDirection:
			ev = l.Warn()
		default:
			ev = l.Debug()
		}
		ev.Int("line", d.Line).
			Str("kind", string(d.Kind)).
			Str("value", d.Value).
			Msg(d.Message)
	}
}
