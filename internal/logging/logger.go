// Package logging defines a minimal structured-logging interface used across
// the client. Implementations wrap slog or zap.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "state changed", "op", "login", "to", "authenticated")
type Logger interface {
	// Debug logs verbose diagnostics.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Backend names accepted by New.
const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds a Logger for the given backend and level ("debug", "info",
// "warn", "error"). Output goes to w for the slog backend; zap writes to
// stderr using its production encoder.
func New(backend, level string, w io.Writer) (Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	switch strings.ToLower(backend) {
	case "", BackendSlog:
		return NewTextLogger(w, level)
	case BackendZap:
		return NewZapLogger(level)
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// Redacted replaces the value of any secret key passed to a Logger.
const Redacted = "[REDACTED]"

var secretKeys = map[string]bool{
	"token":    true,
	"password": true,
	"secret":   true,
}

// redact returns args with secret values masked. args is returned as is
// when nothing matches.
func redact(args []any) []any {
	var out []any
	for i := 0; i+1 < len(args); i += 2 {
		k, ok := args[i].(string)
		if !ok || !secretKeys[strings.ToLower(k)] {
			continue
		}
		if out == nil {
			out = slices.Clone(args)
		}
		out[i+1] = Redacted
	}
	if out == nil {
		return args
	}
	return out
}
