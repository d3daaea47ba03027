// Package logging provides logger construction and context plumbing for
// the model builder. All packages log through logr; zap is the backend.
package logging

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels used with logr's V(). INFO is the default level;
// DEBUG and TRACE are progressively chattier.
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

// Log is the package-level default logger, used where no context is
// available. It discards output until SetDefault is called.
var Log = logr.Discard()

// SetDefault replaces the package-level default logger.
func SetDefault(l logr.Logger) {
	Log = l
}

// NewLogger builds a production logr.Logger on zap. verbosity controls how
// deep V() levels are emitted; development switches to the human-readable
// console encoding.
func NewLogger(verbosity int, development bool) logr.Logger {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	// zapr maps logr V-levels onto negative zap levels.
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity)) //nolint:gosec
	zl, err := cfg.Build()
	if err != nil {
		// Falling back to a no-op logger keeps construction infallible;
		// config errors here can only come from programmer mistakes.
		return logr.Discard()
	}
	return zapr.NewLogger(zl)
}

// NewTestLogger builds a development logger at TRACE verbosity and installs
// it as the package default. Intended for test suites.
func NewTestLogger() logr.Logger {
	l := NewLogger(TRACE, true)
	SetDefault(l)
	return l
}

type contextKey struct{}

// NewContext returns a context carrying the given logger.
func NewContext(ctx context.Context, l logr.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in ctx, or the package default.
func FromContext(ctx context.Context) logr.Logger {
	if l, ok := ctx.Value(contextKey{}).(logr.Logger); ok {
		return l
	}
	return Log
}
