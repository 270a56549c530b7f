// Package logging wraps go.uber.org/zap the same way
// theRebelliousNerd-codenerd's CLI does it (cmd/nerd/main.go: a package-level *zap.Logger built
// from zap.NewProductionConfig, with zap.NewAtomicLevelAt switching on
// a verbose flag) — a base *zap.Logger passed typed fields, not the
// sugared API, since every call site in that idiom already knows its
// field names and types statically.
//
// Logger is used for pass-level tracing inside the compiler pipeline
// (pass entry/exit, fixpoint iteration counts, contract/function
// counts) and never for user-facing diagnostics, which always travel
// through diag.Bag.
package logging

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin handle around *zap.Logger so callers depend on this
// package's (narrower) surface rather than importing zap directly
// throughout the compiler.
type Logger struct {
	z *zap.Logger
}

// Field re-exports zap.Field so call sites need only import this
// package.
type Field = zap.Field

func String(key, val string) Field               { return zap.String(key, val) }
func Int(key string, val int) Field              { return zap.Int(key, val) }
func Err(err error) Field                        { return zap.Error(err) }
func Duration(key string, v time.Duration) Field { return zap.Duration(key, v) }

// New builds a Logger at verbose-controlled level:
// zap.NewProductionConfig with the level bumped to Debug when verbose
// is set.
func New(verbose bool) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{z: z}, nil
}

// NewNop returns a Logger that discards everything, for callers (like
// compiler.Options' zero value) that want tracing compiled in but not
// active.
func NewNop() *Logger {
	return &Logger{z: zap.NewNop()}
}

func (l *Logger) Info(msg string, fields ...Field) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Info(msg, fields...)
}

func (l *Logger) Debug(msg string, fields ...Field) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Debug(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Warn(msg, fields...)
}

// Sync flushes any buffered log entries, matching zap.Logger.Sync's
// contract (call before process exit).
func (l *Logger) Sync() error {
	if l == nil || l.z == nil {
		return nil
	}
	return l.z.Sync()
}
