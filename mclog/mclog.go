// Package mclog is a thin structured-logging facade over zap, used for one
// field-structured event per connection lifecycle milestone: accept, state
// transition, compression-threshold flip, disconnect reason, error.
package mclog

import "go.uber.org/zap"

// Logger wraps a *zap.Logger with a verbosity gate for debug-level events,
// the same shape as the teacher's BaseTCP.debugf/logf split (a bool flag
// deciding whether verbose events reach the sink) rewired to call through
// zap instead of the standard library's log package.
type Logger struct {
	zl    *zap.Logger
	debug bool
}

// New wraps an existing *zap.Logger. debug gates Debugf calls.
func New(zl *zap.Logger, debug bool) *Logger {
	return &Logger{zl: zl, debug: debug}
}

// NewProduction builds a Logger over zap's production config (JSON output,
// info level and above, or debug level and above when debug is set).
func NewProduction(debug bool) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return New(zl, debug), nil
}

// NewNop builds a Logger that discards everything, for tests and for hosts
// that don't want connection logging.
func NewNop() *Logger {
	return New(zap.NewNop(), false)
}

// Debugf logs at debug level only when the Logger was built with debug
// enabled — the equivalent of the teacher's EnableDebug(true) knob.
func (l *Logger) Debugf(msg string, fields ...zap.Field) {
	if l.debug {
		l.zl.Debug(msg, fields...)
	}
}

// Info logs a connection-lifecycle event.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zl.Info(msg, fields...)
}

// Warn logs a recoverable anomaly (an unexpected but non-fatal condition).
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zl.Warn(msg, fields...)
}

// Error logs a connection-terminating error.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zl.Error(msg, fields...)
}

// Sync flushes any buffered log entries, matching zap's own Sync contract.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}
