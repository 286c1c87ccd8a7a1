// Package logger wraps zap with level configuration for the portal.
package logger

import "go.uber.org/zap"

// Logger carries the configured zap logger.
type Logger struct {
	// Log is the underlying zap logger. It is a no-op until Init runs.
	Log *zap.Logger
}

// New returns a Logger backed by a no-op zap logger.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds a production zap logger at the given level ("debug",
// "info", "warn", "error") and installs it on l.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	l.Log = zl
	return nil
}
