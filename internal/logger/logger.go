// Package logger holds the process-wide zap logger.
package logger

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a no-op until Init is called, so packages can log unconditionally.
var Log = zap.NewNop()

// RunID identifies the current invocation in log lines.
var RunID string

// Init builds a console logger on stderr. Only warnings and errors are shown
// unless debug is set.
func Init(debug bool) error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.Sampling = nil
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.DisableCaller = false
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.DisableCaller = true
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	RunID = uuid.NewString()
	Log = l.With(zap.String("run", RunID))
	return nil
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Log.Sync()
}
