// Package log is the process wide logger. It wraps a zap sugared logger writing
// to stderr so that stdout stays reserved for command output.
package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	level = zap.NewAtomicLevelAt(zapcore.WarnLevel)

	mu     sync.RWMutex
	logger = build()
)

func build() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return zap.Must(cfg.Build()).Sugar()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLevel accepts zap level names: debug, info, warn, error.
func SetLevel(name string) error {
	l, err := zapcore.ParseLevel(name)
	if err != nil {
		return err
	}
	level.SetLevel(l)
	return nil
}

// Disable drops every subsequent log line, used by tests & benchmarks.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	logger = zap.NewNop().Sugar()
}

func Sync() {
	_ = get().Sync()
}

func Debugf(format string, args ...any) {
	get().Debugf(format, args...)
}

func Warnf(format string, args ...any) {
	get().Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	get().Errorf(format, args...)
}
