package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

var (
	global *zap.SugaredLogger
	once   sync.Once
)

// Init replaces the global logger. Safe to skip in tests; the first use
// falls back to the production config.
func Init(l *zap.Logger) {
	global = l.Sugar()
}

func log() *zap.SugaredLogger {
	once.Do(func() {
		if global == nil {
			l, _ := zap.NewProduction(zap.AddCallerSkip(1))
			global = l.Sugar()
		}
	})
	return global
}

func Debugf(_ context.Context, format string, args ...interface{}) {
	log().Debugf(format, args...)
}

func Infof(_ context.Context, format string, args ...interface{}) {
	log().Infof(format, args...)
}

func Warnf(_ context.Context, format string, args ...interface{}) {
	log().Warnf(format, args...)
}

func Error(_ context.Context, msg string) {
	log().Error(msg)
}

func Errorf(_ context.Context, format string, args ...interface{}) {
	log().Errorf(format, args...)
}

func Fatal(_ context.Context, err error) {
	log().Fatal(err)
}
