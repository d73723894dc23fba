package xlog

import (
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap/zapcore"
)

var _ ants.Logger = (*AntsXLogger)(nil)

// AntsXLogger routes the ants pool messages, mostly the recovered
// worker panics, into the error level of a named component logger.
type AntsXLogger struct {
	logger XLogger
}

func (l *AntsXLogger) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Logf(zapcore.ErrorLevel, format, args...)
}

func NewAntsXLogger(logger XLogger) *AntsXLogger {
	return &AntsXLogger{
		logger: newComponentLogger(logger, "ants"),
	}
}
