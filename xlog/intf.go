package xlog

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type logLevel string

const (
	LogLevelDebug logLevel = "DEBUG"
	LogLevelInfo  logLevel = "INFO"
	LogLevelWarn  logLevel = "WARN"
	LogLevelError logLevel = "ERROR"
)

func (lvl logLevel) zapLevel() zapcore.Level {
	switch lvl {
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelDebug:
		fallthrough
	default:
	}
	return zapcore.DebugLevel
}

func (lvl logLevel) String() string {
	return string(lvl)
}

// ParseLogLevel accepts the level names case-insensitively,
// the blank or unknown names fall back to DEBUG.
func ParseLogLevel(level string) logLevel {
	switch lvl := getLogLevelOrDefault(level); lvl {
	case zapcore.InfoLevel:
		return LogLevelInfo
	case zapcore.WarnLevel:
		return LogLevelWarn
	case zapcore.ErrorLevel:
		return LogLevelError
	default:
	}
	return LogLevelDebug
}

type logEncoderType uint8

const (
	JSON logEncoderType = iota
	PlainText
	_encMax
)

const (
	ContextKeyMapToOmitempty = "_"
	ContextKeyMapToItself    = ""
	coreKeyIgnored           = ""
)

var encoderMap = map[logEncoderType]func(cfg zapcore.EncoderConfig) zapcore.Encoder{
	JSON:      zapcore.NewJSONEncoder,
	PlainText: zapcore.NewConsoleEncoder,
}

func getEncoderByType(typ logEncoderType) func(cfg zapcore.EncoderConfig) zapcore.Encoder {
	enc, ok := encoderMap[typ]
	if !ok {
		return zapcore.NewJSONEncoder
	}
	return enc
}

type Banner interface {
	JSON() string
	PlainText() string
}

// xLogCore exposes the encoders and the writer of a core, so
// the component loggers (ants, fx) are able to rebuild a core
// with their own encoder config on the same output.
type xLogCore interface {
	timeEncoder() zapcore.TimeEncoder
	levelEncoder() zapcore.LevelEncoder
	writeSyncer() zapcore.WriteSyncer
	outEncoder() func(cfg zapcore.EncoderConfig) zapcore.Encoder

	zapcore.Core
}

// XLogger mainly implemented by Uber zap logger.
//
// ErrorStack is used to print the infra.ErrorStack frames as
// an inlined JSON object instead of the zap default stacktrace.
//
// The interface methods with context is used to add more
// additional fields to the log, which are extracted by the
// keys registered with WithXLoggerContextFieldExtract.
type XLogger interface {
	zap() *zap.Logger

	IncreaseLogLevel(level zapcore.Level)
	Level() string
	Sync() error
	Close() error
	// Banner prints the banner once per logger, to the first output.
	Banner(banner Banner)

	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(err error, msg string, fields ...zap.Field)
	ErrorStack(err error, msg string, fields ...zap.Field)

	DebugContext(ctx context.Context, msg string, fields ...zap.Field)
	InfoContext(ctx context.Context, msg string, fields ...zap.Field)
	WarnContext(ctx context.Context, msg string, fields ...zap.Field)
	ErrorContext(ctx context.Context, err error, msg string, fields ...zap.Field)

	Logf(lvl zapcore.Level, format string, args ...any)
}
