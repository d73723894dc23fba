package xlog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xseq/lib/infra"
)

type xLogger struct {
	logger              atomic.Pointer[zap.Logger]
	ctxFields           map[string]string
	dynamicLevelEnabler zap.AtomicLevel
	encoder             logEncoderType
	ws                  zapcore.WriteSyncer
	buffers             []*XLogBufferSyncer
	bannerOnce          sync.Once
}

func (l *xLogger) zap() *zap.Logger {
	return l.logger.Load()
}

// IncreaseLogLevel we can increase or decrease the log level concurrently.
func (l *xLogger) IncreaseLogLevel(level zapcore.Level) {
	l.dynamicLevelEnabler.SetLevel(level)
}

func (l *xLogger) Sync() error {
	return l.logger.Load().Sync()
}

// Close flushes the buffered writers and stops their flush loops.
func (l *xLogger) Close() error {
	err := l.Sync()
	for _, buf := range l.buffers {
		err = multierr.Append(err, buf.Stop())
	}
	return err
}

func (l *xLogger) Level() string {
	return l.dynamicLevelEnabler.Level().String()
}

func (l *xLogger) Banner(banner Banner) {
	if banner == nil || l.ws == nil {
		return
	}
	l.bannerOnce.Do(func() {
		core := zapcore.EncoderConfig{
			MessageKey:    "banner", // Required, but the plain text will be ignored.
			LevelKey:      coreKeyIgnored,
			TimeKey:       coreKeyIgnored,
			CallerKey:     coreKeyIgnored,
			StacktraceKey: coreKeyIgnored,
		}
		enc := getEncoderByType(l.encoder)(core)
		_l := l.logger.Load().WithOptions(
			zap.WrapCore(func(zapcore.Core) zapcore.Core {
				return zapcore.NewCore(enc, l.ws, zap.NewAtomicLevelAt(zapcore.InfoLevel))
			}),
		)
		switch l.encoder {
		case PlainText:
			_l.Info(banner.PlainText())
		default:
			_l.Info(banner.JSON())
		}
	})
}

func (l *xLogger) Debug(msg string, fields ...zap.Field) {
	l.logger.Load().Debug(msg, fields...)
}

func (l *xLogger) Info(msg string, fields ...zap.Field) {
	l.logger.Load().Info(msg, fields...)
}

func (l *xLogger) Warn(msg string, fields ...zap.Field) {
	l.logger.Load().Warn(msg, fields...)
}

func (l *xLogger) Error(err error, msg string, fields ...zap.Field) {
	newFields := make([]zap.Field, 0, len(fields)+1)
	if err != nil {
		newFields = append(newFields, zap.String("error", err.Error()))
	}
	newFields = append(newFields, fields...)
	l.logger.Load().Error(msg, newFields...)
}

func (l *xLogger) ErrorStack(err error, msg string, fields ...zap.Field) {
	newFields := make([]zap.Field, 0, len(fields)+1)
	var es *infra.ErrorStack
	if errors.As(err, &es) {
		newFields = append(newFields, zap.Inline(es))
	} else if err != nil {
		newFields = append(newFields, zap.String("error", err.Error()))
	}
	newFields = append(newFields, fields...)
	l.logger.Load().Error(msg, newFields...)
}

func (l *xLogger) DebugContext(ctx context.Context, msg string, fields ...zap.Field) {
	newFields := extractFieldsFromContext(ctx, l.ctxFields)
	newFields = append(newFields, fields...)
	l.logger.Load().Debug(msg, newFields...)
}

func (l *xLogger) InfoContext(ctx context.Context, msg string, fields ...zap.Field) {
	newFields := extractFieldsFromContext(ctx, l.ctxFields)
	newFields = append(newFields, fields...)
	l.logger.Load().Info(msg, newFields...)
}

func (l *xLogger) WarnContext(ctx context.Context, msg string, fields ...zap.Field) {
	newFields := extractFieldsFromContext(ctx, l.ctxFields)
	newFields = append(newFields, fields...)
	l.logger.Load().Warn(msg, newFields...)
}

func (l *xLogger) ErrorContext(ctx context.Context, err error, msg string, fields ...zap.Field) {
	newFields := extractFieldsFromContext(ctx, l.ctxFields)
	if err != nil {
		newFields = append(newFields, zap.String("error", err.Error()))
	}
	newFields = append(newFields, fields...)
	l.logger.Load().Error(msg, newFields...)
}

// Logf is low performance, prefer the structured methods.
func (l *xLogger) Logf(lvl zapcore.Level, format string, args ...any) {
	l.logger.Load().Log(lvl, fmt.Sprintf(format, args...))
}

type loggerCfg struct {
	ctxFields   map[string]string
	encoderType *logEncoderType
	lvlEncoder  zapcore.LevelEncoder
	tsEncoder   zapcore.TimeEncoder
	level       *zapcore.Level
	writers     []zapcore.WriteSyncer
	buffered    []bufferedWriter
}

type bufferedWriter struct {
	ws            zapcore.WriteSyncer
	size          int
	flushInterval time.Duration
}

func (cfg *loggerCfg) apply(l *xLogger) []xLogCore {
	if cfg.encoderType != nil {
		l.encoder = *cfg.encoderType
	} else {
		l.encoder = JSON
	}

	if cfg.level != nil {
		l.dynamicLevelEnabler = zap.NewAtomicLevelAt(*cfg.level)
	} else {
		l.dynamicLevelEnabler = zap.NewAtomicLevelAt(getLogLevelOrDefault(os.Getenv("XLOG_LVL")))
	}

	l.ctxFields = cfg.ctxFields

	if cfg.lvlEncoder == nil {
		cfg.lvlEncoder = zapcore.CapitalLevelEncoder
	}
	if cfg.tsEncoder == nil {
		cfg.tsEncoder = zapcore.ISO8601TimeEncoder
	}
	for _, bw := range cfg.buffered {
		buf := NewXLogBufferSyncer(bw.ws, bw.size, bw.flushInterval)
		l.buffers = append(l.buffers, buf)
		cfg.writers = append(cfg.writers, buf)
	}
	if len(cfg.writers) == 0 {
		cfg.writers = []zapcore.WriteSyncer{zapcore.Lock(os.Stdout)}
	}
	l.ws = cfg.writers[0]

	cores := make([]xLogCore, 0, len(cfg.writers))
	for _, ws := range cfg.writers {
		cores = append(cores, newConsoleCore(
			l.dynamicLevelEnabler,
			l.encoder,
			ws,
			cfg.lvlEncoder,
			cfg.tsEncoder,
		))
	}
	return cores
}

type XLoggerOption func(*loggerCfg) error

func NewXLogger(opts ...XLoggerOption) XLogger {
	cfg := &loggerCfg{}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(cfg); err != nil {
			panic(err)
		}
	}
	xl := &xLogger{}
	cores := cfg.apply(xl)

	// Disable zap logger error stack.
	l := zap.New(
		XLogTeeCore(cores...),
		zap.AddCallerSkip(1), // Use caller filename as service
		zap.AddCaller(),
	)
	xl.logger.Store(l)
	return xl
}

// WithXLoggerWriter appends an output. Every output owns a core,
// the stdout is used only if none is given.
func WithXLoggerWriter(ws zapcore.WriteSyncer) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if ws == nil {
			return infra.NewErrorStack("nil xlogger writer")
		}
		cfg.writers = append(cfg.writers, ws)
		return nil
	}
}

// WithXLoggerBufferedWriter appends an output behind an in-memory
// buffer. The entries reach ws on every flush interval, when the
// buffer is full, on Sync and on Close.
func WithXLoggerBufferedWriter(ws zapcore.WriteSyncer, size int, flushInterval time.Duration) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if ws == nil {
			return infra.NewErrorStack("nil xlogger buffered writer")
		}
		cfg.buffered = append(cfg.buffered, bufferedWriter{
			ws:            ws,
			size:          size,
			flushInterval: flushInterval,
		})
		return nil
	}
}

func WithXLoggerEncoder(logEnc logEncoderType) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if logEnc >= _encMax {
			return infra.NewErrorStack("unknown xlogger encoder")
		}
		cfg.encoderType = &logEnc
		return nil
	}
}

func WithXLoggerLevel(lvl logLevel) XLoggerOption {
	return func(cfg *loggerCfg) error {
		_lvl := lvl.zapLevel()
		cfg.level = &_lvl
		return nil
	}
}

func WithXLoggerLevelEncoder(lvlEnc zapcore.LevelEncoder) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if lvlEnc == nil {
			lvlEnc = zapcore.CapitalColorLevelEncoder
		}
		cfg.lvlEncoder = lvlEnc
		return nil
	}
}

func WithXLoggerTimeEncoder(tsEnc zapcore.TimeEncoder) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if tsEnc == nil {
			tsEnc = zapcore.ISO8601TimeEncoder
		}
		cfg.tsEncoder = tsEnc
		return nil
	}
}

// WithXLoggerContextFieldExtract registers a context key whose value
// is logged by the *Context methods. mapTo renames the field, "_"
// omits it when the context carries no value.
func WithXLoggerContextFieldExtract(field string, mapTo ...string) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if len(field) == 0 {
			return nil
		}
		if cfg.ctxFields == nil {
			cfg.ctxFields = make(map[string]string, 8)
		}
		if len(mapTo) == 0 || mapTo[0] == ContextKeyMapToItself {
			mapTo = []string{field}
		}
		cfg.ctxFields[field] = mapTo[0]
		return nil
	}
}

func getLogLevelOrDefault(level string) zapcore.Level {
	if len(strings.TrimSpace(level)) == 0 {
		return zapcore.DebugLevel
	}

	switch strings.ToUpper(strings.TrimSpace(level)) {
	case LogLevelInfo.String():
		return zapcore.InfoLevel
	case LogLevelWarn.String():
		return zapcore.WarnLevel
	case LogLevelError.String():
		return zapcore.ErrorLevel
	case LogLevelDebug.String():
		fallthrough
	default:
	}
	return zapcore.DebugLevel
}

func extractFieldsFromContext(ctx context.Context, targets map[string]string) []zap.Field {
	if ctx == nil || len(targets) == 0 {
		return []zap.Field{}
	}

	keys := make([]string, 0, len(targets))
	for key := range targets {
		keys = append(keys, key)
	}
	sort.StringSlice(keys).Sort()
	newFields := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		v := ctx.Value(key)
		name := targets[key]
		if name == ContextKeyMapToOmitempty {
			if v == nil {
				continue
			}
			name = key
		}
		if v == nil {
			newFields = append(newFields, zap.String(name, "nil"))
		} else {
			newFields = append(newFields, zap.Any(name, v))
		}
	}
	return newFields
}
