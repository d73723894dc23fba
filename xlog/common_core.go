package xlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xseq/lib/infra"
)

var _ xLogCore = (*commonCore)(nil)

type commonCore struct {
	lvlEnabler zapcore.LevelEnabler
	lvlEnc     zapcore.LevelEncoder
	tsEnc      zapcore.TimeEncoder
	ws         zapcore.WriteSyncer
	enc        func(cfg zapcore.EncoderConfig) zapcore.Encoder
	core       zapcore.Core
}

func (cc *commonCore) timeEncoder() zapcore.TimeEncoder                            { return cc.tsEnc }
func (cc *commonCore) levelEncoder() zapcore.LevelEncoder                          { return cc.lvlEnc }
func (cc *commonCore) writeSyncer() zapcore.WriteSyncer                            { return cc.ws }
func (cc *commonCore) outEncoder() func(cfg zapcore.EncoderConfig) zapcore.Encoder { return cc.enc }
func (cc *commonCore) Enabled(lvl zapcore.Level) bool {
	return cc.lvlEnabler.Enabled(lvl)
}

func (cc *commonCore) With(fields []zap.Field) zapcore.Core {
	return cc.core.With(fields)
}

func (cc *commonCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if cc.Enabled(ent.Level) {
		return ce.AddCore(ent, cc)
	}
	return ce
}

func (cc *commonCore) Write(ent zapcore.Entry, fields []zap.Field) error {
	return cc.core.Write(ent, fields)
}

func (cc *commonCore) Sync() error {
	return cc.core.Sync()
}

// WrapCore rebuilds the core on the same writer and level with
// another encoder config.
func WrapCore(core xLogCore, cfg zapcore.EncoderConfig) (xLogCore, error) {
	if core == nil {
		return nil, infra.NewErrorStack("[XLogger] logger core is nil")
	}
	cfg.EncodeLevel = core.levelEncoder()
	cfg.EncodeTime = core.timeEncoder()

	cc := &commonCore{
		ws:  core.writeSyncer(),
		enc: core.outEncoder(),
		lvlEnabler: zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return core.Enabled(l)
		}),
		lvlEnc: core.levelEncoder(),
		tsEnc:  core.timeEncoder(),
	}
	cc.core = zapcore.NewCore(core.outEncoder()(cfg), core.writeSyncer(), cc.lvlEnabler)
	return cc, nil
}

var componentCoreEncoderCfg = zapcore.EncoderConfig{
	MessageKey:    "msg",
	LevelKey:      "lvl",
	TimeKey:       "ts",
	CallerKey:     coreKeyIgnored,
	EncodeCaller:  zapcore.ShortCallerEncoder,
	FunctionKey:   coreKeyIgnored,
	NameKey:       "component",
	EncodeName:    zapcore.FullNameEncoder,
	StacktraceKey: coreKeyIgnored,
}

// newComponentLogger derives a named logger sharing the outputs
// of logger, used by the third-party adapters.
func newComponentLogger(logger XLogger, name string) *xLogger {
	l := &xLogger{}
	l.logger.Store(logger.
		zap().
		Named(name).
		WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			if core == nil {
				panic("[XLogger] core is nil")
			}
			var (
				cc  zapcore.Core
				err error
			)
			switch c := core.(type) {
			case xLogMultiCore:
				cc, err = WrapCores(c, componentCoreEncoderCfg)
			case xLogCore:
				cc, err = WrapCore(c, componentCoreEncoderCfg)
			default:
				panic("[XLogger] core is not XLogCore")
			}
			if err != nil {
				panic(err)
			}
			return cc
		})),
	)
	return l
}
