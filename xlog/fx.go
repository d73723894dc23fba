package xlog

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var _ fxevent.Logger = (*FxXLogger)(nil)

type FxXLogger struct {
	logger XLogger
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		l.logger.Debug("on start hook executing",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			l.logger.Error(e.Err, "on start hook failed",
				zap.String("function", e.FunctionName),
				zap.String("caller", e.CallerName),
				zap.Duration("runtime", e.Runtime),
			)
			return
		}
		l.logger.Debug("on start hook executed",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
			zap.Duration("runtime", e.Runtime),
		)
	case *fxevent.OnStopExecuting:
		l.logger.Debug("on stop hook executing",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			l.logger.Error(e.Err, "on stop hook failed",
				zap.String("function", e.FunctionName),
				zap.String("caller", e.CallerName),
				zap.Duration("runtime", e.Runtime),
			)
			return
		}
		l.logger.Debug("on stop hook executed",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
			zap.Duration("runtime", e.Runtime),
		)
	case *fxevent.Supplied:
		if e.Err != nil {
			l.logger.Error(e.Err, "supply failed",
				zap.String("type", e.TypeName),
				zap.Strings("stacktrace", e.StackTrace),
			)
			return
		}
		l.logger.Debug("supplied",
			zap.String("type", e.TypeName),
			zap.String("module", e.ModuleName),
		)
	case *fxevent.Provided:
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug("provided",
				zap.Bool("private", e.Private),
				zap.String("type", rtype),
				zap.String("constructor", e.ConstructorName),
				zap.String("module", e.ModuleName),
			)
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "provide failed",
				zap.Strings("stacktrace", e.StackTrace),
			)
		}
	case *fxevent.Decorated:
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug("decorated",
				zap.String("type", rtype),
				zap.String("decorator", e.DecoratorName),
				zap.String("module", e.ModuleName),
			)
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "decorate failed",
				zap.Strings("stacktrace", e.StackTrace),
			)
		}
	case *fxevent.Invoking:
		l.logger.Debug("invoking",
			zap.String("function", e.FunctionName),
			zap.String("module", e.ModuleName),
		)
	case *fxevent.Invoked:
		if e.Err != nil {
			l.logger.Error(e.Err, "invoke failed",
				zap.String("function", e.FunctionName),
				zap.String("trace", e.Trace),
			)
		}
	case *fxevent.Stopping:
		l.logger.Info("stopping", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		if e.Err != nil {
			l.logger.Error(e.Err, "stop failed")
		}
	case *fxevent.RollingBack:
		l.logger.Warn("start failed, rolling back", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		if e.Err != nil {
			l.logger.Error(e.Err, "roll back failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error(e.Err, "start failed")
			return
		}
		l.logger.Debug("started")
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.logger.Error(e.Err, "custom logger initialization failed")
			return
		}
		l.logger.Debug("custom logger initialized", zap.String("constructor", e.ConstructorName))
	}
}

func NewFxXLogger(logger XLogger) *FxXLogger {
	return &FxXLogger{
		logger: newComponentLogger(logger, "fx"),
	}
}
