package main

import (
	"context"
	"io"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xseq/observability"
	"github.com/benz9527/xseq/sorter"
	"github.com/benz9527/xseq/xlog"
)

const (
	consoleMetricsInterval = 10 * time.Second
	consoleMetricsTimeout  = time.Second
)

type xseqBanner struct{}

func (xseqBanner) JSON() string {
	return `{"app":"xseq","about":"sort and search over immutable sequences"}`
}

func (xseqBanner) PlainText() string {
	return "xseq :: sort and search over immutable sequences"
}

type streams struct {
	out io.Writer
	err io.Writer
}

func newLogger(opts *options, s *streams) xlog.XLogger {
	return xlog.NewXLogger(
		xlog.WithXLoggerBufferedWriter(zapcore.AddSync(s.err), 0, 0),
		xlog.WithXLoggerEncoder(xlog.PlainText),
		xlog.WithXLoggerLevel(xlog.ParseLogLevel(opts.logLevel)),
		xlog.WithXLoggerContextFieldExtract(sorter.BatchIDContextKey, "batch"),
	)
}

func printBanner(opts *options, logger xlog.XLogger) {
	if opts.banner {
		logger.Banner(xseqBanner{})
	}
}

func setMaxProcs(lc fx.Lifecycle, logger xlog.XLogger) error {
	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Logf(zapcore.DebugLevel, format, args...)
	}))
	if err != nil {
		return err
	}
	lc.Append(fx.StopHook(undo))
	return nil
}

func registerMetrics(lc fx.Lifecycle, opts *options, s *streams) error {
	exp, err := observability.ParseMetricsExporter(opts.metrics)
	if err != nil {
		return err
	}
	switch exp {
	case observability.ConsoleExporter:
		shutdown, err := observability.NewConsoleMetricsExporter(
			consoleMetricsInterval,
			consoleMetricsTimeout,
			stdoutmetric.WithWriter(s.err),
			stdoutmetric.WithPrettyPrint(),
		)
		if err != nil {
			return err
		}
		lc.Append(fx.StopHook(shutdown))
	case observability.PrometheusExporter:
		reg := promclient.NewRegistry()
		shutdown, err := observability.NewPrometheusMetricsExporter(reg)
		if err != nil {
			return err
		}
		lc.Append(fx.StopHook(func(ctx context.Context) error {
			return multierr.Append(
				observability.WritePrometheusText(s.err, reg),
				shutdown(ctx),
			)
		}))
	default:
		return nil
	}
	return observability.InitAppStats(otel.GetMeterProvider(), "xseq")
}

// run starts the application, sorts the jobs and stops it. The
// stop hooks run even if some jobs failed.
func run(ctx context.Context, opts *options, jobs []Job, out, errOut io.Writer) error {
	var (
		r      *runner
		logger xlog.XLogger
	)
	app := fx.New(
		fx.Supply(opts, &streams{out: out, err: errOut}),
		fx.Provide(newLogger, newRunner),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Populate(&logger),
		fx.Invoke(printBanner, setMaxProcs, registerMetrics),
		fx.Populate(&r),
	)
	// Syncing a terminal or a pipe may fail with EINVAL.
	defer func() {
		if logger != nil {
			_ = logger.Close()
		}
	}()
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	err := r.run(ctx, jobs)

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.StopTimeout())
	defer cancel()
	return multierr.Append(err, app.Stop(stopCtx))
}
