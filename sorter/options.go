package sorter

import (
	"runtime"
	"strings"

	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xseq/lib/infra"
	"github.com/benz9527/xseq/xlog"
)

const (
	defaultSorterName   = "default"
	defaultMaxPoolSize  = 1024
	defaultMinPoolSize  = 1
	defaultWorkerFactor = 2
)

type sorterOption struct {
	name          string
	poolSize      int
	strategy      Strategy
	logger        xlog.XLogger
	meterProvider metric.MeterProvider
	enableStats   bool
}

func (opt *sorterOption) getPoolSize() int {
	if opt.poolSize < defaultMinPoolSize {
		return runtime.GOMAXPROCS(0) * defaultWorkerFactor
	}
	return opt.poolSize
}

func (opt *sorterOption) getLogger() xlog.XLogger {
	if opt.logger == nil {
		opt.logger = xlog.NewXLogger()
	}
	return opt.logger
}

type SorterOption func(opt *sorterOption) error

func WithSorterName(name string) SorterOption {
	return func(opt *sorterOption) error {
		if len(strings.TrimSpace(name)) == 0 {
			return infra.NewErrorStack("[sorter] blank sorter name")
		}
		opt.name = name
		return nil
	}
}

// WithSorterPoolSize sets the number of jobs running at the same
// time. A non-positive size means twice the GOMAXPROCS.
func WithSorterPoolSize(size int) SorterOption {
	return func(opt *sorterOption) error {
		if size > defaultMaxPoolSize {
			return infra.NewErrorStack("[sorter] pool size exceeds the limit")
		}
		opt.poolSize = size
		return nil
	}
}

func WithSorterStrategy(st Strategy) SorterOption {
	return func(opt *sorterOption) error {
		if st >= _strategyMax {
			return infra.NewErrorStack("[sorter] unknown strategy")
		}
		opt.strategy = st
		return nil
	}
}

func WithSorterLogger(logger xlog.XLogger) SorterOption {
	return func(opt *sorterOption) error {
		if logger == nil {
			return infra.NewErrorStack("[sorter] nil logger")
		}
		opt.logger = logger
		return nil
	}
}

// WithSorterStats enables the otel instruments. The global meter
// provider is used if mp is nil.
func WithSorterStats(mp metric.MeterProvider) SorterOption {
	return func(opt *sorterOption) error {
		opt.enableStats = true
		opt.meterProvider = mp
		return nil
	}
}
