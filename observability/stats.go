package observability

import (
	"context"
	"runtime"
	"strings"
	"sync"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// registered holds the meter providers already carrying the app stats.
var registered sync.Map

// InitAppStats registers the goroutine and GOMAXPROCS gauges and the
// runtime instrumentation into mp, the global provider if nil. It is
// a no-op for a provider registered before.
func InitAppStats(mp metric.MeterProvider, name string) error {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	if _, loaded := registered.LoadOrStore(mp, struct{}{}); loaded {
		return nil
	}
	if len(strings.TrimSpace(name)) == 0 {
		name = "default"
	}
	meter := mp.Meter(
		"xseq/app/"+name,
		metric.WithInstrumentationVersion(otelruntime.Version()),
	)
	lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
		"app.core.goroutines",
		metric.WithDescription(`The application goroutines' info.`),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(int64(runtime.NumGoroutine()))
			return nil
		}),
	))
	lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
		"app.core.processes",
		metric.WithDescription(`The application GOMAXPROCS.`),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(int64(runtime.GOMAXPROCS(0)))
			return nil
		}),
	))
	if err := otelruntime.Start(otelruntime.WithMeterProvider(mp)); err != nil {
		registered.Delete(mp)
		return err
	}
	return nil
}
