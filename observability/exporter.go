package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/benz9527/xseq/lib/infra"
)

type MetricsExporter string

const (
	NoneExporter       MetricsExporter = "none"
	ConsoleExporter    MetricsExporter = "console"
	PrometheusExporter MetricsExporter = "prometheus"
)

func ParseMetricsExporter(name string) (MetricsExporter, error) {
	switch exp := MetricsExporter(strings.ToLower(strings.TrimSpace(name))); exp {
	case "":
		return NoneExporter, nil
	case NoneExporter, ConsoleExporter, PrometheusExporter:
		return exp, nil
	default:
	}
	return NoneExporter, infra.NewErrorStack(fmt.Sprintf("[observability] unknown metrics exporter %q", name))
}

// NewConsoleMetricsExporter serves for test/dev environment. The
// last collection is exported by the returned shutdown callback.
func NewConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (func(ctx context.Context) error, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// NewPrometheusMetricsExporter registers the otel instruments into reg,
// which is scraped by HTTP or dumped by WritePrometheusText.
func NewPrometheusMetricsExporter(reg promclient.Registerer) (func(ctx context.Context) error, error) {
	if reg == nil {
		reg = promclient.DefaultRegisterer
	}
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// WritePrometheusText dumps the gathered families in the text
// exposition format.
func WritePrometheusText(w io.Writer, g promclient.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return infra.WrapErrorStack(err)
	}
	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(w, mf); err != nil {
			return infra.WrapErrorStack(err)
		}
	}
	return nil
}
