package sorter

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xseq/lib/algo"
)

const (
	SorterStatsName = "xseq/sorter"
)

type sorterStats struct {
	strategy      attribute.Set
	comparisons   metric.Int64Counter
	elements      metric.Int64Counter
	jobDurations  metric.Int64Histogram
	jobFailed     metric.Int64Counter
	runningJobs   metric.Int64ObservableGauge
	runningJobsFn func() int
}

func (stats *sorterStats) RecordJob(comparisons, elements int64, durationMs int64) {
	if stats == nil {
		return
	}
	ctx := context.Background()
	stats.comparisons.Add(ctx, comparisons, metric.WithAttributeSet(stats.strategy))
	stats.elements.Add(ctx, elements, metric.WithAttributeSet(stats.strategy))
	stats.jobDurations.Record(ctx, durationMs, metric.WithAttributeSet(stats.strategy))
}

func (stats *sorterStats) IncreaseJobFailedCount() {
	if stats == nil {
		return
	}
	stats.jobFailed.Add(context.Background(), 1, metric.WithAttributeSet(stats.strategy))
}

func newSorterStats(mp metric.MeterProvider, name string, st Strategy, running func() int) *sorterStats {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(fmt.Sprintf("%s/%s", SorterStatsName, name))
	stats := &sorterStats{
		strategy:      attribute.NewSet(attribute.String("xseq.sorter.strategy", st.String())),
		runningJobsFn: running,
		comparisons: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xseq.sorter.comparisons",
			metric.WithDescription("The number of comparator invocations."),
		)),
		elements: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xseq.sorter.elements",
			metric.WithDescription("The number of sorted elements."),
		)),
		jobDurations: lo.Must[metric.Int64Histogram](meter.Int64Histogram(
			"xseq.sorter.job.duration",
			metric.WithDescription("The duration of a sort job. In milliseconds."),
			metric.WithUnit("ms"),
		)),
		jobFailed: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xseq.sorter.job.failed",
			metric.WithDescription("The number of failed sort jobs."),
		)),
	}
	stats.runningJobs = lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
		"xseq.sorter.pool.running",
		metric.WithDescription("The number of running workers of the sorter pool."),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			if stats.runningJobsFn != nil {
				ob.Observe(int64(stats.runningJobsFn()))
			}
			return nil
		}),
	))
	return stats
}

// countingComparator counts the invocations of cmp. The counter is
// job local, so it is recorded once when the job ends.
func countingComparator[E any](cmp algo.Comparator[E], counter *atomic.Int64) algo.Comparator[E] {
	return func(a, b E) bool {
		counter.Add(1)
		return cmp(a, b)
	}
}
