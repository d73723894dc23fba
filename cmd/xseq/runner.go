package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xseq/lib/seq"
	"github.com/benz9527/xseq/sorter"
	"github.com/benz9527/xseq/xlog"
)

type intSorter = sorter.Sorter[seq.Constant[int]]

// runner owns one sorter per strategy and order pair, the jobs
// sharing a pair are sorted by one SortAll call.
type runner struct {
	opts    *options
	out     io.Writer
	logger  xlog.XLogger
	sorters map[string]intSorter
}

func newRunner(lc fx.Lifecycle, opts *options, s *streams, logger xlog.XLogger) *runner {
	r := &runner{
		opts:    opts,
		out:     s.out,
		logger:  logger,
		sorters: make(map[string]intSorter, 4),
	}
	lc.Append(fx.StopHook(r.shutdown))
	return r
}

func (r *runner) sorterFor(strategy, order string) (intSorter, string, error) {
	if len(strings.TrimSpace(strategy)) == 0 {
		strategy = r.opts.strategy
	}
	if len(strings.TrimSpace(order)) == 0 {
		order = r.opts.order
	}
	st, err := sorter.ParseStrategy(strategy)
	if err != nil {
		return nil, "", err
	}
	cmp, err := comparatorOf(order)
	if err != nil {
		return nil, "", err
	}
	key := st.String() + "-" + strings.ToLower(strings.TrimSpace(order))
	if s, ok := r.sorters[key]; ok {
		return s, key, nil
	}

	sorterOpts := []sorter.SorterOption{
		sorter.WithSorterName(key),
		sorter.WithSorterStrategy(st),
		sorter.WithSorterLogger(r.logger),
		sorter.WithSorterPoolSize(r.opts.poolSize),
	}
	if r.opts.isMetricsEnabled() {
		sorterOpts = append(sorterOpts, sorter.WithSorterStats(nil))
	}
	s, err := sorter.NewSorter[seq.Constant[int]](cmp, sorterOpts...)
	if err != nil {
		return nil, "", err
	}
	r.sorters[key] = s
	return s, key, nil
}

type jobGroup struct {
	sorter  intSorter
	indices []int
	seqs    []seq.Sequence[seq.Constant[int]]
}

func (r *runner) run(ctx context.Context, jobs []Job) error {
	var (
		merr    error
		keys    = make([]string, 0, 4)
		groups  = make(map[string]*jobGroup, 4)
		results = make([]seq.Sequence[seq.Constant[int]], len(jobs))
	)
	for i, job := range jobs {
		s, key, err := r.sorterFor(job.Strategy, job.Order)
		if err != nil {
			merr = multierr.Append(merr, fmt.Errorf("job %s: %w", job.Name, err))
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &jobGroup{sorter: s}
			groups[key] = g
			keys = append(keys, key)
		}
		g.indices = append(g.indices, i)
		g.seqs = append(g.seqs, seq.ValueList(job.Values...))
	}

	for _, key := range keys {
		g := groups[key]
		res, err := g.sorter.SortAll(ctx, g.seqs)
		merr = multierr.Append(merr, err)
		for j := range res {
			results[g.indices[j]] = res[j]
		}
		r.logger.Debug("sorted job group",
			zap.String("group", key),
			zap.Int("jobs", len(g.seqs)),
		)
	}

	for i, job := range jobs {
		if results[i] == nil {
			_, _ = fmt.Fprintf(r.out, "%s: failed\n", job.Name)
			continue
		}
		_, _ = fmt.Fprintf(r.out, "%s: %s\n", job.Name, formatValues(results[i]))
	}
	return merr
}

func (r *runner) shutdown() {
	for key, s := range r.sorters {
		s.Shutdown()
		delete(r.sorters, key)
	}
}
