package sorter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xseq/lib/algo"
	"github.com/benz9527/xseq/lib/id"
	"github.com/benz9527/xseq/lib/infra"
	"github.com/benz9527/xseq/lib/seq"
	"github.com/benz9527/xseq/xlog"
)

var ErrSorterClosed = errors.New("[sorter] sorter has been shut down")

// BatchIDContextKey carries the batch id of a SortAll call in the
// context, register it by xlog.WithXLoggerContextFieldExtract.
const BatchIDContextKey = "xseq.sorter.batch"

// Sorter sorts many independent sequences concurrently. Every
// sequence is one job, a single sequence is never split.
type Sorter[E any] interface {
	Sort(ctx context.Context, s seq.Sequence[E]) (seq.Sequence[E], error)
	// SortAll keeps the positions of seqs in the result. A failed job
	// leaves a nil result and its error is combined into the returned one.
	SortAll(ctx context.Context, seqs []seq.Sequence[E]) ([]seq.Sequence[E], error)
	Strategy() Strategy
	Shutdown()
}

var _ Sorter[struct{}] = (*poolSorter[struct{}])(nil) // Type check assertion

type poolSorter[E any] struct {
	name     string
	cmp      algo.Comparator[E]
	strategy Strategy
	pool     *ants.Pool
	logger   xlog.XLogger
	stats    *sorterStats
	batchIDs id.Generator
	isClosed atomic.Bool
}

func NewSorter[E any](cmp algo.Comparator[E], opts ...SorterOption) (Sorter[E], error) {
	if cmp == nil {
		return nil, infra.NewErrorStack("[sorter] nil comparator")
	}
	opt := &sorterOption{
		name:     defaultSorterName,
		strategy: Insertion,
	}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(opt); err != nil {
			return nil, err
		}
	}

	logger := opt.getLogger()
	pool, err := ants.NewPool(
		opt.getPoolSize(),
		ants.WithPreAlloc(true),
		ants.WithLogger(xlog.NewAntsXLogger(logger)),
	)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[sorter] unable to create the worker pool")
	}
	ps := &poolSorter[E]{
		name:     opt.name,
		cmp:      cmp,
		strategy: opt.strategy,
		pool:     pool,
		logger:   logger,
		batchIDs: id.MonotonicNonZeroID(),
	}
	if opt.enableStats {
		ps.stats = newSorterStats(opt.meterProvider, opt.name, opt.strategy, pool.Running)
	}
	logger.Debug("sorter started",
		zap.String("name", ps.name),
		zap.String("strategy", ps.strategy.String()),
		zap.Int("poolSize", pool.Cap()),
	)
	return ps, nil
}

func (ps *poolSorter[E]) Strategy() Strategy {
	return ps.strategy
}

func (ps *poolSorter[E]) Sort(ctx context.Context, s seq.Sequence[E]) (seq.Sequence[E], error) {
	res, err := ps.SortAll(ctx, []seq.Sequence[E]{s})
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

func (ps *poolSorter[E]) SortAll(ctx context.Context, seqs []seq.Sequence[E]) ([]seq.Sequence[E], error) {
	if ps.isClosed.Load() {
		return nil, ErrSorterClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		batch   = ps.batchIDs.Number()
		results = make([]seq.Sequence[E], len(seqs))
		errs    = make([]error, len(seqs))
		wg      = sync.WaitGroup{}
	)
	ctx = context.WithValue(ctx, BatchIDContextKey, batch)

	for i := range seqs {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			break
		}
		idx := i
		wg.Add(1)
		err := ps.pool.Submit(func() {
			defer wg.Done()
			results[idx], errs[idx] = ps.run(ctx, batch, idx, seqs[idx])
		})
		if err != nil {
			wg.Done()
			if errors.Is(err, ants.ErrPoolClosed) {
				err = ErrSorterClosed
			}
			errs[idx] = err
			break
		}
	}
	wg.Wait()

	var merr error
	for i := range errs {
		merr = multierr.Append(merr, errs[i])
	}
	if merr != nil {
		ps.logger.WarnContext(ctx, "sort jobs failed",
			zap.String("name", ps.name),
			zap.Int("jobs", len(seqs)),
			zap.Int("failed", len(multierr.Errors(merr))),
		)
		return results, merr
	}
	ps.logger.DebugContext(ctx, "sort jobs done",
		zap.String("name", ps.name),
		zap.Int("jobs", len(seqs)),
	)
	return results, nil
}

func (ps *poolSorter[E]) run(ctx context.Context, batch uint64, idx int, s seq.Sequence[E]) (res seq.Sequence[E], err error) {
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	var (
		comparisons atomic.Int64
		cmp         = ps.cmp
		startedAt   = time.Now()
	)
	if ps.stats != nil {
		cmp = countingComparator(cmp, &comparisons)
	}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = infra.WrapErrorStackWithMessage(e, fmt.Sprintf("[sorter] job %d panic", idx))
			} else {
				err = infra.NewErrorStack(fmt.Sprintf("[sorter] job %d panic: %v", idx, r))
			}
			res = nil
			ps.stats.IncreaseJobFailedCount()
			ps.logger.ErrorStack(err, "sort job panic",
				zap.String("name", ps.name),
				zap.Uint64("batch", batch),
				zap.Int("job", idx),
			)
		}
	}()

	res = sortWith(ps.strategy, s, cmp)
	ps.stats.RecordJob(comparisons.Load(), int64(res.Len()), time.Since(startedAt).Milliseconds())
	return res, nil
}

func (ps *poolSorter[E]) Shutdown() {
	if !ps.isClosed.CompareAndSwap(false, true) {
		return
	}
	ps.pool.Release()
	ps.logger.Debug("sorter shutdown", zap.String("name", ps.name))
}
