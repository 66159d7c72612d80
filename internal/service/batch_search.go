package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/guttosm/truckload/internal/domain/model"
	"github.com/guttosm/truckload/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidBatchLength is returned for a target length outside [1, category count].
var ErrInvalidBatchLength = errors.New("invalid batch length")

// ctxCheckMask sets how often the traversal polls for cancellation.
const ctxCheckMask = 1<<12 - 1

// ResultSink receives qualifying batches, one call per result.
type ResultSink interface {
	Emit(result model.Result) error
}

// SinkFunc adapts a function to ResultSink.
type SinkFunc func(model.Result) error

// Emit calls f(result).
func (f SinkFunc) Emit(result model.Result) error {
	return f(result)
}

// SearchStats counts traversal work.
type SearchStats struct {
	// Expanded is the number of states popped from the stack.
	Expanded int64
	// Pruned is the number of extensions rejected as unaffordable or over capacity.
	Pruned int64
	// Emitted is the number of results handed to the sink.
	Emitted int64
}

func (s *SearchStats) add(o SearchStats) {
	s.Expanded += o.Expanded
	s.Pruned += o.Pruned
	s.Emitted += o.Emitted
}

// SearchOption configures a BatchSearcher.
type SearchOption func(*BatchSearcher)

// WithWorkers shards the first category's candidates across n goroutines.
// Values below 2 keep the search on the calling goroutine.
func WithWorkers(n int) SearchOption {
	return func(s *BatchSearcher) {
		s.workers = n
	}
}

// BatchSearcher assembles batches across categories with an explicit-stack DFS.
type BatchSearcher struct {
	eval    *CostEvaluator
	workers int
}

// NewBatchSearcher creates a searcher pruning against eval's truck capacity.
func NewBatchSearcher(eval *CostEvaluator, opts ...SearchOption) *BatchSearcher {
	s := &BatchSearcher{eval: eval, workers: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type searchMode int

const (
	modeBatches searchMode = iota
	modePrimeGroups
)

func (m searchMode) String() string {
	if m == modePrimeGroups {
		return "prime_groups"
	}
	return "batches"
}

// FindBatches emits every batch of the first n categories whose cost satisfies metric.
// With one worker, emission follows candidate generation order lexicographically.
func (s *BatchSearcher) FindBatches(ctx context.Context, lists [][]model.Candidate, n int, metric CostMetric, sink ResultSink) (SearchStats, error) {
	return s.search(ctx, modeBatches, lists, n, metric, sink)
}

// FindAllBatches is FindBatches over every category.
func (s *BatchSearcher) FindAllBatches(ctx context.Context, lists [][]model.Candidate, metric CostMetric, sink ResultSink) (SearchStats, error) {
	return s.search(ctx, modeBatches, lists, len(lists), metric, sink)
}

func (s *BatchSearcher) search(ctx context.Context, mode searchMode, lists [][]model.Candidate, n int, metric CostMetric, sink ResultSink) (SearchStats, error) {
	if n < 1 {
		return SearchStats{}, fmt.Errorf("%w: n must be >= 1, got %d", ErrInvalidBatchLength, n)
	}
	if len(lists) == 0 {
		return SearchStats{}, nil
	}
	if n > len(lists) {
		return SearchStats{}, fmt.Errorf("%w: n must be <= %d, got %d", ErrInvalidBatchLength, len(lists), n)
	}
	if err := s.eval.Validate(metric); err != nil {
		return SearchStats{}, err
	}

	start := time.Now()
	w := walker{
		mode:   mode,
		lists:  lists,
		n:      n,
		metric: metric,
		eval:   s.eval,
	}

	var (
		stats SearchStats
		err   error
	)
	if s.workers > 1 && len(lists[0]) > 1 {
		stats, err = s.parallel(ctx, w, sink)
	} else {
		w.sink = sink
		stats, err = w.walk(ctx, lists[0])
	}

	metrics.RecordSearch(mode.String(), stats.Expanded, stats.Pruned, stats.Emitted, time.Since(start))
	return stats, err
}

// parallel runs one DFS per root candidate on a bounded pool. Sink calls are
// serialized; results of one root keep their relative order.
func (s *BatchSearcher) parallel(ctx context.Context, w walker, sink ResultSink) (SearchStats, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	var (
		mu    sync.Mutex
		total SearchStats
	)
	w.sink = SinkFunc(func(r model.Result) error {
		mu.Lock()
		defer mu.Unlock()
		return sink.Emit(r)
	})

	roots := w.lists[0]
	for i := range roots {
		root := roots[i : i+1]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stats, err := w.walk(gctx, root)
			mu.Lock()
			total.add(stats)
			mu.Unlock()
			return err
		})
	}
	err := g.Wait()
	return total, err
}

type frame struct {
	batch  model.Batch
	cost   model.CostVector
	items  int
	groups int
}

type walker struct {
	mode   searchMode
	lists  [][]model.Candidate
	n      int
	metric CostMetric
	eval   *CostEvaluator
	sink   ResultSink
}

func nonTrivial(c model.Candidate) int {
	if c.Order.IsZero() {
		return 0
	}
	return 1
}

// walk runs the DFS from the given first-category candidates. Children are pushed
// in reverse so pops follow generation order.
func (w *walker) walk(ctx context.Context, roots []model.Candidate) (SearchStats, error) {
	var stats SearchStats
	capacity := w.eval.Capacity()

	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		c := roots[i]
		stack = append(stack, frame{
			batch:  model.Batch{c.Order},
			cost:   c.Cost,
			items:  c.Items,
			groups: nonTrivial(c),
		})
	}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		stats.Expanded++
		if stats.Expanded&ctxCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}

		if w.terminal(cur) {
			if w.eval.Satisfies(w.metric, cur.cost) {
				if err := w.emit(cur); err != nil {
					return stats, err
				}
				stats.Emitted++
			}
			continue
		}
		if w.mode == modePrimeGroups {
			if cur.groups == 0 {
				continue
			}
			if w.eval.Satisfies(w.metric, cur.cost) {
				if err := w.emit(cur); err != nil {
					return stats, err
				}
				stats.Emitted++
				continue
			}
			if cur.groups >= w.n {
				continue
			}
		}

		depth := len(cur.batch)
		if depth >= len(w.lists) {
			continue
		}
		next := w.lists[depth]
		for i := len(next) - 1; i >= 0; i-- {
			c := next[i]
			items := cur.items + c.Items
			if items > capacity || !w.eval.AffordableSum(cur.cost, c.Cost) {
				stats.Pruned++
				continue
			}
			batch := make(model.Batch, depth+1)
			copy(batch, cur.batch)
			batch[depth] = c.Order
			stack = append(stack, frame{
				batch:  batch,
				cost:   cur.cost.Add(c.Cost),
				items:  items,
				groups: cur.groups + nonTrivial(c),
			})
		}
	}
	return stats, nil
}

// terminal reports whether a batch-mode state reached the target length.
func (w *walker) terminal(f frame) bool {
	return w.mode == modeBatches && len(f.batch) == w.n
}

func (w *walker) emit(f frame) error {
	return w.sink.Emit(model.Result{
		Batch:  f.batch,
		Cost:   f.cost,
		Items:  f.items,
		Groups: f.groups,
		Slots:  w.eval.SlotCount(f.cost),
	})
}
