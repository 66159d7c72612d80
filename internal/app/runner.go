package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/guttosm/truckload/internal/domain/dto"
	"github.com/guttosm/truckload/internal/domain/model"
	"github.com/guttosm/truckload/internal/metrics"
	"github.com/guttosm/truckload/internal/service"
	"github.com/guttosm/truckload/internal/sink"
	"github.com/guttosm/truckload/internal/solver"
	"github.com/guttosm/truckload/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Command names, also used as the search label of JSON records.
const (
	CommandBatches     = "batches"
	CommandPrimeGroups = "prime-groups"
	CommandSolve       = "solve"
	CommandQueues      = "queues"
	CommandLegend      = "legend"
)

type searchFunc func(ctx context.Context, lists [][]model.Candidate, n int, metric service.CostMetric, out service.ResultSink) (service.SearchStats, error)

// RunBatches runs the batch search over the first n categories. Zero means all.
func (a *App) RunBatches(ctx context.Context, n int) (dto.RunSummary, error) {
	n = a.batchLength(n)
	return a.runSearch(ctx, CommandBatches, n, a.services.Searcher.FindBatches, func(metric service.CostMetric) (sink.Sink, error) {
		return sink.NewFileSink(a.cfg.Output.Path, a.set, n, metric.String(), a.format())
	})
}

// RunPrimeGroups runs the prime-group search over the first n categories. Zero means all.
func (a *App) RunPrimeGroups(ctx context.Context, n int) (dto.RunSummary, error) {
	n = a.batchLength(n)
	return a.runSearch(ctx, CommandPrimeGroups, n, a.services.Searcher.FindPrimeGroups, func(service.CostMetric) (sink.Sink, error) {
		return sink.NewBucketSink(a.cfg.Output.Path, a.set, a.format()), nil
	})
}

func (a *App) batchLength(n int) int {
	if n == 0 {
		return a.set.Len()
	}
	return n
}

func (a *App) format() sink.Format {
	if a.cfg.Output.Long {
		return sink.Long
	}
	return sink.Short
}

func (a *App) runSearch(ctx context.Context, command string, n int, search searchFunc, primary func(service.CostMetric) (sink.Sink, error)) (summary dto.RunSummary, err error) {
	summary = dto.NewRunSummary(a.runID, command, a.set.Name)
	start := time.Now()
	defer func() { summary = a.finish(summary, start, err) }()

	metric, err := service.ParseCostMetric(a.cfg.Search.Metric)
	if err != nil {
		return summary, err
	}
	if err := a.services.Evaluator.Validate(metric); err != nil {
		return summary, err
	}
	summary.Metric = metric.String()
	if n < 1 || n > a.set.Len() {
		return summary, fmt.Errorf("%w: n must be in [1, %d], got %d", service.ErrInvalidBatchLength, a.set.Len(), n)
	}

	ctx, span := telemetry.Tracer().Start(ctx, command, trace.WithAttributes(
		attribute.String("run_id", a.runID),
		attribute.String("metric", summary.Metric),
		attribute.Int("n", n),
	))
	defer span.End()

	lists, err := a.generate(ctx)
	if err != nil {
		return summary, fail(span, err)
	}

	sinks, extra, err := a.openSinks(command, summary.Metric, func() (sink.Sink, error) { return primary(metric) })
	if err != nil {
		return summary, fail(span, err)
	}
	out := sink.Multi(sinks...)

	a.log.Info().Str("metric", summary.Metric).Int("n", n).Int("workers", a.cfg.Search.Workers).Msg("Search started")
	stats, err := search(ctx, lists, n, metric, out)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	summary.Emitted, summary.Expanded, summary.Pruned = stats.Emitted, stats.Expanded, stats.Pruned
	summary.Outputs = append(outputsOf(sinks), extra...)
	span.SetAttributes(attribute.Int64("emitted", stats.Emitted), attribute.Int64("expanded", stats.Expanded))
	if err != nil {
		return summary, fail(span, err)
	}
	return summary, nil
}

// generate builds the per-category candidate lists under the loaded options.
func (a *App) generate(ctx context.Context) ([][]model.Candidate, error) {
	_, span := telemetry.Tracer().Start(ctx, "generate_queues")
	defer span.End()

	start := time.Now()
	lists, err := a.services.Generator.GenerateAll(a.set.Name, a.set.Categories, a.plans())
	if err != nil {
		return nil, fail(span, err)
	}
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	span.SetAttributes(attribute.Int("categories", len(lists)), attribute.Int("candidates", total))

	event := a.log.Debug().Int("categories", len(lists)).Int("candidates", total).Dur("duration", time.Since(start))
	if a.services.Cache != nil {
		m := a.services.Cache.Metrics()
		event = event.Int64("cache_hits", m.Hits).Int64("cache_misses", m.Misses)
	}
	event.Msg("Queues generated")
	return lists, nil
}

// openSinks opens the configured outputs. primary may be nil when the command has no text output.
func (a *App) openSinks(search, metric string, primary func() (sink.Sink, error)) ([]sink.Sink, []string, error) {
	var sinks []sink.Sink
	var extra []string
	closeAll := func() {
		for _, s := range sinks {
			_ = s.Close()
		}
	}

	if a.cfg.Output.Enabled && primary != nil {
		s, err := primary()
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, s)
		if a.format() == sink.Short {
			path, err := sink.WriteLegendFile(a.cfg.Output.Path, a.set)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			extra = append(extra, path)
		}
	}

	if path := a.cfg.Output.JSONLines; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("create jsonl dir: %w", err)
		}
		f, err := os.Create(path)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("create %s: %w", path, err)
		}
		sinks = append(sinks, sink.NewJSONLinesSink(f, a.set, dto.BatchRecord{RunID: a.runID, Search: search, Metric: metric}))
		extra = append(extra, path)
	}
	return sinks, extra, nil
}

func outputsOf(sinks []sink.Sink) []string {
	var paths []string
	for _, s := range sinks {
		switch v := s.(type) {
		case *sink.FileSink:
			paths = append(paths, v.Path())
		case *sink.BucketSink:
			paths = append(paths, v.Paths()...)
		}
	}
	return paths
}

// RunSolve solves the integer program for one batch. Nil weights weigh every item equally.
func (a *App) RunSolve(ctx context.Context, weights [][]float64) (batch model.Batch, summary dto.RunSummary, err error) {
	summary = dto.NewRunSummary(a.runID, CommandSolve, a.set.Name)
	start := time.Now()
	defer func() { summary = a.finish(summary, start, err) }()

	ctx, span := telemetry.Tracer().Start(ctx, CommandSolve, trace.WithAttributes(
		attribute.String("run_id", a.runID),
		attribute.Int("node_limit", a.cfg.Solver.NodeLimit),
	))
	defer span.End()

	opts := []solver.SolveOption{
		solver.WithNodeLimit(a.cfg.Solver.NodeLimit),
		solver.WithTolerance(a.cfg.Solver.Tolerance),
	}
	if weights != nil {
		opts = append(opts, solver.WithWeights(weights))
	}
	batch, err = solver.SolveBatch(ctx, a.set, opts...)
	if err != nil {
		return nil, summary, fail(span, err)
	}

	result := a.result(batch)
	summary.Emitted = 1
	span.SetAttributes(attribute.Int("items", result.Items), attribute.Int("slots", result.Slots))

	sinks, extra, err := a.openSinks(CommandSolve, "", nil)
	if err != nil {
		return batch, summary, fail(span, err)
	}
	out := sink.Multi(sinks...)
	err = out.Emit(result)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	summary.Outputs = extra
	if err != nil {
		return batch, summary, fail(span, err)
	}
	return batch, summary, nil
}

// result derives the totals of a solved batch.
func (a *App) result(batch model.Batch) model.Result {
	cost := make(model.CostVector, a.set.Materials.Len())
	items := 0
	for i, order := range batch {
		cost = cost.Add(a.set.Categories[i].Cost(order))
		items += order.Sum()
	}
	return model.Result{
		Batch:  batch,
		Cost:   cost,
		Items:  items,
		Groups: batch.NonTrivial(),
		Slots:  a.services.Evaluator.SlotCount(cost),
	}
}

// RunQueues dumps the admissible queue vectors of one category.
func (a *App) RunQueues(ctx context.Context, category int) (summary dto.RunSummary, err error) {
	summary = dto.NewRunSummary(a.runID, CommandQueues, a.set.Name)
	start := time.Now()
	defer func() { summary = a.finish(summary, start, err) }()

	cat, err := a.set.Category(category)
	if err != nil {
		return summary, err
	}

	ctx, span := telemetry.Tracer().Start(ctx, CommandQueues, trace.WithAttributes(attribute.String("category", cat.Name)))
	defer span.End()

	lists, err := a.generate(ctx)
	if err != nil {
		return summary, fail(span, err)
	}
	path, err := sink.WriteQueuesFile(a.cfg.Output.Path, a.set, cat, lists[category])
	if err != nil {
		return summary, fail(span, err)
	}
	summary.Emitted = int64(len(lists[category]))
	summary.Outputs = []string{path}
	return summary, nil
}

// RunLegend writes the legend of the item set.
func (a *App) RunLegend(ctx context.Context) (summary dto.RunSummary, err error) {
	summary = dto.NewRunSummary(a.runID, CommandLegend, a.set.Name)
	start := time.Now()
	defer func() { summary = a.finish(summary, start, err) }()

	_, span := telemetry.Tracer().Start(ctx, CommandLegend)
	defer span.End()

	path, err := sink.WriteLegendFile(a.cfg.Output.Path, a.set)
	if err != nil {
		return summary, fail(span, err)
	}
	summary.Emitted = int64(a.set.ItemCount())
	summary.Outputs = []string{path}
	return summary, nil
}

// finish stamps duration and status, logs the outcome and dumps metrics.
func (a *App) finish(s dto.RunSummary, start time.Time, err error) dto.RunSummary {
	s.Duration = time.Since(start)
	switch {
	case err == nil:
	case errors.Is(err, solver.ErrInfeasible):
		s = s.WithError(err).WithStatus(dto.StatusInfeasible)
	default:
		s = s.WithError(err)
	}

	if path := a.cfg.Metrics.File; path != "" {
		if werr := metrics.WriteTextfile(path); werr != nil {
			a.log.Warn().Err(werr).Str("path", path).Msg("Failed to write metrics")
		}
	}

	event := a.log.Info()
	if err != nil {
		event = a.log.Error().Err(err)
	}
	event.Str("status", s.Status).
		Int64("emitted", s.Emitted).
		Int64("expanded", s.Expanded).
		Dur("duration", s.Duration).
		Msg("Run finished")
	return s
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
