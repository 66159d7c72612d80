//go:build !integration

package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/guttosm/truckload/internal/domain/model"
	"github.com/guttosm/truckload/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func collect(results *[]model.Result) ResultSink {
	return SinkFunc(func(r model.Result) error {
		*results = append(*results, r)
		return nil
	})
}

// bruteForce enumerates the cartesian product of the first n lists in
// lexicographic order and keeps every batch that fits and satisfies metric.
func bruteForce(eval *CostEvaluator, lists [][]model.Candidate, n int, metric CostMetric) []model.Batch {
	var out []model.Batch
	var rec func(depth int, batch model.Batch, cost model.CostVector, items int)
	rec = func(depth int, batch model.Batch, cost model.CostVector, items int) {
		if depth == n {
			if items <= eval.Capacity() && eval.Affordable(cost) && eval.Satisfies(metric, cost) {
				out = append(out, append(model.Batch(nil), batch...))
			}
			return
		}
		for _, c := range lists[depth] {
			next := cost
			if next == nil {
				next = make(model.CostVector, len(c.Cost))
			}
			rec(depth+1, append(batch, c.Order), next.Add(c.Cost), items+c.Items)
		}
	}
	rec(0, nil, nil, 0)
	return out
}

func batchesOf(results []model.Result) []model.Batch {
	out := make([]model.Batch, len(results))
	for i, r := range results {
		out[i] = r.Batch
	}
	return out
}

func TestBatchSearcher_SingleCategoryMatchesList(t *testing.T) {
	lists := fixtureLists(t)
	s := NewBatchSearcher(fixtureEvaluator(fixtureLimits.TruckCapacity))

	var results []model.Result
	stats, err := s.FindBatches(context.Background(), lists, 1, Affordable(), collect(&results))

	require.NoError(t, err)
	require.Len(t, results, len(lists[0]))
	for i, r := range results {
		assert.Equal(t, model.Batch{lists[0][i].Order}, r.Batch)
		assert.Equal(t, lists[0][i].Cost, r.Cost)
	}
	assert.Equal(t, int64(len(lists[0])), stats.Emitted)
}

func TestBatchSearcher_MatchesBruteForce(t *testing.T) {
	lists := fixtureLists(t)
	eval := fixtureEvaluator(fixtureLimits.TruckCapacity)
	s := NewBatchSearcher(eval)

	metricsUnderTest := []CostMetric{
		Affordable(),
		NValid(2),
		NValid(3),
		Stackable(),
		Crateable(),
		PerfectlyStackable(2),
		PerfectlyCrateable(3),
	}

	for _, metric := range metricsUnderTest {
		for n := 1; n <= len(lists); n++ {
			t.Run(fmt.Sprintf("%s/n=%d", metric, n), func(t *testing.T) {
				var results []model.Result
				stats, err := s.FindBatches(context.Background(), lists, n, metric, collect(&results))

				require.NoError(t, err)
				assert.Equal(t, bruteForce(eval, lists, n, metric), batchesOf(results))
				assert.Equal(t, int64(len(results)), stats.Emitted)
				for _, r := range results {
					assert.Len(t, r.Batch, n)
					assert.LessOrEqual(t, r.Items, fixtureLimits.TruckCapacity)
					assert.LessOrEqual(t, r.Slots, fixtureLimits.TruckCapacity)
					assert.Equal(t, eval.SlotCount(r.Cost), r.Slots)
					assert.Equal(t, r.Batch.NonTrivial(), r.Groups)
					assert.True(t, eval.Satisfies(metric, r.Cost))
				}
			})
		}
	}
}

func TestBatchSearcher_FindAllBatchesRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 20; round++ {
		table := model.MaterialTable{Stack: []int{100, 100, 100}, Crate: []int{100, 50, 20}}
		limits := model.Limits{MaxOrder: 3, TruckCapacity: 4 + rng.Intn(3)}
		cats := make([]model.Category, 2+rng.Intn(3))
		for i := range cats {
			size := 1 + rng.Intn(2)
			costs := make([]int, size*3)
			for j := range costs {
				costs[j] = 10 * rng.Intn(16)
			}
			items := make([][]string, size)
			for j := range items {
				items[j] = []string{fmt.Sprintf("c%di%d", i, j)}
			}
			cats[i] = model.Category{Name: fmt.Sprintf("c%d", i), Size: size, Items: items, Costs: costs, Materials: 3}
		}

		eval := NewCostEvaluator(table, limits.TruckCapacity)
		lists, err := NewQueueGenerator(eval, limits).GenerateAll("random", cats, nil)
		require.NoError(t, err)

		metric := []CostMetric{Affordable(), NValid(limits.TruckCapacity), PerfectlyCrateable(limits.TruckCapacity)}[round%3]
		var results []model.Result
		_, err = NewBatchSearcher(eval).FindAllBatches(context.Background(), lists, metric, collect(&results))

		require.NoError(t, err)
		assert.Equal(t, bruteForce(eval, lists, len(lists), metric), batchesOf(results), "round %d", round)
	}
}

func TestBatchSearcher_InvalidLength(t *testing.T) {
	lists := fixtureLists(t)
	s := NewBatchSearcher(fixtureEvaluator(3))
	sink := &mocks.MockResultSink{}

	tests := []struct {
		name string
		n    int
	}{
		{name: "zero", n: 0},
		{name: "negative", n: -1},
		{name: "more than categories", n: len(lists) + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.FindBatches(context.Background(), lists, tt.n, Affordable(), sink)
			assert.ErrorIs(t, err, ErrInvalidBatchLength)

			_, err = s.FindPrimeGroups(context.Background(), lists, tt.n, Affordable(), sink)
			assert.ErrorIs(t, err, ErrInvalidBatchLength)
		})
	}
	sink.AssertNotCalled(t, "Emit", mock.Anything)
}

func TestBatchSearcher_EmptyLists(t *testing.T) {
	s := NewBatchSearcher(fixtureEvaluator(3))
	sink := &mocks.MockResultSink{}

	stats, err := s.FindAllBatches(context.Background(), nil, Affordable(), sink)
	require.NoError(t, err)
	assert.Equal(t, SearchStats{}, stats)

	stats, err = s.FindBatches(context.Background(), [][]model.Candidate{{}, {}}, 2, Affordable(), sink)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Emitted)

	sink.AssertNotCalled(t, "Emit", mock.Anything)
}

func TestBatchSearcher_InvalidMetric(t *testing.T) {
	s := NewBatchSearcher(fixtureEvaluator(3))

	_, err := s.FindAllBatches(context.Background(), fixtureLists(t), NValid(-2), &mocks.MockResultSink{})

	assert.ErrorIs(t, err, ErrInvalidMetric)
}

func TestBatchSearcher_SinkReceivesEveryResult(t *testing.T) {
	lists := fixtureLists(t)
	sink := &mocks.MockResultSink{}
	sink.On("Emit", mock.MatchedBy(func(r model.Result) bool {
		return len(r.Batch) == 2 && r.Slots == 3
	})).Return(nil)

	stats, err := NewBatchSearcher(fixtureEvaluator(3)).FindBatches(context.Background(), lists, 2, NValid(3), sink)

	require.NoError(t, err)
	assert.Positive(t, stats.Emitted)
	sink.AssertNumberOfCalls(t, "Emit", int(stats.Emitted))
}

func TestBatchSearcher_SinkErrorStopsSearch(t *testing.T) {
	errFull := errors.New("disk full")
	sink := &mocks.MockResultSink{}
	sink.On("Emit", mock.Anything).Return(errFull).Once()

	stats, err := NewBatchSearcher(fixtureEvaluator(3)).FindAllBatches(context.Background(), fixtureLists(t), Affordable(), sink)

	assert.ErrorIs(t, err, errFull)
	assert.Equal(t, int64(0), stats.Emitted)
	sink.AssertNumberOfCalls(t, "Emit", 1)
}

func TestBatchSearcher_ParallelMatchesSequential(t *testing.T) {
	lists := fixtureLists(t)
	eval := fixtureEvaluator(fixtureLimits.TruckCapacity)

	var sequential, parallel []model.Result
	seqStats, err := NewBatchSearcher(eval).FindAllBatches(context.Background(), lists, Affordable(), collect(&sequential))
	require.NoError(t, err)

	parStats, err := NewBatchSearcher(eval, WithWorkers(4)).FindAllBatches(context.Background(), lists, Affordable(), collect(&parallel))
	require.NoError(t, err)

	assert.ElementsMatch(t, batchesOf(sequential), batchesOf(parallel))
	assert.Equal(t, seqStats, parStats)
}

func TestBatchSearcher_ParallelHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &mocks.MockResultSink{}

	_, err := NewBatchSearcher(fixtureEvaluator(3), WithWorkers(2)).FindAllBatches(ctx, fixtureLists(t), Affordable(), sink)

	assert.ErrorIs(t, err, context.Canceled)
	sink.AssertNotCalled(t, "Emit", mock.Anything)
}

func TestBatchSearcher_PrunesOverCapacity(t *testing.T) {
	lists := fixtureLists(t)
	eval := fixtureEvaluator(fixtureLimits.TruckCapacity)

	var results []model.Result
	stats, err := NewBatchSearcher(eval).FindAllBatches(context.Background(), lists, Affordable(), collect(&results))

	require.NoError(t, err)
	assert.Positive(t, stats.Pruned)
	assert.Greater(t, stats.Expanded, stats.Emitted)
}
