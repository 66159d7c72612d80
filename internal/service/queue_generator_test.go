//go:build !integration

package service

import (
	"testing"

	"github.com/guttosm/truckload/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two materials, both stacking at 100; the second crates at 40.
var fixtureTable = model.MaterialTable{Stack: []int{100, 100}, Crate: []int{100, 40}}

var fixtureLimits = model.Limits{MaxOrder: 2, TruckCapacity: 3}

func fixtureCategories() []model.Category {
	return []model.Category{
		{
			Name:      "A",
			Size:      2,
			Items:     [][]string{{"a0"}, {"a1"}},
			Costs:     []int{100, 0, 0, 40},
			Materials: 2,
		},
		{
			Name:      "B",
			Size:      1,
			Items:     [][]string{{"b0"}},
			Costs:     []int{50, 40},
			Materials: 2,
		},
		{
			Name:      "C",
			Size:      2,
			Items:     [][]string{{"c0"}, {"c1"}},
			Costs:     []int{100, 0, 0, 100},
			Materials: 2,
		},
	}
}

func fixtureEvaluator(capacity int) *CostEvaluator {
	return NewCostEvaluator(fixtureTable, capacity)
}

func fixtureLists(t *testing.T) [][]model.Candidate {
	t.Helper()
	g := NewQueueGenerator(fixtureEvaluator(fixtureLimits.TruckCapacity), fixtureLimits)
	lists, err := g.GenerateAll("fixture", fixtureCategories(), nil)
	require.NoError(t, err)
	return lists
}

func orders(cands []model.Candidate) []model.OrderVector {
	out := make([]model.OrderVector, len(cands))
	for i, c := range cands {
		out[i] = c.Order
	}
	return out
}

func TestQueueGenerator_Generate(t *testing.T) {
	cat := fixtureCategories()[0]

	tests := []struct {
		name     string
		limits   model.Limits
		rng      model.OrderRange
		opts     []GenerateOption
		expected []model.OrderVector
	}{
		{
			name:   "full range in breadth-first order",
			limits: fixtureLimits,
			rng:    model.OrderRange{0, 1, 2},
			expected: []model.OrderVector{
				{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {2, 0},
			},
		},
		{
			name:     "non-contiguous range",
			limits:   fixtureLimits,
			rng:      model.OrderRange{0, 2},
			expected: []model.OrderVector{{0, 0}, {0, 2}, {2, 0}},
		},
		{
			name:     "range order is preserved",
			limits:   fixtureLimits,
			rng:      model.OrderRange{1, 0},
			expected: []model.OrderVector{{1, 1}, {1, 0}, {0, 1}, {0, 0}},
		},
		{
			name:     "item override",
			limits:   fixtureLimits,
			rng:      model.OrderRange{0, 1, 2},
			opts:     []GenerateOption{WithItemRange(1, model.OrderRange{1})},
			expected: []model.OrderVector{{0, 1}, {1, 1}},
		},
		{
			name:     "capacity limits item count and slots",
			limits:   model.Limits{MaxOrder: 2, TruckCapacity: 1},
			rng:      model.OrderRange{0, 1, 2},
			expected: []model.OrderVector{{0, 0}, {0, 1}, {1, 0}},
		},
		{
			name:   "candidate filter",
			limits: fixtureLimits,
			rng:    model.OrderRange{0, 1, 2},
			opts: []GenerateOption{WithCandidateFilter(func(c model.Candidate) bool {
				return c.Items == 2
			})},
			expected: []model.OrderVector{{0, 2}, {1, 1}, {2, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := fixtureEvaluator(tt.limits.TruckCapacity)
			g := NewQueueGenerator(eval, tt.limits)

			got, err := g.Generate(cat, tt.rng, tt.opts...)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, orders(got))
			for _, c := range got {
				assert.Len(t, c.Order, cat.Size)
				assert.Equal(t, cat.Cost(c.Order), c.Cost)
				assert.Equal(t, c.Order.Sum(), c.Items)
				assert.LessOrEqual(t, c.Items, tt.limits.MaxOrder)
				assert.True(t, eval.Affordable(c.Cost))
			}
		})
	}
}

func TestQueueGenerator_GenerateInvalidRange(t *testing.T) {
	g := NewQueueGenerator(fixtureEvaluator(3), fixtureLimits)
	cat := fixtureCategories()[0]

	tests := []struct {
		name string
		rng  model.OrderRange
		opts []GenerateOption
	}{
		{name: "empty", rng: model.OrderRange{}},
		{name: "above max order", rng: model.OrderRange{0, 3}},
		{name: "negative", rng: model.OrderRange{-1, 0}},
		{name: "repeated", rng: model.OrderRange{1, 1}},
		{name: "item outside category", rng: model.OrderRange{0, 1}, opts: []GenerateOption{WithItemRange(2, model.OrderRange{0})}},
		{name: "bad item range", rng: model.OrderRange{0, 1}, opts: []GenerateOption{WithItemRange(0, model.OrderRange{5})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Generate(cat, tt.rng, tt.opts...)
			assert.ErrorIs(t, err, ErrInvalidOrderRange)
		})
	}
}

func TestQueueGenerator_GenerateAll(t *testing.T) {
	lists := fixtureLists(t)

	require.Len(t, lists, 3)
	assert.Len(t, lists[0], 6)
	assert.Equal(t, []model.OrderVector{{0}, {1}, {2}}, orders(lists[1]))
	assert.Len(t, lists[2], 6)
	assert.Equal(t, model.CostVector{100, 80}, lists[1][2].Cost)
}

func TestQueueGenerator_GenerateAllWithPlans(t *testing.T) {
	g := NewQueueGenerator(fixtureEvaluator(3), fixtureLimits)
	plans := []CategoryPlan{
		{Range: model.OrderRange{0}},
		{},
		{ItemRanges: map[int]model.OrderRange{0: {2}}},
	}

	lists, err := g.GenerateAll("fixture", fixtureCategories(), plans)

	require.NoError(t, err)
	assert.Equal(t, []model.OrderVector{{0, 0}}, orders(lists[0]))
	assert.Len(t, lists[1], 3)
	assert.Equal(t, []model.OrderVector{{2, 0}}, orders(lists[2]))

	_, err = g.GenerateAll("fixture", fixtureCategories(), plans[:1])
	assert.ErrorIs(t, err, ErrInvalidOrderRange)
}

func TestQueueGenerator_GenerateAllUsesCache(t *testing.T) {
	c := NewQueueCache(16)
	g := NewQueueGenerator(fixtureEvaluator(3), fixtureLimits, WithQueueCache(c))

	first, err := g.GenerateAll("fixture", fixtureCategories(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), c.Metrics().Hits)
	assert.Equal(t, 3, c.Metrics().Size)

	second, err := g.GenerateAll("fixture", fixtureCategories(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.Metrics().Hits)
	assert.Equal(t, first, second)
}

func TestQueueGenerator_UnkeyedFiltersBypassCache(t *testing.T) {
	c := NewQueueCache(16)
	g := NewQueueGenerator(fixtureEvaluator(3), fixtureLimits, WithQueueCache(c))
	plans := []CategoryPlan{
		{Filters: []CandidateFilter{func(model.Candidate) bool { return true }}},
		{Filters: []CandidateFilter{func(model.Candidate) bool { return true }}, FilterKey: "all"},
		{},
	}

	_, err := g.GenerateAll("fixture", fixtureCategories(), plans)

	require.NoError(t, err)
	assert.Equal(t, 2, c.Metrics().Size)
}

func TestCategoryPlan_CacheKey(t *testing.T) {
	plan := CategoryPlan{
		ItemRanges: map[int]model.OrderRange{3: {1}, 0: {0, 2}},
		FilterKey:  "x",
	}

	key, ok := plan.cacheKey("warden", 2, model.OrderRange{0, 1})

	assert.True(t, ok)
	assert.Equal(t, "warden/2/0,1/i0=0,2/i3=1/f=x", key)
}
