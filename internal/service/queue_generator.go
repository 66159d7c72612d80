package service

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/guttosm/truckload/internal/domain/model"
	"github.com/guttosm/truckload/internal/metrics"
	"github.com/guttosm/truckload/internal/service/cache"
)

// ErrInvalidOrderRange is returned when an order range is empty, repeats a
// value or leaves [0, MaxOrder].
var ErrInvalidOrderRange = errors.New("invalid order range")

// CandidateFilter keeps a generated candidate when it returns true.
type CandidateFilter func(model.Candidate) bool

// CategoryPlan describes how one category's candidate list is generated.
type CategoryPlan struct {
	// Range is the order range of every item without an override. Nil means 0..MaxOrder.
	Range model.OrderRange
	// ItemRanges overrides Range for individual items.
	ItemRanges map[int]model.OrderRange
	// Filters drop candidates after the affordability filter.
	Filters []CandidateFilter
	// FilterKey identifies Filters for memoization. A plan with filters and no key is never cached.
	FilterKey string
}

// Options converts the plan into generator options.
func (p CategoryPlan) Options() []GenerateOption {
	opts := make([]GenerateOption, 0, len(p.ItemRanges)+len(p.Filters))
	for item, r := range p.ItemRanges {
		opts = append(opts, WithItemRange(item, r))
	}
	for _, f := range p.Filters {
		opts = append(opts, WithCandidateFilter(f))
	}
	return opts
}

func (p CategoryPlan) cacheKey(set string, index int, rng model.OrderRange) (string, bool) {
	if len(p.Filters) > 0 && p.FilterKey == "" {
		return "", false
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%d/%s", set, index, joinInts(rng))
	items := make([]int, 0, len(p.ItemRanges))
	for item := range p.ItemRanges {
		items = append(items, item)
	}
	sort.Ints(items)
	for _, item := range items {
		fmt.Fprintf(&b, "/i%d=%s", item, joinInts(p.ItemRanges[item]))
	}
	if p.FilterKey != "" {
		b.WriteString("/f=")
		b.WriteString(p.FilterKey)
	}
	return b.String(), true
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// GenerateOption customizes a single Generate call.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	itemRanges map[int]model.OrderRange
	filters    []CandidateFilter
}

// WithItemRange restricts one item to the given values, overriding the category range.
func WithItemRange(item int, values model.OrderRange) GenerateOption {
	return func(c *generateConfig) {
		if c.itemRanges == nil {
			c.itemRanges = make(map[int]model.OrderRange)
		}
		c.itemRanges[item] = values
	}
}

// WithCandidateFilter adds a post-generation filter.
func WithCandidateFilter(f CandidateFilter) GenerateOption {
	return func(c *generateConfig) {
		c.filters = append(c.filters, f)
	}
}

// GeneratorOption configures a QueueGenerator.
type GeneratorOption func(*QueueGenerator)

// WithQueueCache memoizes GenerateAll results in c.
func WithQueueCache(c cache.Cache) GeneratorOption {
	return func(g *QueueGenerator) {
		g.cache = c
	}
}

// QueueGenerator enumerates the admissible order vectors of a category.
type QueueGenerator struct {
	eval   *CostEvaluator
	limits model.Limits
	cache  cache.Cache
}

// NewQueueGenerator creates a generator bound to one evaluator and set of limits.
func NewQueueGenerator(eval *CostEvaluator, limits model.Limits, opts ...GeneratorOption) *QueueGenerator {
	g := &QueueGenerator{eval: eval, limits: limits}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ValidateRange checks rng against the generator's MaxOrder.
func (g *QueueGenerator) ValidateRange(rng model.OrderRange) error {
	if len(rng) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidOrderRange)
	}
	seen := make(map[int]bool, len(rng))
	for _, v := range rng {
		if v < 0 || v > g.limits.MaxOrder {
			return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidOrderRange, v, g.limits.MaxOrder)
		}
		if seen[v] {
			return fmt.Errorf("%w: %d repeated", ErrInvalidOrderRange, v)
		}
		seen[v] = true
	}
	return nil
}

type prefix struct {
	values []int
	sum    int
}

// Generate returns every order vector of cat drawn from rng whose total stays
// within MaxOrder and whose cost is affordable, in breadth-first order.
func (g *QueueGenerator) Generate(cat model.Category, rng model.OrderRange, opts ...GenerateOption) ([]model.Candidate, error) {
	var cfg generateConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := g.ValidateRange(rng); err != nil {
		return nil, err
	}
	for item, r := range cfg.itemRanges {
		if item < 0 || item >= cat.Size {
			return nil, fmt.Errorf("%w: item %d not in category %s", ErrInvalidOrderRange, item, cat.Name)
		}
		if err := g.ValidateRange(r); err != nil {
			return nil, fmt.Errorf("item %d: %w", item, err)
		}
	}

	level := []prefix{{}}
	for depth := 0; depth < cat.Size; depth++ {
		values := rng
		if r, ok := cfg.itemRanges[depth]; ok {
			values = r
		}
		next := make([]prefix, 0, len(level)*len(values))
		for _, p := range level {
			for _, v := range values {
				if p.sum+v > g.limits.MaxOrder {
					continue
				}
				vals := make([]int, depth+1)
				copy(vals, p.values)
				vals[depth] = v
				next = append(next, prefix{values: vals, sum: p.sum + v})
			}
		}
		level = next
	}

	out := make([]model.Candidate, 0, len(level))
	for _, p := range level {
		c := model.Candidate{
			Order: model.OrderVector(p.values),
			Cost:  cat.Cost(p.values),
			Items: p.sum,
		}
		if c.Items > g.limits.TruckCapacity || !g.eval.Affordable(c.Cost) {
			continue
		}
		if !keep(c, cfg.filters) {
			continue
		}
		out = append(out, c)
	}
	return slices.Clip(out), nil
}

func keep(c model.Candidate, filters []CandidateFilter) bool {
	for _, f := range filters {
		if !f(c) {
			return false
		}
	}
	return true
}

// GenerateAll builds the ordered per-category candidate lists. A nil plans
// slice uses the default range for every category.
func (g *QueueGenerator) GenerateAll(setName string, cats []model.Category, plans []CategoryPlan) ([][]model.Candidate, error) {
	if plans != nil && len(plans) != len(cats) {
		return nil, fmt.Errorf("%w: %d plans for %d categories", ErrInvalidOrderRange, len(plans), len(cats))
	}
	lists := make([][]model.Candidate, len(cats))
	for i, cat := range cats {
		var plan CategoryPlan
		if plans != nil {
			plan = plans[i]
		}
		rng := plan.Range
		if rng == nil {
			rng = model.DefaultOrderRange(g.limits.MaxOrder)
		}

		key, cacheable := plan.cacheKey(setName, i, rng)
		if g.cache != nil && cacheable {
			if cached, ok := g.cache.Get(key); ok {
				lists[i] = cached
				continue
			}
		}

		list, err := g.Generate(cat, rng, plan.Options()...)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", cat.Name, err)
		}
		metrics.RecordCandidates(cat.Name, len(list))
		lists[i] = list

		if g.cache != nil && cacheable {
			g.cache.Set(key, list)
		}
	}
	return lists, nil
}
