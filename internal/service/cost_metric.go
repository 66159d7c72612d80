// Package service contains the search engine: queue generation, cost metrics and batch search.
package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/guttosm/truckload/internal/domain/model"
)

// ErrInvalidMetric is returned for an unparseable or out-of-range cost metric.
var ErrInvalidMetric = errors.New("invalid cost metric")

// MetricKind is one member of the closed cost-metric family.
type MetricKind int

const (
	MetricAffordable MetricKind = iota
	MetricNValid
	MetricStackable
	MetricCrateable
	MetricPerfectlyStackable
	MetricPerfectlyCrateable
)

var metricNames = map[MetricKind]string{
	MetricAffordable:         "Affordable",
	MetricNValid:             "NValid",
	MetricStackable:          "Stackable",
	MetricCrateable:          "Crateable",
	MetricPerfectlyStackable: "PerfectlyStackable",
	MetricPerfectlyCrateable: "PerfectlyCrateable",
}

// Parameterized reports whether the kind carries a target slot count.
func (k MetricKind) Parameterized() bool {
	return k == MetricNValid || k == MetricPerfectlyStackable || k == MetricPerfectlyCrateable
}

// CostMetric is a predicate over a cost vector. N is the target slot count
// for the parameterized kinds and ignored otherwise.
type CostMetric struct {
	Kind MetricKind
	N    int
}

func Affordable() CostMetric { return CostMetric{Kind: MetricAffordable} }

func NValid(n int) CostMetric { return CostMetric{Kind: MetricNValid, N: n} }

func Stackable() CostMetric { return CostMetric{Kind: MetricStackable} }

func Crateable() CostMetric { return CostMetric{Kind: MetricCrateable} }

func PerfectlyStackable(n int) CostMetric { return CostMetric{Kind: MetricPerfectlyStackable, N: n} }

func PerfectlyCrateable(n int) CostMetric { return CostMetric{Kind: MetricPerfectlyCrateable, N: n} }

// String renders the metric the way output file names expect, e.g. PerfectlyStackable(15).
func (m CostMetric) String() string {
	name, ok := metricNames[m.Kind]
	if !ok {
		return fmt.Sprintf("CostMetric(%d)", int(m.Kind))
	}
	if m.Kind.Parameterized() {
		return fmt.Sprintf("%s(%d)", name, m.N)
	}
	return name
}

// ParseCostMetric accepts "perfectly-stackable:15", "PerfectlyStackable(15)",
// "n-valid=12" and the bare names of the unparameterized kinds.
func ParseCostMetric(s string) (CostMetric, error) {
	raw := strings.TrimSpace(s)
	name, arg := raw, ""
	if i := strings.IndexAny(raw, ":=("); i >= 0 {
		name, arg = raw[:i], strings.TrimSuffix(raw[i+1:], ")")
	}
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))

	var kind MetricKind
	found := false
	for k, n := range metricNames {
		if strings.ToLower(n) == key {
			kind, found = k, true
			break
		}
	}
	if !found {
		return CostMetric{}, fmt.Errorf("%w: unknown metric %q", ErrInvalidMetric, s)
	}

	if !kind.Parameterized() {
		if arg != "" {
			return CostMetric{}, fmt.Errorf("%w: %s takes no slot count", ErrInvalidMetric, metricNames[kind])
		}
		return CostMetric{Kind: kind}, nil
	}
	if arg == "" {
		return CostMetric{}, fmt.Errorf("%w: %s requires a slot count", ErrInvalidMetric, metricNames[kind])
	}
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 0 {
		return CostMetric{}, fmt.Errorf("%w: bad slot count %q", ErrInvalidMetric, arg)
	}
	return CostMetric{Kind: kind, N: n}, nil
}

// CostEvaluator checks cost vectors against one material table and truck capacity.
// It is immutable and safe for concurrent use.
type CostEvaluator struct {
	stack    []int
	crate    []int
	capacity int
}

// NewCostEvaluator builds an evaluator. The table must already be validated.
func NewCostEvaluator(table model.MaterialTable, capacity int) *CostEvaluator {
	return &CostEvaluator{
		stack:    append([]int(nil), table.Stack...),
		crate:    append([]int(nil), table.Crate...),
		capacity: capacity,
	}
}

// Capacity returns the truck capacity in slots.
func (e *CostEvaluator) Capacity() int {
	return e.capacity
}

// Validate rejects unknown kinds and negative slot targets.
func (e *CostEvaluator) Validate(m CostMetric) error {
	if _, ok := metricNames[m.Kind]; !ok {
		return fmt.Errorf("%w: kind %d", ErrInvalidMetric, int(m.Kind))
	}
	if m.Kind.Parameterized() && m.N < 0 {
		return fmt.Errorf("%w: negative slot count %d", ErrInvalidMetric, m.N)
	}
	return nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// SlotCount returns the number of stacks needed to carry cost, rounding each material up.
func (e *CostEvaluator) SlotCount(cost model.CostVector) int {
	slots := 0
	for m, c := range cost {
		slots += ceilDiv(c, e.stack[m])
	}
	return slots
}

// Affordable reports whether cost fits in the truck.
func (e *CostEvaluator) Affordable(cost model.CostVector) bool {
	slots := 0
	for m, c := range cost {
		slots += ceilDiv(c, e.stack[m])
		if slots > e.capacity {
			return false
		}
	}
	return true
}

// AffordableSum reports whether a+b fits in the truck without materializing the sum.
func (e *CostEvaluator) AffordableSum(a, b model.CostVector) bool {
	slots := 0
	for m := range a {
		slots += ceilDiv(a[m]+b[m], e.stack[m])
		if slots > e.capacity {
			return false
		}
	}
	return true
}

// NValid reports whether cost needs exactly n slots.
func (e *CostEvaluator) NValid(cost model.CostVector, n int) bool {
	return e.SlotCount(cost) == n
}

// Stackable reports whether every material fills whole stacks.
func (e *CostEvaluator) Stackable(cost model.CostVector) bool {
	for m, c := range cost {
		if c%e.stack[m] != 0 {
			return false
		}
	}
	return true
}

// Crateable reports whether every material fills whole crates.
func (e *CostEvaluator) Crateable(cost model.CostVector) bool {
	for m, c := range cost {
		if c%e.crate[m] != 0 {
			return false
		}
	}
	return true
}

// PerfectlyStackable is Stackable and NValid(n) in one pass.
func (e *CostEvaluator) PerfectlyStackable(cost model.CostVector, n int) bool {
	slots := 0
	for m, c := range cost {
		if c%e.stack[m] != 0 {
			return false
		}
		slots += c / e.stack[m]
	}
	return slots == n
}

// PerfectlyCrateable is Crateable and NValid(n) in one pass. Divisibility is
// checked against crate values while slots are still counted in stacks.
func (e *CostEvaluator) PerfectlyCrateable(cost model.CostVector, n int) bool {
	slots := 0
	for m, c := range cost {
		if c%e.crate[m] != 0 {
			return false
		}
		slots += ceilDiv(c, e.stack[m])
	}
	return slots == n
}

// Satisfies dispatches to the predicate selected by metric.
func (e *CostEvaluator) Satisfies(metric CostMetric, cost model.CostVector) bool {
	switch metric.Kind {
	case MetricAffordable:
		return e.Affordable(cost)
	case MetricNValid:
		return e.NValid(cost, metric.N)
	case MetricStackable:
		return e.Stackable(cost)
	case MetricCrateable:
		return e.Crateable(cost)
	case MetricPerfectlyStackable:
		return e.PerfectlyStackable(cost, metric.N)
	case MetricPerfectlyCrateable:
		return e.PerfectlyCrateable(cost, metric.N)
	}
	return false
}
