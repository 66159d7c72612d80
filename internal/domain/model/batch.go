package model

import "slices"

// OrderVector holds the requested quantity of each item in one category.
type OrderVector []int

// Sum returns the total number of items ordered.
func (o OrderVector) Sum() int {
	total := 0
	for _, q := range o {
		total += q
	}
	return total
}

// IsZero reports whether nothing is ordered.
func (o OrderVector) IsZero() bool {
	for _, q := range o {
		if q != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether o and other order the same quantities.
func (o OrderVector) Equal(other OrderVector) bool {
	return slices.Equal(o, other)
}

// CostVector holds the amount of each material consumed.
type CostVector []int

// Add returns the element-wise sum of c and other as a new vector.
func (c CostVector) Add(other CostVector) CostVector {
	out := make(CostVector, len(c))
	for i := range c {
		out[i] = c[i] + other[i]
	}
	return out
}

// OrderRange is the discrete set of quantities allowed for a single item.
// It need not be contiguous.
type OrderRange []int

// DefaultOrderRange returns 0..maxOrder inclusive.
func DefaultOrderRange(maxOrder int) OrderRange {
	r := make(OrderRange, maxOrder+1)
	for i := range r {
		r[i] = i
	}
	return r
}

// Limits are the numeric caps shared by every category of an item set.
type Limits struct {
	// MaxOrder caps both a single item's quantity and a category's total.
	MaxOrder int
	// TruckCapacity caps the slot count and the aggregate item count of a batch.
	TruckCapacity int
}

// DefaultLimits returns the reference caps.
func DefaultLimits() Limits {
	return Limits{MaxOrder: 4, TruckCapacity: 15}
}

// Candidate is one admissible order vector of a category with its derived totals.
type Candidate struct {
	Order OrderVector
	Cost  CostVector
	Items int
}

// Batch is one order vector per category, in item-set category order.
type Batch []OrderVector

// NonTrivial returns the number of categories with a non-zero order.
func (b Batch) NonTrivial() int {
	n := 0
	for _, o := range b {
		if !o.IsZero() {
			n++
		}
	}
	return n
}

// Result is a qualifying batch handed to a result sink.
type Result struct {
	Batch Batch
	Cost  CostVector
	Items int
	// Groups is the number of non-trivial categories.
	Groups int
	// Slots is the truck slot count implied by Cost.
	Slots int
}

// Entry pairs a category index with its order vector.
type Entry struct {
	Category int
	Order    OrderVector
}

// Entries returns the (category, order) pairs of the batch in category order.
func (r Result) Entries() []Entry {
	entries := make([]Entry, len(r.Batch))
	for i, o := range r.Batch {
		entries[i] = Entry{Category: i, Order: o}
	}
	return entries
}
