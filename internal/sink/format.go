// Package sink writes search results to files, JSON streams or memory.
package sink

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/guttosm/truckload/internal/domain/model"
	"github.com/guttosm/truckload/internal/itemset"
)

// Format selects how batches are rendered in text outputs.
type Format int

const (
	// Short renders "2A0 1B3" and relies on the legend file for names.
	Short Format = iota
	// Long renders category and item names inline.
	Long
)

// Suffix is the file name suffix for the format.
func (f Format) Suffix() string {
	if f == Long {
		return "long"
	}
	return "short"
}

// Label returns the legend label of item j in category i, e.g. "B3".
func Label(category, item int) string {
	return string(rune('A'+category)) + strconv.Itoa(item)
}

// FormatCost renders a cost vector as space-separated values.
func FormatCost(cost model.CostVector) string {
	return joinInts(cost, " ")
}

// FormatShort renders every non-zero item order as quantity plus label.
func FormatShort(batch model.Batch) string {
	var parts []string
	for i, order := range batch {
		for j, q := range order {
			if q != 0 {
				parts = append(parts, strconv.Itoa(q)+Label(i, j))
			}
		}
	}
	return strings.Join(parts, " ")
}

// FormatLong renders non-trivial categories with their item names,
// e.g. "SmallArms(2 x [Clancy-Raca M4], 1 x [.44])".
func FormatLong(set *itemset.ItemSet, batch model.Batch) string {
	var parts []string
	for i, order := range batch {
		if order.IsZero() {
			continue
		}
		cat := set.Categories[i]
		var items []string
		for j, q := range order {
			if q != 0 {
				items = append(items, fmt.Sprintf("%d x [%s]", q, strings.Join(cat.Items[j], ", ")))
			}
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", cat.Name, strings.Join(items, ", ")))
	}
	return strings.Join(parts, " ")
}

// FormatGroups renders a 0/1 flag per category marking non-trivial orders.
func FormatGroups(batch model.Batch, categories int) string {
	flags := make([]string, categories)
	for i := range flags {
		flags[i] = "0"
		if i < len(batch) && !batch[i].IsZero() {
			flags[i] = "1"
		}
	}
	return strings.Join(flags, " ")
}

// FormatBatch renders batch in the given format.
func FormatBatch(set *itemset.ItemSet, batch model.Batch, format Format) string {
	if format == Long {
		return FormatLong(set, batch)
	}
	return FormatShort(batch)
}

func joinInts[T ~[]int](v T, sep string) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, sep)
}
