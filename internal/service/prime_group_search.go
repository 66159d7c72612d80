package service

import (
	"context"

	"github.com/guttosm/truckload/internal/domain/model"
)

// FindPrimeGroups tracks how many categories contribute a non-zero order.
// Along every branch it emits the shortest prefix that has at least one
// non-trivial category and satisfies metric, then stops extending that branch.
// A branch holding n non-trivial categories without qualifying is dropped,
// and so is any prefix with no non-trivial category: every emitted group
// starts with a non-zero order in the first category.
// Each result carries Groups and Slots for bucketing.
func (s *BatchSearcher) FindPrimeGroups(ctx context.Context, lists [][]model.Candidate, n int, metric CostMetric, sink ResultSink) (SearchStats, error) {
	return s.search(ctx, modePrimeGroups, lists, n, metric, sink)
}

// FindAllPrimeGroups is FindPrimeGroups bounded by the category count.
func (s *BatchSearcher) FindAllPrimeGroups(ctx context.Context, lists [][]model.Candidate, metric CostMetric, sink ResultSink) (SearchStats, error) {
	return s.search(ctx, modePrimeGroups, lists, len(lists), metric, sink)
}
