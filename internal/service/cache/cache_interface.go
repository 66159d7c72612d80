// Package cache defines the memo contract for generated candidate lists.
package cache

import "github.com/guttosm/truckload/internal/domain/model"

// Cache stores candidate lists keyed by a generation fingerprint.
// Stored slices are shared and must be treated as read-only.
type Cache interface {
	Get(key string) ([]model.Candidate, bool)
	Set(key string, value []model.Candidate)
	Invalidate(key string)
	Clear()
}

// Metrics provides cache performance metrics.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// CacheWithMetrics extends Cache with metrics reporting.
type CacheWithMetrics interface {
	Cache
	Metrics() Metrics
}
