// Package app provides service initialization.
package app

import (
	"github.com/guttosm/truckload/config"
	"github.com/guttosm/truckload/internal/itemset"
	"github.com/guttosm/truckload/internal/service"
	"github.com/guttosm/truckload/internal/service/cache"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Evaluator *service.CostEvaluator
	Generator *service.QueueGenerator
	Searcher  *service.BatchSearcher
	// Cache is nil when memoization is disabled.
	Cache cache.CacheWithMetrics
}

// InitializeServices initializes the search services for one item set.
func InitializeServices(set *itemset.ItemSet, cfg config.SearchConfig) *ServiceComponents {
	eval := service.NewCostEvaluator(set.Materials, set.Limits.TruckCapacity)

	var genOpts []service.GeneratorOption
	var queueCache cache.CacheWithMetrics
	if cfg.CacheSize > 0 {
		queueCache = service.NewQueueCache(cfg.CacheSize)
		genOpts = append(genOpts, service.WithQueueCache(queueCache))
	}

	return &ServiceComponents{
		Evaluator: eval,
		Generator: service.NewQueueGenerator(eval, set.Limits, genOpts...),
		Searcher:  service.NewBatchSearcher(eval, service.WithWorkers(cfg.Workers)),
		Cache:     queueCache,
	}
}
