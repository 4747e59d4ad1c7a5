package search

import (
	"github.com/google/wire"
	"github.com/ncobase/esdsl/data/config"
	"github.com/ncobase/esdsl/data/metrics"
	"github.com/ncobase/esdsl/logging/logger"
)

// ProviderSet is the wire provider set for the execution layer
var ProviderSet = wire.NewSet(ProvideCollector, ProvideExecutor)

// ProvideCollector provides an in-memory metrics collector
func ProvideCollector() *metrics.SearchCollector {
	return metrics.NewSearchCollector()
}

// ProvideExecutor builds the configured executor reporting to collector
func ProvideExecutor(cfg *config.Search, collector *metrics.SearchCollector, l *logger.Logger) (*Executor, error) {
	return NewExecutorFromConfig(cfg, WithCollector(collector), WithLogger(l))
}
