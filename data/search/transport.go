package search

import (
	"context"

	"github.com/ncobase/esdsl/compiler"
	"github.com/ncobase/esdsl/data/metrics"
)

// Transport sends compiled parameter maps to one engine and returns the
// decoded response body. Implementations must be safe for concurrent use.
type Transport interface {
	Search(ctx context.Context, p compiler.Params) (map[string]any, error)
	Scroll(ctx context.Context, p compiler.Params) (map[string]any, error)
	Count(ctx context.Context, p compiler.Params) (map[string]any, error)
	Index(ctx context.Context, p compiler.Params) (map[string]any, error)
	Create(ctx context.Context, p compiler.Params) (map[string]any, error)
	Update(ctx context.Context, p compiler.Params) (map[string]any, error)
	Delete(ctx context.Context, p compiler.Params) (map[string]any, error)
	Ping(ctx context.Context) error
	Engine() Engine
}

// Collector receives one SearchQuery per engine call and one SearchIndex
// per successful write.
type Collector = metrics.Collector

// NoOpCollector discards metrics
type NoOpCollector = metrics.NoOpCollector
