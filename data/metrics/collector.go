package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Collector interface for search metrics
type Collector interface {
	SearchQuery(engine string, err error)
	SearchIndex(engine, operation string)
}

// NoOpCollector implements Collector with no-op methods
type NoOpCollector struct{}

func (NoOpCollector) SearchQuery(string, error)  {}
func (NoOpCollector) SearchIndex(string, string) {}

// engineStats holds the counters of one engine
type engineStats struct {
	queries atomic.Int64
	errors  atomic.Int64
	mu      sync.Mutex
	writes  map[string]int64
}

// SearchCollector counts engine calls in memory
type SearchCollector struct {
	mu        sync.RWMutex
	engines   map[string]*engineStats
	lastQuery atomic.Value // time.Time
	started   time.Time
}

// NewSearchCollector creates an empty collector
func NewSearchCollector() *SearchCollector {
	c := &SearchCollector{
		engines: make(map[string]*engineStats),
		started: time.Now(),
	}
	c.lastQuery.Store(time.Time{})
	return c
}

func (c *SearchCollector) engine(name string) *engineStats {
	c.mu.RLock()
	s, ok := c.engines[name]
	c.mu.RUnlock()
	if ok {
		return s
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok = c.engines[name]; ok {
		return s
	}
	s = &engineStats{writes: make(map[string]int64)}
	c.engines[name] = s
	return s
}

// SearchQuery records one engine call
func (c *SearchCollector) SearchQuery(engine string, err error) {
	s := c.engine(engine)
	s.queries.Add(1)
	if err != nil {
		s.errors.Add(1)
	}
	c.lastQuery.Store(time.Now())
}

// SearchIndex records one successful write operation
func (c *SearchCollector) SearchIndex(engine, operation string) {
	s := c.engine(engine)
	s.mu.Lock()
	s.writes[operation]++
	s.mu.Unlock()
}

// EngineStats is the snapshot of one engine's counters
type EngineStats struct {
	Queries int64            `json:"queries"`
	Errors  int64            `json:"errors"`
	Writes  map[string]int64 `json:"writes"`
}

// Stats is a point-in-time snapshot of the collector
type Stats struct {
	Engines   map[string]EngineStats `json:"engines"`
	LastQuery time.Time              `json:"last_query"`
	Uptime    time.Duration          `json:"uptime"`
}

// GetStats returns current statistics
func (c *SearchCollector) GetStats() Stats {
	c.mu.RLock()
	names := make([]string, 0, len(c.engines))
	for name := range c.engines {
		names = append(names, name)
	}
	c.mu.RUnlock()
	sort.Strings(names)

	out := Stats{
		Engines: make(map[string]EngineStats, len(names)),
		Uptime:  time.Since(c.started),
	}
	for _, name := range names {
		s := c.engine(name)
		s.mu.Lock()
		writes := make(map[string]int64, len(s.writes))
		for op, n := range s.writes {
			writes[op] = n
		}
		s.mu.Unlock()
		out.Engines[name] = EngineStats{
			Queries: s.queries.Load(),
			Errors:  s.errors.Load(),
			Writes:  writes,
		}
	}
	out.LastQuery, _ = c.lastQuery.Load().(time.Time)
	return out
}
