package search

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ncobase/esdsl/data/config"
	"github.com/ncobase/esdsl/ecode"
)

// TransportFactory creates a transport from the search configuration
type TransportFactory func(cfg *config.Search) (Transport, error)

var (
	// Registry of transport factories by engine type
	transportFactories = make(map[Engine]TransportFactory)
	factoryMu          sync.RWMutex
)

// RegisterTransportFactory registers a factory for creating transports.
// This is called by engine packages in their init() functions.
func RegisterTransportFactory(engine Engine, factory TransportFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	transportFactories[engine] = factory
}

// GetTransportFactory returns the factory for a given engine
func GetTransportFactory(engine Engine) (TransportFactory, error) {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	factory, ok := transportFactories[engine]
	if !ok {
		return nil, ecode.Missing(fmt.Sprintf("transport factory %q", engine))
	}
	return factory, nil
}

// GetRegisteredEngines returns the engines with a registered factory, sorted
func GetRegisteredEngines() []Engine {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	engines := make([]Engine, 0, len(transportFactories))
	for engine := range transportFactories {
		engines = append(engines, engine)
	}
	sort.Slice(engines, func(i, j int) bool { return engines[i] < engines[j] })
	return engines
}

// NewTransport builds the transport for cfg.DefaultEngine. When the breaker
// is enabled the transport is wrapped in one.
func NewTransport(cfg *config.Search) (Transport, error) {
	if cfg == nil {
		return nil, ecode.Missing("data.search")
	}
	factory, err := GetTransportFactory(Engine(cfg.DefaultEngine))
	if err != nil {
		return nil, err
	}
	t, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s transport: %w", cfg.DefaultEngine, err)
	}
	if cfg.Breaker != nil && cfg.Breaker.Enabled {
		t = NewBreaker(t, cfg.Breaker)
	}
	return t, nil
}
