// Package search runs compiled requests against a search engine.
//
// The compiler produces parameter maps; this package hands them to a
// Transport and reshapes what comes back. Engine packages register their
// transports at init time:
//
//	import (
//	    _ "github.com/ncobase/esdsl/data/elasticsearch"
//	    _ "github.com/ncobase/esdsl/data/opensearch"
//	)
//
// # Executor
//
// Executor wraps a Transport with index prefixing, logging, tracing, metrics
// and an optional response cache:
//
//	exec, err := search.NewExecutorFromConfig(cfg)
//	if err != nil {
//	    return err
//	}
//	page, err := exec.Paginate(ctx, req, 2, 20)
//
// Get, First and Paginate flatten every hit into one map: _index, _type
// (when the engine still reports one), _id and _score, then the _source
// fields, then highlight. Source fields overwrite metadata of the same name.
//
// A request carrying a scroll id is sent to the scroll endpoint instead of
// _search.
//
// # Breaker and cache
//
// With data.search.breaker.enabled the transport is wrapped in a gobreaker
// circuit breaker. Invalid arguments never trip it.
//
// With data.search.cache.enabled, search and count responses are cached in
// redis (or in process with driver "memory") under a digest of their
// compiled params. Scrolls are never cached.
package search
