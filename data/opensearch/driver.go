// Package opensearch provides the OpenSearch transport for esdsl/data/search.
//
// The transport uses opensearch-go (github.com/opensearch-project/opensearch-go/v4).
// Requests are built against the REST paths directly and sent through the
// client's Do, so responses come back as plain maps like the Elasticsearch
// transport. It registers itself automatically when imported:
//
//	import _ "github.com/ncobase/esdsl/data/opensearch"
//
// OpenSearch accepts the same bool query DSL as Elasticsearch, so the
// compiler output is sent unchanged.
package opensearch

import (
	"github.com/ncobase/esdsl/data/config"
	"github.com/ncobase/esdsl/data/search"
	"github.com/ncobase/esdsl/ecode"
)

// init registers the OpenSearch transport with the search package.
func init() {
	search.RegisterTransportFactory(search.OpenSearch, func(cfg *config.Search) (search.Transport, error) {
		if cfg.OpenSearch == nil {
			return nil, ecode.Missing("data.search.opensearch")
		}
		return New(cfg.OpenSearch)
	})
}
