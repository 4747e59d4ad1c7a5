// Package elasticsearch provides the Elasticsearch transport for
// esdsl/data/search.
//
// The transport uses go-elasticsearch/v8 (github.com/elastic/go-elasticsearch/v8)
// and its typed esapi requests. It registers itself automatically when
// imported:
//
//	import _ "github.com/ncobase/esdsl/data/elasticsearch"
//
// Example usage:
//
//	cfg := config.GetConfig(viper.GetViper())
//	cfg.DefaultEngine = "elasticsearch"
//
//	exec, err := search.NewExecutorFromConfig(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := exec.Get(ctx, req)
package elasticsearch

import (
	"github.com/ncobase/esdsl/data/config"
	"github.com/ncobase/esdsl/data/search"
	"github.com/ncobase/esdsl/ecode"
)

// init registers the Elasticsearch transport with the search package.
func init() {
	search.RegisterTransportFactory(search.Elasticsearch, func(cfg *config.Search) (search.Transport, error) {
		if cfg.Elasticsearch == nil {
			return nil, ecode.Missing("data.search.elasticsearch")
		}
		return New(cfg.Elasticsearch)
	})
}
