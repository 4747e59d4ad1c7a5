package compiler

import "github.com/ncobase/esdsl/query"

// CompileAggs compiles an aggregation list into {alias: {kind: params}}.
// Children are merged under "aggs"; a repeated alias overwrites the earlier
// one.
func CompileAggs(aggs []*query.Aggregation) map[string]any {
	out := make(map[string]any, len(aggs))
	for _, a := range aggs {
		if a == nil {
			continue
		}
		var params any
		switch {
		case a.Filter != nil:
			params = CompileQuery(a.Filter)
		case a.Hits != nil:
			params = DSL(a.Hits)
		case a.Params != nil:
			params = a.Params
		default:
			params = map[string]any{}
		}

		node := map[string]any{a.Kind: params}
		if len(a.Children) > 0 {
			node["aggs"] = CompileAggs(a.Children)
		}
		out[a.Alias] = node
	}
	return out
}
