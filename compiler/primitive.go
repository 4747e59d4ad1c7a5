package compiler

import (
	"fmt"
	"strconv"

	"github.com/ncobase/esdsl/query"
)

// Primitive compiles a single clause. A clause that is both filter and
// negated comes back wrapped in bool.must_not.
func Primitive(c query.Clause) map[string]any {
	f := c.ClauseFlags()
	negate := f.IsFilter() && f.Negated

	if g, ok := c.(query.Group); ok {
		if g.Query == nil {
			return compileClauses(nil, nil, negate)
		}
		return compileClauses(g.Query.Wheres, g.Query.MinimumShouldMatch, negate)
	}

	p := primitive(c)
	if negate {
		return map[string]any{"bool": map[string]any{"must_not": p}}
	}
	return p
}

func primitive(c query.Clause) map[string]any {
	switch v := c.(type) {
	case query.Basic:
		return map[string]any{"term": map[string]any{v.Field: v.Value}}
	case query.Match:
		return map[string]any{string(v.Kind): map[string]any{
			v.Field: merge(map[string]any{"query": v.Value}, v.Extra),
		}}
	case query.MultiMatch:
		typ := v.Type
		if typ == "" {
			typ = query.DefaultMultiMatchType
		}
		return map[string]any{"multi_match": merge(map[string]any{
			"query":  v.Value,
			"type":   typ,
			"fields": v.Fields,
		}, v.Extra)}
	case query.Between:
		return map[string]any{"range": map[string]any{v.Field: rangeBounds(v.Bounds)}}
	case query.In:
		return map[string]any{"terms": map[string]any{v.Field: v.Values}}
	case query.Exists:
		return map[string]any{"exists": map[string]any{"field": v.Field}}
	case query.Pattern:
		return map[string]any{string(v.Kind): map[string]any{
			v.Field: merge(map[string]any{"value": v.Value}, v.Extra),
		}}
	case query.Nested:
		var inner map[string]any
		if v.Query == nil {
			inner = map[string]any{}
		} else {
			inner = compileClauses(v.Query.Wheres, v.Query.MinimumShouldMatch, false)
		}
		return map[string]any{"nested": merge(map[string]any{
			"path":  v.Path,
			"query": inner,
		}, v.Extra)}
	case query.Raw:
		return v.Document
	}
	panic(fmt.Sprintf("compiler: unknown clause %T", c))
}

// rangeBounds maps positional bounds to gte (position 0) and lte (any
// other position); named bounds pass through.
func rangeBounds(bounds []query.Bound) map[string]any {
	out := make(map[string]any, len(bounds))
	for _, b := range bounds {
		if !b.Positional() {
			out[b.Key] = b.Value
			continue
		}
		if n, err := strconv.Atoi(b.Key); err == nil && n == 0 {
			out["gte"] = b.Value
		} else {
			out["lte"] = b.Value
		}
	}
	return out
}

// merge returns base overlaid with extra.
func merge(base, extra map[string]any) map[string]any {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
