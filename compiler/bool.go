package compiler

import "github.com/ncobase/esdsl/query"

// Groups splits clauses into AND groups. Every OR clause after the first
// position opens a new group; empty groups are dropped.
func Groups(clauses []query.Clause) [][]query.Clause {
	var groups [][]query.Clause
	start := 0
	for i, c := range clauses {
		if i == 0 || !c.ClauseFlags().IsOr() {
			continue
		}
		if i > start {
			groups = append(groups, clauses[start:i])
		}
		start = i
	}
	if start < len(clauses) {
		groups = append(groups, clauses[start:])
	}
	return groups
}

// CompileQuery compiles q.Wheres into a bool query. An empty query
// compiles to an empty object.
func CompileQuery(q *query.Query) map[string]any {
	if q == nil {
		return map[string]any{}
	}
	return compileClauses(q.Wheres, q.MinimumShouldMatch, false)
}

// CompilePostFilter compiles q.PostWheres with the same rules as
// CompileQuery.
func CompilePostFilter(q *query.Query) map[string]any {
	if q == nil {
		return map[string]any{}
	}
	return compileClauses(q.PostWheres, q.MinimumShouldMatch, false)
}

func compileClauses(clauses []query.Clause, msm any, negate bool) map[string]any {
	groups := Groups(clauses)

	var out map[string]any
	switch len(groups) {
	case 0:
		out = map[string]any{}
	case 1:
		out = assemble(groups[0])
	default:
		should := make([]any, 0, len(groups))
		for _, g := range groups {
			should = append(should, assemble(g))
		}
		out = map[string]any{"bool": map[string]any{"should": should}}
	}

	if msm != nil {
		out = withMinimumShouldMatch(out, msm)
	}
	if negate {
		out = map[string]any{"bool": map[string]any{"must_not": out}}
	}
	return out
}

// assemble routes each clause of one AND group into its bucket. A lone
// must entry is returned bare.
func assemble(group []query.Clause) map[string]any {
	var must, mustNot, filter []any
	for _, c := range group {
		f := c.ClauseFlags()
		p := Primitive(c)
		switch {
		case f.IsFilter():
			filter = append(filter, p)
		case f.Negated:
			mustNot = append(mustNot, p)
		default:
			must = append(must, p)
		}
	}

	if len(must) == 1 && len(mustNot) == 0 && len(filter) == 0 {
		return must[0].(map[string]any)
	}
	b := map[string]any{}
	if len(must) > 0 {
		b["must"] = must
	}
	if len(mustNot) > 0 {
		b["must_not"] = mustNot
	}
	if len(filter) > 0 {
		b["filter"] = filter
	}
	return map[string]any{"bool": b}
}

// withMinimumShouldMatch attaches msm to the top-level bool without
// touching maps the caller may own.
func withMinimumShouldMatch(q map[string]any, msm any) map[string]any {
	inner, ok := q["bool"].(map[string]any)
	if !ok {
		b := map[string]any{"minimum_should_match": msm}
		if len(q) > 0 {
			b["must"] = []any{q}
		}
		return map[string]any{"bool": b}
	}
	b := make(map[string]any, len(inner)+1)
	for k, v := range inner {
		b[k] = v
	}
	b["minimum_should_match"] = msm
	out := make(map[string]any, len(q))
	for k, v := range q {
		out[k] = v
	}
	out["bool"] = b
	return out
}
