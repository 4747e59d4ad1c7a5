package compiler

import (
	"strings"
	"sync"
	"testing"

	"github.com/ncobase/esdsl/query"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	and       = query.Flags{Combinator: query.And, Occur: query.Must}
	or        = query.Flags{Combinator: query.Or, Occur: query.Must}
	not       = query.Flags{Combinator: query.And, Negated: true, Occur: query.Must}
	filter    = query.Flags{Combinator: query.And, Occur: query.Filter}
	filterNot = query.Flags{Combinator: query.And, Negated: true, Occur: query.Filter}
)

type m = map[string]any

func term(f query.Flags, field string, v any) query.Basic {
	return query.Basic{Flags: f, Field: field, Operator: "=", Value: v}
}

func TestGroups(t *testing.T) {
	a, b, c := term(and, "a", 1), term(or, "b", 2), term(or, "c", 3)

	assert.Empty(t, Groups(nil))
	assert.Len(t, Groups([]query.Clause{a, term(and, "x", 0)}), 1)
	assert.Len(t, Groups([]query.Clause{a, b}), 2)
	assert.Len(t, Groups([]query.Clause{a, b, c}), 3)
	// an OR in first position does not open an empty group
	assert.Len(t, Groups([]query.Clause{b, a}), 1)
	assert.Len(t, Groups([]query.Clause{b, c}), 2)
}

func TestGroupsCountProperty(t *testing.T) {
	lists := [][]query.Clause{
		{term(and, "a", 1)},
		{term(or, "a", 1), term(or, "b", 1), term(and, "c", 1)},
		{term(and, "a", 1), term(and, "b", 1), term(or, "c", 1), term(and, "d", 1), term(or, "e", 1)},
	}
	for _, clauses := range lists {
		ors := 0
		for i, c := range clauses {
			if i > 0 && c.ClauseFlags().IsOr() {
				ors++
			}
		}
		groups := Groups(clauses)
		assert.Len(t, groups, ors+1)

		total := 0
		for _, g := range groups {
			require.NotEmpty(t, g)
			total += len(g)
		}
		assert.Equal(t, len(clauses), total)
	}
}

func TestCompileQueryScenarios(t *testing.T) {
	tests := []struct {
		name   string
		wheres []query.Clause
		want   m
	}{
		{
			name:   "conjunction",
			wheres: []query.Clause{term(and, "a", 1), term(and, "b", 2)},
			want:   m{"bool": m{"must": []any{m{"term": m{"a": 1}}, m{"term": m{"b": 2}}}}},
		},
		{
			name:   "disjunction",
			wheres: []query.Clause{term(and, "a", 1), term(or, "b", 2)},
			want:   m{"bool": m{"should": []any{m{"term": m{"a": 1}}, m{"term": m{"b": 2}}}}},
		},
		{
			name: "range",
			wheres: []query.Clause{query.Between{Flags: and, Field: "age", Bounds: []query.Bound{
				{Key: "gte", Value: 18}, {Key: "lte", Value: 30},
			}}},
			want: m{"range": m{"age": m{"gte": 18, "lte": 30}}},
		},
		{
			name:   "empty",
			wheres: nil,
			want:   m{},
		},
		{
			name:   "negated exists",
			wheres: []query.Clause{query.Exists{Flags: not, Field: "email"}},
			want:   m{"bool": m{"must_not": []any{m{"exists": m{"field": "email"}}}}},
		},
		{
			name: "negated group",
			wheres: []query.Clause{
				term(and, "c", 3),
				query.Group{Flags: not, Query: &query.Query{Wheres: []query.Clause{term(and, "a", 1), term(and, "b", 2)}}},
			},
			want: m{"bool": m{
				"must": []any{m{"term": m{"c": 3}}},
				"must_not": []any{m{"bool": m{"must": []any{
					m{"term": m{"a": 1}}, m{"term": m{"b": 2}},
				}}}},
			}},
		},
		{
			name: "negated nested",
			wheres: []query.Clause{
				query.Nested{Flags: not, Path: "pets", Query: &query.Query{Wheres: []query.Clause{term(and, "pets.kind", "cat")}}},
			},
			want: m{"bool": m{"must_not": []any{m{"nested": m{
				"path":  "pets",
				"query": m{"term": m{"pets.kind": "cat"}},
			}}}}},
		},
		{
			name:   "leading or joins the first group",
			wheres: []query.Clause{term(or, "a", 1), term(and, "b", 2)},
			want:   m{"bool": m{"must": []any{m{"term": m{"a": 1}}, m{"term": m{"b": 2}}}}},
		},
		{
			name:   "leading or then or",
			wheres: []query.Clause{term(or, "a", 1), term(or, "b", 2)},
			want:   m{"bool": m{"should": []any{m{"term": m{"a": 1}}, m{"term": m{"b": 2}}}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompileQuery(&query.Query{Wheres: tt.wheres})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSingleMustIsUnwrapped(t *testing.T) {
	got := CompileQuery(&query.Query{Wheres: []query.Clause{term(and, "a", 1)}})
	assert.Equal(t, m{"term": m{"a": 1}}, got)

	got = CompileQuery(&query.Query{Wheres: []query.Clause{term(and, "a", 1), term(filter, "b", 2)}})
	assert.Equal(t, m{"bool": m{
		"must":   []any{m{"term": m{"a": 1}}},
		"filter": []any{m{"term": m{"b": 2}}},
	}}, got)
}

func TestFilterNegatePlacement(t *testing.T) {
	got := CompileQuery(&query.Query{Wheres: []query.Clause{term(filterNot, "status", "deleted")}})
	assert.Equal(t, m{"bool": m{
		"filter": []any{m{"bool": m{"must_not": m{"term": m{"status": "deleted"}}}}},
	}}, got)
}

func TestGroupCompilesRecursively(t *testing.T) {
	inner := &query.Query{Wheres: []query.Clause{term(and, "a", 1), term(or, "b", 2)}}
	wheres := []query.Clause{
		term(and, "c", 3),
		query.Group{Flags: and, Query: inner},
	}
	got := CompileQuery(&query.Query{Wheres: wheres})
	assert.Equal(t, m{"bool": m{"must": []any{
		m{"term": m{"c": 3}},
		m{"bool": m{"should": []any{m{"term": m{"a": 1}}, m{"term": m{"b": 2}}}}},
	}}}, got)
}

func TestFilterNegatedGroupIsWrappedOnce(t *testing.T) {
	inner := &query.Query{Wheres: []query.Clause{term(and, "a", 1)}}
	got := CompileQuery(&query.Query{Wheres: []query.Clause{query.Group{Flags: filterNot, Query: inner}}})
	assert.Equal(t, m{"bool": m{
		"filter": []any{m{"bool": m{"must_not": m{"term": m{"a": 1}}}}},
	}}, got)
}

func TestFilterNegatedNestedNegatesOnce(t *testing.T) {
	inner := &query.Query{Wheres: []query.Clause{term(and, "pets.kind", "cat")}}
	got := CompileQuery(&query.Query{Wheres: []query.Clause{
		query.Nested{Flags: filterNot, Path: "pets", Query: inner, Extra: query.Params{"score_mode": "max"}},
	}})
	assert.Equal(t, m{"bool": m{
		"filter": []any{m{"bool": m{"must_not": m{"nested": m{
			"path":       "pets",
			"query":      m{"term": m{"pets.kind": "cat"}},
			"score_mode": "max",
		}}}}},
	}}, got)
}

func TestPrimitives(t *testing.T) {
	tests := []struct {
		name   string
		clause query.Clause
		want   m
	}{
		{
			"match phrase with extra",
			query.Match{Flags: and, Kind: query.MatchPhrase, Field: "title", Value: "go fast", Extra: query.Params{"slop": 2}},
			m{"match_phrase": m{"title": m{"query": "go fast", "slop": 2}}},
		},
		{
			"multi match",
			query.MultiMatch{Flags: and, Fields: []string{"title", "body"}, Value: "go"},
			m{"multi_match": m{"query": "go", "type": "best_fields", "fields": []string{"title", "body"}}},
		},
		{
			"positional range",
			query.Between{Flags: and, Field: "age", Bounds: []query.Bound{{Key: "0", Value: 10}, {Key: "1", Value: 20}}},
			m{"range": m{"age": m{"gte": 10, "lte": 20}}},
		},
		{
			"terms",
			query.In{Flags: and, Field: "id", Values: []any{1, 2}},
			m{"terms": m{"id": []any{1, 2}}},
		},
		{
			"fuzzy",
			query.Pattern{Flags: and, Kind: query.Fuzzy, Field: "name", Value: "jhon", Extra: query.Params{"fuzziness": "AUTO"}},
			m{"fuzzy": m{"name": m{"value": "jhon", "fuzziness": "AUTO"}}},
		},
		{
			"wildcard",
			query.Pattern{Flags: and, Kind: query.Wildcard, Field: "name", Value: "j*"},
			m{"wildcard": m{"name": m{"value": "j*"}}},
		},
		{
			"raw",
			query.Raw{Flags: and, Document: m{"match_all": m{}}},
			m{"match_all": m{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Primitive(tt.clause))
		})
	}
}

func TestMinimumShouldMatch(t *testing.T) {
	q := &query.Query{
		Wheres:             []query.Clause{term(and, "a", 1), term(or, "b", 2)},
		MinimumShouldMatch: 1,
	}
	assert.Equal(t, m{"bool": m{
		"should":               []any{m{"term": m{"a": 1}}, m{"term": m{"b": 2}}},
		"minimum_should_match": 1,
	}}, CompileQuery(q))

	single := &query.Query{Wheres: []query.Clause{term(and, "a", 1)}, MinimumShouldMatch: "50%"}
	assert.Equal(t, m{"bool": m{
		"must":                 []any{m{"term": m{"a": 1}}},
		"minimum_should_match": "50%",
	}}, CompileQuery(single))
}

func TestMinimumShouldMatchLeavesRawDocumentAlone(t *testing.T) {
	doc := m{"bool": m{"should": []any{m{"term": m{"a": 1}}}}}
	q := &query.Query{Wheres: []query.Clause{query.Raw{Flags: and, Document: doc}}, MinimumShouldMatch: 1}

	got := CompileQuery(q)
	assert.Equal(t, 1, got["bool"].(m)["minimum_should_match"])
	assert.NotContains(t, doc["bool"].(m), "minimum_should_match")
}

func TestPostFilter(t *testing.T) {
	q := &query.Query{
		Wheres:     []query.Clause{term(and, "a", 1)},
		PostWheres: []query.Clause{term(and, "color", "red")},
	}
	assert.Equal(t, m{"term": m{"color": "red"}}, CompilePostFilter(q))
}

func TestPostFilterGroupsIndependently(t *testing.T) {
	q := &query.Query{
		Wheres:     []query.Clause{term(and, "a", 1), term(and, "b", 2)},
		PostWheres: []query.Clause{term(and, "color", "red"), term(or, "color", "blue"), term(filter, "size", "m")},
	}
	assert.Equal(t, m{"bool": m{"should": []any{
		m{"term": m{"color": "red"}},
		m{"bool": m{
			"must":   []any{m{"term": m{"color": "blue"}}},
			"filter": []any{m{"term": m{"size": "m"}}},
		}},
	}}}, CompilePostFilter(q))
	assert.Equal(t, m{"bool": m{"must": []any{m{"term": m{"a": 1}}, m{"term": m{"b": 2}}}}}, CompileQuery(q))
}

func TestCompileAggs(t *testing.T) {
	aggs := []*query.Aggregation{
		{
			Alias:  "city_terms",
			Kind:   "terms",
			Params: query.Params{"field": "city"},
			Children: []*query.Aggregation{
				{Alias: "age_avg", Kind: "avg", Params: query.Params{"field": "age"}},
				{Alias: "age_avg", Kind: "max", Params: query.Params{"field": "age"}},
			},
		},
		{
			Alias:  "adults",
			Kind:   "filter",
			Filter: &query.Query{Wheres: []query.Clause{query.Between{Flags: and, Field: "age", Bounds: []query.Bound{{Key: "gte", Value: 18}}}}},
		},
	}
	assert.Equal(t, m{
		"city_terms": m{
			"terms": m{"field": "city"},
			"aggs":  m{"age_avg": m{"max": m{"field": "age"}}},
		},
		"adults": m{"filter": m{"range": m{"age": m{"gte": 18}}}},
	}, CompileAggs(aggs))
}

func TestCompileAggsTopHits(t *testing.T) {
	size := 1
	aggs := []*query.Aggregation{{Alias: "top_hits", Kind: "top_hits", Hits: &query.Request{Size: &size, Query: &query.Query{}}}}
	assert.Equal(t, m{"top_hits": m{"top_hits": Body{"size": 1}}}, CompileAggs(aggs))
}

func TestCompileBodyEmpty(t *testing.T) {
	body := CompileBody(query.NewRequest("users"))
	assert.Empty(t, body)

	out, err := Render(body, false)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestBodyKeyOrder(t *testing.T) {
	req, err := query.New("users").
		Highlight("bio", nil).
		Cardinality("team", nil).
		PostWhere("color", "=", "red").
		WhereEq("a", 1).
		OrderBy("age", "desc").
		Size(5).
		From(10).
		MinScore(1).
		Collapse("team", nil).
		Select("name").
		Build()
	require.NoError(t, err)

	out, err := Render(CompileBody(req), false)
	require.NoError(t, err)
	s := string(out)

	last := -1
	for _, k := range bodyKeys {
		i := strings.Index(s, `"`+k+`":`)
		require.GreaterOrEqual(t, i, 0, "missing key %s in %s", k, s)
		assert.Greater(t, i, last, "key %s out of order in %s", k, s)
		last = i
	}
}

func TestSortIsOrderedList(t *testing.T) {
	req, err := query.New().OrderBy("b", "asc").OrderBy("a", "desc").Build()
	require.NoError(t, err)
	assert.Equal(t, []any{m{"b": "asc"}, m{"a": "desc"}}, CompileBody(req)["sort"])
}

func TestHighlightMergesConfig(t *testing.T) {
	req, err := query.New().
		HighlightConfig(query.Params{"pre_tags": []string{"<b>"}}).
		Highlight("title", nil).
		Highlight("body", query.Params{"number_of_fragments": 3}).
		Build()
	require.NoError(t, err)
	assert.Equal(t, m{
		"pre_tags": []string{"<b>"},
		"fields": m{
			"title": m{},
			"body":  query.Params{"number_of_fragments": 3},
		},
	}, CompileBody(req)["highlight"])
}

func TestCompileIsIdempotent(t *testing.T) {
	req, err := query.New("users").
		WhereEq("a", 1).
		OrWhereGroup(func(q *query.Builder) { q.WhereEq("b", 2).FilterNot("c", "=", 3) }).
		GroupBy("city", nil).
		Build()
	require.NoError(t, err)

	first, err := Render(CompileBody(req), false)
	require.NoError(t, err)
	second, err := Render(CompileBody(req), false)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestConcurrentCompile(t *testing.T) {
	req, err := query.New().WhereEq("a", 1).OrWhere("b", ">", 2).Build()
	require.NoError(t, err)
	want := Default.Body(req)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, Default.Body(req))
		}()
	}
	wg.Wait()
}

func TestRequestParams(t *testing.T) {
	req, err := query.New("users").WhereEq("a", 1).Scroll("").Build()
	require.NoError(t, err)

	p := RequestParams(req)
	assert.Equal(t, "users", p.Index())
	assert.Equal(t, "2m", p.Scroll())
	assert.Equal(t, CompileBody(req), p.Body())

	req, err = query.New("users").ScrollID("abc").Build()
	require.NoError(t, err)
	assert.Equal(t, Params{"scroll": "2m", "scroll_id": "abc"}, RequestParams(req))
}

func TestRawBodyBypassesCompilation(t *testing.T) {
	req, err := query.New("users").WhereEq("a", 1).Raw(`{"query":{"match_all":{}}}`).Build()
	require.NoError(t, err)
	assert.Equal(t, m{"query": m{"match_all": m{}}}, SearchParams(req).Body())
}

func TestDocumentParams(t *testing.T) {
	req := query.NewRequest("users")
	doc := m{"name": "bob"}

	assert.Equal(t, Params{"index": "users", "body": doc}, IndexParams(req, doc, ""))
	assert.Equal(t, Params{"index": "users", "id": "1", "body": doc}, CreateParams(req, doc, "1"))
	assert.Equal(t, Params{"index": "users", "id": "1", "body": m{"doc": doc}}, UpdateParams(req, doc, "1"))
	assert.Equal(t, Params{"index": "users", "id": "1"}, DeleteParams(req, "1"))
}

func TestCountParamsKeepsOnlyQuery(t *testing.T) {
	req, err := query.New("users").WhereEq("a", 1).Size(5).OrderBy("a", "desc").Build()
	require.NoError(t, err)
	assert.Equal(t, Params{"index": "users", "body": m{"query": CompileQuery(req.Query)}}, CountParams(req))

	assert.Equal(t, Params{"index": "users"}, CountParams(query.NewRequest("users")))
}

func TestRenderDoesNotEscape(t *testing.T) {
	out, err := Render(m{"q": "<em>北京</em>"}, false)
	require.NoError(t, err)
	assert.Equal(t, `{"q":"<em>北京</em>"}`, string(out))
}

func TestGoldenBodies(t *testing.T) {
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))

	search, err := query.New("users").
		Select("name").
		Where("age", ">=", 18).
		OrWhereMatch("bio", "北京", "", nil).
		Size(10).
		OrderBy("age", "desc").
		Highlight("bio", nil).
		HighlightConfig(query.Params{"pre_tags": []string{"<em>"}}).
		Build()
	require.NoError(t, err)
	out, err := Render(CompileBody(search), true)
	require.NoError(t, err)
	g.Assert(t, "search_body", out)

	aggs, err := query.New("orders").
		FilterNot("status", "=", "cancelled").
		WhereNested("items", func(q *query.Builder) { q.WhereEq("items.sku", "A1") }, nil).
		GroupBy("city", nil, func(q *query.Builder) { q.Sum("amount", nil) }).
		Size(0).
		Build()
	require.NoError(t, err)
	out, err = Render(CompileBody(aggs), true)
	require.NoError(t, err)
	g.Assert(t, "aggs_body", out)
}
