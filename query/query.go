package query

import "github.com/ncobase/esdsl/types"

// Params is a literal parameter map merged into a compiled primitive.
type Params = map[string]any

// DefaultScroll is the keep-alive used when a scroll id is set without one.
const DefaultScroll = "2m"

// Query is an ordered list of where clauses plus the post-filter list.
type Query struct {
	Wheres             []Clause
	PostWheres         []Clause
	MinimumShouldMatch any
}

// Empty reports whether the query has no where clauses.
func (q *Query) Empty() bool {
	return q == nil || len(q.Wheres) == 0
}

// Aggregation is one named aggregation node.
//
// Filter is set for a filter aggregation; Params is then ignored.
// Hits is set for a top_hits aggregation built from a sub request; the
// compiled body of Hits is used as its params.
type Aggregation struct {
	Alias    string
	Kind     string
	Params   Params
	Filter   *Query
	Hits     *Request
	Children []*Aggregation
}

// Collapse is the field collapse setting.
type Collapse struct {
	Field string
	Extra Params
}

// HighlightField is one highlighted field and its per-field params.
type HighlightField struct {
	Field  string
	Params Params
}

// Request is everything needed to compile one search body.
type Request struct {
	Index           string
	Fields          []string
	From            *int
	Size            *int
	Sort            []types.Criterion
	Collapse        *Collapse
	Highlight       []HighlightField
	HighlightConfig Params
	MinScore        any
	Scroll          string
	ScrollID        string
	Aggs            []*Aggregation
	Query           *Query
	Raw             map[string]any
}

// NewRequest returns an empty request for index.
func NewRequest(index string) *Request {
	return &Request{Index: index, Query: &Query{}}
}

// Scrolling reports whether the request continues an existing scroll.
func (r *Request) Scrolling() bool {
	return r.ScrollID != ""
}

// Clone returns a copy safe to modify at the top level. Clauses,
// aggregations and parameter maps are shared.
func (r *Request) Clone() *Request {
	c := *r
	if r.Query != nil {
		q := *r.Query
		c.Query = &q
	}
	c.Sort = append([]types.Criterion(nil), r.Sort...)
	c.Aggs = append([]*Aggregation(nil), r.Aggs...)
	c.Highlight = append([]HighlightField(nil), r.Highlight...)
	if r.Fields != nil {
		c.Fields = append([]string{}, r.Fields...)
	}
	return &c
}
