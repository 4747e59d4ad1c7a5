package query

import (
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/ncobase/esdsl/ecode"
	"github.com/ncobase/esdsl/types"
)

// requestDoc is the document form of a Request.
type requestDoc struct {
	Index              string         `mapstructure:"index"`
	Select             []string       `mapstructure:"select"`
	From               *int           `mapstructure:"from"`
	Size               *int           `mapstructure:"size"`
	Sort               []any          `mapstructure:"sort"`
	Collapse           any            `mapstructure:"collapse"`
	Highlight          any            `mapstructure:"highlight"`
	HighlightConfig    map[string]any `mapstructure:"highlight_config"`
	MinimumShouldMatch any            `mapstructure:"minimum_should_match"`
	MinScore           any            `mapstructure:"min_score"`
	Scroll             string         `mapstructure:"scroll"`
	ScrollID           string         `mapstructure:"scroll_id"`
	Raw                any            `mapstructure:"raw"`
	Where              []any          `mapstructure:"where"`
	PostWhere          []any          `mapstructure:"post_where"`
	Aggs               []any          `mapstructure:"aggs"`
}

// clauseDoc is the object form of one where entry.
type clauseDoc struct {
	Type               string         `mapstructure:"type"`
	Field              string         `mapstructure:"field"`
	Operator           string         `mapstructure:"operator"`
	Value              any            `mapstructure:"value"`
	Values             any            `mapstructure:"values"`
	Fields             []string       `mapstructure:"fields"`
	Kind               string         `mapstructure:"kind"`
	Bounds             any            `mapstructure:"bounds"`
	Path               string         `mapstructure:"path"`
	Where              []any          `mapstructure:"where"`
	MinimumShouldMatch any            `mapstructure:"minimum_should_match"`
	Query              any            `mapstructure:"query"`
	Extra              map[string]any `mapstructure:"extra"`
	Boolean            string         `mapstructure:"boolean"`
	Not                bool           `mapstructure:"not"`
	Filter             bool           `mapstructure:"filter"`
}

// aggDoc is the document form of one aggregation.
type aggDoc struct {
	Alias  string         `mapstructure:"alias"`
	Type   string         `mapstructure:"type"`
	Params map[string]any `mapstructure:"params"`
	Where  []any          `mapstructure:"where"`
	Hits   map[string]any `mapstructure:"hits"`
	Aggs   []any          `mapstructure:"aggs"`
}

func decodeInto(field string, input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return &ecode.Error{Kind: ecode.InvalidArgument, Field: field, Message: ecode.FieldIsInvalid("document"), Err: err}
	}
	return nil
}

// Decode builds a Request from its document form, as read from JSON or
// YAML:
//
//	{
//	  "index": "users",
//	  "select": ["name"],
//	  "size": 10,
//	  "sort": [{"age": "desc"}],
//	  "where": [
//	    ["age", ">=", 18],
//	    {"type": "match", "field": "bio", "value": "go", "boolean": "or"},
//	    {"type": "group", "filter": true, "where": [["tags", ["a", "b"]]]}
//	  ],
//	  "aggs": [{"alias": "by_city", "type": "terms", "params": {"field": "city"}}]
//	}
func Decode(doc map[string]any) (*Request, error) {
	var d requestDoc
	if err := decodeInto("request", doc, &d); err != nil {
		return nil, err
	}
	b := New(d.Index)
	b.apply(&d)
	return b.Build()
}

func (b *Builder) apply(d *requestDoc) {
	if d.Select != nil {
		b.Select(d.Select...)
	}
	if d.From != nil {
		b.From(*d.From)
	}
	if d.Size != nil {
		b.Size(*d.Size)
	}
	for _, s := range d.Sort {
		b.decodeSort(s)
	}
	if d.Collapse != nil {
		b.decodeCollapse(d.Collapse)
	}
	if d.Highlight != nil {
		b.decodeHighlight(d.Highlight)
	}
	if d.HighlightConfig != nil {
		b.HighlightConfig(d.HighlightConfig)
	}
	if d.MinimumShouldMatch != nil {
		b.MinimumShouldMatch(d.MinimumShouldMatch)
	}
	if d.MinScore != nil {
		b.MinScore(d.MinScore)
	}
	if d.Scroll != "" {
		b.Scroll(d.Scroll)
	}
	if d.ScrollID != "" {
		b.ScrollID(d.ScrollID)
	}
	if d.Raw != nil {
		b.Raw(d.Raw)
	}
	b.decodeWheres(d.Where)
	if len(d.PostWhere) > 0 {
		where := d.PostWhere
		b.PostFilter(func(q *Builder) { q.decodeWheres(where) })
	}
	for _, a := range d.Aggs {
		b.decodeAgg(a)
	}
}

// decodeSort accepts "field", {"field": "desc"} or
// {"field": "age", "order": "desc"}.
func (b *Builder) decodeSort(v any) {
	switch s := v.(type) {
	case string:
		b.OrderBy(s, "")
	case map[string]any:
		if f, ok := s["field"].(string); ok {
			b.OrderBy(f, types.ToString(s["order"]))
			return
		}
		if len(s) != 1 {
			b.fail(ecode.Invalid("sort", "expected a single field per entry"))
			return
		}
		for f, dir := range s {
			b.OrderBy(f, types.ToString(dir))
		}
	default:
		b.fail(ecode.Invalidf("sort", "unexpected entry %T", v))
	}
}

func (b *Builder) decodeCollapse(v any) {
	switch c := v.(type) {
	case string:
		b.Collapse(c, nil)
	case map[string]any:
		extra := Params{}
		for k, val := range c {
			if k != "field" {
				extra[k] = val
			}
		}
		if len(extra) == 0 {
			extra = nil
		}
		b.Collapse(types.ToString(c["field"]), extra)
	default:
		b.fail(ecode.Invalidf("collapse", "unexpected value %T", v))
	}
}

// decodeHighlight accepts a list of field names or a field to params map.
func (b *Builder) decodeHighlight(v any) {
	if m, ok := v.(map[string]any); ok {
		for _, f := range sortedKeys(m) {
			params, _ := m[f].(map[string]any)
			b.Highlight(f, params)
		}
		return
	}
	fields, err := types.ToStrings(v)
	if err != nil {
		b.fail(&ecode.Error{Kind: ecode.InvalidArgument, Field: "highlight", Message: ecode.FieldIsInvalid("fields"), Err: err})
		return
	}
	for _, f := range fields {
		b.Highlight(f, nil)
	}
}

func (b *Builder) decodeWheres(list []any) {
	for _, item := range list {
		if b.err != nil {
			return
		}
		switch w := item.(type) {
		case []any:
			b.condition(w)
		case map[string]any:
			b.decodeClause(w)
		default:
			b.fail(ecode.Invalidf("where", "unexpected entry %T", item))
		}
	}
}

func (b *Builder) decodeClause(m map[string]any) {
	var c clauseDoc
	if err := decodeInto("where", m, &c); err != nil {
		b.fail(err)
		return
	}
	comb := And
	switch Combinator(c.Boolean) {
	case "", And:
	case Or:
		comb = Or
	default:
		b.fail(ecode.Invalidf("where", "boolean %q invalid", c.Boolean))
		return
	}
	f := flags(comb, c.Not, c.Filter)
	sub := func(q *Builder) {
		q.decodeWheres(c.Where)
		if c.MinimumShouldMatch != nil {
			q.MinimumShouldMatch(c.MinimumShouldMatch)
		}
	}

	switch c.Type {
	case "", "basic":
		op := c.Operator
		if op == "" {
			op = "="
		}
		b.where(c.Field, op, c.Value, f)
	case "match", string(MatchPhrase), string(MatchPhrasePrefix):
		kind := MatchKind(c.Kind)
		if c.Type != "match" {
			kind = MatchKind(c.Type)
		}
		b.match(c.Field, c.Value, kind, c.Extra, f)
	case "multi_match":
		b.multiMatch(c.Fields, c.Value, c.Kind, c.Extra, f)
	case "in", "terms":
		b.in(c.Field, c.Values, f)
	case "between", "range":
		b.between(c.Field, c.Bounds, f)
	case "exists":
		b.exists(c.Field, f)
	case string(Prefix), string(Wildcard), string(Regexp), string(Fuzzy):
		b.pattern(PatternKind(c.Type), c.Field, c.Value, c.Extra, f)
	case "nested":
		if b.err != nil {
			return
		}
		if c.Path == "" {
			b.fail(ecode.Invalid("path", ecode.FieldIsRequired("path")))
			return
		}
		q, err := b.subQuery(sub)
		if err != nil {
			b.fail(err)
			return
		}
		b.push(Nested{Flags: f, Path: c.Path, Query: q, Extra: c.Extra})
	case "group":
		b.group(sub, f)
	case "raw":
		b.raw(c.Query, f)
	default:
		b.fail(ecode.Invalidf("where", "clause type %q %s", c.Type, ecode.Unsupported()))
	}
}

func (b *Builder) decodeAgg(v any) {
	if b.err != nil {
		return
	}
	m, ok := v.(map[string]any)
	if !ok {
		b.fail(ecode.Invalidf("aggs", "unexpected entry %T", v))
		return
	}
	var a aggDoc
	if err := decodeInto("aggs", m, &a); err != nil {
		b.fail(err)
		return
	}
	var subs []func(*Builder)
	if len(a.Aggs) > 0 {
		children := a.Aggs
		subs = append(subs, func(q *Builder) {
			for _, c := range children {
				q.decodeAgg(c)
			}
		})
	}
	switch {
	case a.Type == "filter":
		where := a.Where
		b.AggsFilter(a.Alias, func(q *Builder) { q.decodeWheres(where) }, subs...)
	case a.Type == "top_hits" && a.Hits != nil:
		var d requestDoc
		if err := decodeInto("hits", a.Hits, &d); err != nil {
			b.fail(err)
			return
		}
		b.TopHits(func(q *Builder) { q.apply(&d) })
	default:
		b.Aggs(a.Alias, a.Type, a.Params, subs...)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
