package compiler

import (
	"bytes"
	"sort"

	"github.com/ncobase/esdsl/query"
	"github.com/ncobase/esdsl/types"
)

// bodyKeys is the order top-level keys are written in.
var bodyKeys = []string{
	"_source",
	"collapse",
	"min_score",
	"from",
	"size",
	"sort",
	"query",
	"post_filter",
	"aggs",
	"highlight",
}

// Body is a compiled search body. It marshals its known keys in a fixed
// order, followed by any other keys sorted by name.
type Body map[string]any

// MarshalJSON implements json.Marshaler.
func (b Body) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	n := 0
	write := func(k string, v any) error {
		key, err := marshal(k)
		if err != nil {
			return err
		}
		val, err := marshal(v)
		if err != nil {
			return err
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		n++
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
		return nil
	}

	known := make(map[string]struct{}, len(bodyKeys))
	for _, k := range bodyKeys {
		known[k] = struct{}{}
		if v, ok := b[k]; ok {
			if err := write(k, v); err != nil {
				return nil, err
			}
		}
	}

	var rest []string
	for k := range b {
		if _, ok := known[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		if err := write(k, b[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CompileBody compiles a request into a search body. Unset components are
// left out; a request with nothing set compiles to an empty body.
func CompileBody(r *query.Request) Body {
	body := Body{}
	if r == nil {
		return body
	}
	if r.Fields != nil {
		body["_source"] = r.Fields
	}
	if r.Collapse != nil {
		body["collapse"] = merge(map[string]any{"field": r.Collapse.Field}, r.Collapse.Extra)
	}
	if r.MinScore != nil {
		body["min_score"] = r.MinScore
	}
	if r.From != nil {
		body["from"] = *r.From
	}
	if r.Size != nil {
		body["size"] = *r.Size
	}
	if len(r.Sort) > 0 {
		body["sort"] = sortList(r.Sort)
	}
	if q := r.Query; q != nil {
		if len(q.Wheres) > 0 {
			body["query"] = CompileQuery(q)
		}
		if len(q.PostWheres) > 0 {
			body["post_filter"] = CompilePostFilter(q)
		}
	}
	if len(r.Aggs) > 0 {
		body["aggs"] = CompileAggs(r.Aggs)
	}
	if len(r.Highlight) > 0 {
		body["highlight"] = highlight(r)
	}
	return body
}

// DSL returns the raw body when one is set, otherwise the compiled body.
func DSL(r *query.Request) any {
	if r != nil && r.Raw != nil {
		return r.Raw
	}
	return CompileBody(r)
}

func sortList(criteria []types.Criterion) []any {
	out := make([]any, 0, len(criteria))
	for _, c := range criteria {
		out = append(out, map[string]any{c.Field: string(c.Order)})
	}
	return out
}

func highlight(r *query.Request) map[string]any {
	out := make(map[string]any, len(r.HighlightConfig)+1)
	for k, v := range r.HighlightConfig {
		out[k] = v
	}
	fields := map[string]any{}
	if existing, ok := out["fields"].(map[string]any); ok {
		for k, v := range existing {
			fields[k] = v
		}
	}
	for _, h := range r.Highlight {
		if len(h.Params) == 0 {
			fields[h.Field] = map[string]any{}
			continue
		}
		fields[h.Field] = h.Params
	}
	out["fields"] = fields
	return out
}
