package query

import (
	"github.com/ncobase/esdsl/ecode"
	"github.com/ncobase/esdsl/types"
)

// Index sets the target index.
func (b *Builder) Index(index string) *Builder {
	b.req.Index = index
	return b
}

// Select restricts _source to fields. Calling it with no fields still
// emits an empty _source list.
func (b *Builder) Select(fields ...string) *Builder {
	b.req.Fields = append([]string{}, fields...)
	return b
}

func (b *Builder) From(n int) *Builder {
	if n < 0 {
		return b.fail(ecode.Invalidf("from", "must not be negative, got %d", n))
	}
	b.req.From = types.ToPointer(n)
	return b
}

func (b *Builder) Size(n int) *Builder {
	if n < 0 {
		return b.fail(ecode.Invalidf("size", "must not be negative, got %d", n))
	}
	b.req.Size = types.ToPointer(n)
	return b
}

// OrderBy sorts by field. Sorting by the same field again replaces the
// earlier direction in place.
func (b *Builder) OrderBy(field, direction string) *Builder {
	if field == "" {
		return b.fail(ecode.Invalid("sort", ecode.FieldIsRequired("field")))
	}
	b.req.Sort = types.Upsert(b.req.Sort, types.Criterion{Field: field, Order: types.ParseOrder(direction)})
	return b
}

// Collapse collapses hits on field.
func (b *Builder) Collapse(field string, extra Params) *Builder {
	if field == "" {
		return b.fail(ecode.Invalid("collapse", ecode.FieldIsRequired("field")))
	}
	b.req.Collapse = &Collapse{Field: field, Extra: extra}
	return b
}

// Highlight highlights field with optional per-field params.
func (b *Builder) Highlight(field string, params Params) *Builder {
	if field == "" {
		return b.fail(ecode.Invalid("highlight", ecode.FieldIsRequired("field")))
	}
	for i := range b.req.Highlight {
		if b.req.Highlight[i].Field == field {
			b.req.Highlight[i].Params = params
			return b
		}
	}
	b.req.Highlight = append(b.req.Highlight, HighlightField{Field: field, Params: params})
	return b
}

// HighlightConfig merges global highlight settings.
func (b *Builder) HighlightConfig(config Params) *Builder {
	if b.req.HighlightConfig == nil {
		b.req.HighlightConfig = Params{}
	}
	for k, v := range config {
		b.req.HighlightConfig[k] = v
	}
	return b
}

func (b *Builder) MinimumShouldMatch(v any) *Builder {
	b.req.Query.MinimumShouldMatch = v
	return b
}

func (b *Builder) MinScore(v any) *Builder {
	b.req.MinScore = v
	return b
}

// Scroll starts or keeps a scroll alive for keepAlive (default 2m).
func (b *Builder) Scroll(keepAlive string) *Builder {
	if keepAlive == "" {
		keepAlive = DefaultScroll
	}
	b.req.Scroll = keepAlive
	return b
}

// ScrollID continues the scroll identified by id.
func (b *Builder) ScrollID(id string) *Builder {
	if id == "" {
		return b.fail(ecode.Invalid("scroll_id", ecode.FieldIsRequired("scroll_id")))
	}
	if b.req.Scroll == "" {
		b.req.Scroll = DefaultScroll
	}
	b.req.ScrollID = id
	return b
}

// Raw replaces the compiled body with dsl, a map or JSON object string.
func (b *Builder) Raw(dsl any) *Builder {
	if b.err != nil {
		return b
	}
	m, err := document(dsl)
	if err != nil {
		return b.fail(err)
	}
	b.req.Raw = m
	return b
}
