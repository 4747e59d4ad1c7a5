package query

import "github.com/ncobase/esdsl/ecode"

const (
	defaultInterval   = "day"
	defaultDateFormat = "yyyy-MM-dd"
)

func merge(base, extra Params) Params {
	out := make(Params, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// children collects the aggregations declared by each sub callback.
func (b *Builder) children(subs []func(*Builder)) ([]*Aggregation, error) {
	var out []*Aggregation
	for _, fn := range subs {
		if fn == nil {
			continue
		}
		nb := New(b.req.Index)
		fn(nb)
		if nb.err != nil {
			return nil, nb.err
		}
		out = append(out, nb.req.Aggs...)
	}
	return out, nil
}

func (b *Builder) aggregate(agg *Aggregation, subs []func(*Builder)) *Builder {
	if b.err != nil {
		return b
	}
	if agg.Alias == "" {
		return b.fail(ecode.Invalid("aggs", ecode.FieldIsRequired("alias")))
	}
	if agg.Kind == "" {
		return b.fail(ecode.Invalid(agg.Alias, ecode.FieldIsRequired("kind")))
	}
	children, err := b.children(subs)
	if err != nil {
		return b.fail(err)
	}
	agg.Children = children
	b.req.Aggs = append(b.req.Aggs, agg)
	return b
}

// Aggs adds an aggregation of kind under alias. Each sub callback declares
// child aggregations.
func (b *Builder) Aggs(alias, kind string, params Params, subs ...func(*Builder)) *Builder {
	if params == nil {
		params = Params{}
	}
	return b.aggregate(&Aggregation{Alias: alias, Kind: kind, Params: params}, subs)
}

// GroupBy adds a terms aggregation aliased <field>_terms.
func (b *Builder) GroupBy(field string, extra Params, subs ...func(*Builder)) *Builder {
	return b.Aggs(field+"_terms", "terms", merge(Params{"field": field}, extra), subs...)
}

// DateGroupBy adds a date_histogram aliased <field>_date_histogram.
// Empty interval and format default to day and yyyy-MM-dd.
func (b *Builder) DateGroupBy(field, interval, format string, extra Params, subs ...func(*Builder)) *Builder {
	if interval == "" {
		interval = defaultInterval
	}
	if format == "" {
		format = defaultDateFormat
	}
	params := merge(Params{
		"field":         field,
		"interval":      interval,
		"format":        format,
		"min_doc_count": 0,
	}, extra)
	return b.Aggs(field+"_date_histogram", "date_histogram", params, subs...)
}

func (b *Builder) metric(kind, field string, extra Params) *Builder {
	return b.Aggs(field+"_"+kind, kind, merge(Params{"field": field}, extra))
}

func (b *Builder) Cardinality(field string, extra Params) *Builder {
	return b.metric("cardinality", field, extra)
}

func (b *Builder) Avg(field string, extra Params) *Builder {
	return b.metric("avg", field, extra)
}

func (b *Builder) Sum(field string, extra Params) *Builder {
	return b.metric("sum", field, extra)
}

func (b *Builder) Min(field string, extra Params) *Builder {
	return b.metric("min", field, extra)
}

func (b *Builder) Max(field string, extra Params) *Builder {
	return b.metric("max", field, extra)
}

func (b *Builder) Stats(field string, extra Params) *Builder {
	return b.metric("stats", field, extra)
}

func (b *Builder) ExtendedStats(field string, extra Params) *Builder {
	return b.metric("extended_stats", field, extra)
}

// TopHits adds a top_hits aggregation. params is either a literal map or
// a func(*Builder) whose compiled body becomes the params.
func (b *Builder) TopHits(params any) *Builder {
	if b.err != nil {
		return b
	}
	switch p := params.(type) {
	case map[string]any:
		return b.Aggs("top_hits", "top_hits", p)
	case func(*Builder):
		if p == nil {
			break
		}
		nb := New(b.req.Index)
		p(nb)
		if nb.err != nil {
			return b.fail(nb.err)
		}
		return b.aggregate(&Aggregation{Alias: "top_hits", Kind: "top_hits", Hits: nb.req}, nil)
	}
	return b.fail(ecode.Invalidf("top_hits", "expected a map or callback, got %T", params))
}

// AggsFilter adds a filter aggregation whose bucket is the docs matching sub.
func (b *Builder) AggsFilter(alias string, sub any, subs ...func(*Builder)) *Builder {
	if b.err != nil {
		return b
	}
	q, err := b.subQuery(sub)
	if err != nil {
		return b.fail(err)
	}
	return b.aggregate(&Aggregation{Alias: alias, Kind: "filter", Filter: q}, subs)
}
