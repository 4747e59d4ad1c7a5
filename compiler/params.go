package compiler

import "github.com/ncobase/esdsl/query"

// Params is a flat request parameter map handed to an engine transport.
type Params map[string]any

// Index returns the index parameter, or "".
func (p Params) Index() string {
	s, _ := p["index"].(string)
	return s
}

// ID returns the document id parameter, or "".
func (p Params) ID() string {
	s, _ := p["id"].(string)
	return s
}

// Scroll returns the scroll keep-alive parameter, or "".
func (p Params) Scroll() string {
	s, _ := p["scroll"].(string)
	return s
}

// ScrollID returns the scroll id parameter, or "".
func (p Params) ScrollID() string {
	s, _ := p["scroll_id"].(string)
	return s
}

// Body returns the body parameter.
func (p Params) Body() any {
	return p["body"]
}

func common(r *query.Request) Params {
	p := Params{}
	if r.Index != "" {
		p["index"] = r.Index
	}
	if r.Scroll != "" {
		p["scroll"] = r.Scroll
	}
	return p
}

// SearchParams returns {index?, scroll?, body}.
func SearchParams(r *query.Request) Params {
	p := common(r)
	p["body"] = DSL(r)
	return p
}

// ScrollParams returns {scroll, scroll_id}. The keep-alive defaults to 2m.
func ScrollParams(r *query.Request) Params {
	scroll := r.Scroll
	if scroll == "" {
		scroll = query.DefaultScroll
	}
	return Params{"scroll": scroll, "scroll_id": r.ScrollID}
}

// RequestParams returns ScrollParams when r continues a scroll, otherwise
// SearchParams.
func RequestParams(r *query.Request) Params {
	if r.Scrolling() {
		return ScrollParams(r)
	}
	return SearchParams(r)
}

// IndexParams returns {index?, scroll?, id?, body: doc}. An empty id lets
// the engine assign one.
func IndexParams(r *query.Request, doc map[string]any, id string) Params {
	p := common(r)
	if id != "" {
		p["id"] = id
	}
	p["body"] = doc
	return p
}

// CreateParams returns {index?, scroll?, id, body: doc}.
func CreateParams(r *query.Request, doc map[string]any, id string) Params {
	p := common(r)
	p["id"] = id
	p["body"] = doc
	return p
}

// UpdateParams returns {index?, scroll?, id, body: {doc: doc}}.
func UpdateParams(r *query.Request, doc map[string]any, id string) Params {
	p := common(r)
	p["id"] = id
	p["body"] = map[string]any{"doc": doc}
	return p
}

// DeleteParams returns {index?, scroll?, id}.
func DeleteParams(r *query.Request, id string) Params {
	p := common(r)
	p["id"] = id
	return p
}

// CountParams returns {index?, body?}. The count API accepts only a query,
// so every other body component is dropped. A raw body is passed as is.
func CountParams(r *query.Request) Params {
	p := Params{}
	if r.Index != "" {
		p["index"] = r.Index
	}
	if r.Raw != nil {
		if q, ok := r.Raw["query"]; ok {
			p["body"] = map[string]any{"query": q}
		}
		return p
	}
	if r.Query != nil && len(r.Query.Wheres) > 0 {
		p["body"] = map[string]any{"query": CompileQuery(r.Query)}
	}
	return p
}
