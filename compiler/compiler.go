package compiler

import "github.com/ncobase/esdsl/query"

// Compiler carries no state. Its methods delegate to the package
// functions, so one value can be shared by any number of goroutines.
type Compiler struct{}

// Default is the shared compiler.
var Default Compiler

func (Compiler) Query(q *query.Query) map[string]any { return CompileQuery(q) }

func (Compiler) PostFilter(q *query.Query) map[string]any { return CompilePostFilter(q) }

func (Compiler) Aggs(aggs []*query.Aggregation) map[string]any { return CompileAggs(aggs) }

func (Compiler) Body(r *query.Request) Body { return CompileBody(r) }

func (Compiler) DSL(r *query.Request) any { return DSL(r) }

func (Compiler) Params(r *query.Request) Params { return RequestParams(r) }

func (Compiler) Render(v any, pretty bool) ([]byte, error) { return Render(v, pretty) }
