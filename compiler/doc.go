// Package compiler turns a query.Request into the bool query DSL shared by
// Elasticsearch and OpenSearch. It performs no I/O and never mutates its
// input; every function is safe for concurrent use.
//
// # Grouping
//
// A where list is read as an OR of AND groups. Each clause tagged OR opens
// a new group:
//
//	a AND b OR c AND d  =>  (a AND b) OR (c AND d)
//
// A single group compiles to one bool object; several groups become the
// entries of bool.should.
//
// # Buckets
//
// Inside a group, filter-context clauses go to "filter", negated clauses to
// "must_not" and the rest to "must". A clause that is both filter and
// negated lands in "filter" wrapped as {"bool": {"must_not": ...}}. A group
// holding a single must clause is emitted as that bare clause.
//
// # Usage
//
//	req, err := query.New("users").
//	    Where("age", ">=", 18).
//	    OrWhereMatch("bio", "golang", "", nil).
//	    Size(10).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	body := compiler.CompileBody(req)
//	out, _ := compiler.Render(body, true)
package compiler
