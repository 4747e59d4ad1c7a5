package query

import (
	"strconv"

	"github.com/goccy/go-json"
	"github.com/ncobase/esdsl/ecode"
	"github.com/ncobase/esdsl/types"
)

// bound names for comparison operators; "" marks the equality operators.
var operators = map[string]string{
	"=":  "",
	"!=": "",
	"<>": "",
	">":  "gt",
	">=": "gte",
	"<":  "lt",
	"<=": "lte",
}

var boundKeys = map[string]string{
	">":   "gt",
	">=":  "gte",
	"<":   "lt",
	"<=":  "lte",
	"gt":  "gt",
	"gte": "gte",
	"lt":  "lt",
	"lte": "lte",
}

// Condition is the array form of a where call:
// {field, value}, {field, op, value} or {field, op, value, "or"}.
type Condition []any

// Builder assembles a Request clause by clause.
//
// The first construction error is recorded and every later call becomes a
// no-op; Build returns that error. A Builder must not be shared between
// goroutines while it is being written.
type Builder struct {
	req *Request
	err error
}

// New returns a builder for index.
func New(index ...string) *Builder {
	req := NewRequest("")
	if len(index) > 0 {
		req.Index = index[0]
	}
	return &Builder{req: req}
}

// Build returns the request, or the first construction error.
func (b *Builder) Build() (*Request, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.req, nil
}

// Err returns the first construction error.
func (b *Builder) Err() error {
	return b.err
}

// Query returns the query being built.
func (b *Builder) Query() *Query {
	return b.req.Query
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *Builder) push(c Clause) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Query.Wheres = append(b.req.Query.Wheres, c)
	return b
}

// Add appends a prebuilt clause.
func (b *Builder) Add(c Clause) *Builder {
	if c == nil {
		return b.fail(ecode.Invalid("clause", ecode.FieldIsRequired("clause")))
	}
	return b.push(c)
}

func flags(c Combinator, not, filter bool) Flags {
	f := Flags{Combinator: c, Negated: not, Occur: Must}
	if filter {
		f.Occur = Filter
	}
	return f
}

// where maps an operator/value pair onto Basic, In or Between.
func (b *Builder) where(field, op string, value any, f Flags) *Builder {
	if b.err != nil {
		return b
	}
	if field == "" {
		return b.fail(ecode.Invalid("field", ecode.FieldIsRequired("field")))
	}
	bound, ok := operators[op]
	if !ok {
		return b.fail(ecode.Invalidf(field, "operator %q invalid", op))
	}
	if value == nil {
		return b.fail(ecode.Invalidf(field, "operator %q requires a value", op))
	}
	values, isList := types.ToSlice(value)
	if isList && bound != "" {
		return b.fail(ecode.Invalidf(field, "operator %q does not accept a list", op))
	}
	if op == "!=" || op == "<>" {
		f.Negated = !f.Negated
	}
	switch {
	case isList:
		return b.push(In{Flags: f, Field: field, Values: values})
	case bound != "":
		return b.push(Between{Flags: f, Field: field, Bounds: []Bound{{Key: bound, Value: value}}})
	default:
		return b.push(Basic{Flags: f, Field: field, Operator: "=", Value: value})
	}
}

// WhereEq adds field = value.
func (b *Builder) WhereEq(field string, value any) *Builder {
	return b.where(field, "=", value, flags(And, false, false))
}

// Where adds field op value.
func (b *Builder) Where(field, op string, value any) *Builder {
	return b.where(field, op, value, flags(And, false, false))
}

func (b *Builder) OrWhere(field, op string, value any) *Builder {
	return b.where(field, op, value, flags(Or, false, false))
}

func (b *Builder) WhereNot(field, op string, value any) *Builder {
	return b.where(field, op, value, flags(And, true, false))
}

func (b *Builder) OrWhereNot(field, op string, value any) *Builder {
	return b.where(field, op, value, flags(Or, true, false))
}

// Filter adds field op value in filter context.
func (b *Builder) Filter(field, op string, value any) *Builder {
	return b.where(field, op, value, flags(And, false, true))
}

func (b *Builder) OrFilter(field, op string, value any) *Builder {
	return b.where(field, op, value, flags(Or, false, true))
}

func (b *Builder) FilterNot(field, op string, value any) *Builder {
	return b.where(field, op, value, flags(And, true, true))
}

func (b *Builder) OrFilterNot(field, op string, value any) *Builder {
	return b.where(field, op, value, flags(Or, true, true))
}

func (b *Builder) match(field string, value any, kind MatchKind, extra Params, f Flags) *Builder {
	if field == "" {
		return b.fail(ecode.Invalid("field", ecode.FieldIsRequired("field")))
	}
	if kind == "" {
		kind = MatchQuery
	}
	switch kind {
	case MatchQuery, MatchPhrase, MatchPhrasePrefix:
	default:
		return b.fail(ecode.Invalidf(field, "match kind %q invalid", kind))
	}
	return b.push(Match{Flags: f, Kind: kind, Field: field, Value: value, Extra: extra})
}

// WhereMatch adds a full-text match. An empty kind means MatchQuery.
func (b *Builder) WhereMatch(field string, value any, kind MatchKind, extra Params) *Builder {
	return b.match(field, value, kind, extra, flags(And, false, false))
}

func (b *Builder) OrWhereMatch(field string, value any, kind MatchKind, extra Params) *Builder {
	return b.match(field, value, kind, extra, flags(Or, false, false))
}

func (b *Builder) WhereNotMatch(field string, value any, kind MatchKind, extra Params) *Builder {
	return b.match(field, value, kind, extra, flags(And, true, false))
}

func (b *Builder) OrWhereNotMatch(field string, value any, kind MatchKind, extra Params) *Builder {
	return b.match(field, value, kind, extra, flags(Or, true, false))
}

func (b *Builder) multiMatch(fields []string, value any, typ string, extra Params, f Flags) *Builder {
	if len(fields) == 0 {
		return b.fail(ecode.Invalid("fields", ecode.FieldIsRequired("fields")))
	}
	if typ == "" {
		typ = DefaultMultiMatchType
	}
	return b.push(MultiMatch{Flags: f, Type: typ, Fields: fields, Value: value, Extra: extra})
}

// WhereMultiMatch matches value against several fields. An empty type
// means best_fields.
func (b *Builder) WhereMultiMatch(fields []string, value any, typ string, extra Params) *Builder {
	return b.multiMatch(fields, value, typ, extra, flags(And, false, false))
}

func (b *Builder) OrWhereMultiMatch(fields []string, value any, typ string, extra Params) *Builder {
	return b.multiMatch(fields, value, typ, extra, flags(Or, false, false))
}

func (b *Builder) WhereNotMultiMatch(fields []string, value any, typ string, extra Params) *Builder {
	return b.multiMatch(fields, value, typ, extra, flags(And, true, false))
}

func (b *Builder) OrWhereNotMultiMatch(fields []string, value any, typ string, extra Params) *Builder {
	return b.multiMatch(fields, value, typ, extra, flags(Or, true, false))
}

func (b *Builder) in(field string, values any, f Flags) *Builder {
	if field == "" {
		return b.fail(ecode.Invalid("field", ecode.FieldIsRequired("field")))
	}
	list, ok := types.ToSlice(values)
	if !ok {
		return b.fail(ecode.Invalidf(field, "expected a list of values, got %T", values))
	}
	return b.push(In{Flags: f, Field: field, Values: list})
}

// WhereIn adds a terms test. values must be a slice.
func (b *Builder) WhereIn(field string, values any) *Builder {
	return b.in(field, values, flags(And, false, false))
}

func (b *Builder) WhereNotIn(field string, values any) *Builder {
	return b.in(field, values, flags(And, true, false))
}

func (b *Builder) OrWhereIn(field string, values any) *Builder {
	return b.in(field, values, flags(Or, false, false))
}

func (b *Builder) OrWhereNotIn(field string, values any) *Builder {
	return b.in(field, values, flags(Or, true, false))
}

// bounds converts a positional list or a keyed map into range bounds.
func bounds(field string, v any) ([]Bound, error) {
	if m, ok := v.(map[string]any); ok {
		keys := sortedKeys(m)
		out := make([]Bound, 0, len(keys))
		for _, k := range keys {
			key, ok := boundKeys[k]
			if !ok {
				if _, err := strconv.Atoi(k); err != nil {
					return nil, ecode.Invalidf(field, "range bound %q invalid", k)
				}
				key = k
			}
			out = append(out, Bound{Key: key, Value: m[k]})
		}
		return out, nil
	}
	list, ok := types.ToSlice(v)
	if !ok {
		return nil, ecode.Invalidf(field, "expected range bounds, got %T", v)
	}
	out := make([]Bound, len(list))
	for i, item := range list {
		out[i] = Bound{Key: strconv.Itoa(i), Value: item}
	}
	return out, nil
}

func (b *Builder) between(field string, v any, f Flags) *Builder {
	if b.err != nil {
		return b
	}
	if field == "" {
		return b.fail(ecode.Invalid("field", ecode.FieldIsRequired("field")))
	}
	bs, err := bounds(field, v)
	if err != nil {
		return b.fail(err)
	}
	return b.push(Between{Flags: f, Field: field, Bounds: bs})
}

// WhereBetween adds a range test. bounds is a positional list, read as
// [gte, lte], or a map keyed by gt/gte/lt/lte or > >= < <=.
func (b *Builder) WhereBetween(field string, bounds any) *Builder {
	return b.between(field, bounds, flags(And, false, false))
}

func (b *Builder) WhereNotBetween(field string, bounds any) *Builder {
	return b.between(field, bounds, flags(And, true, false))
}

func (b *Builder) OrWhereBetween(field string, bounds any) *Builder {
	return b.between(field, bounds, flags(Or, false, false))
}

func (b *Builder) OrWhereNotBetween(field string, bounds any) *Builder {
	return b.between(field, bounds, flags(Or, true, false))
}

func (b *Builder) exists(field string, f Flags) *Builder {
	if field == "" {
		return b.fail(ecode.Invalid("field", ecode.FieldIsRequired("field")))
	}
	return b.push(Exists{Flags: f, Field: field})
}

func (b *Builder) WhereExists(field string) *Builder {
	return b.exists(field, flags(And, false, false))
}

func (b *Builder) WhereNotExists(field string) *Builder {
	return b.exists(field, flags(And, true, false))
}

func (b *Builder) OrWhereExists(field string) *Builder {
	return b.exists(field, flags(Or, false, false))
}

func (b *Builder) OrWhereNotExists(field string) *Builder {
	return b.exists(field, flags(Or, true, false))
}

func (b *Builder) pattern(kind PatternKind, field string, value any, extra Params, f Flags) *Builder {
	if field == "" {
		return b.fail(ecode.Invalid("field", ecode.FieldIsRequired("field")))
	}
	return b.push(Pattern{Flags: f, Kind: kind, Field: field, Value: value, Extra: extra})
}

func (b *Builder) WherePrefix(field string, value any, extra Params) *Builder {
	return b.pattern(Prefix, field, value, extra, flags(And, false, false))
}

func (b *Builder) WhereNotPrefix(field string, value any, extra Params) *Builder {
	return b.pattern(Prefix, field, value, extra, flags(And, true, false))
}

func (b *Builder) OrWherePrefix(field string, value any, extra Params) *Builder {
	return b.pattern(Prefix, field, value, extra, flags(Or, false, false))
}

func (b *Builder) OrWhereNotPrefix(field string, value any, extra Params) *Builder {
	return b.pattern(Prefix, field, value, extra, flags(Or, true, false))
}

func (b *Builder) WhereWildcard(field string, value any, extra Params) *Builder {
	return b.pattern(Wildcard, field, value, extra, flags(And, false, false))
}

func (b *Builder) WhereNotWildcard(field string, value any, extra Params) *Builder {
	return b.pattern(Wildcard, field, value, extra, flags(And, true, false))
}

func (b *Builder) OrWhereWildcard(field string, value any, extra Params) *Builder {
	return b.pattern(Wildcard, field, value, extra, flags(Or, false, false))
}

func (b *Builder) OrWhereNotWildcard(field string, value any, extra Params) *Builder {
	return b.pattern(Wildcard, field, value, extra, flags(Or, true, false))
}

func (b *Builder) WhereRegexp(field string, value any, extra Params) *Builder {
	return b.pattern(Regexp, field, value, extra, flags(And, false, false))
}

func (b *Builder) WhereNotRegexp(field string, value any, extra Params) *Builder {
	return b.pattern(Regexp, field, value, extra, flags(And, true, false))
}

func (b *Builder) OrWhereRegexp(field string, value any, extra Params) *Builder {
	return b.pattern(Regexp, field, value, extra, flags(Or, false, false))
}

func (b *Builder) OrWhereNotRegexp(field string, value any, extra Params) *Builder {
	return b.pattern(Regexp, field, value, extra, flags(Or, true, false))
}

func (b *Builder) WhereFuzzy(field string, value any, extra Params) *Builder {
	return b.pattern(Fuzzy, field, value, extra, flags(And, false, false))
}

func (b *Builder) WhereNotFuzzy(field string, value any, extra Params) *Builder {
	return b.pattern(Fuzzy, field, value, extra, flags(And, true, false))
}

func (b *Builder) OrWhereFuzzy(field string, value any, extra Params) *Builder {
	return b.pattern(Fuzzy, field, value, extra, flags(Or, false, false))
}

func (b *Builder) OrWhereNotFuzzy(field string, value any, extra Params) *Builder {
	return b.pattern(Fuzzy, field, value, extra, flags(Or, true, false))
}

// WhereNested scopes sub to the nested documents at path.
func (b *Builder) WhereNested(path string, sub any, extra Params) *Builder {
	if b.err != nil {
		return b
	}
	if path == "" {
		return b.fail(ecode.Invalid("path", ecode.FieldIsRequired("path")))
	}
	q, err := b.subQuery(sub)
	if err != nil {
		return b.fail(err)
	}
	return b.push(Nested{Flags: flags(And, false, false), Path: path, Query: q, Extra: extra})
}

// group adds sub as a parenthesised expression. An empty sub adds nothing.
func (b *Builder) group(sub any, f Flags) *Builder {
	if b.err != nil {
		return b
	}
	q, err := b.subQuery(sub)
	if err != nil {
		return b.fail(err)
	}
	if q.Empty() {
		return b
	}
	return b.push(Group{Flags: f, Query: q})
}

// WhereGroup adds sub as a parenthesised AND expression.
func (b *Builder) WhereGroup(sub any) *Builder {
	return b.group(sub, flags(And, false, false))
}

func (b *Builder) OrWhereGroup(sub any) *Builder {
	return b.group(sub, flags(Or, false, false))
}

func (b *Builder) WhereNotGroup(sub any) *Builder {
	return b.group(sub, flags(And, true, false))
}

func (b *Builder) OrWhereNotGroup(sub any) *Builder {
	return b.group(sub, flags(Or, true, false))
}

func (b *Builder) FilterGroup(sub any) *Builder {
	return b.group(sub, flags(And, false, true))
}

func (b *Builder) FilterNotGroup(sub any) *Builder {
	return b.group(sub, flags(And, true, true))
}

func (b *Builder) raw(doc any, f Flags) *Builder {
	if b.err != nil {
		return b
	}
	m, err := document(doc)
	if err != nil {
		return b.fail(err)
	}
	return b.push(Raw{Flags: f, Document: m})
}

// WhereRaw adds a verbatim query document, given as a map or a JSON string.
func (b *Builder) WhereRaw(doc any) *Builder {
	return b.raw(doc, flags(And, false, false))
}

func (b *Builder) OrWhereRaw(doc any) *Builder {
	return b.raw(doc, flags(Or, false, false))
}

// document accepts a map or a JSON object string.
func document(doc any) (map[string]any, error) {
	switch v := doc.(type) {
	case map[string]any:
		if v == nil {
			break
		}
		return v, nil
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, &ecode.Error{Kind: ecode.InvalidArgument, Field: "raw", Message: ecode.FieldIsInvalid("json"), Err: err}
		}
		if m == nil {
			break
		}
		return m, nil
	case []byte:
		return document(string(v))
	}
	return nil, ecode.Invalidf("raw", "expected a map or JSON object, got %T", doc)
}

// PostWhere adds field op value to the post filter.
func (b *Builder) PostWhere(field, op string, value any) *Builder {
	return b.PostFilter(func(q *Builder) {
		q.Where(field, op, value)
	})
}

// PostFilter appends every clause of sub to the post filter.
func (b *Builder) PostFilter(sub any) *Builder {
	if b.err != nil {
		return b
	}
	q, err := b.subQuery(sub)
	if err != nil {
		return b.fail(err)
	}
	b.req.Query.PostWheres = append(b.req.Query.PostWheres, q.Wheres...)
	return b
}

// When applies fn if cond holds, otherwise otherwise when it is set.
func (b *Builder) When(cond bool, fn, otherwise func(*Builder)) *Builder {
	switch {
	case cond && fn != nil:
		fn(b)
	case !cond && otherwise != nil:
		otherwise(b)
	}
	return b
}

// subQuery resolves a sub-query form on a fresh builder: a func(*Builder),
// a Condition or list of conditions, or a field to value map.
func (b *Builder) subQuery(sub any) (*Query, error) {
	nb := New(b.req.Index)
	switch s := sub.(type) {
	case func(*Builder):
		if s == nil {
			return nil, ecode.Invalid("query", ecode.FieldIsRequired("query"))
		}
		s(nb)
	case Condition:
		nb.condition(s)
	case []Condition:
		for _, c := range s {
			nb.condition(c)
		}
	case [][]any:
		for _, c := range s {
			nb.condition(c)
		}
	case []any:
		for _, item := range s {
			c, ok := item.([]any)
			if !ok {
				if cc, isCond := item.(Condition); isCond {
					c, ok = cc, true
				}
			}
			if !ok {
				return nil, ecode.Invalidf("query", "expected a condition list, got %T", item)
			}
			nb.condition(c)
		}
	case map[string]any:
		for _, k := range sortedKeys(s) {
			nb.WhereEq(k, s[k])
		}
	default:
		return nil, ecode.Invalidf("query", "expected a callback, condition list or map, got %T", sub)
	}
	if nb.err != nil {
		return nil, nb.err
	}
	return nb.req.Query, nil
}

// condition applies one array-form where call.
func (b *Builder) condition(c []any) *Builder {
	if b.err != nil {
		return b
	}
	if len(c) < 2 || len(c) > 4 {
		return b.fail(ecode.Invalidf("query", "condition needs 2 to 4 elements, got %d", len(c)))
	}
	field, ok := c[0].(string)
	if !ok {
		return b.fail(ecode.Invalidf("query", "condition field must be a string, got %T", c[0]))
	}
	if len(c) == 2 {
		return b.WhereEq(field, c[1])
	}
	op, ok := c[1].(string)
	if !ok {
		return b.fail(ecode.Invalidf(field, "operator must be a string, got %T", c[1]))
	}
	comb := And
	if len(c) == 4 {
		s, _ := c[3].(string)
		switch Combinator(s) {
		case And:
		case Or:
			comb = Or
		default:
			return b.fail(ecode.Invalidf(field, "boolean %v invalid", c[3]))
		}
	}
	return b.where(field, op, c[2], flags(comb, false, false))
}
