package query

// Combinator joins a clause with the clause before it in the same list.
type Combinator string

const (
	And Combinator = "and"
	Or  Combinator = "or"
)

// Occur selects whether a clause scores (Must) or only filters (Filter).
type Occur string

const (
	Must   Occur = "must"
	Filter Occur = "filter"
)

// MatchKind is the full-text primitive used by a Match clause.
type MatchKind string

const (
	MatchQuery        MatchKind = "match"
	MatchPhrase       MatchKind = "match_phrase"
	MatchPhrasePrefix MatchKind = "match_phrase_prefix"
)

// PatternKind is the term-level pattern primitive used by a Pattern clause.
type PatternKind string

const (
	Prefix   PatternKind = "prefix"
	Wildcard PatternKind = "wildcard"
	Regexp   PatternKind = "regexp"
	Fuzzy    PatternKind = "fuzzy"
)

// DefaultMultiMatchType is used when a MultiMatch clause has no type.
const DefaultMultiMatchType = "best_fields"

// Flags are the placement flags every clause carries.
type Flags struct {
	Combinator Combinator
	Negated    bool
	Occur      Occur
}

// ClauseFlags returns the flags. It is promoted to every clause variant.
func (f Flags) ClauseFlags() Flags { return f }

// IsFilter reports whether the clause runs in filter context.
func (f Flags) IsFilter() bool { return f.Occur == Filter }

// IsOr reports whether the clause opens a new OR group.
func (f Flags) IsOr() bool { return f.Combinator == Or }

// Clause is one entry of a where list. The set of variants is closed:
// Basic, Match, MultiMatch, Between, In, Exists, Pattern, Nested, Group, Raw.
//
//sumtype:decl
type Clause interface {
	ClauseFlags() Flags
	isClause()
}

// Basic is an exact term match on Field == Value.
type Basic struct {
	Flags
	Field    string
	Operator string
	Value    any
}

// Match is a full-text match of Kind against one field.
type Match struct {
	Flags
	Kind  MatchKind
	Field string
	Value any
	Extra Params
}

// MultiMatch is a full-text match against several fields.
type MultiMatch struct {
	Flags
	Type   string
	Fields []string
	Value  any
	Extra  Params
}

// Bound is one range bound. Key is "gt", "gte", "lt", "lte", or a
// positional index ("0", "1") where position 0 means gte and any other
// position means lte.
type Bound struct {
	Key   string
	Value any
}

// Positional reports whether the bound is positional.
func (b Bound) Positional() bool {
	switch b.Key {
	case "gt", "gte", "lt", "lte":
		return false
	}
	return true
}

// Between is a range test on Field.
type Between struct {
	Flags
	Field  string
	Bounds []Bound
}

// In is a multi-value exact match.
type In struct {
	Flags
	Field  string
	Values []any
}

// Exists tests for field presence.
type Exists struct {
	Flags
	Field string
}

// Pattern is a prefix, wildcard, regexp or fuzzy test.
type Pattern struct {
	Flags
	Kind  PatternKind
	Field string
	Value any
	Extra Params
}

// Nested scopes Query to the nested documents at Path.
type Nested struct {
	Flags
	Path  string
	Query *Query
	Extra Params
}

// Group is a parenthesised AND/OR sub-expression.
type Group struct {
	Flags
	Query *Query
}

// Raw is a caller supplied query document, emitted verbatim.
type Raw struct {
	Flags
	Document map[string]any
}

func (Basic) isClause()      {}
func (Match) isClause()      {}
func (MultiMatch) isClause() {}
func (Between) isClause()    {}
func (In) isClause()         {}
func (Exists) isClause()     {}
func (Pattern) isClause()    {}
func (Nested) isClause()     {}
func (Group) isClause()      {}
func (Raw) isClause()        {}
