package types

import "strings"

// Order represents sorting direction.
type Order string

const (
	Ascending  Order = "asc"  // Ascending order
	Descending Order = "desc" // Descending order
)

// Criterion represents a single sorting criterion.
type Criterion struct {
	Field string `json:"field"` // Field to sort by
	Order Order  `json:"order"` // Sort direction
}

// ParseOrder normalizes a direction string, defaulting to Ascending.
func ParseOrder(s string) Order {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desc", "descending":
		return Descending
	default:
		return Ascending
	}
}

// Upsert replaces the criterion for c.Field in place, or appends it.
func Upsert(criteria []Criterion, c Criterion) []Criterion {
	for i := range criteria {
		if criteria[i].Field == c.Field {
			criteria[i] = c
			return criteria
		}
	}
	return append(criteria, c)
}
