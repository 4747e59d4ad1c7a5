// Package types provides small shared helpers: sort criteria, a pointer
// helper and loose value converters used when decoding documents.
//
// # Sorting
//
//	sort := types.Upsert(nil, types.Criterion{Field: "age", Order: types.ParseOrder("DESC")})
//
// # Converters
//
// Documents decoded from JSON carry float64 numbers and []any slices. The
// converters accept those as well as native Go values:
//
//	n, err := types.ToInt(doc["size"])     // 10, "10", 10.0
//	list, ok := types.ToSlice([]int{1, 2}) // []any{1, 2}, true
package types
