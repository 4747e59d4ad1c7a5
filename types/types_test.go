package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInt(t *testing.T) {
	for _, in := range []any{10, int64(10), 10.0, "10"} {
		n, err := ToInt(in)
		require.NoError(t, err)
		assert.Equal(t, int64(10), n)
	}
	_, err := ToInt([]int{1})
	assert.Error(t, err)
}

func TestToSlice(t *testing.T) {
	list, ok := ToSlice([]int{1, 2})
	require.True(t, ok)
	assert.Equal(t, []any{1, 2}, list)

	_, ok = ToSlice([]byte("ab"))
	assert.False(t, ok)
	_, ok = ToSlice("ab")
	assert.False(t, ok)
}

func TestToStrings(t *testing.T) {
	got, err := ToStrings([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	got, err = ToStrings("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)

	_, err = ToStrings([]any{"a", 1})
	assert.Error(t, err)
}

func TestOrderAndUpsert(t *testing.T) {
	assert.Equal(t, Descending, ParseOrder(" DESC "))
	assert.Equal(t, Ascending, ParseOrder("bogus"))

	c := Upsert(nil, Criterion{Field: "age", Order: Ascending})
	c = Upsert(c, Criterion{Field: "name", Order: Ascending})
	c = Upsert(c, Criterion{Field: "age", Order: Descending})
	assert.Equal(t, []Criterion{{"age", Descending}, {"name", Ascending}}, c)

	assert.Equal(t, "x", *ToPointer("x"))
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "1.5", ToString(1.5))
}
