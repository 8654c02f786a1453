package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLookup(t *testing.T) {
	l, err := ParseLookup(" IContains ")
	require.NoError(t, err)
	assert.Equal(t, IContains, l)

	_, err = ParseLookup("near")
	assert.Error(t, err)
}

func TestLookupBounds(t *testing.T) {
	assert.True(t, Gt.IsLowerBound())
	assert.True(t, Gte.IsLowerBound())
	assert.False(t, Lt.IsLowerBound())
	assert.True(t, Lte.IsUpperBound())
	assert.False(t, Exact.IsUpperBound())
}

func TestPredicate(t *testing.T) {
	p := P("author__name", Exact, "Ann")
	assert.Equal(t, []string{"author", "name"}, p.Segments())
	assert.Equal(t, "author__name__exact", p.Key())
	assert.Equal(t, "author__name__exact=Ann", p.String())

	lo, hi, err := P("score", Range, []any{1, 5}).Bounds()
	require.NoError(t, err)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 5, hi)

	_, _, err = P("score", Range, []any{1}).Bounds()
	assert.Error(t, err)

	_, err = P("score", In, 3).Values()
	assert.Error(t, err)
}
