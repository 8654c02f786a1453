package memq

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qfilter/pkg/filters/query"
)

func sample() *Collection {
	ann := Row{"id": int64(1), "name": "Ann"}
	bob := Row{"id": int64(2), "name": "Bob"}
	return New(
		Row{"id": int64(1), "title": "Lorem Ipsum", "score": int64(3), "author": ann, "price": decimal.RequireFromString("9.99")},
		Row{"id": int64(2), "title": "Neque porro", "score": int64(5), "author": bob, "price": decimal.RequireFromString("1.50")},
		Row{"id": int64(3), "title": "lorem dolor", "score": int64(7), "author": nil, "price": decimal.RequireFromString("3.00")},
	)
}

func ids(t *testing.T, c query.Collection) []int64 {
	t.Helper()
	rows, err := Rows(c)
	require.NoError(t, err)
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r["id"].(int64))
	}
	return out
}

func TestFilterLookups(t *testing.T) {
	tests := []struct {
		name string
		pred query.Predicate
		want []int64
	}{
		{"exact", query.P("title", query.Exact, "Lorem Ipsum"), []int64{1}},
		{"iexact", query.P("title", query.IExact, "lorem ipsum"), []int64{1}},
		{"contains", query.P("title", query.Contains, "orem"), []int64{1, 3}},
		{"icontains", query.P("title", query.IContains, "LOREM"), []int64{1, 3}},
		{"istartswith", query.P("title", query.IStartsWith, "neque"), []int64{2}},
		{"endswith", query.P("title", query.EndsWith, "dolor"), []int64{3}},
		{"gt int against int", query.P("score", query.Gt, 3), []int64{2, 3}},
		{"lte", query.P("score", query.Lte, int64(5)), []int64{1, 2}},
		{"in", query.P("score", query.In, []any{int64(3), int64(7)}), []int64{1, 3}},
		{"range inclusive", query.P("score", query.Range, []any{int64(3), int64(5)}), []int64{1, 2}},
		{"decimal gte", query.P("price", query.Gte, decimal.RequireFromString("3")), []int64{1, 3}},
		{"nested relation", query.P("author__name", query.Exact, "Bob"), []int64{2}},
		{"collapsed key", query.P("author_id", query.Exact, int64(1)), []int64{1}},
		{"isnull", query.P("author", query.IsNull, true), []int64{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(t, sample().Filter(tt.pred)))
		})
	}
}

func TestExcludeNegatesConjunction(t *testing.T) {
	c := sample().Exclude(
		query.P("score", query.Gt, 3),
		query.P("score", query.Lt, 7),
	)
	assert.Equal(t, []int64{1, 3}, ids(t, c))
}

func TestDistinct(t *testing.T) {
	dup := Row{"id": int64(1), "title": "x"}
	c := New(dup, Row{"id": int64(1), "title": "x"}, Row{"id": int64(2), "title": "x"})
	assert.Equal(t, []int64{1, 2}, ids(t, c.Distinct()))
}

func TestDateLookup(t *testing.T) {
	c := New(
		Row{"id": int64(1), "at": time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		Row{"id": int64(2), "at": time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)},
	)
	got := c.Filter(query.P("at", query.Date, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []int64{1}, ids(t, got))
}

func TestUnknownAttributeIsDeferred(t *testing.T) {
	c := sample().Filter(query.P("missing", query.Exact, 1)).Distinct()
	_, err := Rows(c)
	assert.ErrorContains(t, err, `unknown attribute "missing"`)
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	ok, err := sample().Exists(ctx, "id", int64(2))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sample().Exists(ctx, "id", int64(42))
	require.NoError(t, err)
	assert.False(t, ok)
}
