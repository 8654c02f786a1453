package sqlq

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qfilter/pkg/filters/query"
)

const selectArticles = "SELECT articles.id, articles.title, articles.score, articles.author_id FROM articles"

func articles() *Collection {
	return New("articles", []string{"id", "title", "score", "author_id"}, map[string]Relation{
		"author": {Table: "authors", Columns: []string{"name"}},
	})
}

func TestCollection_ToSql(t *testing.T) {
	tests := []struct {
		name     string
		build    func(c *Collection) query.Collection
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "Exact",
			build:    func(c *Collection) query.Collection { return c.Filter(query.P("title", query.Exact, "x")) },
			wantSQL:  selectArticles + " WHERE articles.title = $1",
			wantArgs: []any{"x"},
		},
		{
			name: "TwoFiltersAreAnded",
			build: func(c *Collection) query.Collection {
				return c.Filter(query.P("score", query.Gte, 1)).Filter(query.P("score", query.Lte, 5))
			},
			wantSQL:  selectArticles + " WHERE articles.score >= $1 AND articles.score <= $2",
			wantArgs: []any{1, 5},
		},
		{
			name: "ExcludeNegatesConjunction",
			build: func(c *Collection) query.Collection {
				return c.Exclude(query.P("score", query.Gt, 1), query.P("score", query.Lt, 5))
			},
			wantSQL:  selectArticles + " WHERE NOT COALESCE((articles.score > $1 AND articles.score < $2), FALSE)",
			wantArgs: []any{1, 5},
		},
		{
			name:     "ExcludeKeepsNullRows",
			build:    func(c *Collection) query.Collection { return c.Exclude(query.P("title", query.Exact, "draft")) },
			wantSQL:  selectArticles + " WHERE NOT COALESCE((articles.title = $1), FALSE)",
			wantArgs: []any{"draft"},
		},
		{
			name: "ExcludeOnJoinedColumn",
			build: func(c *Collection) query.Collection {
				return c.Exclude(query.P("author__name", query.IContains, "an"))
			},
			wantSQL:  selectArticles + " LEFT JOIN authors AS author ON author.id = articles.author_id WHERE NOT COALESCE((author.name ILIKE $1), FALSE)",
			wantArgs: []any{"%an%"},
		},
		{
			name: "DistinctIn",
			build: func(c *Collection) query.Collection {
				return c.Distinct().Filter(query.P("score", query.In, []any{3, 4, 5}))
			},
			wantSQL:  "SELECT DISTINCT articles.id, articles.title, articles.score, articles.author_id FROM articles WHERE articles.score IN ($1,$2,$3)",
			wantArgs: []any{3, 4, 5},
		},
		{
			name:     "Range",
			build:    func(c *Collection) query.Collection { return c.Filter(query.P("score", query.Range, []any{1, 9})) },
			wantSQL:  selectArticles + " WHERE articles.score BETWEEN $1 AND $2",
			wantArgs: []any{1, 9},
		},
		{
			name:     "RelationJoin",
			build:    func(c *Collection) query.Collection { return c.Filter(query.P("author__name", query.IContains, "an")) },
			wantSQL:  selectArticles + " LEFT JOIN authors AS author ON author.id = articles.author_id WHERE author.name ILIKE $1",
			wantArgs: []any{"%an%"},
		},
		{
			name:     "RelationKeyNeedsNoJoin",
			build:    func(c *Collection) query.Collection { return c.Filter(query.P("author__id", query.Exact, 7)) },
			wantSQL:  selectArticles + " WHERE articles.author_id = $1",
			wantArgs: []any{7},
		},
		{
			name:     "RelationByName",
			build:    func(c *Collection) query.Collection { return c.Filter(query.P("author", query.Exact, 7)) },
			wantSQL:  selectArticles + " WHERE articles.author_id = $1",
			wantArgs: []any{7},
		},
		{
			name:     "IsNull",
			build:    func(c *Collection) query.Collection { return c.Filter(query.P("author", query.IsNull, true)) },
			wantSQL:  selectArticles + " WHERE articles.author_id IS NULL",
			wantArgs: []any{},
		},
		{
			name:     "LikeIsEscaped",
			build:    func(c *Collection) query.Collection { return c.Filter(query.P("title", query.Contains, "50%")) },
			wantSQL:  selectArticles + " WHERE articles.title LIKE $1",
			wantArgs: []any{`%50\%%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build(articles()).(*Collection)
			sql, args, err := got.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.ElementsMatch(t, tt.wantArgs, args)
		})
	}
}

func TestCollection_IsImmutable(t *testing.T) {
	base := articles()
	_ = base.Filter(query.P("author__name", query.Exact, "Ann"))

	sql, _, err := base.ToSql()
	require.NoError(t, err)
	assert.Equal(t, selectArticles, sql)
}

func TestCollection_InvalidColumnIsDeferred(t *testing.T) {
	got := articles().Filter(query.P("password", query.Exact, "x")).Distinct().(*Collection)
	_, _, err := got.ToSql()
	assert.EqualError(t, err, "invalid filter column: password")

	got = articles().Filter(query.P("author__email", query.Exact, "x")).(*Collection)
	_, _, err = got.ToSql()
	assert.EqualError(t, err, "invalid filter column: author__email")
}

type mockRow struct {
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if ptr, ok := dest[0].(*int); ok {
		*ptr = 1
	}
	return nil
}

type mockQuerier struct {
	sql  string
	args []any
	row  *mockRow
}

func (m *mockQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	m.sql = sql
	m.args = args
	return m.row
}

func TestResolver_Exists(t *testing.T) {
	ctx := context.Background()

	q := &mockQuerier{row: &mockRow{}}
	ok, err := NewResolver(q, "authors", "id").Exists(ctx, "id", 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "SELECT 1 FROM authors WHERE id = $1 LIMIT 1", q.sql)
	assert.Equal(t, []any{3}, q.args)

	q = &mockQuerier{row: &mockRow{err: pgx.ErrNoRows}}
	ok, err = NewResolver(q, "authors", "id").Exists(ctx, "id", 4)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = NewResolver(q, "authors", "id").Exists(ctx, "password", "x")
	assert.Error(t, err)
}
