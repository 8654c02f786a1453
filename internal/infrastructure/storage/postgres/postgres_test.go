package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qfilter/pkg/filters/query"
	"qfilter/pkg/filters/query/memq"
	"qfilter/pkg/filters/query/sqlq"
)

type author struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type timestamps struct {
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

type article struct {
	timestamps
	ID       int64           `db:"id"`
	Title    string          `db:"title,omitempty"`
	Price    decimal.Decimal `db:"price"`
	AuthorID int64           `db:"author_id"`
	Author   *author         `db:"author"`
	Draft    bool            `db:"-"`
	Notes    string
}

func TestExtractDBColumns(t *testing.T) {
	assert.Equal(t,
		[]string{"created_at", "updated_at", "id", "title", "price", "author_id"},
		ExtractDBColumns[article]())
	assert.Equal(t, []string{"id", "name"}, ExtractDBColumns[*author]())
	assert.Nil(t, ExtractDBColumns[int]())
}

func TestTable_Collection(t *testing.T) {
	table := NewTable[article](nil, "articles", map[string]sqlq.Relation{
		"author": {Table: "authors", Columns: []string{"id", "name"}},
	})
	assert.Equal(t, "articles", table.Name())

	coll := table.Collection().Filter(query.P("title", query.IContains, "go"))
	sql, args, err := coll.(*sqlq.Collection).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM articles")
	assert.Contains(t, sql, "articles.author_id")
	assert.Equal(t, []any{"%go%"}, args)
}

func TestTable_SelectRejectsForeignCollection(t *testing.T) {
	table := NewTable[article](nil, "articles", nil)
	_, err := table.Select(context.Background(), memq.New())
	assert.EqualError(t, err, "table articles: unexpected collection type *memq.Collection")
}
