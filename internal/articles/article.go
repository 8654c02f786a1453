// Package articles is the demo resource of the service: an articles table
// with an author relation, filtered through a model-derived schema.
package articles

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"qfilter/pkg/filters"
	"qfilter/pkg/filters/model"
	"qfilter/pkg/filters/query"
	"qfilter/pkg/filters/query/sqlq"
)

// Author is the referenced side of Article.Author.
type Author struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

func (Author) TableName() string { return "authors" }

// Article describes the filterable shape of an article.
type Article struct {
	ID        int64           `json:"id" db:"id"`
	Title     string          `json:"title" db:"title" meta:"max=200"`
	Slug      string          `json:"slug" db:"slug" meta:"slug,max=200"`
	Status    string          `json:"status" db:"status" meta:"choices=draft:Draft|published:Published|archived:Archived"`
	Published bool            `json:"published" db:"published"`
	Score     int             `json:"score" db:"score"`
	Price     decimal.Decimal `json:"price" db:"price" meta:"digits=10,places=2"`
	Author    *Author         `json:"author" db:"author_id"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

func (Article) TableName() string { return "articles" }

// Row is an articles table row as scanned from the database.
type Row struct {
	ID        int64           `json:"id" db:"id"`
	Title     string          `json:"title" db:"title"`
	Slug      string          `json:"slug" db:"slug"`
	Status    string          `json:"status" db:"status"`
	Published bool            `json:"published" db:"published"`
	Score     int             `json:"score" db:"score"`
	Price     decimal.Decimal `json:"price" db:"price"`
	AuthorID  *int64          `json:"author_id" db:"author_id"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Model is the model description the schema is derived from.
var Model = model.Inspect(Article{}, "article")

// AuthorModel describes the authors table.
var AuthorModel = model.Inspect(Author{}, "author")

// Relations lists the joins filter paths may traverse.
var Relations = map[string]sqlq.Relation{
	AuthorModel.Name: {Table: AuthorModel.TableName, Columns: AuthorModel.Columns()},
}

// NewSchema builds the articles filter schema. authors checks author keys.
func NewSchema(authors filters.Resolver) (*filters.Definition, error) {
	return filters.NewModel("articles").
		Field("q", filters.Char(filters.HelpText("Case-insensitive search in titles."))).
		Field("author_name", filters.Char(
			filters.Source("author.name"),
			filters.LookupExpr(query.IContains),
			filters.Label("Author name"),
		)).
		Field("score_between", filters.Range(filters.Integer(),
			filters.Source("score"),
			filters.HelpText("Inclusive score bounds, e.g. 3,5."),
		)).
		Field("created_on", filters.Date(
			filters.Source("created_at"),
			filters.LookupExpr(query.Date),
		)).
		Field("ids", filters.List(filters.Integer(), filters.Source("id"))).
		Method("q", search).
		Rule("score", "value >= 0 && value <= 100", "Score must be between 0 and 100.").
		Meta(filters.Meta{
			Model:   &Model,
			Exclude: []string{"slug"},
			ExtraKwargs: map[string][]filters.Option{
				"title": {filters.LookupExpr(query.IContains)},
			},
			Resolvers: map[string]filters.Resolver{
				AuthorModel.Name: authors,
			},
		}).
		Build()
}

// search matches q anywhere in the title.
func search(_ context.Context, coll query.Collection, value any) (query.Collection, error) {
	return coll.Filter(query.P("title", query.IContains, value)), nil
}
