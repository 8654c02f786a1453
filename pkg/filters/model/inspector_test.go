package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type author struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type timestamps struct {
	CreatedAt time.Time `db:"created_at"`
}

type article struct {
	ID        int64           `db:"id"`
	Title     string          `db:"title" meta:"max=100"`
	Slug      string          `db:"slug" meta:"slug"`
	Contact   string          `json:"contact_email" db:"contact" meta:"email"`
	Status    string          `db:"status" meta:"choices=draft:Draft|published"`
	Score     int             `db:"score"`
	Price     decimal.Decimal `db:"price" meta:"digits=6,places=2"`
	Published *bool           `db:"published"`
	ReadTime  time.Duration   `db:"read_time"`
	Author    *author         `db:"author_id"`
	Tags      []int           `db:"tags"`
	Secret    string          `db:"-"`
	internal  string
	timestamps
}

func (article) TableName() string { return "articles" }

type base struct {
	Abstract
	Name string
}

func TestInspect(t *testing.T) {
	def := Inspect(article{}, "")

	assert.Equal(t, "article", def.Name)
	assert.Equal(t, "articles", def.TableName)
	assert.False(t, def.Abstract)

	names := make([]string, 0, len(def.Fields))
	for _, f := range def.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"id", "title", "slug", "contact_email", "status", "score", "price",
		"published", "read_time", "author", "tags", "created_at",
	}, names)

	pk, ok := def.PrimaryKey()
	require.True(t, ok)
	assert.Equal(t, TypeAuto, pk.Type)

	tests := []struct {
		name  string
		check func(t *testing.T, f FieldDef)
	}{
		{"title", func(t *testing.T, f FieldDef) {
			assert.Equal(t, TypeString, f.Type)
			assert.Equal(t, 100, f.MaxLength)
		}},
		{"slug", func(t *testing.T, f FieldDef) { assert.Equal(t, TypeSlug, f.Type) }},
		{"contact_email", func(t *testing.T, f FieldDef) {
			assert.Equal(t, TypeEmail, f.Type)
			assert.Equal(t, "contact", f.Column)
		}},
		{"status", func(t *testing.T, f FieldDef) {
			assert.Equal(t, []Option{{"draft", "Draft"}, {"published", "published"}}, f.Options)
		}},
		{"price", func(t *testing.T, f FieldDef) {
			assert.Equal(t, TypeDecimal, f.Type)
			assert.Equal(t, 6, f.MaxDigits)
			require.NotNil(t, f.DecimalPlaces)
			assert.Equal(t, 2, *f.DecimalPlaces)
		}},
		{"published", func(t *testing.T, f FieldDef) {
			assert.Equal(t, TypeNullBoolean, f.Type)
			assert.True(t, f.Nullable)
		}},
		{"read_time", func(t *testing.T, f FieldDef) { assert.Equal(t, TypeDuration, f.Type) }},
		{"author", func(t *testing.T, f FieldDef) {
			assert.True(t, f.IsRelation())
			assert.Equal(t, "author", f.ReferenceType)
			assert.Equal(t, TypeInteger, f.ReferenceKey)
			assert.Equal(t, "author_id", f.Column)
		}},
		{"tags", func(t *testing.T, f FieldDef) { assert.Equal(t, TypeCommaSeparatedInteger, f.Type) }},
		{"created_at", func(t *testing.T, f FieldDef) {
			assert.Equal(t, TypeDateTime, f.Type)
			assert.Equal(t, "Created at", f.Label)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := def.Field(tt.name)
			require.True(t, ok)
			tt.check(t, f)
		})
	}
}

func TestInspect_Abstract(t *testing.T) {
	def := Inspect(&base{}, "base")
	assert.True(t, def.Abstract)
	assert.Len(t, def.Fields, 1)
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "author_id", snakeCase("AuthorID"))
	assert.Equal(t, "html_parser", snakeCase("HTMLParser"))
	assert.Equal(t, "id", snakeCase("ID"))
	assert.Equal(t, "published_at", snakeCase("PublishedAt"))
}

func TestEntityDef_Columns(t *testing.T) {
	assert.Equal(t, []string{"id", "name"}, Inspect(author{}, "").Columns())
}
