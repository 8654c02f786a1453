package articles

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sample returns a small fixed data set for running without a database.
func Sample() ([]Author, []Article) {
	ann := &Author{ID: 1, Name: "Ann Lee"}
	bob := &Author{ID: 2, Name: "Bob Stone"}
	day := func(d int) time.Time { return time.Date(2024, time.March, d, 10, 0, 0, 0, time.UTC) }

	return []Author{*ann, *bob}, []Article{
		{ID: 1, Title: "Filtering with Go", Slug: "filtering-with-go", Status: "published", Published: true,
			Score: 5, Price: decimal.RequireFromString("9.99"), Author: ann, CreatedAt: day(1)},
		{ID: 2, Title: "Query builders", Slug: "query-builders", Status: "draft",
			Score: 3, Price: decimal.RequireFromString("4.50"), Author: bob, CreatedAt: day(2)},
		{ID: 3, Title: "Range lookups", Slug: "range-lookups", Status: "published", Published: true,
			Score: 8, Price: decimal.RequireFromString("12.00"), Author: ann, CreatedAt: day(2)},
		{ID: 4, Title: "Null handling", Slug: "null-handling", Status: "archived",
			Score: 1, Price: decimal.RequireFromString("0.99"), CreatedAt: day(5)},
	}
}
