package postgres

import (
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExtractDBColumns extracts all column names from struct "db" tags.
// It handles embedded structs recursively and skips struct-valued fields
// other than time and decimal values, which are relations rather than
// columns. Called once at initialization time.
//
// Usage:
//
//	columns := ExtractDBColumns[articles.Row]()
//	// Returns: ["id", "title", "slug", ...]
func ExtractDBColumns[T any]() []string {
	var zero T
	return extractColumnsFromType(reflect.TypeOf(zero))
}

var columnStructs = map[reflect.Type]bool{
	reflect.TypeOf(time.Time{}):       true,
	reflect.TypeOf(decimal.Decimal{}): true,
}

// extractColumnsFromType recursively extracts column names from a type.
func extractColumnsFromType(t reflect.Type) []string {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous {
			cols = append(cols, extractColumnsFromType(field.Type)...)
			continue
		}

		tag, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		if tag == "" || tag == "-" {
			continue
		}

		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && !columnStructs[ft] {
			continue
		}

		cols = append(cols, tag)
	}
	return cols
}
