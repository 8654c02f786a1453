package memq

import (
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// fieldInfo contains pre-computed metadata about a struct field.
type fieldInfo struct {
	index    int
	key      string
	relation bool // struct-valued: stored as a nested Row
}

// typeMetadata contains cached reflection metadata for a type.
type typeMetadata struct {
	fields   []fieldInfo
	embedded []int
}

var typeCache sync.Map // map[reflect.Type]*typeMetadata

// Struct-shaped values that are stored as scalars.
var scalarStructs = map[reflect.Type]bool{
	reflect.TypeOf(time.Time{}):           true,
	reflect.TypeOf(decimal.Decimal{}):     true,
	reflect.TypeOf(decimal.NullDecimal{}): true,
}

func metadataOf(t reflect.Type) *typeMetadata {
	if cached, ok := typeCache.Load(t); ok {
		return cached.(*typeMetadata)
	}

	meta := &typeMetadata{}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		// Unexported fields, embedded ones included, can not be read
		if field.PkgPath != "" {
			continue
		}
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			meta.embedded = append(meta.embedded, i)
			continue
		}

		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		relation := ft.Kind() == reflect.Struct && !scalarStructs[ft]

		key := rowKey(field, relation)
		if key == "" {
			continue
		}
		meta.fields = append(meta.fields, fieldInfo{index: i, key: key, relation: relation})
	}

	typeCache.Store(t, meta)
	return meta
}

// rowKey names a field the way the filter schema sees it: plain values by
// their "db" column, relations by their "json" name.
func rowKey(field reflect.StructField, relation bool) string {
	db := tagName(field.Tag.Get("db"))
	js := tagName(field.Tag.Get("json"))
	if db == "-" || js == "-" {
		return ""
	}
	switch {
	case !relation && db != "":
		return db
	case js != "":
		return js
	case db != "":
		return strings.TrimSuffix(db, "_id")
	}
	return snakeCase(field.Name)
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// FromStruct converts a struct to a Row. Nested structs (other than time and
// decimal values) become nested Rows; a nil pointer becomes nil.
//
// The reflection metadata of a type is computed once and cached.
func FromStruct(v any) Row {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	row := Row{}
	fill(row, rv)
	return row
}

func fill(row Row, rv reflect.Value) {
	meta := metadataOf(rv.Type())

	for _, fi := range meta.fields {
		fv := rv.Field(fi.index)
		if !fi.relation {
			row[fi.key] = scalar(fv)
			continue
		}
		if fv.Kind() == reflect.Ptr && fv.IsNil() {
			row[fi.key] = nil
			continue
		}
		row[fi.key] = FromStruct(fv.Interface())
	}

	for _, idx := range meta.embedded {
		fill(row, rv.Field(idx))
	}
}

func scalar(fv reflect.Value) any {
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return nil
		}
		fv = fv.Elem()
	}
	return fv.Interface()
}

// FromStructs converts a slice of structs (or struct pointers) to rows.
func FromStructs[T any](items []T) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, FromStruct(item))
	}
	return rows
}

func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
