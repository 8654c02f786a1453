package model

import (
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Abstract marks a model that only contributes fields to others.
// Embed it in a struct to make Inspect report the model as abstract.
type Abstract struct{}

// Tabler lets a model choose its table name.
type Tabler interface {
	TableName() string
}

var (
	abstractType = reflect.TypeOf(Abstract{})
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	decimalType  = reflect.TypeOf(decimal.Decimal{})
)

// Inspect analyzes a struct and returns its EntityDef.
//
// Field names come from the `json` tag (snake_case of the Go name otherwise),
// columns from the `db` tag. The `meta` tag refines the inferred type:
//
//	ID     int64  `db:"id" meta:"pk"`
//	Email  string `db:"email" meta:"email,max=254"`
//	Status string `meta:"choices=draft:Draft|published:Published"`
//	Author *User  `db:"author_id" meta:"null"`
//
// Struct-typed fields (other than time and decimal values) become references.
func Inspect(entity any, name string) EntityDef {
	t := reflect.TypeOf(entity)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if name == "" {
		name = snakeCase(t.Name())
	}

	def := EntityDef{
		Name:      name,
		Label:     guessLabel(t.Name()),
		TableName: name,
		Fields:    make([]FieldDef, 0, t.NumField()),
	}
	if tabler, ok := reflect.New(t).Interface().(Tabler); ok {
		def.TableName = tabler.TableName()
	}

	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Type == abstractType {
			def.Abstract = true
		}
	}

	inspectStruct(t, &def)

	return def
}

func inspectStruct(t reflect.Type, def *EntityDef) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type == abstractType {
			continue
		}

		// Embedded structs are flattened, exported or not
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			inspectStruct(field.Type, def)
			continue
		}

		if field.PkgPath != "" { // unexported
			continue
		}

		fDef, ok := inspectField(field)
		if !ok {
			continue
		}
		def.Fields = append(def.Fields, fDef)
	}
}

func inspectField(field reflect.StructField) (FieldDef, bool) {
	name := jsonName(field)
	if name == "-" || field.Tag.Get("db") == "-" || field.Tag.Get("meta") == "-" {
		return FieldDef{}, false
	}

	fDef := FieldDef{
		Name:       name,
		Label:      guessLabel(field.Name),
		PrimaryKey: field.Name == "ID",
	}

	mapFieldType(&fDef, field)
	applyMetaTag(&fDef, field.Tag.Get("meta"))

	fDef.Column = field.Tag.Get("db")
	if fDef.Column == "" {
		fDef.Column = fDef.Name
		if fDef.IsRelation() {
			fDef.Column += "_id"
		}
	}

	return fDef, true
}

func mapFieldType(def *FieldDef, field reflect.StructField) {
	t := field.Type
	if t.Kind() == reflect.Ptr {
		def.Nullable = true
		t = t.Elem()
	}

	switch t {
	case timeType:
		def.Type = TypeDateTime
		return
	case durationType:
		def.Type = TypeDuration
		return
	case decimalType:
		def.Type = TypeDecimal
		return
	}

	switch t.Kind() {
	case reflect.Struct:
		def.Type = TypeReference
		def.ReferenceType = snakeCase(t.Name())
		def.ReferenceKey = referenceKey(t)
	case reflect.String:
		def.Type = TypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		def.Type = TypeInteger
		if def.PrimaryKey {
			def.Type = TypeAuto
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		def.Type = TypePositiveInteger
	case reflect.Float32, reflect.Float64:
		def.Type = TypeFloat
	case reflect.Bool:
		def.Type = TypeBoolean
		if def.Nullable {
			def.Type = TypeNullBoolean
		}
	case reflect.Slice:
		switch t.Elem().Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			def.Type = TypeCommaSeparatedInteger
		default:
			def.Type = TypeString
		}
	default:
		def.Type = TypeString // fallback
	}
}

// referenceKey reports the primary-key type of a referenced struct.
func referenceKey(t reflect.Type) FieldType {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		if field.Name != "ID" && !hasMetaFlag(field.Tag.Get("meta"), "pk") {
			continue
		}
		k := FieldDef{PrimaryKey: true}
		if field.Type.Kind() != reflect.Struct {
			mapFieldType(&k, field)
		}
		if k.Type == TypeAuto {
			return TypeInteger
		}
		if k.Type == "" {
			return TypeString
		}
		return k.Type
	}
	return TypeInteger
}

// applyMetaTag applies the comma-separated `meta` tag options.
func applyMetaTag(def *FieldDef, tag string) {
	if tag == "" {
		return
	}
	for _, opt := range strings.Split(tag, ",") {
		key, value, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "pk":
			def.PrimaryKey = true
			if def.Type == TypeInteger {
				def.Type = TypeAuto
			}
		case "null":
			def.Nullable = true
		case "required":
			def.Required = true
		case "text", "slug", "email", "url", "ip", "file", "file_path", "image", "date", "time":
			def.Type = FieldType(key)
		case "type":
			def.Type = FieldType(value)
		case "label":
			def.Label = value
		case "max":
			def.MaxLength, _ = strconv.Atoi(value)
		case "digits":
			def.MaxDigits, _ = strconv.Atoi(value)
		case "places":
			if n, err := strconv.Atoi(value); err == nil && n >= 0 {
				def.DecimalPlaces = &n
			}
		case "choices":
			for _, choice := range strings.Split(value, "|") {
				v, label, ok := strings.Cut(choice, ":")
				if !ok {
					label = v
				}
				def.Options = append(def.Options, Option{Value: v, Label: label})
			}
		}
	}
}

func hasMetaFlag(tag, flag string) bool {
	for _, opt := range strings.Split(tag, ",") {
		if strings.TrimSpace(opt) == flag {
			return true
		}
	}
	return false
}

func jsonName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("json"); ok {
		parts := strings.Split(tag, ",")
		if parts[0] != "" {
			return parts[0]
		}
	}
	return snakeCase(field.Name)
}

// snakeCase converts a Go identifier to snake_case ("AuthorID" -> "author_id").
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || (nextLower && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// guessLabel splits a CamelCase name into words ("PublishedAt" -> "Published at").
func guessLabel(name string) string {
	words := strings.ReplaceAll(snakeCase(name), "_", " ")
	if words == "" {
		return ""
	}
	runes := []rune(words)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
