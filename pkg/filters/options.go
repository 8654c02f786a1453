package filters

import (
	"github.com/shopspring/decimal"

	"qfilter/pkg/filters/query"
)

// Option configures a Field.
type Option func(*Field)

// Source maps the field to an internal attribute path. Segments are
// separated by dots ("author.name"); a trailing "id" segment compares the
// relation key directly ("author.id" -> "author_id").
func Source(source string) Option {
	return func(f *Field) {
		f.source = source
		f.sourceSet = true
	}
}

// LookupExpr sets the comparison operator.
func LookupExpr(lookup query.Lookup) Option {
	return func(f *Field) {
		f.lookup = lookup
		f.lookups = nil
	}
}

// RangeLookups makes a range field issue one predicate per bound.
func RangeLookups(lower, upper query.Lookup) Option {
	return func(f *Field) {
		f.lookups = []query.Lookup{lower, upper}
	}
}

// Required makes the parameter mandatory. Fields are optional by default.
func Required() Option {
	return func(f *Field) { f.required = true }
}

// Optional undoes Required.
func Optional() Option {
	return func(f *Field) { f.required = false }
}

// Distinct deduplicates the collection before filtering.
func Distinct() Option {
	return func(f *Field) { f.distinct = true }
}

// Exclude negates the predicate.
func Exclude() Option {
	return func(f *Field) { f.exclude = true }
}

// AllowNull accepts an explicit null ("" for text input) as "no filter".
func AllowNull() Option {
	return func(f *Field) { f.allowNull = true }
}

// AllowBlank accepts an empty string on a required text field.
func AllowBlank() Option {
	return func(f *Field) { f.allowBlank = true }
}

// KeepWhitespace disables trimming of text input.
func KeepWhitespace() Option {
	return func(f *Field) { f.trim = false }
}

func Label(label string) Option {
	return func(f *Field) { f.label = label }
}

func HelpText(text string) Option {
	return func(f *Field) { f.helpText = text }
}

// MinLength bounds text length, or the number of list elements.
func MinLength(n int) Option {
	return func(f *Field) { f.minLength = &n }
}

// MaxLength bounds text length, or the number of list elements.
func MaxLength(n int) Option {
	return func(f *Field) { f.maxLength = &n }
}

// MinValue bounds numeric values from below (inclusive).
func MinValue(v float64) Option {
	d := decimal.NewFromFloat(v)
	return func(f *Field) { f.minValue = &d }
}

// MaxValue bounds numeric values from above (inclusive).
func MaxValue(v float64) Option {
	d := decimal.NewFromFloat(v)
	return func(f *Field) { f.maxValue = &d }
}

// InputFormats replaces the accepted layouts of a temporal field. Layouts use
// the time package notation; "iso-8601" stands for the default layouts.
func InputFormats(layouts ...string) Option {
	return func(f *Field) { f.formats = append([]string(nil), layouts...) }
}

// Separator sets the list element separator. The default is ",".
func Separator(sep string) Option {
	return func(f *Field) { f.separator = sep }
}

// Resolve sets the resolver of a related field.
func Resolve(r Resolver) Option {
	return func(f *Field) { f.resolver = r }
}
