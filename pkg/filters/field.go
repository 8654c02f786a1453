package filters

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"qfilter/pkg/filters/query"
)

// Resolver checks that a key value refers to an existing related row.
// memq.Collection and sqlq.Resolver implement it.
type Resolver interface {
	Exists(ctx context.Context, column string, value any) (bool, error)
}

// Choice is one member of an enumerated field.
type Choice struct {
	Value string
	Label string
}

// Declaration is something that can be declared as a schema field.
// Only *Field is accepted; nested schemas are rejected at Build.
type Declaration interface {
	declaration()
}

// Field is a typed, validating filter field.
//
// Fields are created by the kind constructors (Char, Integer, List, ...) and
// configured with options. Declaring a field in a schema binds a copy of it,
// so a *Field value can be shared between schemas.
type Field struct {
	kind   Kind
	format Format

	schema    string
	name      string
	source    string
	sourceSet bool
	path      Path

	lookup  query.Lookup
	lookups []query.Lookup // Paired range operators

	required   bool
	distinct   bool
	exclude    bool
	allowNull  bool
	allowBlank bool
	trim       bool

	label    string
	helpText string

	minLength *int
	maxLength *int
	minValue  *decimal.Decimal
	maxValue  *decimal.Decimal

	maxDigits     *int
	decimalPlaces *int

	choices   []Choice
	formats   []string
	separator string
	child     *Field

	resolver  Resolver
	keyColumn string
	keyKind   Kind
}

func (*Field) declaration() {}

func newField(kind Kind, opts []Option) *Field {
	f := &Field{
		kind:   kind,
		lookup: query.Exact,
		trim:   true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Char creates a plain text field.
func Char(opts ...Option) *Field {
	return newField(KindText, opts)
}

// Email creates a text field accepting e-mail addresses.
func Email(opts ...Option) *Field {
	f := newField(KindText, opts)
	f.format = FormatEmail
	return f
}

// Slug creates a text field accepting letters, digits, underscores and hyphens.
func Slug(opts ...Option) *Field {
	f := newField(KindText, opts)
	f.format = FormatSlug
	return f
}

// URL creates a text field accepting absolute URLs.
func URL(opts ...Option) *Field {
	f := newField(KindText, opts)
	f.format = FormatURL
	return f
}

// IPAddress creates a text field accepting IPv4 and IPv6 addresses.
func IPAddress(opts ...Option) *Field {
	f := newField(KindText, opts)
	f.format = FormatIPAddress
	return f
}

// Boolean creates a field accepting true/false/null tokens.
func Boolean(opts ...Option) *Field {
	return newField(KindBoolean, opts)
}

func Integer(opts ...Option) *Field {
	return newField(KindInteger, opts)
}

func Float(opts ...Option) *Field {
	return newField(KindFloat, opts)
}

// Decimal creates a fixed-precision decimal field. Zero maxDigits or a
// negative decimalPlaces leave that limit unset.
func Decimal(maxDigits, decimalPlaces int, opts ...Option) *Field {
	f := newField(KindDecimal, nil)
	if maxDigits > 0 {
		f.maxDigits = &maxDigits
	}
	if decimalPlaces >= 0 {
		f.decimalPlaces = &decimalPlaces
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ChoiceOf creates a field whose value must be one of choices.
func ChoiceOf(choices []Choice, opts ...Option) *Field {
	f := newField(KindChoice, opts)
	f.choices = append([]Choice(nil), choices...)
	return f
}

func Date(opts ...Option) *Field {
	return newField(KindDate, opts)
}

func DateTime(opts ...Option) *Field {
	return newField(KindDateTime, opts)
}

func Time(opts ...Option) *Field {
	return newField(KindTime, opts)
}

func Duration(opts ...Option) *Field {
	return newField(KindDuration, opts)
}

// List creates a field accepting a sequence of child values. A nil child
// accepts plain text. The default lookup is "in".
func List(child *Field, opts ...Option) *Field {
	f := &Field{kind: KindList, lookup: query.In, separator: ",", trim: true}
	f.child = childOrText(child)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Range creates a list field of exactly two values. The default lookup is
// the inclusive "range"; RangeLookups replaces it with two bound operators.
func Range(child *Field, opts ...Option) *Field {
	f := &Field{kind: KindRange, lookup: query.Range, separator: ",", trim: true}
	f.child = childOrText(child)
	for _, opt := range opts {
		opt(f)
	}
	two := 2
	f.minLength, f.maxLength = &two, &two
	return f
}

// PrimaryKeyRelated creates a field whose value is the integer primary key
// of an existing related row.
func PrimaryKeyRelated(resolver Resolver, opts ...Option) *Field {
	f := newField(KindRelated, nil)
	f.resolver = resolver
	f.keyColumn = "id"
	f.keyKind = KindInteger
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SlugRelated creates a field whose value is the unique slugField of an
// existing related row.
func SlugRelated(resolver Resolver, slugField string, opts ...Option) *Field {
	f := newField(KindRelated, nil)
	f.resolver = resolver
	f.keyColumn = slugField
	f.keyKind = KindText
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func childOrText(child *Field) *Field {
	if child == nil {
		return Char()
	}
	c := *child
	return &c
}

func (f *Field) Kind() Kind { return f.kind }
func (f *Field) Format() Format { return f.format }
func (f *Field) Name() string { return f.name }
func (f *Field) Source() string { return f.source }
func (f *Field) Lookup() query.Lookup { return f.lookup }
func (f *Field) Lookups() []query.Lookup { return f.lookups }
func (f *Field) IsRequired() bool { return f.required }
func (f *Field) IsDistinct() bool { return f.distinct }
func (f *Field) IsExclude() bool { return f.exclude }
func (f *Field) Label() string { return f.label }
func (f *Field) HelpText() string { return f.helpText }
func (f *Field) Choices() []Choice { return f.choices }
func (f *Field) Separator() string { return f.separator }
func (f *Field) Child() *Field { return f.child }
func (f *Field) KeyColumn() string { return f.keyColumn }
func (f *Field) hasPairedLookups() bool { return len(f.lookups) > 0 }
func (f *Field) isKeyText() bool { return f.keyKind == KindText }
func (f *Field) primitive() string { return capabilities[f.kind].primitive }

func (f *Field) clone() *Field {
	c := *f
	return &c
}

// bind returns a copy of f attached to name within schema.
func (f *Field) bind(schema, name string) (*Field, error) {
	b := f.clone()

	// A source equal to the name is redundant
	if b.sourceSet && b.source == name {
		return nil, configErrorf(schema, name,
			"it is redundant to specify source %q on field %q because it is the same as the field name; remove the Source option",
			name, name)
	}

	b.schema = schema
	b.name = name
	if b.label == "" {
		b.label = defaultLabel(name)
	}
	if !b.sourceSet {
		b.source = name
	}
	b.path = ParsePath(b.source)

	if !b.lookup.Valid() {
		return nil, configErrorf(schema, name, "unknown lookup %q", b.lookup)
	}

	if b.hasPairedLookups() {
		if b.kind != KindRange {
			return nil, configErrorf(schema, name, "paired lookups are only supported on range fields")
		}
		if len(b.lookups) != 2 || !b.lookups[0].IsLowerBound() || !b.lookups[1].IsUpperBound() {
			return nil, configErrorf(schema, name,
				"range lookups must be a lower bound (gt, gte) followed by an upper bound (lt, lte), got %v", b.lookups)
		}
	}

	switch b.kind {
	case KindList, KindRange:
		if b.separator == "" {
			return nil, configErrorf(schema, name, "list separator must not be empty")
		}
		if b.child.kind.IsSequence() {
			return nil, configErrorf(schema, name, "list child must be a scalar field")
		}
		if b.child.kind == KindRelated && b.child.resolver == nil {
			return nil, configErrorf(schema, name, "related child field needs a resolver")
		}
	case KindChoice:
		if len(b.choices) == 0 {
			return nil, configErrorf(schema, name, "choice field needs at least one choice")
		}
	case KindRelated:
		if b.resolver == nil {
			return nil, configErrorf(schema, name, "related field needs a resolver")
		}
		if b.keyColumn == "" {
			return nil, configErrorf(schema, name, "related field needs a key column")
		}
	}

	return b, nil
}

// defaultLabel turns "slug_text" into "Slug text".
func defaultLabel(name string) string {
	s := strings.ReplaceAll(name, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
