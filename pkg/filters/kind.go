package filters

import "context"

// Kind is the closed set of field types.
type Kind int

const (
	KindText Kind = iota + 1
	KindBoolean
	KindInteger
	KindFloat
	KindDecimal
	KindChoice
	KindDate
	KindDateTime
	KindTime
	KindDuration
	KindList
	KindRange
	KindRelated
)

var kindNames = map[Kind]string{
	KindText:     "text",
	KindBoolean:  "boolean",
	KindInteger:  "integer",
	KindFloat:    "float",
	KindDecimal:  "decimal",
	KindChoice:   "choice",
	KindDate:     "date",
	KindDateTime: "datetime",
	KindTime:     "time",
	KindDuration: "duration",
	KindList:     "list",
	KindRange:    "range",
	KindRelated:  "related",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsSequence reports whether the kind takes several values.
func (k Kind) IsSequence() bool {
	return k == KindList || k == KindRange
}

// Format narrows KindText to a sub-format.
type Format int

const (
	FormatPlain Format = iota
	FormatEmail
	FormatSlug
	FormatURL
	FormatIPAddress
)

// validateFunc converts a non-empty raw value into a typed value.
// A *FieldError is a user error, anything else is an infrastructure failure.
type validateFunc func(ctx context.Context, f *Field, raw any) (any, error)

// capability is the per-kind strategy.
type capability struct {
	validate  validateFunc
	primitive string // Coerced primitive type for schema documentation
}

var capabilities map[Kind]capability

// Populated in init: list kinds recurse into the table through their child.
func init() {
	capabilities = map[Kind]capability{
		KindText:     {validate: validateText, primitive: "string"},
		KindBoolean:  {validate: validateBoolean, primitive: "boolean"},
		KindInteger:  {validate: validateInteger, primitive: "integer"},
		KindFloat:    {validate: validateFloat, primitive: "integer"},
		KindDecimal:  {validate: validateDecimal, primitive: "integer"},
		KindChoice:   {validate: validateChoice, primitive: "enum"},
		KindDate:     {validate: validateDate, primitive: "string"},
		KindDateTime: {validate: validateDateTime, primitive: "string"},
		KindTime:     {validate: validateTime, primitive: "string"},
		KindDuration: {validate: validateDuration, primitive: "string"},
		KindList:     {validate: validateList, primitive: "array"},
		KindRange:    {validate: validateList, primitive: "array"},
		KindRelated:  {validate: validateRelated, primitive: "integer"},
	}
}

// Widget is an HTML form rendering hint.
type Widget string

const (
	WidgetInput    Widget = "input"
	WidgetCheckbox Widget = "checkbox"
	WidgetTextarea Widget = "textarea"
)

// WidgetHint maps a field kind to the widget that renders it.
func WidgetHint(k Kind) Widget {
	switch k {
	case KindBoolean:
		return WidgetCheckbox
	case KindList, KindRange:
		return WidgetTextarea
	default:
		return WidgetInput
	}
}
