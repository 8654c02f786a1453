package filters

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrImproperlyConfigured is wrapped by every schema configuration error.
var ErrImproperlyConfigured = errors.New("filters: improperly configured")

// ConfigError reports a schema that cannot be built. It is a programmer
// error and must not be rendered as a client error.
type ConfigError struct {
	Schema string
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("filters: schema %q, field %q: %s", e.Schema, e.Field, e.Reason)
	}
	return fmt.Sprintf("filters: schema %q: %s", e.Schema, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrImproperlyConfigured
}

func configErrorf(schema, field, format string, args ...any) *ConfigError {
	return &ConfigError{Schema: schema, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Code is a machine-readable validation error code.
type Code string

const (
	CodeRequired         Code = "required"
	CodeNull             Code = "null"
	CodeBlank            Code = "blank"
	CodeInvalid          Code = "invalid"
	CodeMinLength        Code = "min_length"
	CodeMaxLength        Code = "max_length"
	CodeMinValue         Code = "min_value"
	CodeMaxValue         Code = "max_value"
	CodeMaxDigits        Code = "max_digits"
	CodeMaxDecimalPlaces Code = "max_decimal_places"
	CodeMaxWholeDigits   Code = "max_whole_digits"
	CodeInvalidChoice    Code = "invalid_choice"
	CodeDoesNotExist     Code = "does_not_exist"
	CodeNotAList         Code = "not_a_list"
)

// ErrorDetail is a single validation message.
type ErrorDetail struct {
	Message string `json:"message"`
	Code    Code   `json:"code"`
}

// FieldError holds the validation errors of one field. List fields report
// per-element errors in Items, keyed by element index.
type FieldError struct {
	Details []ErrorDetail
	Items   map[int]*FieldError
}

// NewFieldError creates a field error with a single detail.
func NewFieldError(code Code, format string, args ...any) *FieldError {
	return &FieldError{Details: []ErrorDetail{{Message: fmt.Sprintf(format, args...), Code: code}}}
}

// Invalid is a shorthand for a field error with the invalid code.
func Invalid(message string) *FieldError {
	return NewFieldError(CodeInvalid, "%s", message)
}

func (e *FieldError) Error() string {
	if len(e.Items) > 0 {
		idx := make([]int, 0, len(e.Items))
		for i := range e.Items {
			idx = append(idx, i)
		}
		sort.Ints(idx)
		parts := make([]string, 0, len(idx))
		for _, i := range idx {
			parts = append(parts, fmt.Sprintf("[%d] %s", i, e.Items[i].Error()))
		}
		return strings.Join(parts, "; ")
	}
	msgs := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		msgs = append(msgs, d.Message)
	}
	return strings.Join(msgs, " ")
}

// Codes lists the codes of the field's own details.
func (e *FieldError) Codes() []Code {
	codes := make([]Code, 0, len(e.Details))
	for _, d := range e.Details {
		codes = append(codes, d.Code)
	}
	return codes
}

// merge appends the details and items of other.
func (e *FieldError) merge(other *FieldError) {
	e.Details = append(e.Details, other.Details...)
	for i, item := range other.Items {
		if e.Items == nil {
			e.Items = make(map[int]*FieldError)
		}
		e.Items[i] = item
	}
}

func (e *FieldError) MarshalJSON() ([]byte, error) {
	if len(e.Items) > 0 {
		items := make(map[string]*FieldError, len(e.Items))
		for i, item := range e.Items {
			items[strconv.Itoa(i)] = item
		}
		return json.Marshal(items)
	}
	return json.Marshal(e.Details)
}

// Errors maps field names to their validation errors.
type Errors map[string]*FieldError

func (e Errors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e[name].Error())
	}
	return "invalid filter parameters: " + strings.Join(parts, "; ")
}

// AsErrors extracts validation errors from err.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}
