package filters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"

	"github.com/shopspring/decimal"
)

// Validate checks a raw value and converts it to the field's type.
// Raw values are strings (query input) or native Go values; nil is null.
//
// The returned error is a *FieldError for invalid input. Any other error
// means validation could not run, e.g. a resolver failed.
func (f *Field) Validate(ctx context.Context, raw any) (any, error) {
	if raw == nil {
		if !f.allowNull {
			return nil, NewFieldError(CodeNull, "This field may not be null.")
		}
		return nil, nil
	}
	return capabilities[f.kind].validate(ctx, f, raw)
}

// clean extracts and validates the field's parameter. present is false when
// the parameter is absent or counts as absent.
func (f *Field) clean(ctx context.Context, params url.Values) (value any, present bool, err error) {
	vals, ok := params[f.name]
	if !ok || len(vals) == 0 {
		if f.required {
			return nil, false, NewFieldError(CodeRequired, "This field is required.")
		}
		return nil, false, nil
	}

	// Scalars take the last value, like a repeated form key
	var raw any = vals[len(vals)-1]
	if f.kind.IsSequence() {
		raw = vals
	}

	if len(vals) == 1 && vals[0] == "" {
		if f.allowNull {
			return nil, true, nil
		}
		if !f.required {
			return nil, false, nil
		}
	}

	v, err := f.Validate(ctx, raw)
	if err != nil {
		return nil, true, err
	}
	return v, true, nil
}

// isEmpty reports whether a validated value means "no filter".
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// scalarText renders a scalar raw value as text. Booleans, lists and maps
// are not scalars here.
func scalarText(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case decimal.Decimal:
		return v.String(), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

// typeName names the type of a raw value in error messages.
func typeName(raw any) string {
	switch raw.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any, []string:
		return "list"
	}
	if raw == nil {
		return "null"
	}
	return reflect.TypeOf(raw).Kind().String()
}
