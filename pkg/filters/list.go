package filters

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// validateList decodes a sequence, checks its length and validates every
// element with the child field. Element errors are keyed by index.
func validateList(ctx context.Context, f *Field, raw any) (any, error) {
	items, ferr := f.decodeList(raw)
	if ferr != nil {
		return nil, ferr
	}
	if len(items) == 0 && f.minLength == nil {
		return []any{}, nil
	}

	if f.minLength != nil && len(items) < *f.minLength {
		return nil, NewFieldError(CodeMinLength, "Ensure this field has at least %d elements.", *f.minLength)
	}
	if f.maxLength != nil && len(items) > *f.maxLength {
		return nil, NewFieldError(CodeMaxLength, "Ensure this field has no more than %d elements.", *f.maxLength)
	}

	out := make([]any, len(items))
	errs := &FieldError{}
	for i, item := range items {
		v, err := f.child.Validate(ctx, item)
		if err != nil {
			var fe *FieldError
			if !errors.As(err, &fe) {
				return nil, err
			}
			if errs.Items == nil {
				errs.Items = make(map[int]*FieldError)
			}
			errs.Items[i] = fe
			continue
		}
		out[i] = v
	}
	if len(errs.Items) > 0 {
		return nil, errs
	}
	return out, nil
}

// decodeList accepts repeated values, a bracketed JSON array or a
// separator-delimited string. A single repeated value is decoded as text.
func (f *Field) decodeList(raw any) ([]any, *FieldError) {
	switch v := raw.(type) {
	case []any:
		return v, nil
	case []string:
		if len(v) == 1 {
			return f.decodeText(v[0]), nil
		}
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, nil
	case string:
		return f.decodeText(v), nil
	}
	return nil, NewFieldError(CodeNotAList, `Expected a list of items but got type "%s".`, typeName(raw))
}

// decodeText parses "[1,2,3]" as JSON and falls back to splitting on the
// separator when it is not a valid JSON array.
func (f *Field) decodeText(s string) []any {
	t := strings.TrimSpace(s)
	if t == "" {
		return []any{}
	}

	if strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]") {
		dec := json.NewDecoder(strings.NewReader(t))
		dec.UseNumber()
		var items []any
		if err := dec.Decode(&items); err == nil && !dec.More() {
			return items
		}
	}

	parts := strings.Split(s, f.separator)
	items := make([]any, len(parts))
	for i, p := range parts {
		items[i] = p
	}
	return items
}
