package filters

import (
	"context"
	"fmt"
	"strings"
)

var (
	trueValues  = map[string]bool{"t": true, "y": true, "yes": true, "true": true, "on": true, "1": true}
	falseValues = map[string]bool{"f": true, "n": true, "no": true, "false": true, "off": true, "0": true}
	nullValues  = map[string]bool{"null": true, "none": true, "": true}
)

// validateBoolean accepts booleans, 0/1 and the token vocabulary above.
// Null tokens give nil, which filters nothing.
func validateBoolean(_ context.Context, _ *Field, raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case int64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case string:
		token := strings.ToLower(strings.TrimSpace(v))
		switch {
		case trueValues[token]:
			return true, nil
		case falseValues[token]:
			return false, nil
		case nullValues[token]:
			return nil, nil
		}
	}
	return nil, Invalid("Must be a valid boolean.")
}

func validateChoice(_ context.Context, f *Field, raw any) (any, error) {
	key, ok := scalarText(raw)
	if !ok {
		if b, isBool := raw.(bool); isBool {
			key = fmt.Sprint(b)
		} else {
			return nil, NewFieldError(CodeInvalidChoice, `"%v" is not a valid choice.`, raw)
		}
	}
	if f.trim {
		key = strings.TrimSpace(key)
	}
	if key == "" && f.allowBlank {
		return "", nil
	}
	for _, c := range f.choices {
		if c.Value == key {
			return c.Value, nil
		}
	}
	return nil, NewFieldError(CodeInvalidChoice, `"%s" is not a valid choice.`, key)
}

// validateRelated coerces the key and checks that the related row exists.
func validateRelated(ctx context.Context, f *Field, raw any) (any, error) {
	var key any
	if f.isKeyText() {
		s, ok := scalarText(raw)
		s = strings.TrimSpace(s)
		if !ok || s == "" {
			return nil, Invalid("Invalid value.")
		}
		key = s
	} else {
		n, err := validateInteger(ctx, &Field{kind: KindInteger}, raw)
		if err != nil {
			return nil, Invalid(fmt.Sprintf("Incorrect type. Expected pk value, received %s.", typeName(raw)))
		}
		key = n
	}

	exists, err := f.resolver.Exists(ctx, f.keyColumn, key)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", f.name, err)
	}
	if !exists {
		if f.isKeyText() {
			return nil, NewFieldError(CodeDoesNotExist, "Object with %s=%v does not exist.", f.keyColumn, key)
		}
		return nil, NewFieldError(CodeDoesNotExist, `Invalid pk "%v" - object does not exist.`, key)
	}
	return key, nil
}
