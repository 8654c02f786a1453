package filters

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const maxNumberInput = 1000

// Trailing ".0" is accepted on integers ("3.00" -> 3).
var integerFraction = regexp.MustCompile(`\.0*\s*$`)

func validateInteger(_ context.Context, f *Field, raw any) (any, error) {
	var n int64
	switch v := raw.(type) {
	case bool:
		return nil, Invalid("A valid integer is required.")
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, Invalid("A valid integer is required.")
		}
		n = int64(v)
	default:
		s, ok := scalarText(raw)
		if !ok {
			return nil, Invalid("A valid integer is required.")
		}
		if len(s) > maxNumberInput {
			return nil, Invalid("String value too large.")
		}
		parsed, err := strconv.ParseInt(integerFraction.ReplaceAllString(strings.TrimSpace(s), ""), 10, 64)
		if err != nil {
			return nil, Invalid("A valid integer is required.")
		}
		n = parsed
	}

	if errs := checkBounds(f, decimal.NewFromInt(n)); errs != nil {
		return nil, errs
	}
	return n, nil
}

func validateFloat(_ context.Context, f *Field, raw any) (any, error) {
	if _, isBool := raw.(bool); isBool {
		return nil, Invalid("A valid number is required.")
	}
	s, ok := scalarText(raw)
	if !ok {
		return nil, Invalid("A valid number is required.")
	}
	if len(s) > maxNumberInput {
		return nil, Invalid("String value too large.")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, Invalid("A valid number is required.")
	}

	if errs := checkBounds(f, decimal.NewFromFloat(v)); errs != nil {
		return nil, errs
	}
	return v, nil
}

func validateDecimal(_ context.Context, f *Field, raw any) (any, error) {
	if _, isBool := raw.(bool); isBool {
		return nil, Invalid("A valid number is required.")
	}
	s, ok := scalarText(raw)
	if !ok {
		return nil, Invalid("A valid number is required.")
	}
	if len(s) > maxNumberInput {
		return nil, Invalid("String value too large.")
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, Invalid("A valid number is required.")
	}

	if errs := checkPrecision(f, d); errs != nil {
		return nil, errs
	}
	if errs := checkBounds(f, d); errs != nil {
		return nil, errs
	}
	if f.decimalPlaces != nil {
		d = d.Round(int32(*f.decimalPlaces))
	}
	return d, nil
}

// checkPrecision enforces the digit limits of a decimal field. Trailing
// zeros count as digits ("1.50" has two decimal places).
func checkPrecision(f *Field, d decimal.Decimal) *FieldError {
	digits := len(strings.TrimPrefix(d.Coefficient().String(), "-"))
	exp := int(d.Exponent())

	var total, whole, places int
	switch {
	case exp >= 0:
		total = digits + exp
		whole = total
	case digits > -exp:
		total = digits
		places = -exp
		whole = total - places
	default:
		total = -exp
		places = total
	}

	if f.maxDigits != nil && total > *f.maxDigits {
		return NewFieldError(CodeMaxDigits, "Ensure that there are no more than %d digits in total.", *f.maxDigits)
	}
	if f.decimalPlaces != nil && places > *f.decimalPlaces {
		return NewFieldError(CodeMaxDecimalPlaces, "Ensure that there are no more than %d decimal places.", *f.decimalPlaces)
	}
	if f.maxDigits != nil && f.decimalPlaces != nil && whole > *f.maxDigits-*f.decimalPlaces {
		return NewFieldError(CodeMaxWholeDigits, "Ensure that there are no more than %d digits before the decimal point.",
			*f.maxDigits-*f.decimalPlaces)
	}
	return nil
}

func checkBounds(f *Field, d decimal.Decimal) *FieldError {
	errs := &FieldError{}
	if f.maxValue != nil && d.GreaterThan(*f.maxValue) {
		errs.merge(NewFieldError(CodeMaxValue, "Ensure this value is less than or equal to %s.", f.maxValue.String()))
	}
	if f.minValue != nil && d.LessThan(*f.minValue) {
		errs.merge(NewFieldError(CodeMinValue, "Ensure this value is greater than or equal to %s.", f.minValue.String()))
	}
	if len(errs.Details) == 0 {
		return nil
	}
	return errs
}
