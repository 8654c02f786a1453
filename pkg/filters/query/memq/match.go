package memq

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"qfilter/pkg/filters/query"
)

func match(v any, p query.Predicate) (bool, error) {
	switch p.Lookup {
	case query.Exact:
		if p.Value == nil {
			return v == nil, nil
		}
		return equal(v, p.Value), nil
	case query.IExact:
		return v != nil && strings.EqualFold(text(v), text(p.Value)), nil
	case query.Contains:
		return v != nil && strings.Contains(text(v), text(p.Value)), nil
	case query.IContains:
		return v != nil && strings.Contains(strings.ToLower(text(v)), strings.ToLower(text(p.Value))), nil
	case query.StartsWith:
		return v != nil && strings.HasPrefix(text(v), text(p.Value)), nil
	case query.IStartsWith:
		return v != nil && strings.HasPrefix(strings.ToLower(text(v)), strings.ToLower(text(p.Value))), nil
	case query.EndsWith:
		return v != nil && strings.HasSuffix(text(v), text(p.Value)), nil
	case query.IEndsWith:
		return v != nil && strings.HasSuffix(strings.ToLower(text(v)), strings.ToLower(text(p.Value))), nil
	case query.In:
		vals, err := p.Values()
		if err != nil {
			return false, err
		}
		for _, w := range vals {
			if equal(v, w) {
				return true, nil
			}
		}
		return false, nil
	case query.Gt, query.Gte, query.Lt, query.Lte:
		c, ok := compare(v, p.Value)
		if !ok {
			return false, nil
		}
		switch p.Lookup {
		case query.Gt:
			return c > 0, nil
		case query.Gte:
			return c >= 0, nil
		case query.Lt:
			return c < 0, nil
		default:
			return c <= 0, nil
		}
	case query.Range:
		lo, hi, err := p.Bounds()
		if err != nil {
			return false, err
		}
		cl, okl := compare(v, lo)
		ch, okh := compare(v, hi)
		return okl && okh && cl >= 0 && ch <= 0, nil
	case query.IsNull:
		want, ok := p.Value.(bool)
		if !ok {
			return false, fmt.Errorf("memq: isnull lookup on %q needs a bool, got %T", p.Path, p.Value)
		}
		return (v == nil) == want, nil
	case query.Date:
		got, ok1 := v.(time.Time)
		want, ok2 := p.Value.(time.Time)
		if !ok1 || !ok2 {
			return false, nil
		}
		gy, gm, gd := got.Date()
		wy, wm, wd := want.Date()
		return gy == wy && gm == wm && gd == wd, nil
	}
	return false, fmt.Errorf("memq: unsupported lookup %q", p.Lookup)
}

func text(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	c, ok := compare(a, b)
	if ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

// compare orders two values of compatible kinds; ok is false otherwise.
func compare(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	switch x := a.(type) {
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	case time.Duration:
		y, ok := b.(time.Duration)
		if !ok {
			return 0, false
		}
		return cmpOrdered(x, y), true
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if x == y {
			return 0, true
		}
		if !x {
			return -1, true
		}
		return 1, true
	}
	da, ok := toDecimal(a)
	if !ok {
		return 0, false
	}
	db, ok := toDecimal(b)
	if !ok {
		return 0, false
	}
	return da.Cmp(db), true
}

func cmpOrdered[T ~int64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case time.Duration:
		return decimal.Decimal{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(rv.Uint()), 0), true
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(rv.Float()), true
	}
	return decimal.Decimal{}, false
}
