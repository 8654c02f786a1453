package query

import (
	"fmt"
	"strings"
)

// PathSeparator joins the segments of an attribute path ("author__name").
const PathSeparator = "__"

// Predicate is a single filter/exclude condition.
type Predicate struct {
	Path   string // Attribute path, segments joined by PathSeparator
	Lookup Lookup // Comparison mode
	Value  any    // Validated value (scalar, []any for in/range, bool for isnull)
}

// P is shorthand for building a Predicate.
func P(path string, lookup Lookup, value any) Predicate {
	return Predicate{Path: path, Lookup: lookup, Value: value}
}

// Segments splits the attribute path into its traversal segments.
func (p Predicate) Segments() []string {
	return strings.Split(p.Path, PathSeparator)
}

// Key renders the predicate key in "<path>__<lookup>" form.
func (p Predicate) Key() string {
	return p.Path + PathSeparator + string(p.Lookup)
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s=%v", p.Key(), p.Value)
}

// Bounds returns the two ends of a range value.
func (p Predicate) Bounds() (lo, hi any, err error) {
	vals, ok := p.Value.([]any)
	if !ok || len(vals) != 2 {
		return nil, nil, fmt.Errorf("%s: range lookup needs exactly two values, got %v", p.Path, p.Value)
	}
	return vals[0], vals[1], nil
}

// Values returns the members of an "in" value.
func (p Predicate) Values() ([]any, error) {
	vals, ok := p.Value.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: in lookup needs a list value, got %T", p.Path, p.Value)
	}
	return vals, nil
}
