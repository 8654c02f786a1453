package filters

import (
	"fmt"
	"strings"

	"qfilter/pkg/filters/query"
)

// Value is a validated value shaped along a source path: a scalar, or a
// mapping of path segments to nested values.
type Value struct {
	scalar  any
	mapping map[string]Value
}

// Scalar wraps a leaf value.
func Scalar(v any) Value {
	return Value{scalar: v}
}

// Mapping wraps nested values.
func Mapping(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{mapping: m}
}

func (v Value) IsMapping() bool {
	return v.mapping != nil
}

// Interface unwraps the value; mappings become map[string]any.
func (v Value) Interface() any {
	if !v.IsMapping() {
		return v.scalar
	}
	m := make(map[string]any, len(v.mapping))
	for k, sub := range v.mapping {
		m[k] = sub.Interface()
	}
	return m
}

// Path is a source attribute path, one entry per dotted segment.
type Path []string

// ParsePath splits "author.name" into segments.
func ParsePath(source string) Path {
	return strings.Split(source, ".")
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Nest shapes v along the path below its first segment:
// Path{"author", "name"}.Nest(x) is Mapping{"name": Scalar(x)}.
func (p Path) Nest(v any) Value {
	out := Scalar(v)
	for i := len(p) - 1; i >= 1; i-- {
		out = Mapping(map[string]Value{p[i]: out})
	}
	return out
}

// Walk extracts the scalar below the first segment. A missing key yields
// nil. Every intermediate value must be a mapping; callers report a failed
// walk as a configuration error.
func (p Path) Walk(v Value) (any, error) {
	cur := v
	for i := 1; i < len(p); i++ {
		if !cur.IsMapping() {
			if i == 1 && cur.scalar == nil {
				return nil, nil
			}
			return nil, fmt.Errorf("source %q: segment %q does not resolve to a mapping", p.String(), p[i-1])
		}
		next, ok := cur.mapping[p[i]]
		if !ok {
			return nil, nil
		}
		cur = next
	}
	if cur.IsMapping() {
		return nil, fmt.Errorf("source %q resolves to a mapping, not a value", p.String())
	}
	return cur.scalar, nil
}

// Attribute renders the query attribute path. A trailing "id" segment is
// folded into the relation ("author.id" -> "author_id") so that the key is
// compared without traversing the relation.
func (p Path) Attribute() string {
	if len(p) > 1 && p[len(p)-1] == "id" {
		return strings.Join(p[:len(p)-1], query.PathSeparator) + "_id"
	}
	return strings.Join(p, query.PathSeparator)
}
