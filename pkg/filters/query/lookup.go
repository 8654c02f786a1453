// Package query defines the predicate vocabulary shared by filter schemas
// and the queryable collections they narrow.
package query

import (
	"fmt"
	"strings"
)

// Lookup is a named comparison mode applied between an attribute and a value.
type Lookup string

const (
	Exact       Lookup = "exact"       // Равно
	IExact      Lookup = "iexact"      // Равно без учета регистра
	Contains    Lookup = "contains"    // Содержит
	IContains   Lookup = "icontains"   // Содержит без учета регистра
	StartsWith  Lookup = "startswith"  // Начинается с
	IStartsWith Lookup = "istartswith" // Начинается с без учета регистра
	EndsWith    Lookup = "endswith"    // Заканчивается на
	IEndsWith   Lookup = "iendswith"   // Заканчивается на без учета регистра
	In          Lookup = "in"          // В списке
	Gt          Lookup = "gt"          // Больше
	Gte         Lookup = "gte"         // Больше или равно
	Lt          Lookup = "lt"          // Меньше
	Lte         Lookup = "lte"         // Меньше или равно
	Range       Lookup = "range"       // Между (включительно)
	IsNull      Lookup = "isnull"      // Не заполнено / заполнено
	Date        Lookup = "date"        // Дата момента времени равна
)

var knownLookups = map[Lookup]struct{}{
	Exact: {}, IExact: {}, Contains: {}, IContains: {},
	StartsWith: {}, IStartsWith: {}, EndsWith: {}, IEndsWith: {},
	In: {}, Gt: {}, Gte: {}, Lt: {}, Lte: {}, Range: {}, IsNull: {}, Date: {},
}

// Valid reports whether l is a known lookup.
func (l Lookup) Valid() bool {
	_, ok := knownLookups[l]
	return ok
}

// IsLowerBound reports whether l bounds a value from below.
func (l Lookup) IsLowerBound() bool {
	return l == Gt || l == Gte
}

// IsUpperBound reports whether l bounds a value from above.
func (l Lookup) IsUpperBound() bool {
	return l == Lt || l == Lte
}

// ParseLookup converts a token such as "icontains" into a Lookup.
func ParseLookup(s string) (Lookup, error) {
	l := Lookup(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown lookup %q", s)
	}
	return l, nil
}
