package sqlq

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"qfilter/pkg/filters/query"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// condition translates one predicate on a qualified column into SQL.
func condition(col string, p query.Predicate) (squirrel.Sqlizer, error) {
	switch p.Lookup {
	case query.Exact:
		return squirrel.Eq{col: p.Value}, nil
	case query.IExact:
		return squirrel.ILike{col: like(p.Value)}, nil
	case query.Contains:
		return squirrel.Like{col: "%" + like(p.Value) + "%"}, nil
	case query.IContains:
		return squirrel.ILike{col: "%" + like(p.Value) + "%"}, nil
	case query.StartsWith:
		return squirrel.Like{col: like(p.Value) + "%"}, nil
	case query.IStartsWith:
		return squirrel.ILike{col: like(p.Value) + "%"}, nil
	case query.EndsWith:
		return squirrel.Like{col: "%" + like(p.Value)}, nil
	case query.IEndsWith:
		return squirrel.ILike{col: "%" + like(p.Value)}, nil
	case query.In:
		vals, err := p.Values()
		if err != nil {
			return nil, err
		}
		return squirrel.Eq{col: vals}, nil
	case query.Gt:
		return squirrel.Gt{col: p.Value}, nil
	case query.Gte:
		return squirrel.GtOrEq{col: p.Value}, nil
	case query.Lt:
		return squirrel.Lt{col: p.Value}, nil
	case query.Lte:
		return squirrel.LtOrEq{col: p.Value}, nil
	case query.Range:
		lo, hi, err := p.Bounds()
		if err != nil {
			return nil, err
		}
		return squirrel.Expr(col+" BETWEEN ? AND ?", lo, hi), nil
	case query.IsNull:
		isNull, ok := p.Value.(bool)
		if !ok {
			return nil, fmt.Errorf("isnull lookup on %s needs a bool, got %T", p.Path, p.Value)
		}
		if isNull {
			return squirrel.Eq{col: nil}, nil
		}
		return squirrel.NotEq{col: nil}, nil
	case query.Date:
		return squirrel.Expr(col+"::date = ?", p.Value), nil
	}
	return nil, fmt.Errorf("unsupported lookup %q on %s", p.Lookup, p.Path)
}

func like(v any) string {
	return likeEscaper.Replace(fmt.Sprint(v))
}
