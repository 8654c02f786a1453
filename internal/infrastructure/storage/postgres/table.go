package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"qfilter/internal/core/apperror"
	"qfilter/pkg/filters/query"
	"qfilter/pkg/filters/query/sqlq"
)

// Table serves filterable collections over one table and scans the
// narrowed result into rows of type T.
type Table[T any] struct {
	q         pgxscan.Querier
	name      string
	columns   []string
	relations map[string]sqlq.Relation
}

// NewTable creates a table whose selectable and filterable columns are the
// "db" tags of T.
func NewTable[T any](q pgxscan.Querier, name string, relations map[string]sqlq.Relation) *Table[T] {
	return &Table[T]{
		q:         q,
		name:      name,
		columns:   ExtractDBColumns[T](),
		relations: relations,
	}
}

func (t *Table[T]) Name() string {
	return t.name
}

// Collection returns the unfiltered table.
func (t *Table[T]) Collection() query.Collection {
	return sqlq.New(t.name, t.columns, t.relations)
}

// Select runs the narrowed query. Database failures other than an expired
// context are reported as apperror DATABASE_ERROR.
func (t *Table[T]) Select(ctx context.Context, coll query.Collection) ([]T, error) {
	sc, ok := coll.(*sqlq.Collection)
	if !ok {
		return nil, fmt.Errorf("table %s: unexpected collection type %T", t.name, coll)
	}
	rows := make([]T, 0)
	if err := sc.Select(ctx, t.q, &rows); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, apperror.NewDatabase(err)
	}
	return rows, nil
}

// Fetch is Select for callers that do not know T.
func (t *Table[T]) Fetch(ctx context.Context, coll query.Collection) (any, error) {
	return t.Select(ctx, coll)
}
