package sqlq

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Resolver checks that a key value refers to an existing row of a table.
type Resolver struct {
	q       Querier
	table   string
	columns map[string]bool
}

// NewResolver creates a resolver over table. Only the given key columns may be probed.
func NewResolver(q Querier, table string, keyColumns ...string) *Resolver {
	cols := make(map[string]bool, len(keyColumns))
	for _, col := range keyColumns {
		cols[col] = true
	}
	return &Resolver{q: q, table: table, columns: cols}
}

// Exists reports whether a row with column = value exists.
func (r *Resolver) Exists(ctx context.Context, column string, value any) (bool, error) {
	if !r.columns[column] {
		return false, fmt.Errorf("invalid key column: %s.%s", r.table, column)
	}

	sql, args, err := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select("1").
		From(r.table).
		Where(squirrel.Eq{column: value}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.q.QueryRow(ctx, sql, args...).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s.%s: %w", r.table, column, err)
	}
	return true, nil
}
