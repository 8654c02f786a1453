// Package sqlq implements query.Collection on top of a squirrel SELECT builder.
//
// Predicates are composed lazily; nothing touches the database until the
// collection is realised with ToSql or Select. Attribute paths are resolved
// against a column whitelist (SQL injection protection) and declared
// relations, which are joined on first use.
package sqlq

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"qfilter/pkg/filters/query"
)

// Relation describes a foreign key that attribute paths may traverse.
type Relation struct {
	Table        string   // Related table
	Column       string   // Local foreign-key column, defaults to "<relation>_id"
	RemoteColumn string   // Referenced column, defaults to "id"
	Columns      []string // Related columns allowed in paths; empty allows RemoteColumn only
}

// Collection is an immutable SQL-backed query.Collection.
type Collection struct {
	table     string
	columns   map[string]bool
	relations map[string]Relation
	joined    map[string]bool
	b         squirrel.SelectBuilder
	err       error
}

var _ query.Collection = (*Collection)(nil)

// New creates a collection selecting columns from table.
func New(table string, columns []string, relations map[string]Relation) *Collection {
	cols := make(map[string]bool, len(columns))
	selectCols := make([]string, 0, len(columns))
	for _, col := range columns {
		cols[col] = true
		selectCols = append(selectCols, table+"."+col)
	}

	rels := make(map[string]Relation, len(relations))
	for name, rel := range relations {
		if rel.Column == "" {
			rel.Column = name + "_id"
		}
		if rel.RemoteColumn == "" {
			rel.RemoteColumn = "id"
		}
		rels[name] = rel
	}

	return &Collection{
		table:     table,
		columns:   cols,
		relations: rels,
		joined:    map[string]bool{},
		b: squirrel.StatementBuilder.
			PlaceholderFormat(squirrel.Dollar).
			Select(selectCols...).
			From(table),
	}
}

// Filter restricts the rows to those matching every predicate.
func (c *Collection) Filter(preds ...query.Predicate) query.Collection {
	next, parts, err := c.sqlize(preds)
	if err != nil {
		return next.fail(err)
	}
	for _, part := range parts {
		next.b = next.b.Where(part)
	}
	return next
}

// Exclude drops the rows matching every predicate. A comparison with NULL
// counts as not matching, so rows with NULL columns are kept.
func (c *Collection) Exclude(preds ...query.Predicate) query.Collection {
	next, parts, err := c.sqlize(preds)
	if err != nil {
		return next.fail(err)
	}
	if len(parts) == 0 {
		return next
	}

	sqls := make([]string, 0, len(parts))
	var args []any
	for _, part := range parts {
		s, a, err := part.ToSql()
		if err != nil {
			return next.fail(fmt.Errorf("build exclusion: %w", err))
		}
		sqls = append(sqls, s)
		args = append(args, a...)
	}
	next.b = next.b.Where(squirrel.Expr("NOT COALESCE(("+strings.Join(sqls, " AND ")+"), FALSE)", args...))
	return next
}

// Distinct removes duplicate rows.
func (c *Collection) Distinct() query.Collection {
	next := c.clone()
	next.b = next.b.Distinct()
	return next
}

// Builder exposes the underlying builder for ordering and pagination.
func (c *Collection) Builder() squirrel.SelectBuilder {
	return c.b
}

// Err returns the first error met while narrowing.
func (c *Collection) Err() error {
	return c.err
}

// ToSql renders the composed query.
func (c *Collection) ToSql() (string, []any, error) {
	if c.err != nil {
		return "", nil, c.err
	}
	return c.b.ToSql()
}

// Select realises the query into dest (a pointer to a slice).
func (c *Collection) Select(ctx context.Context, q pgxscan.Querier, dest any) error {
	sql, args, err := c.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, q, dest, sql, args...); err != nil {
		return fmt.Errorf("select %s: %w", c.table, err)
	}
	return nil
}

func (c *Collection) clone() *Collection {
	next := *c
	next.joined = maps.Clone(c.joined)
	return &next
}

func (c *Collection) fail(err error) *Collection {
	if c.err == nil {
		c.err = err
	}
	return c
}

func (c *Collection) sqlize(preds []query.Predicate) (*Collection, []squirrel.Sqlizer, error) {
	next := c.clone()
	if c.err != nil {
		return next, nil, c.err
	}
	parts := make([]squirrel.Sqlizer, 0, len(preds))
	for _, p := range preds {
		col, err := next.column(p)
		if err != nil {
			return next, nil, err
		}
		part, err := condition(col, p)
		if err != nil {
			return next, nil, err
		}
		parts = append(parts, part)
	}
	return next, parts, nil
}

// column resolves a predicate path to a qualified column, joining relations as needed.
func (c *Collection) column(p query.Predicate) (string, error) {
	segs := p.Segments()
	switch len(segs) {
	case 1:
		name := segs[0]
		if c.columns[name] {
			return c.table + "." + name, nil
		}
		if rel, ok := c.relations[name]; ok {
			return c.table + "." + rel.Column, nil
		}
		if relName, isKey := strings.CutSuffix(name, "_id"); isKey {
			if rel, ok := c.relations[relName]; ok {
				return c.table + "." + rel.Column, nil
			}
		}
		return "", fmt.Errorf("invalid filter column: %s", name)
	case 2:
		name, col := segs[0], segs[1]
		rel, ok := c.relations[name]
		if !ok {
			return "", fmt.Errorf("invalid filter relation: %s", name)
		}
		if col == rel.RemoteColumn {
			return c.table + "." + rel.Column, nil
		}
		if !slices.Contains(rel.Columns, col) {
			return "", fmt.Errorf("invalid filter column: %s", p.Path)
		}
		if !c.joined[name] {
			c.b = c.b.LeftJoin(fmt.Sprintf("%s AS %s ON %s.%s = %s.%s",
				rel.Table, name, name, rel.RemoteColumn, c.table, rel.Column))
			c.joined[name] = true
		}
		return name + "." + col, nil
	}
	return "", fmt.Errorf("nested relation paths are not supported: %s", p.Path)
}
