// Package memq is an in-memory query.Collection over map-shaped rows.
//
// Relations are nested rows: row["author"] = memq.Row{"id": 1, "name": "Ann"}.
// A path segment "<relation>_id" resolves to the related row's "id" when the
// row has no such attribute of its own.
package memq

import (
	"context"
	"fmt"
	"strings"

	"qfilter/pkg/filters/query"
)

// Row is a single record.
type Row map[string]any

// Collection is an immutable, in-memory query.Collection.
type Collection struct {
	rows []Row
	err  error
}

var _ query.Collection = (*Collection)(nil)

// New creates a collection over rows. The slice is not copied.
func New(rows ...Row) *Collection {
	return &Collection{rows: rows}
}

// Filter keeps the rows matching every predicate.
func (c *Collection) Filter(preds ...query.Predicate) query.Collection {
	return c.narrow(preds, true)
}

// Exclude drops the rows matching every predicate.
func (c *Collection) Exclude(preds ...query.Predicate) query.Collection {
	return c.narrow(preds, false)
}

// Distinct drops rows identical to an earlier row.
func (c *Collection) Distinct() query.Collection {
	if c.err != nil {
		return c
	}
	seen := make(map[string]struct{}, len(c.rows))
	out := make([]Row, 0, len(c.rows))
	for _, r := range c.rows {
		// fmt prints maps with sorted keys, so equal rows give equal keys.
		key := fmt.Sprintf("%v", map[string]any(r))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return &Collection{rows: out}
}

func (c *Collection) narrow(preds []query.Predicate, keep bool) query.Collection {
	if c.err != nil {
		return c
	}
	out := make([]Row, 0, len(c.rows))
	for _, r := range c.rows {
		ok, err := matchAll(r, preds)
		if err != nil {
			return &Collection{err: err}
		}
		if ok == keep {
			out = append(out, r)
		}
	}
	return &Collection{rows: out}
}

// Rows realises the collection.
func (c *Collection) Rows() ([]Row, error) {
	return c.rows, c.err
}

// Len returns the number of rows, or 0 if the collection failed.
func (c *Collection) Len() int {
	return len(c.rows)
}

// Err returns the first error met while narrowing.
func (c *Collection) Err() error {
	return c.err
}

// Exists reports whether any row has value at column. It lets a collection
// act as the referenced side of a related-key filter.
func (c *Collection) Exists(_ context.Context, column string, value any) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	segs := strings.Split(column, query.PathSeparator)
	for _, r := range c.rows {
		v, err := resolve(r, segs)
		if err != nil {
			return false, err
		}
		if equal(v, value) {
			return true, nil
		}
	}
	return false, nil
}

// Rows realises any collection produced from a memq collection.
func Rows(coll query.Collection) ([]Row, error) {
	mc, ok := coll.(*Collection)
	if !ok {
		return nil, fmt.Errorf("memq: unexpected collection type %T", coll)
	}
	return mc.Rows()
}

func matchAll(r Row, preds []query.Predicate) (bool, error) {
	for _, p := range preds {
		v, err := resolve(r, p.Segments())
		if err != nil {
			return false, err
		}
		ok, err := match(v, p)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func resolve(r Row, segs []string) (any, error) {
	var cur any = r
	for i, seg := range segs {
		if cur == nil {
			// null relation: the rest of the path is null too
			return nil, nil
		}
		m, ok := asRow(cur)
		if !ok {
			return nil, fmt.Errorf("memq: %q is not a relation", strings.Join(segs[:i], query.PathSeparator))
		}
		v, ok := m[seg]
		if !ok {
			rel, isKey := strings.CutSuffix(seg, "_id")
			related, hasRel := m[rel]
			if !isKey || !hasRel {
				return nil, fmt.Errorf("memq: unknown attribute %q", strings.Join(segs[:i+1], query.PathSeparator))
			}
			if sub, ok := asRow(related); ok {
				v = sub["id"]
			} else {
				v = nil
			}
		}
		cur = v
	}
	return cur, nil
}

func asRow(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Row:
		return m, true
	case map[string]any:
		return m, true
	}
	return nil, false
}
