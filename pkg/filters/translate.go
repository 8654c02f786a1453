package filters

import (
	"qfilter/pkg/filters/query"
)

// Translate narrows coll by the field's validated value, shaped along the
// field's source path (see Path.Nest). An empty value leaves coll unchanged.
func (f *Field) Translate(coll query.Collection, v Value) (query.Collection, error) {
	value, err := f.path.Walk(v)
	if err != nil {
		return nil, configErrorf(f.schema, f.name, "%v", err)
	}
	if isEmpty(value) {
		return coll, nil
	}

	if f.distinct {
		coll = coll.Distinct()
	}
	preds, err := f.Predicates(value)
	if err != nil {
		return nil, err
	}
	if f.exclude {
		return coll.Exclude(preds...), nil
	}
	return coll.Filter(preds...), nil
}

// Predicates builds the predicates for a validated, non-empty value: one,
// or one per bound for a range with paired lookups.
func (f *Field) Predicates(value any) ([]query.Predicate, error) {
	attr := f.attribute()

	if f.hasPairedLookups() {
		vals, ok := value.([]any)
		if !ok || len(vals) != len(f.lookups) {
			return nil, configErrorf(f.schema, f.name, "range value %v does not match lookups %v", value, f.lookups)
		}
		preds := make([]query.Predicate, 0, len(vals))
		for i, lookup := range f.lookups {
			preds = append(preds, query.P(attr, lookup, vals[i]))
		}
		return preds, nil
	}

	return []query.Predicate{query.P(attr, f.lookup, value)}, nil
}

// attribute is the query path of the field. Related fields compare the
// key column of the relation.
func (f *Field) attribute() string {
	attr := f.path.Attribute()
	if len(f.path) > 1 {
		return attr
	}
	switch {
	case f.kind == KindRelated:
		attr += query.PathSeparator + f.keyColumn
	case f.kind.IsSequence() && f.child.kind == KindRelated:
		attr += query.PathSeparator + f.child.keyColumn
	}
	return attr
}
