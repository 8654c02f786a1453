// Package filters validates query parameters against a declared filter
// schema and translates the validated values into predicates on a
// query.Collection.
//
// A schema is built once, with New (declared fields) or NewModel (fields
// derived from a model description), and bound per request:
//
//	articles := filters.New("articles").
//		Field("title", filters.Char(filters.MaxLength(100), filters.LookupExpr(query.IContains))).
//		Field("score", filters.Range(filters.Integer())).
//		MustBuild()
//
//	coll, res, err := filters.FilterQueryset(ctx, r.URL.Query(), coll, articles)
//
// Invalid input yields Errors keyed by field name and no predicate is
// applied. Configuration mistakes surface as *ConfigError from Build.
package filters

import (
	"context"
	"net/url"
	"reflect"

	"qfilter/pkg/filters/query"
)

// FilterQueryset validates params against def and narrows coll.
//
// A nil def disables filtering and returns coll unchanged. A nil coll is
// still validated, but the returned collection is nil.
func FilterQueryset(ctx context.Context, params url.Values, coll query.Collection, def *Definition, opts ...InstanceOption) (query.Collection, *Result, error) {
	if def == nil {
		return coll, nil, nil
	}
	return def.Bind(params, coll, opts...).Filter(ctx)
}

func isNilCollection(coll query.Collection) bool {
	if coll == nil {
		return true
	}
	v := reflect.ValueOf(coll)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
