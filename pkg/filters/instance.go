package filters

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"qfilter/pkg/filters/query"
	"qfilter/pkg/logger"
)

var tracer = otel.Tracer("qfilter/filters")

// Result holds validated values by field name, for the fields present in
// the request.
type Result struct {
	names  []string
	values map[string]any
}

func newResult() *Result {
	return &Result{values: make(map[string]any)}
}

func (r *Result) set(name string, v any) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

// Get returns the validated value of a field.
func (r *Result) Get(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[name]
	return v, ok
}

// Names lists the fields present, in schema order.
func (r *Result) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.names...)
}

// Values returns a copy of the validated values.
func (r *Result) Values() map[string]any {
	out := make(map[string]any)
	if r == nil {
		return out
	}
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Instance is a schema bound to one request's parameters and collection.
type Instance struct {
	def    *Definition
	params url.Values
	coll   query.Collection

	// Request is the in-flight request, if any.
	Request *http.Request
	// Context carries caller-supplied values for filter methods and hooks.
	Context map[string]any
}

// InstanceOption configures an Instance.
type InstanceOption func(*Instance)

func WithRequest(r *http.Request) InstanceOption {
	return func(in *Instance) { in.Request = r }
}

// WithValues merges extra context values into the instance.
func WithValues(values map[string]any) InstanceOption {
	return func(in *Instance) {
		for k, v := range values {
			in.Context[k] = v
		}
	}
}

// Bind creates an instance over params and coll. A nil coll still validates.
func (d *Definition) Bind(params url.Values, coll query.Collection, opts ...InstanceOption) *Instance {
	in := &Instance{
		def:     d,
		params:  params,
		coll:    coll,
		Context: make(map[string]any),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.Request != nil {
		in.Context["request"] = in.Request
	}
	return in
}

func (in *Instance) Definition() *Definition {
	return in.def
}

type instanceKey struct{}

// InstanceFrom returns the instance running a filter method or hook.
func InstanceFrom(ctx context.Context) (*Instance, bool) {
	in, ok := ctx.Value(instanceKey{}).(*Instance)
	return in, ok
}

// Validate validates every field in schema order and collects all errors.
// The error is Errors for invalid input; any other error is a failure of a
// hook or resolver.
func (in *Instance) Validate(ctx context.Context) (*Result, error) {
	ctx = context.WithValue(ctx, instanceKey{}, in)
	res := newResult()
	errs := Errors{}

	for _, f := range in.def.fields {
		v, present, err := f.clean(ctx, in.params)
		if err == nil && present {
			v, err = in.runHooks(ctx, f, v)
		}
		if err != nil {
			var fe *FieldError
			if !errors.As(err, &fe) {
				return nil, err
			}
			errs[f.name] = fe
			continue
		}
		if present {
			res.set(f.name, v)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return res, nil
}

func (in *Instance) runHooks(ctx context.Context, f *Field, v any) (any, error) {
	if hook, ok := in.def.validators[f.name]; ok {
		var err error
		if v, err = hook(ctx, v); err != nil {
			return nil, err
		}
	}
	if isEmpty(v) {
		return v, nil
	}
	for _, r := range in.def.rules[f.name] {
		fe, err := r.check(v)
		if err != nil {
			return nil, err
		}
		if fe != nil {
			return nil, fe
		}
	}
	return v, nil
}

// Apply narrows the bound collection with validated values. With no bound
// collection it returns nil.
func (in *Instance) Apply(ctx context.Context, res *Result) (query.Collection, error) {
	if isNilCollection(in.coll) {
		return nil, nil
	}

	ctx, span := tracer.Start(ctx, "filters.apply",
		trace.WithAttributes(
			attribute.String("filters.schema", in.def.name),
			attribute.StringSlice("filters.fields", res.Names()),
		))
	defer span.End()
	ctx = context.WithValue(ctx, instanceKey{}, in)

	var (
		coll query.Collection
		err  error
	)
	if in.def.override != nil {
		coll, err = in.def.override(ctx, in.coll, res)
	} else {
		coll, err = in.ApplyFields(ctx, in.coll, res)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	logger.Debug(ctx, "filters applied",
		"schema", in.def.name,
		"fields", res.Names(),
	)
	return coll, nil
}

// ApplyFields is the default translation step: every field in schema order,
// through its filter method if one is set. Predicates compose as AND.
func (in *Instance) ApplyFields(ctx context.Context, coll query.Collection, res *Result) (query.Collection, error) {
	for _, f := range in.def.fields {
		value, _ := res.Get(f.name)

		if method, ok := in.def.methods[f.name]; ok {
			if isEmpty(value) {
				continue
			}
			next, err := method(ctx, coll, value)
			if err != nil {
				return nil, err
			}
			coll = next
			continue
		}

		next, err := f.Translate(coll, f.path.Nest(value))
		if err != nil {
			return nil, err
		}
		coll = next
	}
	return coll, nil
}

// Filter validates and, when a collection is bound, applies.
func (in *Instance) Filter(ctx context.Context) (query.Collection, *Result, error) {
	res, err := in.Validate(ctx)
	if err != nil {
		return nil, nil, err
	}
	coll, err := in.Apply(ctx, res)
	if err != nil {
		return nil, nil, err
	}
	return coll, res, nil
}
