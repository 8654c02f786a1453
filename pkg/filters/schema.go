package filters

import (
	"context"

	"qfilter/pkg/filters/query"
)

// FilterFunc replaces the default translation of one field. It is not
// called when the field's value is empty.
type FilterFunc func(ctx context.Context, coll query.Collection, value any) (query.Collection, error)

// ValidateFunc runs after a field's own validation and may replace the
// value. Return a *FieldError to reject the input.
type ValidateFunc func(ctx context.Context, value any) (any, error)

// OverrideFunc replaces the whole translation step of a schema.
// Instance.ApplyFields is the default step.
type OverrideFunc func(ctx context.Context, coll query.Collection, res *Result) (query.Collection, error)

// Definition is a built, immutable filter schema.
type Definition struct {
	name         string
	modelDerived bool
	fields       []*Field
	index        map[string]*Field
	decls        []decl
	meta         *Meta
	methods      map[string]FilterFunc
	validators   map[string]ValidateFunc
	rules        map[string][]*rule
	ruleDecls    []ruleDecl
	override     OverrideFunc
}

// A schema can not be declared as a field of another schema.
func (*Definition) declaration() {}

func (d *Definition) Name() string {
	return d.name
}

// Fields returns the bound fields in schema order.
func (d *Definition) Fields() []*Field {
	return append([]*Field(nil), d.fields...)
}

func (d *Definition) Field(name string) (*Field, bool) {
	f, ok := d.index[name]
	return f, ok
}

type decl struct {
	name      string
	d         Declaration
	inherited bool
}

type ruleDecl struct {
	field   string
	expr    string
	message string
}

// Builder assembles a Definition. Fields are registered explicitly, in
// declaration order.
type Builder struct {
	name         string
	modelDerived bool
	parents      []*Definition
	decls        []decl
	meta         *Meta
	methods      map[string]FilterFunc
	validators   map[string]ValidateFunc
	ruleDecls    []ruleDecl
	override     OverrideFunc
}

// New starts a declarative schema: its fields are exactly the declared ones.
func New(name string) *Builder {
	return &Builder{
		name:       name,
		methods:    make(map[string]FilterFunc),
		validators: make(map[string]ValidateFunc),
	}
}

// NewModel starts a schema whose fields are derived from Meta.Model.
func NewModel(name string) *Builder {
	b := New(name)
	b.modelDerived = true
	return b
}

// Field declares a field. Declaring an existing name replaces it in place.
func (b *Builder) Field(name string, d Declaration) *Builder {
	for i := range b.decls {
		if b.decls[i].name == name {
			b.decls[i].d = d
			return b
		}
	}
	b.decls = append(b.decls, decl{name: name, d: d})
	return b
}

// Meta configures a model-derived schema.
func (b *Builder) Meta(m Meta) *Builder {
	b.meta = &m
	return b
}

// Extend inherits the declared fields, hooks and Meta of parent. Parent
// fields come first; fields declared on b override them.
func (b *Builder) Extend(parent *Definition) *Builder {
	b.parents = append(b.parents, parent)
	return b
}

// Method sets a custom filter for a field.
func (b *Builder) Method(field string, fn FilterFunc) *Builder {
	b.methods[field] = fn
	return b
}

// Validator adds a validation hook for a field.
func (b *Builder) Validator(field string, fn ValidateFunc) *Builder {
	b.validators[field] = fn
	return b
}

// Rule adds a CEL expression over `value` that a non-empty field value
// must satisfy, e.g. Rule("score", "value >= 0 && value <= 10", "Out of scale.").
func (b *Builder) Rule(field, expr, message string) *Builder {
	b.ruleDecls = append(b.ruleDecls, ruleDecl{field: field, expr: expr, message: message})
	return b
}

// Override replaces the translation step of the schema.
func (b *Builder) Override(fn OverrideFunc) *Builder {
	b.override = fn
	return b
}

// MustBuild is like Build but panics on a configuration error.
func (b *Builder) MustBuild() *Definition {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

// Build validates the configuration and binds the fields.
// Every failure is a *ConfigError.
func (b *Builder) Build() (*Definition, error) {
	def := &Definition{
		name:       b.name,
		methods:    make(map[string]FilterFunc),
		validators: make(map[string]ValidateFunc),
		rules:      make(map[string][]*rule),
	}

	// Inherit parents in order; own settings win
	modelDerived := b.modelDerived
	meta := b.meta
	override := b.override
	var decls []decl
	var rules []ruleDecl
	for _, p := range b.parents {
		if p == nil {
			return nil, configErrorf(b.name, "", "cannot extend a nil schema")
		}
		modelDerived = modelDerived || p.modelDerived
		if meta == nil {
			meta = p.meta
		}
		if override == nil {
			override = p.override
		}
		for _, d := range p.decls {
			decls = mergeDecl(decls, decl{name: d.name, d: d.d, inherited: true})
		}
		for name, fn := range p.methods {
			def.methods[name] = fn
		}
		for name, fn := range p.validators {
			def.validators[name] = fn
		}
		rules = append(rules, p.ruleDecls...)
	}
	for _, d := range b.decls {
		decls = mergeDecl(decls, d)
	}
	for name, fn := range b.methods {
		def.methods[name] = fn
	}
	for name, fn := range b.validators {
		def.validators[name] = fn
	}
	rules = append(rules, b.ruleDecls...)

	def.modelDerived = modelDerived
	def.meta = meta
	def.override = override
	def.decls = decls
	def.ruleDecls = rules

	for _, d := range decls {
		switch v := d.d.(type) {
		case *Field:
			if v == nil {
				return nil, configErrorf(b.name, d.name, "field is nil")
			}
		case *Definition:
			return nil, configErrorf(b.name, d.name, "nested filters are not supported")
		default:
			return nil, configErrorf(b.name, d.name, "unsupported declaration %T", d.d)
		}
		if d.name == "" {
			return nil, configErrorf(b.name, "", "field name must not be empty")
		}
	}

	var (
		fields []*Field
		err    error
	)
	if modelDerived {
		fields, err = def.modelFields()
	} else {
		fields, err = def.declaredFields()
	}
	if err != nil {
		return nil, err
	}

	def.fields = fields
	def.index = make(map[string]*Field, len(fields))
	for _, f := range fields {
		def.index[f.name] = f
	}

	// Hooks of parent fields dropped by this schema are ignored
	for name := range def.methods {
		if _, ok := def.index[name]; !ok {
			if _, own := b.methods[name]; own {
				return nil, configErrorf(b.name, name, "filter method defined for an unknown field")
			}
			delete(def.methods, name)
		}
	}
	for name := range def.validators {
		if _, ok := def.index[name]; !ok {
			if _, own := b.validators[name]; own {
				return nil, configErrorf(b.name, name, "validator defined for an unknown field")
			}
			delete(def.validators, name)
		}
	}
	for _, rd := range rules {
		if _, ok := def.index[rd.field]; !ok {
			return nil, configErrorf(b.name, rd.field, "rule defined for an unknown field")
		}
		r, err := compileRule(b.name, rd)
		if err != nil {
			return nil, err
		}
		def.rules[rd.field] = append(def.rules[rd.field], r)
	}

	return def, nil
}

func mergeDecl(decls []decl, d decl) []decl {
	for i := range decls {
		if decls[i].name == d.name {
			decls[i] = d
			return decls
		}
	}
	return append(decls, d)
}

// declaredFields binds the declarations of a declarative schema.
func (d *Definition) declaredFields() ([]*Field, error) {
	fields := make([]*Field, 0, len(d.decls))
	for _, dc := range d.decls {
		f, err := dc.d.(*Field).bind(d.name, dc.name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}
