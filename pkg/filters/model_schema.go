package filters

import (
	"slices"

	"qfilter/pkg/filters/model"
)

// AllFields selects every model field in Meta.Fields.
var AllFields = []string{"__all__"}

// Meta configures field synthesis of a model-derived schema.
type Meta struct {
	Model *model.EntityDef

	// Fields lists the field names to expose, or AllFields. Exactly one of
	// Fields and Exclude must be set.
	Fields  []string
	Exclude []string

	// Depth (automatic relation traversal) is not supported and must be zero.
	Depth int

	// ExtraKwargs applies options to synthesized fields, by field name.
	ExtraKwargs map[string][]Option

	// Resolvers checks related keys, by referenced model name.
	Resolvers map[string]Resolver
}

func isAllFields(fields []string) bool {
	return len(fields) == 1 && fields[0] == AllFields[0]
}

// modelFields resolves the field set of a model-derived schema.
func (d *Definition) modelFields() ([]*Field, error) {
	if d.meta == nil {
		return nil, configErrorf(d.name, "", `missing "Meta"`)
	}
	entity := d.meta.Model
	if entity == nil {
		return nil, configErrorf(d.name, "", `missing "Meta.Model"`)
	}
	if entity.Abstract {
		return nil, configErrorf(d.name, "", "cannot use a model-derived filter with abstract model %q", entity.Name)
	}
	if d.meta.Depth != 0 {
		return nil, configErrorf(d.name, "", "'depth' is not supported in filters")
	}

	names, err := d.fieldNames(entity)
	if err != nil {
		return nil, err
	}

	declared := make(map[string]*Field, len(d.decls))
	for _, dc := range d.decls {
		declared[dc.name] = dc.d.(*Field)
	}

	fields := make([]*Field, 0, len(names))
	for _, name := range names {
		if f, ok := declared[name]; ok {
			bound, err := f.bind(d.name, name)
			if err != nil {
				return nil, err
			}
			fields = append(fields, bound)
			continue
		}

		fd, ok := entity.Field(name)
		if !ok {
			return nil, configErrorf(d.name, name, "field name `%s` is not valid for model `%s`", name, entity.Name)
		}
		f, err := d.synthesize(fd)
		if err != nil {
			return nil, err
		}
		// Synthesized fields are optional unless tagged or set by ExtraKwargs
		f.required = fd.Required
		for _, opt := range d.meta.ExtraKwargs[name] {
			opt(f)
		}
		bound, err := f.bind(d.name, name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, bound)
	}
	return fields, nil
}

// fieldNames applies the Fields/Exclude directives.
func (d *Definition) fieldNames(entity *model.EntityDef) ([]string, error) {
	fields, exclude := d.meta.Fields, d.meta.Exclude

	if fields != nil && exclude != nil {
		return nil, configErrorf(d.name, "", "cannot set both 'fields' and 'exclude' options")
	}
	if fields == nil && exclude == nil {
		return nil, configErrorf(d.name, "",
			"creating a model-derived filter without either the 'fields' option or the 'exclude' option is not allowed; use AllFields to expose every field")
	}

	for _, dc := range d.decls {
		f := dc.d.(*Field)
		_, hasMethod := d.methods[dc.name]
		if !f.sourceSet && !hasMethod && d.override == nil {
			return nil, configErrorf(d.name, dc.name,
				"the field was declared but no filter method is defined; define a filter method for it, override the filter step or set a source on the field")
		}
	}

	if fields != nil && !isAllFields(fields) {
		// Fields declared by a parent schema may be left out
		for _, dc := range d.decls {
			if !dc.inherited && !slices.Contains(fields, dc.name) {
				return nil, configErrorf(d.name, dc.name,
					"the field was declared on the filter but has not been included in the 'fields' option")
			}
		}
		names := make([]string, 0, len(fields))
		for _, name := range fields {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
		return names, nil
	}

	names := d.defaultFieldNames(entity)
	for _, name := range exclude {
		if slices.ContainsFunc(d.decls, func(dc decl) bool { return dc.name == name }) {
			return nil, configErrorf(d.name, name, "cannot both declare the field and include it in the 'exclude' option")
		}
		i := slices.Index(names, name)
		if i < 0 {
			return nil, configErrorf(d.name, name,
				"the field was included in the 'exclude' option, but does not match any model field")
		}
		names = slices.Delete(names, i, i+1)
	}
	return names, nil
}

// defaultFieldNames orders the primary key, the declared fields, the
// model's own fields and finally its relations.
func (d *Definition) defaultFieldNames(entity *model.EntityDef) []string {
	names := make([]string, 0, len(entity.Fields)+len(d.decls))
	add := func(name string) {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	if pk, ok := entity.PrimaryKey(); ok {
		add(pk.Name)
	}
	for _, dc := range d.decls {
		add(dc.name)
	}
	for _, fd := range entity.Fields {
		if !fd.IsRelation() {
			add(fd.Name)
		}
	}
	for _, fd := range entity.Fields {
		if fd.IsRelation() {
			add(fd.Name)
		}
	}
	return names
}

// synthesize maps a model attribute to a field.
func (d *Definition) synthesize(fd model.FieldDef) (*Field, error) {
	var f *Field

	switch {
	case fd.IsRelation():
		r, ok := d.meta.Resolvers[fd.ReferenceType]
		if !ok {
			return nil, configErrorf(d.name, fd.Name, "no resolver for model %q in Meta.Resolvers", fd.ReferenceType)
		}
		f = PrimaryKeyRelated(r)
		switch fd.ReferenceKey {
		case model.TypeString, model.TypeSlug, model.TypeText:
			f.keyKind = KindText
		}
	case len(fd.Options) > 0:
		choices := make([]Choice, 0, len(fd.Options))
		for _, o := range fd.Options {
			choices = append(choices, Choice{Value: o.Value, Label: o.Label})
		}
		f = ChoiceOf(choices)
	default:
		f = fieldForType(fd)
	}

	if fd.Nullable {
		f.allowNull = true
	}
	if fd.Label != "" {
		f.label = fd.Label
	}
	if !fd.IsRelation() && fd.Column != "" && fd.Column != fd.Name {
		f.source = fd.Column
		f.sourceSet = true
	}
	return f, nil
}

func fieldForType(fd model.FieldDef) *Field {
	var opts []Option
	if fd.MaxLength > 0 {
		opts = append(opts, MaxLength(fd.MaxLength))
	}

	switch fd.Type {
	case model.TypeAuto, model.TypeInteger, model.TypeBigInteger, model.TypeSmallInteger:
		return Integer()
	case model.TypePositiveInteger:
		return Integer(MinValue(0))
	case model.TypeFloat:
		return Float()
	case model.TypeDecimal:
		places := -1
		if fd.DecimalPlaces != nil {
			places = *fd.DecimalPlaces
		}
		return Decimal(fd.MaxDigits, places)
	case model.TypeBoolean:
		return Boolean()
	case model.TypeNullBoolean:
		return Boolean(AllowNull())
	case model.TypeDate:
		return Date()
	case model.TypeDateTime:
		return DateTime()
	case model.TypeTime:
		return Time()
	case model.TypeDuration:
		return Duration()
	case model.TypeEmail:
		return Email(opts...)
	case model.TypeSlug:
		return Slug(opts...)
	case model.TypeURL:
		return URL(opts...)
	case model.TypeIP:
		return IPAddress(opts...)
	case model.TypeCommaSeparatedInteger:
		return List(Integer())
	default:
		// string, text, file, file_path, image
		return Char(opts...)
	}
}
