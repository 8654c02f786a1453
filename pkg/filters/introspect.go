package filters

import "fmt"

// Parameter describes a query parameter in OpenAPI operation form.
type Parameter struct {
	Name        string          `json:"name"`
	Required    bool            `json:"required"`
	In          string          `json:"in"`
	Description string          `json:"description"`
	Schema      ParameterSchema `json:"schema"`
}

type ParameterSchema struct {
	Type string   `json:"type"`
	Enum []string `json:"enum,omitempty"`
}

// OperationParameters lists the schema's fields as query parameters.
func (d *Definition) OperationParameters() []Parameter {
	params := make([]Parameter, 0, len(d.fields))
	for _, f := range d.fields {
		desc := f.label
		if desc == "" {
			desc = f.name
		}
		p := Parameter{
			Name:        f.name,
			Required:    f.required,
			In:          "query",
			Description: desc,
			Schema:      ParameterSchema{Type: "string"},
		}
		for _, c := range f.choices {
			p.Schema.Enum = append(p.Schema.Enum, c.Value)
		}
		params = append(params, p)
	}
	return params
}

// SchemaField is a documentation entry for one field. Fields whose query
// parameter name differs per value (multi-part widgets) are not described.
type SchemaField struct {
	Name        string   `json:"name"`
	Required    bool     `json:"required"`
	Location    string   `json:"location"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type"`
	Choices     []string `json:"choices,omitempty"`
	Widget      Widget   `json:"widget"`
}

// SchemaFields describes every field with its coerced primitive type.
func (d *Definition) SchemaFields() []SchemaField {
	out := make([]SchemaField, 0, len(d.fields))
	for _, f := range d.fields {
		sf := SchemaField{
			Name:        f.name,
			Required:    f.required,
			Location:    "query",
			Description: f.helpText,
			Type:        f.primitive(),
			Widget:      WidgetHint(f.kind),
		}
		switch {
		case f.kind.IsSequence() && sf.Description == "":
			sf.Description = fmt.Sprintf("values separated by a '%s'", f.separator)
		case f.kind == KindRelated && f.isKeyText():
			sf.Type = "string"
		case f.kind == KindChoice:
			for _, c := range f.choices {
				sf.Choices = append(sf.Choices, c.Value)
			}
		}
		out = append(out, sf)
	}
	return out
}
