// Package model describes data models for filter schema synthesis.
package model

// FieldType defines the storage type of a model attribute.
type FieldType string

const (
	TypeString                FieldType = "string"
	TypeText                  FieldType = "text"
	TypeSlug                  FieldType = "slug"
	TypeEmail                 FieldType = "email"
	TypeURL                   FieldType = "url"
	TypeIP                    FieldType = "ip"
	TypeFile                  FieldType = "file"
	TypeFilePath              FieldType = "file_path"
	TypeImage                 FieldType = "image"
	TypeAuto                  FieldType = "auto"
	TypeInteger               FieldType = "integer"
	TypeBigInteger            FieldType = "big_integer"
	TypeSmallInteger          FieldType = "small_integer"
	TypePositiveInteger       FieldType = "positive_integer"
	TypeFloat                 FieldType = "float"
	TypeDecimal               FieldType = "decimal"
	TypeBoolean               FieldType = "boolean"
	TypeNullBoolean           FieldType = "null_boolean"
	TypeDate                  FieldType = "date"
	TypeDateTime              FieldType = "datetime"
	TypeTime                  FieldType = "time"
	TypeDuration              FieldType = "duration"
	TypeCommaSeparatedInteger FieldType = "comma_separated_integer"
	TypeReference             FieldType = "reference"
)

// Option is one enumerated value of a field with choices.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// EntityDef describes a data model.
type EntityDef struct {
	Name      string     `json:"name"`
	Label     string     `json:"label,omitempty"`
	TableName string     `json:"-"`
	Abstract  bool       `json:"abstract,omitempty"`
	Fields    []FieldDef `json:"fields"`
}

// FieldDef describes a model attribute.
type FieldDef struct {
	Name          string    `json:"name"`
	Label         string    `json:"label,omitempty"`
	Column        string    `json:"-"`
	Type          FieldType `json:"type"`
	ReferenceType string    `json:"referenceType,omitempty"` // For references, e.g. "author"
	ReferenceKey  FieldType `json:"referenceKey,omitempty"`  // Type of the referenced primary key
	PrimaryKey    bool      `json:"primaryKey,omitempty"`
	Nullable      bool      `json:"nullable,omitempty"`
	Required      bool      `json:"required,omitempty"`
	MaxLength     int       `json:"maxLength,omitempty"`
	MaxDigits     int       `json:"maxDigits,omitempty"`
	DecimalPlaces *int      `json:"decimalPlaces,omitempty"` // nil when unbounded
	Options       []Option  `json:"options,omitempty"`
}

// IsRelation reports whether the field refers to another model.
func (f FieldDef) IsRelation() bool {
	return f.Type == TypeReference
}

// Field returns the field with the given name.
func (d EntityDef) Field(name string) (FieldDef, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// PrimaryKey returns the primary-key field, if any.
func (d EntityDef) PrimaryKey() (FieldDef, bool) {
	for _, f := range d.Fields {
		if f.PrimaryKey {
			return f, true
		}
	}
	return FieldDef{}, false
}

// Columns lists the storage columns of all fields in declaration order.
func (d EntityDef) Columns() []string {
	cols := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		cols = append(cols, f.Column)
	}
	return cols
}
