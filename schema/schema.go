// Package schema defines the data model consumed by the schemacheck
// validators: ordered schema sets, field definitions, value constraints
// and declared foreign keys.
//
// A [Set] maps schema names to [Schema] values and remembers insertion
// order so diagnostics are reported deterministically. A [Schema] holds
// its data fields in declaration order plus the reserved metadata
// entries (foreign keys, template bindings) that are excluded from data
// field counting.
//
// Field definitions form a two-variant union: a [Simple] bare type tag,
// or a [Constrained] record carrying a type tag, an optional constraint
// set and an optional field-level reference. Checkers switch on the
// variant rather than inspecting runtime shapes.
package schema

import "strings"

// MetadataPrefix marks reserved schema entries that carry configuration
// rather than data fields.
const MetadataPrefix = "__"

// Reserved metadata keys.
const (
	KeyForeignKeys    = "__foreign_keys__"
	KeyTemplateSource = "__template_source__"
	KeyInputFileType  = "__input_file_type__"
	KeyOutputFileType = "__output_file_type__"
)

// IsMetadataKey reports whether name is a reserved metadata entry
// rather than a data field.
func IsMetadataKey(name string) bool {
	return strings.HasPrefix(name, MetadataPrefix)
}

// FieldDef is the definition of a single schema field. It is a closed
// union: [Simple] for a bare type tag, [*Constrained] for a record with
// constraints and an optional reference.
type FieldDef interface {
	// TypeTag returns the declared type tag of the field.
	TypeTag() string

	fieldDef()
}

// Simple is a field defined by a bare type tag, e.g. "integer".
type Simple string

// TypeTag returns the declared type tag.
func (s Simple) TypeTag() string { return string(s) }

func (Simple) fieldDef() {}

// Constrained is a field defined as a record with a type tag, an
// optional constraint set and an optional field-level reference.
type Constrained struct {
	Type        string
	Constraints Constraints
	References  *Reference
}

// TypeTag returns the declared type tag.
func (c *Constrained) TypeTag() string { return c.Type }

func (*Constrained) fieldDef() {}

// Reference is a field-level pointer to another schema's field,
// the record form of a foreign-key declaration.
type Reference struct {
	Schema string
	Field  string
}

// Constraints is the optional constraint set of a constrained field.
// Numeric and length bounds keep the raw scalar text as declared so
// that parse failures can quote the original input. A nil pointer
// means the constraint is absent.
type Constraints struct {
	Min       *string
	Max       *string
	MinLength *string
	MaxLength *string
	Pattern   *string
}

// Empty reports whether no constraint is set.
func (c Constraints) Empty() bool {
	return c.Min == nil && c.Max == nil && c.MinLength == nil && c.MaxLength == nil && c.Pattern == nil
}

// Raw returns a pointer to the textual form of v for use in a
// [Constraints] literal:
//
//	schema.Constraints{Min: schema.Raw("0"), Max: schema.Raw("100")}
func Raw(v string) *string { return &v }

// Field is a named data field in declaration order.
type Field struct {
	Name string
	Def  FieldDef
}

// Schema describes one named record type: its data fields in
// declaration order plus reserved metadata. The zero value is an empty
// schema ready for use.
type Schema struct {
	fields     []Field
	fieldIndex map[string]int

	foreignKeys []ForeignKeyEntry

	templateSource *string
	inputFileType  *string
	outputFileType *string

	// Metadata entries other than the reserved keys above, kept for
	// callers that round-trip schemas. Not consulted by any checker.
	metaOrder []string
	meta      map[string]string
}

// New returns an empty schema.
func New() *Schema {
	return &Schema{fieldIndex: make(map[string]int)}
}

// AddField appends a data field. Re-adding an existing name replaces
// its definition in place, keeping the original position.
func (s *Schema) AddField(name string, def FieldDef) *Schema {
	if s.fieldIndex == nil {
		s.fieldIndex = make(map[string]int)
	}
	if i, ok := s.fieldIndex[name]; ok {
		s.fields[i].Def = def
		return s
	}
	s.fieldIndex[name] = len(s.fields)
	s.fields = append(s.fields, Field{Name: name, Def: def})
	return s
}

// AddForeignKey appends a foreign-key declaration in the canonical pair
// form, equivalent to a two-element [targetSchema, targetColumn] entry.
func (s *Schema) AddForeignKey(field, targetSchema, targetColumn string) *Schema {
	return s.AddForeignKeyTarget(field, Pair(targetSchema, targetColumn))
}

// AddForeignKeyTarget appends a foreign-key declaration in any of its
// declared shapes. Loaders use it to carry malformed entries through to
// validation instead of rejecting them at parse time.
func (s *Schema) AddForeignKeyTarget(field string, target ForeignKeyTarget) *Schema {
	s.foreignKeys = append(s.foreignKeys, ForeignKeyEntry{Field: field, Target: target})
	return s
}

// SetTemplateSource binds the schema to a document template file.
func (s *Schema) SetTemplateSource(path string) *Schema {
	s.templateSource = &path
	return s
}

// SetInputFileType declares the template's expected input file type.
func (s *Schema) SetInputFileType(t string) *Schema {
	s.inputFileType = &t
	return s
}

// SetOutputFileType declares the template's expected output file type.
func (s *Schema) SetOutputFileType(t string) *Schema {
	s.outputFileType = &t
	return s
}

// SetMeta records a non-reserved metadata entry verbatim.
func (s *Schema) SetMeta(key, value string) *Schema {
	if s.meta == nil {
		s.meta = make(map[string]string)
	}
	if _, ok := s.meta[key]; !ok {
		s.metaOrder = append(s.metaOrder, key)
	}
	s.meta[key] = value
	return s
}

// Fields returns the data fields in declaration order. The returned
// slice is shared; callers must not modify it.
func (s *Schema) Fields() []Field { return s.fields }

// FieldNames returns the data field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the definition of the named data field.
func (s *Schema) Field(name string) (FieldDef, bool) {
	i, ok := s.fieldIndex[name]
	if !ok {
		return nil, false
	}
	return s.fields[i].Def, true
}

// HasField reports whether the named data field is declared.
func (s *Schema) HasField(name string) bool {
	_, ok := s.fieldIndex[name]
	return ok
}

// NumFields returns the number of data fields, excluding metadata.
func (s *Schema) NumFields() int { return len(s.fields) }

// ForeignKeys returns the declared foreign-key entries in declaration
// order. The returned slice is shared; callers must not modify it.
func (s *Schema) ForeignKeys() []ForeignKeyEntry { return s.foreignKeys }

// TemplateSource returns the bound template path, if any.
func (s *Schema) TemplateSource() (string, bool) {
	if s.templateSource == nil {
		return "", false
	}
	return *s.templateSource, true
}

// InputFileType returns the declared template input file type, if any.
func (s *Schema) InputFileType() (string, bool) {
	if s.inputFileType == nil {
		return "", false
	}
	return *s.inputFileType, true
}

// OutputFileType returns the declared template output file type, if any.
func (s *Schema) OutputFileType() (string, bool) {
	if s.outputFileType == nil {
		return "", false
	}
	return *s.outputFileType, true
}

// Meta returns the value of a non-reserved metadata entry.
func (s *Schema) Meta(key string) (string, bool) {
	v, ok := s.meta[key]
	return v, ok
}

// MetaKeys returns the non-reserved metadata keys in declaration order.
func (s *Schema) MetaKeys() []string { return s.metaOrder }

// Set is an ordered mapping from schema name to schema definition.
// Insertion order is preserved for deterministic diagnostics.
type Set struct {
	order     []string
	items     map[string]*Schema
	malformed map[string]string
}

// NewSet returns an empty schema set.
func NewSet() *Set {
	return &Set{
		items:     make(map[string]*Schema),
		malformed: make(map[string]string),
	}
}

// Add inserts or replaces a named schema, preserving the position of an
// existing name.
func (s *Set) Add(name string, sc *Schema) *Set {
	if _, ok := s.items[name]; !ok {
		if _, bad := s.malformed[name]; !bad {
			s.order = append(s.order, name)
		}
	}
	delete(s.malformed, name)
	s.items[name] = sc
	return s
}

// AddMalformed records a named entry whose definition was not a
// structured mapping. got describes the actual shape (e.g. "!!str") and
// is surfaced verbatim in the type-error diagnostic.
func (s *Set) AddMalformed(name, got string) *Set {
	if _, ok := s.items[name]; !ok {
		if _, bad := s.malformed[name]; !bad {
			s.order = append(s.order, name)
		}
	}
	delete(s.items, name)
	s.malformed[name] = got
	return s
}

// Names returns the schema names in insertion order. The returned
// slice is shared; callers must not modify it.
func (s *Set) Names() []string { return s.order }

// Schema returns the named schema definition.
func (s *Set) Schema(name string) (*Schema, bool) {
	sc, ok := s.items[name]
	return sc, ok
}

// Has reports whether the set contains a well-formed schema with the
// given name.
func (s *Set) Has(name string) bool {
	_, ok := s.items[name]
	return ok
}

// Malformed returns the shape description of a malformed entry.
func (s *Set) Malformed(name string) (string, bool) {
	got, ok := s.malformed[name]
	return got, ok
}

// Len returns the number of entries, malformed ones included.
func (s *Set) Len() int { return len(s.order) }
