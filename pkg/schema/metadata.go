// Package schema extracts display and form metadata for API resources
// from `lims` struct tags. The CLI and TUI are driven entirely by this
// metadata, so adding a resource means declaring its model and tags,
// not writing new commands.
package schema

import (
	"reflect"
	"strings"
)

// RelationshipKind distinguishes how a resource references another.
type RelationshipKind string

const (
	// BelongsTo is a foreign-key reference to a single record.
	BelongsTo RelationshipKind = "belongsTo"
	// ManyToMany is an API-owned link collection, edited through the
	// link and unlink endpoints rather than record updates.
	ManyToMany RelationshipKind = "manyToMany"
)

// ResourceMetadata describes one API resource: its collection path,
// wire fields and relationships, in struct declaration order.
type ResourceMetadata struct {
	Resource      string
	GoType        reflect.Type
	Fields        []FieldMetadata
	Relationships []RelationshipMetadata
}

// FieldMetadata describes one wire field of a resource.
type FieldMetadata struct {
	Name     string // wire (JSON) name
	GoField  string
	GoType   reflect.Type
	Index    []int // reflect field index path, embedding included
	Position int

	Label   string
	Width   int
	SortKey string   // dot path used when sorting by this column
	Enum    []string // allowed values, empty when unconstrained
	Variant []string // union tags this field belongs to, empty = all

	List      bool // shown as a list column
	Sortable  bool
	Form      bool // settable through create/edit forms
	Required  bool // must be present on create
	Immutable bool // rejected on update
	Numeric   bool // compare as a number when sorting
	Detail    bool // shown in the detail view
	Union     bool // this field is the union discriminator
}

// RelationshipMetadata describes a reference to another resource. The
// wire name doubles as the include key for eager loading.
type RelationshipMetadata struct {
	Name       string // wire (JSON) name of the embedded snapshot
	GoField    string
	Index      []int
	Kind       RelationshipKind
	Resource   string // target collection path
	ForeignKey string // wire field carrying the id (belongsTo only)
	LinkAttr   string // join-row attribute (manyToMany only)
}

// Field returns the field with the given wire name, or nil.
func (m *ResourceMetadata) Field(name string) *FieldMetadata {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i]
		}
	}
	return nil
}

// ListFields returns the fields shown as list columns, in declaration
// order.
func (m *ResourceMetadata) ListFields() []FieldMetadata {
	var out []FieldMetadata
	for _, f := range m.Fields {
		if f.List {
			out = append(out, f)
		}
	}
	return out
}

// DetailFields returns the fields shown in the detail view. For union
// resources, pass the record's tag to filter out other variants'
// fields; an empty variant keeps everything.
func (m *ResourceMetadata) DetailFields(variant string) []FieldMetadata {
	var out []FieldMetadata
	for _, f := range m.Fields {
		if !f.Detail {
			continue
		}
		if variant != "" && !f.InVariant(variant) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// FormFields returns the fields settable through forms for the given
// union variant. An empty variant returns every form field.
func (m *ResourceMetadata) FormFields(variant string) []FieldMetadata {
	var out []FieldMetadata
	for _, f := range m.Fields {
		if !f.Form {
			continue
		}
		if variant != "" && !f.InVariant(variant) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// EditFields returns the fields settable when editing an existing
// record: form fields minus the immutable ones, filtered to the
// record's union variant. Edit forms built from this list can never
// offer the discriminator.
func (m *ResourceMetadata) EditFields(variant string) []FieldMetadata {
	var out []FieldMetadata
	for _, f := range m.FormFields(variant) {
		if f.Immutable {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Discriminator returns the union tag field, or nil for plain
// resources.
func (m *ResourceMetadata) Discriminator() *FieldMetadata {
	for i := range m.Fields {
		if m.Fields[i].Union {
			return &m.Fields[i]
		}
	}
	return nil
}

// Variants returns the union tags this resource supports, or nil for
// plain resources.
func (m *ResourceMetadata) Variants() []string {
	disc := m.Discriminator()
	if disc == nil {
		return nil
	}
	return disc.Enum
}

// Relationship returns the relationship with the given wire name, or
// nil.
func (m *ResourceMetadata) Relationship(name string) *RelationshipMetadata {
	for i := range m.Relationships {
		if m.Relationships[i].Name == name {
			return &m.Relationships[i]
		}
	}
	return nil
}

// Includes returns the wire names accepted by the include query
// parameter, in declaration order.
func (m *ResourceMetadata) Includes() []string {
	out := make([]string, 0, len(m.Relationships))
	for _, r := range m.Relationships {
		out = append(out, r.Name)
	}
	return out
}

// Links returns the many-to-many relationships, the ones edited
// through link and unlink endpoints.
func (m *ResourceMetadata) Links() []RelationshipMetadata {
	var out []RelationshipMetadata
	for _, r := range m.Relationships {
		if r.Kind == ManyToMany {
			out = append(out, r)
		}
	}
	return out
}

// InVariant reports whether the field applies to the given union tag.
// Fields without a variant list apply to every variant.
func (f *FieldMetadata) InVariant(variant string) bool {
	if len(f.Variant) == 0 {
		return true
	}
	for _, v := range f.Variant {
		if v == variant {
			return true
		}
	}
	return false
}

// AllowsValue reports whether the value satisfies the field's enum
// constraint. Unconstrained fields allow everything.
func (f *FieldMetadata) AllowsValue(value string) bool {
	if len(f.Enum) == 0 {
		return true
	}
	for _, v := range f.Enum {
		if v == value {
			return true
		}
	}
	return false
}

// labelize derives a display label from a wire name when the tag does
// not provide one: "full_name" becomes "Full name".
func labelize(name string) string {
	cleaned := strings.ReplaceAll(name, "_", " ")
	if cleaned == "" {
		return cleaned
	}
	return strings.ToUpper(cleaned[:1]) + cleaned[1:]
}
