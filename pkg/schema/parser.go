package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const (
	// StructTagKey is the key used in struct tags (e.g., `lims:"..."`).
	StructTagKey = "lims"
)

// resourceNamer lets a model declare its collection path explicitly.
// Models without it fall back to the snake_case struct name.
type resourceNamer interface {
	Resource() string
}

// Parser extracts ResourceMetadata from model struct types. Results
// are cached per type, so repeated lookups are cheap.
type Parser struct {
	cache map[reflect.Type]*ResourceMetadata
}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{
		cache: make(map[reflect.Type]*ResourceMetadata),
	}
}

// Parse extracts ResourceMetadata from a Go struct type.
func (p *Parser) Parse(modelType reflect.Type) (*ResourceMetadata, error) {
	for modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}
	if modelType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be a struct, got %s", modelType.Kind())
	}
	if cached, ok := p.cache[modelType]; ok {
		return cached, nil
	}

	meta := &ResourceMetadata{
		Resource: extractResourceName(modelType),
		GoType:   modelType,
	}

	if err := p.parseFields(modelType, meta, nil); err != nil {
		return nil, err
	}
	if err := validateUnion(meta); err != nil {
		return nil, err
	}

	p.cache[modelType] = meta
	return meta, nil
}

// parseFields walks the struct's fields, recursing into embedded
// structs so shared fields like the record base participate with the
// full index path.
func (p *Parser) parseFields(modelType reflect.Type, meta *ResourceMetadata, indexPrefix []int) error {
	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		if !field.IsExported() {
			continue
		}

		index := append(append([]int(nil), indexPrefix...), i)

		tagValue := field.Tag.Get(StructTagKey)
		if tagValue == "" {
			// Untagged embedded structs contribute their own fields.
			if field.Anonymous && field.Type.Kind() == reflect.Struct {
				if err := p.parseFields(field.Type, meta, index); err != nil {
					return err
				}
			}
			continue
		}

		tagOpts, err := p.parseTag(tagValue)
		if err != nil {
			return fmt.Errorf("failed to parse tag for field %s: %w", field.Name, err)
		}

		if isRelationshipTag(tagOpts) {
			rel, err := p.createRelationshipMetadata(field, tagOpts, index)
			if err != nil {
				return fmt.Errorf("failed to parse relationship for field %s: %w", field.Name, err)
			}
			meta.Relationships = append(meta.Relationships, rel)
			continue
		}
		if tagOpts.Name == "-" {
			// Not on the wire and not a relationship; nothing to record.
			continue
		}

		meta.Fields = append(meta.Fields, p.createFieldMetadata(field, tagOpts, index, len(meta.Fields)))
	}
	return nil
}

// createFieldMetadata creates a FieldMetadata from a struct field.
func (p *Parser) createFieldMetadata(field reflect.StructField, opts *TagOptions, index []int, position int) FieldMetadata {
	fm := FieldMetadata{
		Name:     opts.Name,
		GoField:  field.Name,
		GoType:   field.Type,
		Index:    index,
		Position: position,

		List:      opts.Has("list"),
		Sortable:  opts.Has("sort") || opts.Has("sortKey"),
		Form:      opts.Has("form"),
		Required:  opts.Has("required"),
		Immutable: opts.Has("immutable"),
		Numeric:   opts.Has("numeric"),
		Detail:    opts.Has("detail"),
		Union:     opts.Has("union"),
	}

	if label := opts.Get("label"); label != "" {
		fm.Label = label
	} else {
		fm.Label = labelize(fm.Name)
	}
	if width := opts.Get("width"); width != "" {
		if n, err := strconv.Atoi(width); err == nil {
			fm.Width = n
		}
	}
	fm.SortKey = opts.Get("sortKey")
	if fm.SortKey == "" {
		fm.SortKey = fm.Name
	}
	if enum := opts.Get("enum"); enum != "" {
		fm.Enum = strings.Split(enum, "|")
	}
	if variant := opts.Get("variant"); variant != "" {
		fm.Variant = strings.Split(variant, "|")
	}

	return fm
}

// createRelationshipMetadata creates a RelationshipMetadata from a
// struct field tagged belongsTo or manyToMany.
func (p *Parser) createRelationshipMetadata(field reflect.StructField, opts *TagOptions, index []int) (RelationshipMetadata, error) {
	rel := RelationshipMetadata{
		Name:    jsonName(field),
		GoField: field.Name,
		Index:   index,
	}

	switch {
	case opts.Has("belongsTo"):
		rel.Kind = BelongsTo
		rel.Resource = opts.Get("belongsTo")
		rel.ForeignKey = opts.Get("foreignKey")
		if rel.ForeignKey == "" {
			return rel, fmt.Errorf("belongsTo requires foreignKey")
		}
	case opts.Has("manyToMany"):
		rel.Kind = ManyToMany
		rel.Resource = opts.Get("manyToMany")
		rel.LinkAttr = opts.Get("linkAttr")
	default:
		return rel, fmt.Errorf("unknown relationship kind")
	}

	if rel.Resource == "" {
		return rel, fmt.Errorf("%s requires a target resource", rel.Kind)
	}
	return rel, nil
}

// validateUnion checks that variant lists only reference tags the
// discriminator's enum declares.
func validateUnion(meta *ResourceMetadata) error {
	disc := meta.Discriminator()
	if disc == nil {
		for _, f := range meta.Fields {
			if len(f.Variant) > 0 {
				return fmt.Errorf("field %s declares variants but %s has no union field", f.Name, meta.Resource)
			}
		}
		return nil
	}
	if len(disc.Enum) == 0 {
		return fmt.Errorf("union field %s requires an enum of variant tags", disc.Name)
	}
	for _, f := range meta.Fields {
		for _, v := range f.Variant {
			if !disc.AllowsValue(v) {
				return fmt.Errorf("field %s references unknown variant %q", f.Name, v)
			}
		}
	}
	return nil
}

// isRelationshipTag checks if tag options indicate a relationship
// field.
func isRelationshipTag(opts *TagOptions) bool {
	return opts.Has("belongsTo") || opts.Has("manyToMany")
}

// extractResourceName resolves the collection path for a struct type.
// Priority order:
// 1. The model's Resource() method
// 2. snake_case conversion of the struct name (default fallback)
func extractResourceName(modelType reflect.Type) string {
	if namer, ok := reflect.New(modelType).Elem().Interface().(resourceNamer); ok {
		return namer.Resource()
	}
	return toSnakeCase(modelType.Name())
}

// jsonName returns the wire name of a field from its json tag, falling
// back to the Go field name.
func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name := strings.Split(tag, ",")[0]
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}

// TagOptions represents parsed tag options.
type TagOptions struct {
	Name    string            // wire name (first element)
	Options map[string]string // other options
}

// parseTag parses a struct tag value into TagOptions.
// Format: "wire_name,option1,option2(value),option3"
func (p *Parser) parseTag(tag string) (*TagOptions, error) {
	parts := splitTag(tag)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty tag value")
	}
	opts := &TagOptions{
		Name:    parts[0],
		Options: make(map[string]string),
	}
	for i := 1; i < len(parts); i++ {
		opt := parts[i]
		if idx := strings.Index(opt, "("); idx != -1 {
			if !strings.HasSuffix(opt, ")") {
				return nil, fmt.Errorf("invalid option format: %s", opt)
			}
			key := opt[:idx]
			value := opt[idx+1 : len(opt)-1]
			opts.Options[key] = value
		} else {
			opts.Options[opt] = ""
		}
	}
	return opts, nil
}

// Has checks if an option exists.
func (t *TagOptions) Has(key string) bool {
	_, ok := t.Options[key]
	return ok
}

// Get returns the value of an option.
func (t *TagOptions) Get(key string) string {
	return t.Options[key]
}

// splitTag splits a tag value by commas, handling nested parentheses
// so labels like "Yield (g)" survive intact.
func splitTag(tag string) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	for _, ch := range tag {
		switch ch {
		case '(':
			depth++
			current.WriteRune(ch)
		case ')':
			depth--
			current.WriteRune(ch)
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(current.String()))
				current.Reset()
			} else {
				current.WriteRune(ch)
			}
		default:
			current.WriteRune(ch)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, strings.TrimSpace(current.String()))
	}
	return parts
}

// toSnakeCase converts a string from PascalCase to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, ch := range s {
		if i > 0 && ch >= 'A' && ch <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(ch)
	}
	return strings.ToLower(result.String())
}
