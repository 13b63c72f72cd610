package output

import (
	"fmt"
	"strings"

	"github.com/plasmalab/limsctl/pkg/collection"
	"github.com/plasmalab/limsctl/pkg/schema"
)

// RenderDetail renders one record as an aligned label/value card. Union
// resources show only the record's own variant fields. Relationships
// appear when the record was fetched with includes: belongsTo as the
// embedded record's name, manyToMany as a linked count.
func RenderDetail(meta *schema.ResourceMetadata, record map[string]any) string {
	variant := recordVariant(meta, record)
	fields := meta.DetailFields(variant)

	type row struct {
		label string
		value string
	}
	rows := make([]row, 0, len(fields)+len(meta.Relationships)+1)

	for _, f := range fields {
		value := ""
		if override := cellOverride(meta.Resource, f.Name); override != nil {
			value = override(record)
		} else {
			v, ok := collection.Lookup(record, f.Name)
			if !ok {
				continue
			}
			value = FormatValue(f, v)
		}
		rows = append(rows, row{label: f.Label, value: value})
	}

	for _, d := range derivedColumns(meta.Resource) {
		rows = append(rows, row{label: d.Label, value: d.Render(record)})
	}

	for _, rel := range meta.Relationships {
		v, ok := record[rel.Name]
		if !ok || v == nil {
			continue
		}
		switch rel.Kind {
		case schema.BelongsTo:
			rows = append(rows, row{label: relationLabel(rel.Name), value: embeddedSummary(v)})
		case schema.ManyToMany:
			if linked, ok := v.([]any); ok {
				rows = append(rows, row{
					label: relationLabel(rel.Name),
					value: fmt.Sprintf("%d linked", len(linked)),
				})
			}
		}
	}

	width := 0
	for _, r := range rows {
		if n := len([]rune(r.label)); n > width {
			width = n
		}
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(labelStyle.Render(pad(r.label, width)))
		b.WriteString("  ")
		b.WriteString(r.value)
		b.WriteString("\n")
	}
	return b.String()
}

// recordVariant reads the union tag off a decoded record, or "" for
// plain resources.
func recordVariant(meta *schema.ResourceMetadata, record map[string]any) string {
	disc := meta.Discriminator()
	if disc == nil {
		return ""
	}
	if v, ok := record[disc.Name].(string); ok {
		return v
	}
	return ""
}

// embeddedSummary names an embedded belongsTo record: its name field
// when present, otherwise its id.
func embeddedSummary(v any) string {
	rec, ok := v.(map[string]any)
	if !ok {
		return fmt.Sprint(v)
	}
	for _, key := range []string{"name", "descriptive_name", "full_name", "username"} {
		if s, ok := rec[key].(string); ok && s != "" {
			return s
		}
	}
	if id, ok := rec["id"]; ok {
		return fmt.Sprintf("id %v", id)
	}
	return "—"
}

func relationLabel(name string) string {
	cleaned := strings.ReplaceAll(name, "_", " ")
	if cleaned == "" {
		return cleaned
	}
	return strings.ToUpper(cleaned[:1]) + cleaned[1:]
}

func pad(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
