package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/plasmalab/limsctl/pkg/collection"
	"github.com/plasmalab/limsctl/pkg/schema"
)

const (
	minColumnWidth = 8
	sortMarkerAsc  = " ▲"
	sortMarkerDesc = " ▼"
)

// RenderTable renders records as an aligned table using the resource's
// list columns. Pass the active sort state to mark the sorted column;
// the zero state marks nothing.
func RenderTable(meta *schema.ResourceMetadata, records []map[string]any, sort collection.State) string {
	fields := meta.ListFields()
	derived := derivedColumns(meta.Resource)
	if len(fields) == 0 && len(derived) == 0 {
		return ""
	}

	widths := make([]int, 0, len(fields)+len(derived))
	headers := make([]string, 0, cap(widths))
	for _, f := range fields {
		label := f.Label
		if sort.Key != "" && (sort.Key == f.Name || sort.Key == f.SortKey) {
			if sort.Direction == collection.Descending {
				label += sortMarkerDesc
			} else {
				label += sortMarkerAsc
			}
		}
		widths = append(widths, columnWidth(f, label))
		headers = append(headers, label)
	}
	for _, d := range derived {
		widths = append(widths, d.Width)
		headers = append(headers, d.Label)
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(headerStyle.Width(widths[i]).Render(truncate(h, widths[i])))
		b.WriteString(" ")
	}
	b.WriteString("\n")

	cell := lipgloss.NewStyle()
	for _, record := range records {
		col := 0
		for _, f := range fields {
			b.WriteString(cell.Width(widths[col]).Render(renderCell(meta, f, record, widths[col])))
			b.WriteString(" ")
			col++
		}
		for _, d := range derived {
			b.WriteString(cell.Width(widths[col]).Render(d.Render(record)))
			b.WriteString(" ")
			col++
		}
		b.WriteString("\n")
	}

	return b.String()
}

func renderCell(meta *schema.ResourceMetadata, f schema.FieldMetadata, record map[string]any, width int) string {
	return truncate(Cell(meta, f, record), width)
}

func columnWidth(f schema.FieldMetadata, label string) int {
	w := f.Width
	if w < len([]rune(label))+2 {
		w = len([]rune(label)) + 2
	}
	if w < minColumnWidth {
		w = minColumnWidth
	}
	return w
}
