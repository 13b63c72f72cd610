package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/plasmalab/limsctl/pkg/collection"
	"github.com/plasmalab/limsctl/pkg/models"
	"github.com/plasmalab/limsctl/pkg/schema"
)

// FormatValue renders one record field for display. It accepts the
// loose types JSON decoding produces (string, float64, bool, nil) as
// well as the typed models values.
func FormatValue(f schema.FieldMetadata, v any) string {
	switch val := v.(type) {
	case nil:
		return "—"
	case bool:
		if val {
			return "yes"
		}
		return "no"
	case time.Time:
		return val.Format("2006-01-02 15:04")
	case string:
		if isTimestampField(f) {
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				return t.Format("2006-01-02 15:04")
			}
		}
		if val == "" {
			return "—"
		}
		return val
	case float64:
		// JSON numbers for id fields are whole; render them as such.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}

func isTimestampField(f schema.FieldMetadata) bool {
	switch f.Name {
	case "created_at", "updated_at", "deleted_at", "performed_at", "observed_at":
		return true
	}
	return false
}

// CatalystBadge renders a catalyst's derived stock state: DEPLETED in
// red, otherwise AVAILABLE with the remaining percentage of the yield.
func CatalystBadge(c models.Catalyst) string {
	if c.Status() == models.CatalystDepleted {
		return errorStyle.Render(string(models.CatalystDepleted)) + mutedStyle.Render(" 0%")
	}
	return successStyle.Render(string(models.CatalystAvailable)) +
		mutedStyle.Render(fmt.Sprintf(" %d%%", c.UsagePercent()))
}

// FormatDRE renders a destruction/removal efficiency as a percentage.
func FormatDRE(d models.Decimal) string {
	if d.IsZero() {
		return "—"
	}
	return d.Format(1) + "%"
}

// FormatEnergyYield renders an energy yield in g/kWh.
func FormatEnergyYield(d models.Decimal) string {
	if d.IsZero() {
		return "—"
	}
	return d.Format(2) + " g/kWh"
}

// decimalAt reads a decimal field out of a decoded record, accepting
// the string form the API uses and the bare numbers older records
// carry.
func decimalAt(record map[string]any, key string) models.Decimal {
	switch v := record[key].(type) {
	case string:
		return models.Decimal(v)
	case float64:
		return models.DecimalFromFloat(v)
	case json.Number:
		return models.Decimal(v.String())
	default:
		return ""
	}
}

// catalystFromRecord builds the typed view a decoded catalyst record
// needs for its derived status.
func catalystFromRecord(record map[string]any) models.Catalyst {
	return models.Catalyst{
		YieldAmount:     decimalAt(record, "yield_amount"),
		RemainingAmount: decimalAt(record, "remaining_amount"),
	}
}

// derivedColumn is a display-only column computed from a record rather
// than read from a field.
type derivedColumn struct {
	Label  string
	Width  int
	Render func(record map[string]any) string
}

// derivedColumns lists the computed columns appended to specific
// resources' tables and detail cards.
func derivedColumns(resource string) []derivedColumn {
	switch resource {
	case "catalysts":
		return []derivedColumn{{
			Label: "Status",
			Width: 14,
			Render: func(record map[string]any) string {
				return CatalystBadge(catalystFromRecord(record))
			},
		}}
	default:
		return nil
	}
}

// Cell renders one field of a record as plain text: the resource's
// display override when it has one, the formatted value otherwise, a
// dash when the field is absent. Callers that style or truncate do so
// on top.
func Cell(meta *schema.ResourceMetadata, f schema.FieldMetadata, record map[string]any) string {
	if override := cellOverride(meta.Resource, f.Name); override != nil {
		return override(record)
	}
	v, ok := collection.Lookup(record, f.Name)
	if !ok {
		return "—"
	}
	return FormatValue(f, v)
}

// ColumnWidth returns the display width for a list column, wide enough
// for the label plus a sort marker.
func ColumnWidth(f schema.FieldMetadata) int {
	return columnWidth(f, f.Label)
}

// cellOverride returns a custom renderer for fields whose raw value is
// not what an operator wants to read, or nil.
func cellOverride(resource, field string) func(record map[string]any) string {
	switch resource {
	case "processed-results":
		switch field {
		case "dre":
			return func(record map[string]any) string {
				return FormatDRE(decimalAt(record, "dre"))
			}
		case "energy_yield":
			return func(record map[string]any) string {
				return FormatEnergyYield(decimalAt(record, "energy_yield"))
			}
		}
	}
	return nil
}

// truncate shortens a plain cell to width runes with an ellipsis. Cells
// carrying ANSI styling are returned unchanged; lipgloss pads them.
func truncate(s string, width int) string {
	if width <= 0 || strings.Contains(s, "\x1b") {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
