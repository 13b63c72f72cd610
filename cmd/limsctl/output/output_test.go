package output

import (
	"reflect"
	"strings"
	"testing"

	"github.com/plasmalab/limsctl/pkg/collection"
	"github.com/plasmalab/limsctl/pkg/models"
	"github.com/plasmalab/limsctl/pkg/schema"
)

func metaFor(t *testing.T, model any) *schema.ResourceMetadata {
	t.Helper()
	meta, err := schema.NewParser().Parse(reflect.TypeOf(model))
	if err != nil {
		t.Fatalf("parse metadata: %v", err)
	}
	return meta
}

func TestCatalystBadge(t *testing.T) {
	tests := []struct {
		name      string
		yield     models.Decimal
		remaining models.Decimal
		want      string
	}{
		{"available", "10.0", "7.5", "AVAILABLE 75%"},
		{"full batch", "10.0", "10.0", "AVAILABLE 100%"},
		{"sub-threshold residue reads depleted at zero", "10.0", "0.00005", "DEPLETED 0%"},
		{"exactly at threshold", "10.0", "0.0001", "DEPLETED 0%"},
		{"empty remaining", "10.0", "", "DEPLETED 0%"},
		{"unparsable remaining", "10.0", "n/a", "DEPLETED 0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := models.Catalyst{YieldAmount: tt.yield, RemainingAmount: tt.remaining}
			got := CatalystBadge(c)
			if got != tt.want {
				t.Errorf("CatalystBadge() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResultFormatting(t *testing.T) {
	if got := FormatDRE("99.25"); got != "99.2%" {
		t.Errorf("FormatDRE = %q", got)
	}
	if got := FormatDRE(""); got != "—" {
		t.Errorf("FormatDRE empty = %q", got)
	}
	if got := FormatEnergyYield("1.375"); got != "1.38 g/kWh" {
		t.Errorf("FormatEnergyYield = %q", got)
	}
	if got := FormatEnergyYield(""); got != "—" {
		t.Errorf("FormatEnergyYield empty = %q", got)
	}
}

func TestFormatValue(t *testing.T) {
	plain := schema.FieldMetadata{Name: "name"}
	stamp := schema.FieldMetadata{Name: "created_at"}

	tests := []struct {
		name  string
		field schema.FieldMetadata
		value any
		want  string
	}{
		{"nil", plain, nil, "—"},
		{"empty string", plain, "", "—"},
		{"string", plain, "TiO2 batch", "TiO2 batch"},
		{"true", plain, true, "yes"},
		{"false", plain, false, "no"},
		{"whole float", plain, float64(42), "42"},
		{"fractional float", plain, 1.5, "1.5"},
		{"timestamp string", stamp, "2024-03-01T09:00:05Z", "2024-03-01 09:00"},
		{"non-timestamp field keeps raw string", plain, "2024-03-01T09:00:05Z", "2024-03-01T09:00:05Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.field, tt.value); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestRenderTable(t *testing.T) {
	meta := metaFor(t, models.Catalyst{})
	records := []map[string]any{
		{"id": float64(1), "name": "Pd on alumina", "yield_amount": "10.0", "remaining_amount": "7.5"},
		{"id": float64(2), "name": "TiO2 anatase", "yield_amount": "5.0", "remaining_amount": "0.00005"},
	}

	got := RenderTable(meta, records, collection.State{Key: "name", Direction: collection.Descending})

	for _, want := range []string{
		"Name ▼",          // sort marker on the active column
		"Status",          // derived column
		"Pd on alumina",
		"AVAILABLE 75%",
		"DEPLETED 0%",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
}

func TestRenderTableResultOverrides(t *testing.T) {
	meta := metaFor(t, models.ProcessedResult{})
	records := []map[string]any{
		{"id": float64(1), "dre": "99.25", "energy_yield": "1.375", "inlet_ppm": "120", "outlet_ppm": "0.9"},
	}

	got := RenderTable(meta, records, collection.State{})
	if !strings.Contains(got, "99.2%") {
		t.Errorf("DRE not rendered as percentage:\n%s", got)
	}
	if !strings.Contains(got, "1.38 g/kWh") {
		t.Errorf("energy yield not rendered with unit:\n%s", got)
	}
}

func TestRenderDetailVariantFiltering(t *testing.T) {
	meta := metaFor(t, models.Analyzer{})
	record := map[string]any{
		"id":            float64(3),
		"name":          "Bruker Alpha II",
		"analyzer_type": "ftir",
		"path_length":   "0.1",
		"scans":         float64(16),
	}

	got := RenderDetail(meta, record)

	if !strings.Contains(got, "Bruker Alpha II") {
		t.Errorf("detail missing name:\n%s", got)
	}
	if !strings.Contains(got, "Path length") {
		t.Errorf("detail missing ftir field:\n%s", got)
	}
	if strings.Contains(got, "Integration (ms)") {
		t.Errorf("detail leaked an oes-only field:\n%s", got)
	}
}

func TestRenderDetailRelationships(t *testing.T) {
	meta := metaFor(t, models.Experiment{})
	record := map[string]any{
		"id":              float64(7),
		"name":            "plasma run 7",
		"experiment_type": "plasma",
		"reactor":         map[string]any{"id": float64(2), "name": "DBD quartz"},
		"samples":         []any{map[string]any{"id": float64(1)}, map[string]any{"id": float64(4)}},
	}

	got := RenderDetail(meta, record)

	if !strings.Contains(got, "DBD quartz") {
		t.Errorf("embedded reactor not summarized:\n%s", got)
	}
	if !strings.Contains(got, "2 linked") {
		t.Errorf("linked sample count missing:\n%s", got)
	}
	if strings.Contains(got, "Wavelength") {
		t.Errorf("photocatalysis field leaked into a plasma record:\n%s", got)
	}
}
