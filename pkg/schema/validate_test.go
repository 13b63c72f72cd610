package schema

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func instrumentMeta(t *testing.T) *ResourceMetadata {
	t.Helper()
	meta, err := NewParser().Parse(reflect.TypeOf(testInstrument{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return meta
}

func TestValidateCreate(t *testing.T) {
	meta := instrumentMeta(t)

	tests := []struct {
		name      string
		values    map[string]string
		wantField string // empty means the values are valid
	}{
		{
			"valid ftir",
			map[string]string{"name": "Nicolet iS50", "kind": "ftir", "path_length": "2.4", "scans": "16"},
			"",
		},
		{
			"valid oes",
			map[string]string{"name": "HR4000", "kind": "oes", "integration_time": "12.5"},
			"",
		},
		{
			"missing discriminator",
			map[string]string{"name": "Nicolet iS50"},
			"kind",
		},
		{
			"discriminator outside the enum",
			map[string]string{"name": "x", "kind": "nmr"},
			"kind",
		},
		{
			"missing required field",
			map[string]string{"kind": "ftir"},
			"name",
		},
		{
			"other variant's field",
			map[string]string{"name": "x", "kind": "ftir", "integration_time": "5"},
			"integration_time",
		},
		{
			"unknown field",
			map[string]string{"name": "x", "kind": "ftir", "serial": "a1"},
			"serial",
		},
		{
			"server-owned field",
			map[string]string{"name": "x", "kind": "ftir", "created_at": "yesterday"},
			"created_at",
		},
		{
			"non-numeric decimal",
			map[string]string{"name": "x", "kind": "ftir", "path_length": "wide"},
			"path_length",
		},
		{
			"non-integer count",
			map[string]string{"name": "x", "kind": "ftir", "scans": "a few"},
			"scans",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreate(meta, tt.values)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateCreate failed: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected a ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("error on field %q, want %q (%v)", verr.Field, tt.wantField, err)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	meta := instrumentMeta(t)

	t.Run("accepts in-variant edits", func(t *testing.T) {
		values := map[string]string{"name": "renamed", "path_length": "3.1"}
		if err := ValidateUpdate(meta, "ftir", values); err != nil {
			t.Fatalf("ValidateUpdate failed: %v", err)
		}
	})

	t.Run("rejects the union tag", func(t *testing.T) {
		err := ValidateUpdate(meta, "ftir", map[string]string{"kind": "oes"})
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "kind" {
			t.Fatalf("expected a validation error on kind, got %v", err)
		}
	})

	t.Run("rejects other variants' fields", func(t *testing.T) {
		err := ValidateUpdate(meta, "ftir", map[string]string{"integration_time": "9"})
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "integration_time" {
			t.Fatalf("expected a validation error on integration_time, got %v", err)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		err := ValidateUpdate(meta, "ftir", map[string]string{"firmware": "2.1"})
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "firmware" {
			t.Fatalf("expected a validation error on firmware, got %v", err)
		}
	})
}

func TestBuildPayload(t *testing.T) {
	meta := instrumentMeta(t)

	t.Run("converts by wire type and drops empties", func(t *testing.T) {
		payload, err := BuildPayload(meta, map[string]string{
			"name":             "Nicolet iS50",
			"kind":             "ftir",
			"path_length":      "2.4",
			"scans":            "16",
			"integration_time": "",
		})
		if err != nil {
			t.Fatalf("BuildPayload failed: %v", err)
		}

		// Decimal measurements stay strings; counts become integers.
		want := map[string]any{
			"name":        "Nicolet iS50",
			"kind":        "ftir",
			"path_length": "2.4",
			"scans":       int64(16),
		}
		if !reflect.DeepEqual(payload, want) {
			t.Errorf("payload = %#v, want %#v", payload, want)
		}
	})

	t.Run("conversion failure names the field", func(t *testing.T) {
		_, err := BuildPayload(meta, map[string]string{"scans": "a few"})
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "scans" {
			t.Fatalf("expected a validation error on scans, got %v", err)
		}
	})
}

type testSchedule struct {
	ID          int64      `lims:"id,label(ID),list,numeric"`
	PerformedAt *time.Time `lims:"performed_at,label(Performed),form,detail"`
}

func TestTimestampFields(t *testing.T) {
	meta, err := NewParser().Parse(reflect.TypeOf(testSchedule{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	t.Run("date shorthand", func(t *testing.T) {
		payload, err := BuildPayload(meta, map[string]string{"performed_at": "2026-03-14"})
		if err != nil {
			t.Fatalf("BuildPayload failed: %v", err)
		}
		got, ok := payload["performed_at"].(time.Time)
		if !ok {
			t.Fatalf("performed_at is %T, want time.Time", payload["performed_at"])
		}
		want := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("performed_at = %v, want %v", got, want)
		}
	})

	t.Run("full timestamp", func(t *testing.T) {
		payload, err := BuildPayload(meta, map[string]string{"performed_at": "2026-03-14T09:30:00Z"})
		if err != nil {
			t.Fatalf("BuildPayload failed: %v", err)
		}
		got := payload["performed_at"].(time.Time)
		if got.Hour() != 9 || got.Minute() != 30 {
			t.Errorf("performed_at = %v, want 09:30", got)
		}
	})

	t.Run("unparseable input refused up front", func(t *testing.T) {
		err := ValidateCreate(meta, map[string]string{"performed_at": "last tuesday"})
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "performed_at" {
			t.Fatalf("expected a validation error on performed_at, got %v", err)
		}
	})
}
