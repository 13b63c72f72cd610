package models

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestExperiment_VariantViews(t *testing.T) {
	t.Run("plasma", func(t *testing.T) {
		e := Experiment{
			Name:           "NTP toluene run 12",
			ExperimentType: ExperimentPlasma,
			DeliveredPower: decPtr("18.4"),
			OnTime:         decPtr("100"),
			OffTime:        decPtr("300"),
			DCVoltage:      decPtr("12.5"),
			Electrode:      strPtr("stainless mesh"),
		}

		view, ok := e.AsPlasma()
		if !ok {
			t.Fatal("AsPlasma() returned false for a plasma record")
		}
		if view.DeliveredPower != "18.4" || view.Electrode != "stainless mesh" {
			t.Errorf("AsPlasma() = %+v, fields do not match record", view)
		}
		if _, ok := e.AsPhotocatalysis(); ok {
			t.Error("AsPhotocatalysis() returned true for a plasma record")
		}
		if _, ok := e.AsMisc(); ok {
			t.Error("AsMisc() returned true for a plasma record")
		}

		duty, ok := view.DutyCyclePercent()
		if !ok || duty != 25 {
			t.Errorf("DutyCyclePercent() = %d, %v; want 25, true", duty, ok)
		}
	})

	t.Run("duty cycle without timing", func(t *testing.T) {
		view := PlasmaExperiment{}
		if _, ok := view.DutyCyclePercent(); ok {
			t.Error("DutyCyclePercent() reported ok without on/off times")
		}
	})

	t.Run("photocatalysis", func(t *testing.T) {
		e := Experiment{
			ExperimentType: ExperimentPhotocatalysis,
			Wavelength:     decPtr("365"),
			Power:          decPtr("8"),
		}
		view, ok := e.AsPhotocatalysis()
		if !ok {
			t.Fatal("AsPhotocatalysis() returned false for a photocatalysis record")
		}
		if view.Wavelength != "365" || view.Power != "8" {
			t.Errorf("AsPhotocatalysis() = %+v, fields do not match record", view)
		}
	})

	t.Run("misc", func(t *testing.T) {
		e := Experiment{
			ExperimentType: ExperimentMisc,
			Description:    strPtr("ozone baseline, no catalyst"),
		}
		view, ok := e.AsMisc()
		if !ok {
			t.Fatal("AsMisc() returned false for a misc record")
		}
		if view.Description != "ozone baseline, no catalyst" {
			t.Errorf("AsMisc() = %+v, description does not match", view)
		}
	})
}

func TestPhotocatalysis_LightClassification(t *testing.T) {
	tests := []struct {
		name       string
		wavelength Decimal
		isUV       bool
		isVisible  bool
	}{
		{"deep UV", "254", true, false},
		{"just below boundary", "379.9", true, false},
		{"boundary is visible", "380", false, true},
		{"green", "532", false, true},
		{"upper edge", "750", false, true},
		{"near infrared", "751", false, false},
		{"missing wavelength", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := PhotocatalysisExperiment{Wavelength: tt.wavelength}
			if got := view.IsUV(); got != tt.isUV {
				t.Errorf("IsUV() with %q = %v, want %v", tt.wavelength, got, tt.isUV)
			}
			if got := view.IsVisible(); got != tt.isVisible {
				t.Errorf("IsVisible() with %q = %v, want %v", tt.wavelength, got, tt.isVisible)
			}
		})
	}
}

func TestExperimentType_Valid(t *testing.T) {
	for _, typ := range ExperimentTypes() {
		if !typ.Valid() {
			t.Errorf("ExperimentTypes() contains invalid type %q", typ)
		}
	}
	if ExperimentType("thermal").Valid() {
		t.Error("Valid() accepted unknown experiment type")
	}
}

// The update payload must not expose the union tag: variants are fixed
// at creation.
func TestExperimentUpdate_OmitsTypeTag(t *testing.T) {
	typ := reflect.TypeOf(ExperimentUpdate{})
	if _, found := typ.FieldByName("ExperimentType"); found {
		t.Error("ExperimentUpdate exposes ExperimentType; the variant tag must be immutable")
	}
}
