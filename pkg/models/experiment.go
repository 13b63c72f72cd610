package models

import "time"

// ExperimentType discriminates the experiment union. Like the analyzer
// tag it is fixed at creation; converting a run between kinds would
// orphan variant data, so the API rejects it.
type ExperimentType string

const (
	// ExperimentPlasma is a non-thermal plasma degradation run.
	ExperimentPlasma ExperimentType = "plasma"
	// ExperimentPhotocatalysis is a light-driven degradation run.
	ExperimentPhotocatalysis ExperimentType = "photocatalysis"
	// ExperimentMisc is anything else worth recording.
	ExperimentMisc ExperimentType = "misc"
)

// Valid reports whether t names a known experiment variant.
func (t ExperimentType) Valid() bool {
	switch t {
	case ExperimentPlasma, ExperimentPhotocatalysis, ExperimentMisc:
		return true
	}
	return false
}

// ExperimentTypes lists every experiment variant in display order.
func ExperimentTypes() []ExperimentType {
	return []ExperimentType{ExperimentPlasma, ExperimentPhotocatalysis, ExperimentMisc}
}

// Wavelength boundaries in nanometers for classifying photocatalysis
// light sources.
const (
	uvVisibleBoundaryNM = 380
	visibleUpperBoundNM = 750
)

// Experiment is a degradation run. Exactly one variant's fields are
// populated, matching ExperimentType. Linked collections are owned by
// the API; the slices here are read-only snapshots filled in when the
// record is fetched with the matching include.
type Experiment struct {
	Base
	Name           string         `json:"name" lims:"name,label(Name),width(24),list,sort,form,required,detail"`
	ExperimentType ExperimentType `json:"experiment_type" lims:"experiment_type,label(Type),width(14),list,sort,form,required,immutable,union,enum(plasma|photocatalysis|misc),detail"`
	ReactorID      int64          `json:"reactor_id" lims:"reactor_id,label(Reactor ID),form,numeric"`
	AnalyzerID     int64          `json:"analyzer_id" lims:"analyzer_id,label(Analyzer ID),form,numeric"`
	PerformedAt    *time.Time     `json:"performed_at,omitempty" lims:"performed_at,label(Performed),list,sort,form,detail"`

	// plasma
	DrivingWaveformID          *int64   `json:"driving_waveform_id,omitempty" lims:"driving_waveform_id,label(Waveform ID),form,numeric,variant(plasma)"`
	DeliveredPower             *Decimal `json:"delivered_power,omitempty" lims:"delivered_power,label(Power (W)),form,numeric,variant(plasma),detail"`
	OnTime                     *Decimal `json:"on_time,omitempty" lims:"on_time,label(On time (µs)),form,numeric,variant(plasma),detail"`
	OffTime                    *Decimal `json:"off_time,omitempty" lims:"off_time,label(Off time (µs)),form,numeric,variant(plasma),detail"`
	DCVoltage                  *Decimal `json:"dc_voltage,omitempty" lims:"dc_voltage,label(DC voltage (kV)),form,numeric,variant(plasma),detail"`
	DCCurrent                  *Decimal `json:"dc_current,omitempty" lims:"dc_current,label(DC current (mA)),form,numeric,variant(plasma),detail"`
	Electrode                  *string  `json:"electrode,omitempty" lims:"electrode,label(Electrode),form,variant(plasma),detail"`
	ReactorExternalTemperature *Decimal `json:"reactor_external_temperature,omitempty" lims:"reactor_external_temperature,label(Ext. temp (°C)),form,numeric,variant(plasma),detail"`

	// photocatalysis
	Wavelength *Decimal `json:"wavelength,omitempty" lims:"wavelength,label(Wavelength (nm)),form,numeric,variant(photocatalysis),detail"`
	Power      *Decimal `json:"power,omitempty" lims:"power,label(Power (W)),form,numeric,variant(photocatalysis),detail"`

	// misc
	Description *string `json:"description,omitempty" lims:"description,label(Description),form,variant(misc),detail"`

	Reactor         *Reactor          `json:"reactor,omitempty" lims:"-,belongsTo(reactors),foreignKey(reactor_id)"`
	Analyzer        *Analyzer         `json:"analyzer,omitempty" lims:"-,belongsTo(analyzers),foreignKey(analyzer_id)"`
	DrivingWaveform *Waveform         `json:"driving_waveform,omitempty" lims:"-,belongsTo(waveforms),foreignKey(driving_waveform_id)"`
	Samples         []Sample          `json:"samples,omitempty" lims:"-,manyToMany(samples)"`
	Groups          []Group           `json:"groups,omitempty" lims:"-,manyToMany(groups)"`
	Users           []User            `json:"users,omitempty" lims:"-,manyToMany(users)"`
	Contaminants    []ContaminantLink `json:"contaminants,omitempty" lims:"-,manyToMany(contaminants),linkAttr(ppm)"`
	Carriers        []CarrierLink     `json:"carriers,omitempty" lims:"-,manyToMany(carriers),linkAttr(ratio)"`
}

// Resource returns the collection path for experiments.
func (Experiment) Resource() string { return "experiments" }

// PlasmaExperiment is the typed view of an Experiment with the plasma
// tag.
type PlasmaExperiment struct {
	DrivingWaveformID          int64
	DeliveredPower             Decimal
	OnTime                     Decimal
	OffTime                    Decimal
	DCVoltage                  Decimal
	DCCurrent                  Decimal
	Electrode                  string
	ReactorExternalTemperature Decimal
}

// DutyCyclePercent derives the on fraction of the pulse period as a
// whole percentage. The second return is false when either interval is
// missing or the period is zero.
func (p PlasmaExperiment) DutyCyclePercent() (int, bool) {
	on, okOn := p.OnTime.Float64()
	off, okOff := p.OffTime.Float64()
	if !okOn || !okOff || on+off <= 0 {
		return 0, false
	}
	return int(on / (on + off) * 100), true
}

// PhotocatalysisExperiment is the typed view of an Experiment with the
// photocatalysis tag.
type PhotocatalysisExperiment struct {
	Wavelength Decimal
	Power      Decimal
}

// IsUV reports whether the light source is ultraviolet
// (wavelength below 380 nm). Missing wavelengths classify as neither
// UV nor visible.
func (p PhotocatalysisExperiment) IsUV() bool {
	nm, ok := p.Wavelength.Float64()
	return ok && nm < uvVisibleBoundaryNM
}

// IsVisible reports whether the light source is in the visible band
// (380 to 750 nm inclusive).
func (p PhotocatalysisExperiment) IsVisible() bool {
	nm, ok := p.Wavelength.Float64()
	return ok && nm >= uvVisibleBoundaryNM && nm <= visibleUpperBoundNM
}

// MiscExperiment is the typed view of an Experiment with the misc tag.
type MiscExperiment struct {
	Description string
}

// AsPlasma returns the plasma view. The second return is false when
// the record is a different variant.
func (e Experiment) AsPlasma() (PlasmaExperiment, bool) {
	if e.ExperimentType != ExperimentPlasma {
		return PlasmaExperiment{}, false
	}
	return PlasmaExperiment{
		DrivingWaveformID:          deref(e.DrivingWaveformID),
		DeliveredPower:             deref(e.DeliveredPower),
		OnTime:                     deref(e.OnTime),
		OffTime:                    deref(e.OffTime),
		DCVoltage:                  deref(e.DCVoltage),
		DCCurrent:                  deref(e.DCCurrent),
		Electrode:                  deref(e.Electrode),
		ReactorExternalTemperature: deref(e.ReactorExternalTemperature),
	}, true
}

// AsPhotocatalysis returns the photocatalysis view. The second return
// is false when the record is a different variant.
func (e Experiment) AsPhotocatalysis() (PhotocatalysisExperiment, bool) {
	if e.ExperimentType != ExperimentPhotocatalysis {
		return PhotocatalysisExperiment{}, false
	}
	return PhotocatalysisExperiment{
		Wavelength: deref(e.Wavelength),
		Power:      deref(e.Power),
	}, true
}

// AsMisc returns the misc view. The second return is false when the
// record is a different variant.
func (e Experiment) AsMisc() (MiscExperiment, bool) {
	if e.ExperimentType != ExperimentMisc {
		return MiscExperiment{}, false
	}
	return MiscExperiment{Description: deref(e.Description)}, true
}

// ExperimentCreate is the payload for recording a run. The variant tag
// is required; only matching variant fields should be set.
type ExperimentCreate struct {
	Name           string         `json:"name"`
	ExperimentType ExperimentType `json:"experiment_type"`
	ReactorID      int64          `json:"reactor_id,omitempty"`
	AnalyzerID     int64          `json:"analyzer_id,omitempty"`
	PerformedAt    *time.Time     `json:"performed_at,omitempty"`

	DrivingWaveformID          *int64   `json:"driving_waveform_id,omitempty"`
	DeliveredPower             *Decimal `json:"delivered_power,omitempty"`
	OnTime                     *Decimal `json:"on_time,omitempty"`
	OffTime                    *Decimal `json:"off_time,omitempty"`
	DCVoltage                  *Decimal `json:"dc_voltage,omitempty"`
	DCCurrent                  *Decimal `json:"dc_current,omitempty"`
	Electrode                  *string  `json:"electrode,omitempty"`
	ReactorExternalTemperature *Decimal `json:"reactor_external_temperature,omitempty"`
	Wavelength                 *Decimal `json:"wavelength,omitempty"`
	Power                      *Decimal `json:"power,omitempty"`
	Description                *string  `json:"description,omitempty"`
}

// ExperimentUpdate carries the editable subset of Experiment. The
// variant tag is intentionally absent: a run cannot change kind.
type ExperimentUpdate struct {
	Name        *string    `json:"name,omitempty"`
	ReactorID   *int64     `json:"reactor_id,omitempty"`
	AnalyzerID  *int64     `json:"analyzer_id,omitempty"`
	PerformedAt *time.Time `json:"performed_at,omitempty"`

	DrivingWaveformID          *int64   `json:"driving_waveform_id,omitempty"`
	DeliveredPower             *Decimal `json:"delivered_power,omitempty"`
	OnTime                     *Decimal `json:"on_time,omitempty"`
	OffTime                    *Decimal `json:"off_time,omitempty"`
	DCVoltage                  *Decimal `json:"dc_voltage,omitempty"`
	DCCurrent                  *Decimal `json:"dc_current,omitempty"`
	Electrode                  *string  `json:"electrode,omitempty"`
	ReactorExternalTemperature *Decimal `json:"reactor_external_temperature,omitempty"`
	Wavelength                 *Decimal `json:"wavelength,omitempty"`
	Power                      *Decimal `json:"power,omitempty"`
	Description                *string  `json:"description,omitempty"`
}
