package models

import "time"

// Sample is a portion of a catalyst batch weighed out for testing.
type Sample struct {
	Base
	Name         string  `json:"name" lims:"name,label(Name),width(22),list,sort,form,required,detail"`
	CatalystID   int64   `json:"catalyst_id" lims:"catalyst_id,label(Catalyst ID),form,numeric"`
	MethodID     int64   `json:"method_id" lims:"method_id,label(Method ID),form,numeric"`
	Mass         Decimal `json:"mass" lims:"mass,label(Mass (g)),width(10),list,sort,form,numeric,detail"`
	PreparedByID int64   `json:"prepared_by_id" lims:"prepared_by_id,label(Prepared by ID),form,numeric"`

	Catalyst   *Catalyst `json:"catalyst,omitempty" lims:"-,belongsTo(catalysts),foreignKey(catalyst_id)"`
	Method     *Method   `json:"method,omitempty" lims:"-,belongsTo(methods),foreignKey(method_id)"`
	PreparedBy *User     `json:"prepared_by,omitempty" lims:"-,belongsTo(users),foreignKey(prepared_by_id)"`
}

// Resource returns the collection path for samples.
func (Sample) Resource() string { return "samples" }

// SampleCreate is the payload for weighing out a sample.
type SampleCreate struct {
	Name         string  `json:"name"`
	CatalystID   int64   `json:"catalyst_id"`
	MethodID     int64   `json:"method_id,omitempty"`
	Mass         Decimal `json:"mass,omitempty"`
	PreparedByID int64   `json:"prepared_by_id,omitempty"`
}

// SampleUpdate carries the editable subset of Sample.
type SampleUpdate struct {
	Name         *string  `json:"name,omitempty"`
	CatalystID   *int64   `json:"catalyst_id,omitempty"`
	MethodID     *int64   `json:"method_id,omitempty"`
	Mass         *Decimal `json:"mass,omitempty"`
	PreparedByID *int64   `json:"prepared_by_id,omitempty"`
}

// Characterization records an analysis run against a sample (XRD, BET,
// SEM and the like), optionally pointing at the raw data file.
type Characterization struct {
	Base
	SampleID    int64      `json:"sample_id" lims:"sample_id,label(Sample ID),form,required,numeric"`
	Technique   string     `json:"technique" lims:"technique,label(Technique),width(14),list,sort,form,required,detail"`
	Summary     string     `json:"summary" lims:"summary,label(Summary),width(40),list,form,detail"`
	FileID      *int64     `json:"file_id,omitempty" lims:"file_id,label(File ID),form,numeric"`
	PerformedAt *time.Time `json:"performed_at,omitempty" lims:"performed_at,label(Performed),list,sort,form,detail"`

	Sample *Sample `json:"sample,omitempty" lims:"-,belongsTo(samples),foreignKey(sample_id)"`
	File   *File   `json:"file,omitempty" lims:"-,belongsTo(files),foreignKey(file_id)"`
}

// Resource returns the collection path for characterizations.
func (Characterization) Resource() string { return "characterizations" }

// CharacterizationCreate is the payload for recording an analysis.
type CharacterizationCreate struct {
	SampleID    int64      `json:"sample_id"`
	Technique   string     `json:"technique"`
	Summary     string     `json:"summary,omitempty"`
	FileID      *int64     `json:"file_id,omitempty"`
	PerformedAt *time.Time `json:"performed_at,omitempty"`
}

// CharacterizationUpdate carries the editable subset of
// Characterization.
type CharacterizationUpdate struct {
	SampleID    *int64     `json:"sample_id,omitempty"`
	Technique   *string    `json:"technique,omitempty"`
	Summary     *string    `json:"summary,omitempty"`
	FileID      *int64     `json:"file_id,omitempty"`
	PerformedAt *time.Time `json:"performed_at,omitempty"`
}

// Observation is a free-form note a user attaches to a running
// experiment.
type Observation struct {
	Base
	ExperimentID int64      `json:"experiment_id" lims:"experiment_id,label(Experiment ID),form,required,numeric"`
	UserID       int64      `json:"user_id" lims:"user_id,label(User ID),form,numeric"`
	Note         string     `json:"note" lims:"note,label(Note),width(48),list,form,required,detail"`
	ObservedAt   *time.Time `json:"observed_at,omitempty" lims:"observed_at,label(Observed),list,sort,form,detail"`

	Experiment *Experiment `json:"experiment,omitempty" lims:"-,belongsTo(experiments),foreignKey(experiment_id)"`
	User       *User       `json:"user,omitempty" lims:"-,belongsTo(users),foreignKey(user_id)"`
}

// Resource returns the collection path for observations.
func (Observation) Resource() string { return "observations" }

// ObservationCreate is the payload for logging a note.
type ObservationCreate struct {
	ExperimentID int64      `json:"experiment_id"`
	UserID       int64      `json:"user_id,omitempty"`
	Note         string     `json:"note"`
	ObservedAt   *time.Time `json:"observed_at,omitempty"`
}

// ObservationUpdate carries the editable subset of Observation.
type ObservationUpdate struct {
	Note       *string    `json:"note,omitempty"`
	ObservedAt *time.Time `json:"observed_at,omitempty"`
}
