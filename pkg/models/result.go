package models

// ProcessedResult is a computed outcome for one contaminant in one
// experiment: destruction/removal efficiency and energy yield, derived
// offline from the analyzer traces.
type ProcessedResult struct {
	Base
	ExperimentID  int64   `json:"experiment_id" lims:"experiment_id,label(Experiment ID),form,required,numeric"`
	ContaminantID int64   `json:"contaminant_id" lims:"contaminant_id,label(Contaminant ID),form,required,numeric"`
	InletPPM      Decimal `json:"inlet_ppm" lims:"inlet_ppm,label(Inlet ppm),width(10),list,sort,form,numeric,detail"`
	OutletPPM     Decimal `json:"outlet_ppm" lims:"outlet_ppm,label(Outlet ppm),width(10),list,sort,form,numeric,detail"`
	DRE           Decimal `json:"dre" lims:"dre,label(DRE %),width(8),list,sort,form,numeric,detail"`
	EnergyYield   Decimal `json:"energy_yield" lims:"energy_yield,label(EY (g/kWh)),width(12),list,sort,form,numeric,detail"`

	Experiment  *Experiment  `json:"experiment,omitempty" lims:"-,belongsTo(experiments),foreignKey(experiment_id)"`
	Contaminant *Contaminant `json:"contaminant,omitempty" lims:"-,belongsTo(contaminants),foreignKey(contaminant_id)"`
}

// Resource returns the collection path for processed results.
func (ProcessedResult) Resource() string { return "processed-results" }

// ProcessedResultCreate is the payload for recording a computed
// outcome.
type ProcessedResultCreate struct {
	ExperimentID  int64   `json:"experiment_id"`
	ContaminantID int64   `json:"contaminant_id"`
	InletPPM      Decimal `json:"inlet_ppm,omitempty"`
	OutletPPM     Decimal `json:"outlet_ppm,omitempty"`
	DRE           Decimal `json:"dre,omitempty"`
	EnergyYield   Decimal `json:"energy_yield,omitempty"`
}

// ProcessedResultUpdate carries the editable subset of
// ProcessedResult.
type ProcessedResultUpdate struct {
	InletPPM    *Decimal `json:"inlet_ppm,omitempty"`
	OutletPPM   *Decimal `json:"outlet_ppm,omitempty"`
	DRE         *Decimal `json:"dre,omitempty"`
	EnergyYield *Decimal `json:"energy_yield,omitempty"`
}
