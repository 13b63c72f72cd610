package models

// Reactor is a vessel experiments run in, either a plasma reactor with
// a defined electrode gap or a photocatalytic cell.
type Reactor struct {
	Base
	Name         string  `json:"name" lims:"name,label(Name),width(20),list,sort,form,required,detail"`
	Kind         string  `json:"kind" lims:"kind,label(Kind),width(14),list,sort,form,detail"`
	Volume       Decimal `json:"volume" lims:"volume,label(Volume (mL)),width(12),list,sort,form,numeric,detail"`
	ElectrodeGap Decimal `json:"electrode_gap" lims:"electrode_gap,label(Gap (mm)),width(10),list,sort,form,numeric,detail"`
}

// Resource returns the collection path for reactors.
func (Reactor) Resource() string { return "reactors" }

// ReactorCreate is the payload for adding a reactor.
type ReactorCreate struct {
	Name         string  `json:"name"`
	Kind         string  `json:"kind,omitempty"`
	Volume       Decimal `json:"volume,omitempty"`
	ElectrodeGap Decimal `json:"electrode_gap,omitempty"`
}

// ReactorUpdate carries the editable subset of Reactor.
type ReactorUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Kind         *string  `json:"kind,omitempty"`
	Volume       *Decimal `json:"volume,omitempty"`
	ElectrodeGap *Decimal `json:"electrode_gap,omitempty"`
}

// Waveform is a driving signal profile for plasma experiments.
type Waveform struct {
	Base
	Name      string  `json:"name" lims:"name,label(Name),width(20),list,sort,form,required,detail"`
	Shape     string  `json:"shape" lims:"shape,label(Shape),width(12),list,sort,form,detail"`
	Frequency Decimal `json:"frequency" lims:"frequency,label(Frequency (kHz)),width(16),list,sort,form,numeric,detail"`
}

// Resource returns the collection path for waveforms.
func (Waveform) Resource() string { return "waveforms" }

// WaveformCreate is the payload for adding a waveform.
type WaveformCreate struct {
	Name      string  `json:"name"`
	Shape     string  `json:"shape,omitempty"`
	Frequency Decimal `json:"frequency,omitempty"`
}

// WaveformUpdate carries the editable subset of Waveform.
type WaveformUpdate struct {
	Name      *string  `json:"name,omitempty"`
	Shape     *string  `json:"shape,omitempty"`
	Frequency *Decimal `json:"frequency,omitempty"`
}
