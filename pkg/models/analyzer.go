package models

// AnalyzerType discriminates the analyzer union. It is chosen at
// creation and never changes; acquisition settings below only apply to
// the variant the tag selects.
type AnalyzerType string

const (
	// AnalyzerFTIR is a Fourier-transform infrared spectrometer.
	AnalyzerFTIR AnalyzerType = "ftir"
	// AnalyzerOES is an optical emission spectrometer.
	AnalyzerOES AnalyzerType = "oes"
)

// Valid reports whether t names a known analyzer variant.
func (t AnalyzerType) Valid() bool {
	switch t {
	case AnalyzerFTIR, AnalyzerOES:
		return true
	}
	return false
}

// AnalyzerTypes lists every analyzer variant in display order.
func AnalyzerTypes() []AnalyzerType {
	return []AnalyzerType{AnalyzerFTIR, AnalyzerOES}
}

// Analyzer is a measurement instrument. Exactly one variant's fields
// are populated, matching AnalyzerType; the rest stay nil on the wire.
type Analyzer struct {
	Base
	Name         string       `json:"name" lims:"name,label(Name),width(22),list,sort,form,required,detail"`
	AnalyzerType AnalyzerType `json:"analyzer_type" lims:"analyzer_type,label(Type),width(8),list,sort,form,required,immutable,union,enum(ftir|oes),detail"`

	// ftir
	PathLength *Decimal `json:"path_length,omitempty" lims:"path_length,label(Path length (m)),form,numeric,variant(ftir),detail"`
	Resolution *Decimal `json:"resolution,omitempty" lims:"resolution,label(Resolution (cm⁻¹)),form,numeric,variant(ftir),detail"`
	Interval   *Decimal `json:"interval,omitempty" lims:"interval,label(Interval (s)),form,numeric,variant(ftir),detail"`

	// oes
	IntegrationTime *Decimal `json:"integration_time,omitempty" lims:"integration_time,label(Integration (ms)),form,numeric,variant(oes),detail"`

	// shared by both variants
	Scans *int `json:"scans,omitempty" lims:"scans,label(Scans),form,numeric,variant(ftir|oes),detail"`
}

// Resource returns the collection path for analyzers.
func (Analyzer) Resource() string { return "analyzers" }

// FTIRAnalyzer is the typed view of an Analyzer with the ftir tag.
type FTIRAnalyzer struct {
	PathLength Decimal
	Resolution Decimal
	Interval   Decimal
	Scans      int
}

// OESAnalyzer is the typed view of an Analyzer with the oes tag.
type OESAnalyzer struct {
	IntegrationTime Decimal
	Scans           int
}

// AsFTIR returns the ftir view. The second return is false when the
// record is a different variant.
func (a Analyzer) AsFTIR() (FTIRAnalyzer, bool) {
	if a.AnalyzerType != AnalyzerFTIR {
		return FTIRAnalyzer{}, false
	}
	return FTIRAnalyzer{
		PathLength: deref(a.PathLength),
		Resolution: deref(a.Resolution),
		Interval:   deref(a.Interval),
		Scans:      deref(a.Scans),
	}, true
}

// AsOES returns the oes view. The second return is false when the
// record is a different variant.
func (a Analyzer) AsOES() (OESAnalyzer, bool) {
	if a.AnalyzerType != AnalyzerOES {
		return OESAnalyzer{}, false
	}
	return OESAnalyzer{
		IntegrationTime: deref(a.IntegrationTime),
		Scans:           deref(a.Scans),
	}, true
}

// AnalyzerCreate is the payload for registering an instrument. The
// variant tag is required; only matching variant fields should be set.
type AnalyzerCreate struct {
	Name         string       `json:"name"`
	AnalyzerType AnalyzerType `json:"analyzer_type"`

	PathLength      *Decimal `json:"path_length,omitempty"`
	Resolution      *Decimal `json:"resolution,omitempty"`
	Interval        *Decimal `json:"interval,omitempty"`
	IntegrationTime *Decimal `json:"integration_time,omitempty"`
	Scans           *int     `json:"scans,omitempty"`
}

// AnalyzerUpdate carries the editable subset of Analyzer. The variant
// tag is intentionally absent: an instrument cannot change kind.
type AnalyzerUpdate struct {
	Name *string `json:"name,omitempty"`

	PathLength      *Decimal `json:"path_length,omitempty"`
	Resolution      *Decimal `json:"resolution,omitempty"`
	Interval        *Decimal `json:"interval,omitempty"`
	IntegrationTime *Decimal `json:"integration_time,omitempty"`
	Scans           *int     `json:"scans,omitempty"`
}
