package models

// Contaminant is a pollutant species fed into an experiment for
// degradation.
type Contaminant struct {
	Base
	Name    string `json:"name" lims:"name,label(Name),width(20),list,sort,form,required,detail"`
	Formula string `json:"formula" lims:"formula,label(Formula),width(12),list,sort,form,detail"`
}

// Resource returns the collection path for contaminants.
func (Contaminant) Resource() string { return "contaminants" }

// ContaminantCreate is the payload for adding a contaminant species.
type ContaminantCreate struct {
	Name    string `json:"name"`
	Formula string `json:"formula,omitempty"`
}

// ContaminantUpdate carries the editable subset of Contaminant.
type ContaminantUpdate struct {
	Name    *string `json:"name,omitempty"`
	Formula *string `json:"formula,omitempty"`
}

// Carrier is a carrier gas (air, N₂, argon) the contaminant is diluted
// in.
type Carrier struct {
	Base
	Name string `json:"name" lims:"name,label(Name),width(16),list,sort,form,required,detail"`
}

// Resource returns the collection path for carriers.
func (Carrier) Resource() string { return "carriers" }

// CarrierCreate is the payload for adding a carrier gas.
type CarrierCreate struct {
	Name string `json:"name"`
}

// CarrierUpdate carries the editable subset of Carrier.
type CarrierUpdate struct {
	Name *string `json:"name,omitempty"`
}

// ContaminantLink is a contaminant as attached to an experiment,
// carrying the feed concentration recorded on the join row.
type ContaminantLink struct {
	Contaminant
	PPM Decimal `json:"ppm" lims:"ppm,label(ppm),width(8),list,sort,numeric"`
}

// CarrierLink is a carrier as attached to an experiment, carrying the
// mix ratio recorded on the join row.
type CarrierLink struct {
	Carrier
	Ratio Decimal `json:"ratio" lims:"ratio,label(Ratio),width(8),list,sort,numeric"`
}
