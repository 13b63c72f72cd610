package models

// Chemical is a stock reagent used as a catalyst precursor.
type Chemical struct {
	Base
	Name      string  `json:"name" lims:"name,label(Name),width(24),list,sort,form,required,detail"`
	Formula   string  `json:"formula" lims:"formula,label(Formula),width(14),list,sort,form,detail"`
	CASNumber string  `json:"cas_number" lims:"cas_number,label(CAS),width(12),list,sort,form,detail"`
	Supplier  string  `json:"supplier" lims:"supplier,label(Supplier),width(18),list,sort,form,detail"`
	Purity    Decimal `json:"purity" lims:"purity,label(Purity %),width(10),list,sort,form,numeric,detail"`
}

// Resource returns the collection path for chemicals.
func (Chemical) Resource() string { return "chemicals" }

// ChemicalCreate is the payload for adding a reagent.
type ChemicalCreate struct {
	Name      string  `json:"name"`
	Formula   string  `json:"formula,omitempty"`
	CASNumber string  `json:"cas_number,omitempty"`
	Supplier  string  `json:"supplier,omitempty"`
	Purity    Decimal `json:"purity,omitempty"`
}

// ChemicalUpdate carries the editable subset of Chemical.
type ChemicalUpdate struct {
	Name      *string  `json:"name,omitempty"`
	Formula   *string  `json:"formula,omitempty"`
	CASNumber *string  `json:"cas_number,omitempty"`
	Supplier  *string  `json:"supplier,omitempty"`
	Purity    *Decimal `json:"purity,omitempty"`
}

// Method is a catalyst preparation procedure. The short name is what
// lab notebooks reference; the descriptive name spells the procedure
// out for reports.
type Method struct {
	Base
	Name            string `json:"name" lims:"name,label(Name),width(18),list,sort,form,required,detail"`
	DescriptiveName string `json:"descriptive_name" lims:"descriptive_name,label(Descriptive name),width(32),list,sort,form,detail"`
	Description     string `json:"description" lims:"description,label(Description),form,detail"`
}

// Resource returns the collection path for methods.
func (Method) Resource() string { return "methods" }

// MethodCreate is the payload for adding a preparation method.
type MethodCreate struct {
	Name            string `json:"name"`
	DescriptiveName string `json:"descriptive_name,omitempty"`
	Description     string `json:"description,omitempty"`
}

// MethodUpdate carries the editable subset of Method.
type MethodUpdate struct {
	Name            *string `json:"name,omitempty"`
	DescriptiveName *string `json:"descriptive_name,omitempty"`
	Description     *string `json:"description,omitempty"`
}

// Support is a carrier material catalysts are deposited on.
type Support struct {
	Base
	Name        string  `json:"name" lims:"name,label(Name),width(20),list,sort,form,required,detail"`
	Material    string  `json:"material" lims:"material,label(Material),width(16),list,sort,form,detail"`
	SurfaceArea Decimal `json:"surface_area" lims:"surface_area,label(Surface area (m²/g)),width(18),list,sort,form,numeric,detail"`
}

// Resource returns the collection path for supports.
func (Support) Resource() string { return "supports" }

// SupportCreate is the payload for adding a support material.
type SupportCreate struct {
	Name        string  `json:"name"`
	Material    string  `json:"material,omitempty"`
	SurfaceArea Decimal `json:"surface_area,omitempty"`
}

// SupportUpdate carries the editable subset of Support.
type SupportUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Material    *string  `json:"material,omitempty"`
	SurfaceArea *Decimal `json:"surface_area,omitempty"`
}
