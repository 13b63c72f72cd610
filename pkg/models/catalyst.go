package models

import "math"

// CatalystStatus is the derived stock state of a catalyst batch.
type CatalystStatus string

const (
	// CatalystAvailable means usable material remains.
	CatalystAvailable CatalystStatus = "AVAILABLE"
	// CatalystDepleted means the batch is exhausted for practical
	// purposes. Balances cannot weigh below this threshold, so tiny
	// residual amounts still count as depleted.
	CatalystDepleted CatalystStatus = "DEPLETED"
)

// depletionThreshold is the smallest mass in grams the lab balance can
// resolve. Remaining amounts at or below it are treated as zero.
const depletionThreshold = 0.0001

// Catalyst is a synthesized catalyst batch. Yield is the mass produced
// by the preparation; remaining tracks what is left after samples are
// drawn from it.
type Catalyst struct {
	Base
	Name            string  `json:"name" lims:"name,label(Name),width(22),list,sort,form,required,detail"`
	ChemicalID      int64   `json:"chemical_id" lims:"chemical_id,label(Chemical ID),form,numeric"`
	SupportID       int64   `json:"support_id" lims:"support_id,label(Support ID),form,numeric"`
	MethodID        int64   `json:"method_id" lims:"method_id,label(Method ID),form,numeric"`
	YieldAmount     Decimal `json:"yield_amount" lims:"yield_amount,label(Yield (g)),width(10),list,sort,form,required,numeric,detail"`
	RemainingAmount Decimal `json:"remaining_amount" lims:"remaining_amount,label(Remaining (g)),width(14),list,sort,form,numeric,detail"`

	Chemical *Chemical `json:"chemical,omitempty" lims:"-,belongsTo(chemicals),foreignKey(chemical_id)"`
	Support  *Support  `json:"support,omitempty" lims:"-,belongsTo(supports),foreignKey(support_id)"`
	Method   *Method   `json:"method,omitempty" lims:"-,belongsTo(methods),foreignKey(method_id)"`
}

// Resource returns the collection path for catalysts.
func (Catalyst) Resource() string { return "catalysts" }

// Status derives the stock state from the remaining amount. Unparsable
// amounts read as depleted rather than available so a corrupt record
// never suggests there is material to use.
func (c Catalyst) Status() CatalystStatus {
	remaining, ok := c.RemainingAmount.Float64()
	if !ok || remaining <= depletionThreshold {
		return CatalystDepleted
	}
	return CatalystAvailable
}

// UsagePercent reports how much of the batch is left as a whole
// percentage of the original yield. A depleted batch always reads 0%
// even when a sub-threshold residue remains.
func (c Catalyst) UsagePercent() int {
	if c.Status() == CatalystDepleted {
		return 0
	}
	yield, ok := c.YieldAmount.Float64()
	if !ok || yield <= 0 {
		return 0
	}
	remaining, _ := c.RemainingAmount.Float64()
	return int(math.Round(remaining / yield * 100))
}

// CatalystCreate is the payload for recording a new batch. Remaining
// defaults to the yield server-side when omitted.
type CatalystCreate struct {
	Name            string  `json:"name"`
	ChemicalID      int64   `json:"chemical_id,omitempty"`
	SupportID       int64   `json:"support_id,omitempty"`
	MethodID        int64   `json:"method_id,omitempty"`
	YieldAmount     Decimal `json:"yield_amount"`
	RemainingAmount Decimal `json:"remaining_amount,omitempty"`
}

// CatalystUpdate carries the editable subset of Catalyst.
type CatalystUpdate struct {
	Name            *string  `json:"name,omitempty"`
	ChemicalID      *int64   `json:"chemical_id,omitempty"`
	SupportID       *int64   `json:"support_id,omitempty"`
	MethodID        *int64   `json:"method_id,omitempty"`
	YieldAmount     *Decimal `json:"yield_amount,omitempty"`
	RemainingAmount *Decimal `json:"remaining_amount,omitempty"`
}
