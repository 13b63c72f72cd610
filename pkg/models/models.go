package models

import "time"

// Identifiable is implemented by every persisted resource. Collection
// and relationship helpers rely on it to track rows by identity rather
// than by value.
type Identifiable interface {
	GetID() int64
}

// Base holds the fields shared by every resource record. Embed it as
// the first field so list ordering puts ID ahead of entity columns.
type Base struct {
	ID        int64     `json:"id" lims:"id,label(ID),width(6),list,sort,numeric"`
	CreatedAt time.Time `json:"created_at" lims:"created_at,label(Created),sort,detail"`
	UpdatedAt time.Time `json:"updated_at" lims:"updated_at,label(Updated),sort,detail"`
}

// GetID implements Identifiable.
func (b Base) GetID() int64 { return b.ID }

// deref unwraps optional wire fields when building variant views,
// mapping nil to the zero value.
func deref[T any](p *T) (v T) {
	if p != nil {
		v = *p
	}
	return v
}
