package models

// Group is a research group or project experiments are attributed to.
type Group struct {
	Base
	Name        string `json:"name" lims:"name,label(Name),width(20),list,sort,form,required,detail"`
	Description string `json:"description" lims:"description,label(Description),width(36),list,form,detail"`
}

// Resource returns the collection path for groups.
func (Group) Resource() string { return "groups" }

// GroupCreate is the payload for adding a group.
type GroupCreate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// GroupUpdate carries the editable subset of Group.
type GroupUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}
