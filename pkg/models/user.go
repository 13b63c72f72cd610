package models

// User is a laboratory member. Usernames are assigned once at account
// creation and never change, since experiment attribution references
// them in exported reports.
type User struct {
	Base
	Username string `json:"username" lims:"username,label(Username),width(16),list,sort,form,required,immutable,detail"`
	FullName string `json:"full_name" lims:"full_name,label(Full name),width(24),list,sort,form,required,detail"`
	Email    string `json:"email" lims:"email,label(Email),width(28),list,sort,form,detail"`
}

// Resource returns the collection path for users.
func (User) Resource() string { return "users" }

// UserCreate is the payload for registering a user.
type UserCreate struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
}

// UserUpdate carries the editable subset of User. Username is
// intentionally absent.
type UserUpdate struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
}
