package models

import "time"

// File is an uploaded attachment (spectra, chromatograms, photos).
// Deleting a file only marks it; the record stays restorable until a
// hard delete removes it for good.
type File struct {
	Base
	Name         string     `json:"name" lims:"name,label(Name),width(32),list,sort,form,required,detail"`
	ContentType  string     `json:"content_type" lims:"content_type,label(Type),width(18),list,sort,detail"`
	SizeBytes    int64      `json:"size_bytes" lims:"size_bytes,label(Size),width(10),list,sort,numeric,detail"`
	UploadedByID int64      `json:"uploaded_by_id" lims:"uploaded_by_id,label(Uploader ID),numeric"`
	IsDeleted    bool       `json:"is_deleted" lims:"is_deleted,label(Deleted),detail"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" lims:"deleted_at,label(Deleted at),detail"`

	UploadedBy *User `json:"uploaded_by,omitempty" lims:"-,belongsTo(users),foreignKey(uploaded_by_id)"`
}

// Resource returns the collection path for files.
func (File) Resource() string { return "files" }

// FileCreate is the payload for registering an upload.
type FileCreate struct {
	Name         string `json:"name"`
	ContentType  string `json:"content_type"`
	SizeBytes    int64  `json:"size_bytes"`
	UploadedByID int64  `json:"uploaded_by_id"`
}

// FileUpdate renames a file. Content and uploader are fixed at upload
// time.
type FileUpdate struct {
	Name *string `json:"name,omitempty"`
}
