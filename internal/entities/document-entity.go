package entities

import "time"

type Document struct {
	ID         uint64    `json:"id" db:"id"`
	FamilyID   uint64    `json:"family_id" db:"family_id"`
	MemberID   *uint64   `json:"member_id" db:"member_id"`
	Name       string    `json:"name" db:"name"`
	FileName   string    `json:"file_name" db:"file_name"`
	MimeType   string    `json:"mime_type" db:"mime_type"`
	Size       int64     `json:"size" db:"size"`
	URL        string    `json:"url" db:"url"`
	UploadedBy *uint64   `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
