package dto

type CreateDocumentDTO struct {
	FamilyID uint64  `json:"family_id" validate:"required,gt=0"`
	MemberID *uint64 `json:"member_id,omitempty" validate:"omitempty,gt=0"`
	Name     string  `json:"name" validate:"required,max=255"`
	FileName string  `json:"file_name" validate:"omitempty,max=255"`
	MimeType string  `json:"mime_type" validate:"omitempty,max=100"`
	Size     int64   `json:"size" validate:"gte=0"`
	URL      string  `json:"url" validate:"required,url"`
}

// UploadDocumentDTO - поля multipart-формы, сам файл передаётся отдельно.
type UploadDocumentDTO struct {
	FamilyID uint64  `form:"family_id" validate:"required,gt=0"`
	MemberID *uint64 `form:"member_id" validate:"omitempty,gt=0"`
	Name     string  `form:"name" validate:"omitempty,max=255"`
}
