package dto

import "github.com/aarondl/null/v8"

const DateLayout = "2006-01-02"

type CreateFamilyMemberDTO struct {
	FamilyID       uint64  `json:"family_id" validate:"required,gt=0"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	MiddleName     *string `json:"middle_name,omitempty" validate:"omitempty,max=100"`
	BirthDate      string  `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Relation       string  `json:"relation" validate:"required,relation"`
	DocumentNumber *string `json:"document_number,omitempty"`
	Education      *string `json:"education,omitempty"`
	HealthStatus   *string `json:"health_status,omitempty"`
	IsStudying     bool    `json:"is_studying"`
	HasDisability  bool    `json:"has_disability"`
	NeedsSupport   bool    `json:"needs_support"`
}

type UpdateFamilyMemberDTO struct {
	LastName       null.String `json:"last_name" validate:"omitnil,min=1,max=100"`
	FirstName      null.String `json:"first_name" validate:"omitnil,min=1,max=100"`
	MiddleName     null.String `json:"middle_name" validate:"omitempty,max=100"`
	BirthDate      null.String `json:"birth_date" validate:"omitnil,datetime=2006-01-02"`
	Relation       null.String `json:"relation" validate:"omitnil,relation"`
	DocumentNumber null.String `json:"document_number"`
	Education      null.String `json:"education"`
	HealthStatus   null.String `json:"health_status"`
	IsStudying     null.Bool   `json:"is_studying"`
	HasDisability  null.Bool   `json:"has_disability"`
	NeedsSupport   null.Bool   `json:"needs_support"`
}
