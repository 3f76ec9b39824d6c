package dto

import "github.com/aarondl/null/v8"

type CreateSupportMeasureDTO struct {
	FamilyID    uint64  `json:"family_id" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required,support_category"`
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status" validate:"omitempty,support_status"`
	Cost        float64 `json:"cost" validate:"gte=0"`
	Provider    *string `json:"provider,omitempty"`
	StartDate   *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateSupportMeasureDTO struct {
	Category    null.String  `json:"category" validate:"omitnil,support_category"`
	Title       null.String  `json:"title" validate:"omitnil,min=1,max=255"`
	Description null.String  `json:"description"`
	Status      null.String  `json:"status" validate:"omitnil,support_status"`
	Cost        null.Float64 `json:"cost" validate:"omitempty,gte=0"`
	Provider    null.String  `json:"provider"`
	StartDate   null.String  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     null.String  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}
