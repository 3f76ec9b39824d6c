package dto

import (
	"family-registry/internal/entities"

	"github.com/aarondl/null/v8"
)

type CreateFamilyDTO struct {
	CaseNumber    string   `json:"case_number" validate:"required,max=50"`
	FamilyName    string   `json:"family_name" validate:"required,max=255"`
	Address       string   `json:"address" validate:"required"`
	ActualAddress *string  `json:"actual_address,omitempty"`
	Region        string   `json:"region" validate:"required"`
	District      string   `json:"district" validate:"required"`
	City          string   `json:"city"`
	IsTJS         bool     `json:"is_tjs"`
	IsNeglectful  bool     `json:"is_neglectful"`
	RiskLevel     string   `json:"risk_level" validate:"omitempty,risk_level"`
	Employment    *string  `json:"employment,omitempty"`
	MonthlyIncome *float64 `json:"monthly_income,omitempty" validate:"omitempty,gte=0"`
	HousingType   *string  `json:"housing_type,omitempty"`
	ChildrenCount int      `json:"children_count" validate:"gte=0"`

	IsActive       *bool   `json:"is_active,omitempty"`
	InactiveReason *string `json:"inactive_reason,omitempty"`
}

// UpdateFamilyDTO - частичное обновление, невалидные поля не меняются.
// Переданная пустая строка в обязательном поле - ошибка, а не пропуск.
type UpdateFamilyDTO struct {
	CaseNumber    null.String  `json:"case_number" validate:"omitnil,min=1,max=50"`
	FamilyName    null.String  `json:"family_name" validate:"omitnil,min=1,max=255"`
	Address       null.String  `json:"address" validate:"omitnil,min=1"`
	ActualAddress null.String  `json:"actual_address"`
	Region        null.String  `json:"region" validate:"omitnil,min=1"`
	District      null.String  `json:"district" validate:"omitnil,min=1"`
	City          null.String  `json:"city"`
	IsTJS         null.Bool    `json:"is_tjs"`
	IsNeglectful  null.Bool    `json:"is_neglectful"`
	RiskLevel     null.String  `json:"risk_level" validate:"omitnil,risk_level"`
	Employment    null.String  `json:"employment"`
	MonthlyIncome null.Float64 `json:"monthly_income" validate:"omitempty,gte=0"`
	HousingType   null.String  `json:"housing_type"`
	ChildrenCount null.Int     `json:"children_count" validate:"omitempty,gte=0"`

	IsActive       null.Bool   `json:"is_active"`
	InactiveReason null.String `json:"inactive_reason"`
}

type FamilyDetailsDTO struct {
	entities.Family
	Members         []entities.FamilyMember   `json:"members"`
	SupportMeasures []entities.SupportMeasure `json:"support_measures"`
	MembersCount    int                       `json:"members_count"`
	SupportCount    int                       `json:"support_count"`
	DocumentsCount  int64                     `json:"documents_count"`
}
