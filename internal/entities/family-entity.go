package entities

import (
	"family-registry/pkg/types"
)

const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

var RiskLevels = []string{RiskLow, RiskMedium, RiskHigh}

// Family - учётное дело семьи, корень агрегата для членов семьи, мер поддержки,
// документов и истории.
type Family struct {
	ID         uint64 `json:"id" db:"id"`
	CaseNumber string `json:"case_number" db:"case_number"`
	FamilyName string `json:"family_name" db:"family_name"`

	Address       string  `json:"address" db:"address"`
	ActualAddress *string `json:"actual_address" db:"actual_address"`
	Region        string  `json:"region" db:"region"`
	District      string  `json:"district" db:"district"`
	City          string  `json:"city" db:"city"`

	IsTJS        bool   `json:"is_tjs" db:"is_tjs"`
	IsNeglectful bool   `json:"is_neglectful" db:"is_neglectful"`
	RiskLevel    string `json:"risk_level" db:"risk_level"`

	Employment    *string  `json:"employment" db:"employment"`
	MonthlyIncome *float64 `json:"monthly_income" db:"monthly_income"`
	HousingType   *string  `json:"housing_type" db:"housing_type"`
	ChildrenCount int      `json:"children_count" db:"children_count"`

	IsActive       bool    `json:"is_active" db:"is_active"`
	InactiveReason *string `json:"inactive_reason" db:"inactive_reason"`

	CreatedBy *uint64 `json:"created_by" db:"created_by"`
	UpdatedBy *uint64 `json:"updated_by" db:"updated_by"`

	types.BaseEntity
}
