package entities

import (
	"time"

	"family-registry/pkg/types"
)

const (
	SupportCategorySocial    = "social"
	SupportCategoryEducation = "education"
	SupportCategoryHealth    = "health"
	SupportCategoryPolice    = "police"
	SupportCategoryLegal     = "legal"
	SupportCategoryCharity   = "charity"
)

var SupportCategories = []string{
	SupportCategorySocial, SupportCategoryEducation, SupportCategoryHealth,
	SupportCategoryPolice, SupportCategoryLegal, SupportCategoryCharity,
}

const (
	SupportStatusInProgress = "in_progress"
	SupportStatusCompleted  = "completed"
	SupportStatusCancelled  = "cancelled"
)

var SupportStatuses = []string{SupportStatusInProgress, SupportStatusCompleted, SupportStatusCancelled}

type SupportMeasure struct {
	ID          uint64     `json:"id" db:"id"`
	FamilyID    uint64     `json:"family_id" db:"family_id"`
	Category    string     `json:"category" db:"category"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Status      string     `json:"status" db:"status"`
	Cost        float64    `json:"cost" db:"cost"`
	Provider    *string    `json:"provider" db:"provider"`
	StartDate   *time.Time `json:"start_date" db:"start_date"`
	EndDate     *time.Time `json:"end_date" db:"end_date"`
	CreatedBy   *uint64    `json:"created_by" db:"created_by"`

	types.BaseEntity
}

// CanTransitionSupportStatus: in_progress -> completed | cancelled, завершённые статусы окончательны.
func CanTransitionSupportStatus(from, to string) bool {
	if from == to {
		return true
	}
	return from == SupportStatusInProgress && (to == SupportStatusCompleted || to == SupportStatusCancelled)
}
