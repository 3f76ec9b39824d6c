package dto

import (
	"encoding/json"

	"family-registry/internal/entities"
)

type CreateHistoryDTO struct {
	Action      entities.HistoryAction `json:"action" validate:"required"`
	Description string                 `json:"description" validate:"required,max=1000"`
	MemberID    *uint64                `json:"member_id,omitempty" validate:"omitempty,gt=0"`
	Details     json.RawMessage        `json:"details,omitempty"`
}

type HistoryPageDTO struct {
	Records   []entities.HistoryRecord `json:"records"`
	Total     uint64                   `json:"total"`
	Page      int                      `json:"page"`
	Limit     int                      `json:"limit"`
	PageCount int                      `json:"pageCount"`
}
