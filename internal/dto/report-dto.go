package dto

import "family-registry/internal/entities"

type SupportReportDTO struct {
	Items     []entities.SupportReportItem `json:"items"`
	Total     uint64                       `json:"total"`
	TotalCost float64                      `json:"total_cost"`
	Page      int                          `json:"page"`
	PerPage   int                          `json:"per_page"`
}
