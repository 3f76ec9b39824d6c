package entities

import "time"

type SupportReportFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Category string
	Status   string
	District string
	Page     int
	PerPage  int
}

type SupportReportItem struct {
	ID         uint64     `json:"id"`
	CaseNumber string     `json:"case_number"`
	FamilyName string     `json:"family_name"`
	District   string     `json:"district"`
	Category   string     `json:"category"`
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	Cost       float64    `json:"cost"`
	Provider   *string    `json:"provider"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	CreatedAt  time.Time  `json:"created_at"`
}

type GroupCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type FamilyStatistics struct {
	TotalFamilies      int64        `json:"total_families"`
	ActiveFamilies     int64        `json:"active_families"`
	TJSFamilies        int64        `json:"tjs_families"`
	NeglectfulFamilies int64        `json:"neglectful_families"`
	TotalMembers       int64        `json:"total_members"`
	ByRisk             []GroupCount `json:"by_risk"`
	ByDistrict         []GroupCount `json:"by_district"`
	SupportByCategory  []GroupCount `json:"support_by_category"`
	SupportByStatus    []GroupCount `json:"support_by_status"`
	TotalSupportCost   float64      `json:"total_support_cost"`
}

type MapPoint struct {
	Region         string `json:"region"`
	District       string `json:"district"`
	City           string `json:"city"`
	ActiveFamilies int64  `json:"active_families"`
	HighRisk       int64  `json:"high_risk"`
}
