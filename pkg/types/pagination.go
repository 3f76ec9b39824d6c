package types

type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// PageCount - количество страниц с округлением вверх.
func PageCount(total uint64, limit int) int {
	if limit <= 0 {
		return 0
	}
	l := uint64(limit)
	return int((total + l - 1) / l)
}

func NewPagination(total uint64, page, limit int) Pagination {
	return Pagination{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: PageCount(total, limit),
	}
}
