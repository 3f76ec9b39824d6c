package types

// Filter - параметры списка из query string.
// ?search=Иванов&sort[created_at]=desc&filter[district]=Алматинский&filter[risk_level]=high,medium&limit=10&page=2&withPagination=true
type Filter struct {
	Search         string                 `json:"search,omitempty"`
	Sort           map[string]string      `json:"sort,omitempty"`
	Filter         map[string]interface{} `json:"filter,omitempty"`
	Limit          int                    `json:"limit"`
	Offset         int                    `json:"offset"`
	Page           int                    `json:"page"`
	WithPagination bool                   `json:"with_pagination"`
}
