package dto

type SettingsDTO struct {
	RegionName       string `json:"region_name" validate:"required,max=255"`
	DefaultPageSize  int    `json:"default_page_size" validate:"gte=1,lte=500"`
	SupportContact   string `json:"support_contact" validate:"omitempty,max=255"`
	MaxLoginAttempts int    `json:"max_login_attempts"`
	LockoutMinutes   int    `json:"lockout_minutes"`
}
