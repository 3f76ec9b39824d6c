package dto

import (
	"time"

	"family-registry/internal/entities"

	"github.com/aarondl/null/v8"
)

type CreateUserDTO struct {
	IIN      string `json:"iin" validate:"required,iin"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=255"`
	Role     string `json:"role" validate:"required,role"`
	Region   string `json:"region"`
	District string `json:"district"`
	City     string `json:"city"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// UpdateUserDTO: пароль меняется только если передан.
type UpdateUserDTO struct {
	Password null.String `json:"password" validate:"omitempty,min=8"`
	FullName null.String `json:"full_name" validate:"omitnil,min=1,max=255"`
	Role     null.String `json:"role" validate:"omitnil,role"`
	Region   null.String `json:"region"`
	District null.String `json:"district"`
	City     null.String `json:"city"`
	IsActive null.Bool   `json:"is_active"`
}

type UserDTO struct {
	UserPublicDTO
	IsActive  bool       `json:"is_active"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func NewUserPublicDTO(u *entities.User) UserPublicDTO {
	return UserPublicDTO{
		ID:        u.ID,
		IIN:       u.IIN,
		FullName:  u.FullName,
		Role:      u.Role,
		RoleLabel: u.Role.Label(),
		Region:    u.Region,
		District:  u.District,
		City:      u.City,
	}
}

func NewUserDTO(u *entities.User) UserDTO {
	return UserDTO{
		UserPublicDTO: NewUserPublicDTO(u),
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

