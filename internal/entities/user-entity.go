// Файл: internal/entities/user-entity.go
package entities

import (
	"family-registry/internal/authz"
	"family-registry/pkg/types"
)

type User struct {
	ID       uint64     `json:"id" db:"id"`
	IIN      string     `json:"iin" db:"iin"`
	Password string     `json:"-" db:"password"`
	FullName string     `json:"full_name" db:"full_name"`
	Role     authz.Role `json:"role" db:"role"`

	Region   string `json:"region" db:"region"`
	District string `json:"district" db:"district"`
	City     string `json:"city" db:"city"`

	IsActive bool `json:"is_active" db:"is_active"`

	types.BaseEntity
}

func (u *User) AuthContext() authz.Context {
	return authz.Context{
		UserID:   u.ID,
		Role:     u.Role,
		Region:   u.Region,
		District: u.District,
		City:     u.City,
	}
}
