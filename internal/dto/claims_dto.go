// Файл: internal/dto/claims_dto.go
package dto

import (
	"time"

	"family-registry/internal/authz"
)

// UserClaims - данные пользователя из access-токена, доступные в контексте запроса.
type UserClaims struct {
	UserID    uint64
	IIN       string
	FullName  string
	Role      authz.Role
	Region    string
	District  string
	City      string
	TokenID   string
	ExpiresAt time.Time
}

func (c *UserClaims) AuthContext() authz.Context {
	return authz.Context{
		UserID:   c.UserID,
		Role:     c.Role,
		Region:   c.Region,
		District: c.District,
		City:     c.City,
	}
}
