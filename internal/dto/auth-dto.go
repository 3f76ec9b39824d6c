package dto

import "family-registry/internal/authz"

type LoginDTO struct {
	IIN      string `json:"iin" validate:"required,iin"`
	Password string `json:"password" validate:"required"`
}

type UserPublicDTO struct {
	ID        uint64     `json:"id"`
	IIN       string     `json:"iin"`
	FullName  string     `json:"full_name"`
	Role      authz.Role `json:"role"`
	RoleLabel string     `json:"role_label"`
	Region    string     `json:"region"`
	District  string     `json:"district"`
	City      string     `json:"city"`
}

type AuthResponseDTO struct {
	Token       string            `json:"token"`
	User        UserPublicDTO     `json:"user"`
	Permissions authz.Permissions `json:"permissions"`
}

// SessionDTO - всё, что нужно клиенту для отрисовки интерфейса под роль.
type SessionDTO struct {
	User        UserPublicDTO     `json:"user"`
	Role        authz.Role        `json:"role"`
	Permissions authz.Permissions `json:"permissions"`
	Navigation  []authz.NavItem   `json:"navigation"`
}
