package authz

import (
	"strings"
)

// Role - каноническая роль пользователя. Строки из БД, токена и payload
// приводятся к Role только через ParseRole.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleDistrict Role = "district"
	RoleSchool   Role = "school"
	RoleSocial   Role = "social"
	RoleHealth   Role = "health"
	RolePolice   Role = "police"
	RoleMobile   Role = "mobile"
	RoleRegional Role = "regional"

	RoleUnknown Role = "unknown"
)

// AllRoles - закрытый список ролей в порядке отображения.
var AllRoles = []Role{
	RoleAdmin, RoleRegional, RoleDistrict, RoleSocial, RoleSchool, RoleHealth, RolePolice, RoleMobile,
}

var roleLabels = map[Role]string{
	RoleAdmin:    "Администратор",
	RoleRegional: "Областной специалист",
	RoleDistrict: "Районный специалист",
	RoleSocial:   "Социальная защита",
	RoleSchool:   "Образование",
	RoleHealth:   "Здравоохранение",
	RolePolice:   "Полиция",
	RoleMobile:   "Мобильная группа",
}

// roleAliases содержит все встречающиеся написания ролей в нижнем регистре.
var roleAliases = map[string]Role{
	"admin":                 RoleAdmin,
	"administrator":         RoleAdmin,
	"администратор":         RoleAdmin,
	"админ":                 RoleAdmin,
	"district":              RoleDistrict,
	"район":                 RoleDistrict,
	"районный":              RoleDistrict,
	"районный специалист":   RoleDistrict,
	"акимат района":         RoleDistrict,
	"school":                RoleSchool,
	"школа":                 RoleSchool,
	"образование":           RoleSchool,
	"education":             RoleSchool,
	"social":                RoleSocial,
	"соцзащита":             RoleSocial,
	"социальная защита":     RoleSocial,
	"социальная служба":     RoleSocial,
	"health":                RoleHealth,
	"здравоохранение":       RoleHealth,
	"больница":              RoleHealth,
	"медицина":              RoleHealth,
	"police":                RolePolice,
	"полиция":               RolePolice,
	"мвд":                   RolePolice,
	"mobile":                RoleMobile,
	"мобильная группа":      RoleMobile,
	"мобильная":             RoleMobile,
	"regional":              RoleRegional,
	"region":                RoleRegional,
	"областной":             RoleRegional,
	"областной специалист":  RoleRegional,
	"регион":                RoleRegional,
	"региональный":          RoleRegional,
	"управление области":    RoleRegional,
}

// ParseRole приводит любое написание роли к каноническому значению.
// Нераспознанная строка даёт RoleUnknown, но никогда не RoleAdmin.
func ParseRole(raw string) Role {
	key := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	if role, ok := roleAliases[key]; ok {
		return role
	}
	return RoleUnknown
}

func (r Role) IsValid() bool {
	_, ok := roleLabels[r]
	return ok
}

func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return "Неизвестная роль"
}

func (r Role) String() string { return string(r) }
