package authz

// Context - данные о текущем пользователе, достаточные для принятия решения.
type Context struct {
	UserID   uint64
	Role     Role
	Region   string
	District string
	City     string
}

func (c Context) Permissions() Permissions {
	return PermissionsFor(c.Role)
}

// CanDo проверяет возможность роли. Неизвестная роль не может ничего.
func CanDo(capability Capability, ctx Context) bool {
	return ctx.Permissions().Has(capability)
}

func IsAdmin(ctx Context) bool {
	return ctx.Role == RoleAdmin
}

// FamilyScope возвращает район, которым ограничен список семей для пользователя.
// Пустая строка - без ограничения.
func FamilyScope(ctx Context) string {
	if ctx.Role == RoleDistrict {
		return ctx.District
	}
	return ""
}

// HasJurisdiction: неизвестная роль и районный специалист без района не видят ни одной семьи.
func HasJurisdiction(ctx Context) bool {
	if !ctx.Role.IsValid() {
		return false
	}
	return ctx.Role != RoleDistrict || ctx.District != ""
}

// CanAccessDistrict - может ли пользователь видеть семью из указанного района.
func CanAccessDistrict(ctx Context, district string) bool {
	if !HasJurisdiction(ctx) {
		return false
	}
	scope := FamilyScope(ctx)
	return scope == "" || scope == district
}
