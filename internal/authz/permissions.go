// internal/authz/permissions.go
package authz

// Capability - отдельная возможность интерфейса/API.
type Capability string

const (
	CanViewDocuments  Capability = "canViewDocuments"
	CanViewMap        Capability = "canViewMap"
	CanViewStatistics Capability = "canViewStatistics"
	CanViewReports    Capability = "canViewReports"
	CanManageUsers    Capability = "canManageUsers"
	CanExportData     Capability = "canExportData"
	CanManageSettings Capability = "canManageSettings"
	CanAddFamily      Capability = "canAddFamily"
)

// Permissions - фиксированный набор возможностей роли.
type Permissions struct {
	CanViewDocuments  bool `json:"canViewDocuments"`
	CanViewMap        bool `json:"canViewMap"`
	CanViewStatistics bool `json:"canViewStatistics"`
	CanViewReports    bool `json:"canViewReports"`
	CanManageUsers    bool `json:"canManageUsers"`
	CanExportData     bool `json:"canExportData"`
	CanManageSettings bool `json:"canManageSettings"`
	CanAddFamily      bool `json:"canAddFamily"`
}

// restricted - самая строгая конфигурация, выдаётся неизвестным ролям.
var restricted = Permissions{}

var rolePermissions = map[Role]Permissions{
	RoleAdmin: {
		CanViewDocuments: true, CanViewMap: true, CanViewStatistics: true, CanViewReports: true,
		CanManageUsers: true, CanExportData: true, CanManageSettings: true, CanAddFamily: true,
	},
	RoleRegional: {
		CanViewDocuments: true, CanViewMap: true, CanViewStatistics: true, CanViewReports: true,
		CanExportData: true,
	},
	RoleDistrict: {
		CanViewDocuments: true, CanViewMap: true, CanViewStatistics: true, CanViewReports: true,
		CanExportData: true, CanAddFamily: true,
	},
	RoleSocial: {
		CanViewDocuments: true, CanViewStatistics: true, CanViewReports: true, CanAddFamily: true,
	},
	RoleSchool: {CanViewDocuments: true, CanViewReports: true},
	RoleHealth: {CanViewDocuments: true, CanViewReports: true},
	RolePolice: {CanViewDocuments: true, CanViewReports: true},
	RoleMobile: {CanViewDocuments: true, CanViewMap: true, CanAddFamily: true},
}

// PermissionsFor возвращает набор возможностей роли.
func PermissionsFor(role Role) Permissions {
	if p, ok := rolePermissions[role]; ok {
		return p
	}
	return restricted
}

// Has проверяет одну возможность.
func (p Permissions) Has(c Capability) bool {
	switch c {
	case CanViewDocuments:
		return p.CanViewDocuments
	case CanViewMap:
		return p.CanViewMap
	case CanViewStatistics:
		return p.CanViewStatistics
	case CanViewReports:
		return p.CanViewReports
	case CanManageUsers:
		return p.CanManageUsers
	case CanExportData:
		return p.CanExportData
	case CanManageSettings:
		return p.CanManageSettings
	case CanAddFamily:
		return p.CanAddFamily
	}
	return false
}
