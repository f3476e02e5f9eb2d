package auth

import "swipetonpro_backend/internal/models"

// Права админов. super_admin получает все автоматически.
const (
	PermissionManageUsers       = "manage_users"
	PermissionValidateDocuments = "validate_documents"
	PermissionManageReports     = "manage_reports"
	PermissionViewLogs          = "view_logs"
	PermissionManageConfig      = "manage_config"
	PermissionManageAdmins      = "manage_admins"
)

var AllPermissions = []string{
	PermissionManageUsers,
	PermissionValidateDocuments,
	PermissionManageReports,
	PermissionViewLogs,
	PermissionManageConfig,
	PermissionManageAdmins,
}

// DefaultPermissions - набор по умолчанию для роли, если при приглашении
// права не переданы явно
var DefaultPermissions = map[models.AdminRole][]string{
	models.AdminRoleSuperAdmin: AllPermissions,
	models.AdminRoleAdmin: {
		PermissionManageUsers,
		PermissionValidateDocuments,
		PermissionManageReports,
	},
	models.AdminRoleSupport: {
		PermissionManageReports,
	},
}

func IsValidPermission(p string) bool {
	for _, known := range AllPermissions {
		if known == p {
			return true
		}
	}
	return false
}

func IsValidAdminRole(role models.AdminRole) bool {
	_, ok := DefaultPermissions[role]
	return ok
}
