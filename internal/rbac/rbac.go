package rbac

import "github.com/poe-manager/backend/internal/models"

// Permission constants
const (
	PermViewPoes    = "view_poes"
	PermCreatePoe   = "create_poe"
	PermEditPoe     = "edit_poe"
	PermApprovePoe  = "approve_poe"
	PermRejectPoe   = "reject_poe"
	PermDeletePoe   = "delete_poe"
	PermManageUsers = "manage_users"
)

// RolePermissions is the authoritative table. Every mutating entry point
// consults it through HasPermission; nothing re-derives role rules ad hoc.
var RolePermissions = map[string][]string{
	models.RoleOperator: {
		PermViewPoes, PermCreatePoe,
	},
	models.RoleVerifier: {
		PermViewPoes, PermCreatePoe, PermEditPoe,
	},
	models.RoleAuditor: {
		PermViewPoes,
		// Auditor is read-only: no create, edit or approval rights.
	},
	models.RoleAdmin: {
		PermViewPoes, PermCreatePoe, PermEditPoe,
		PermApprovePoe, PermRejectPoe, PermDeletePoe, PermManageUsers,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// PermittedOperations returns the full permission set for a role.
func PermittedOperations(role string) []string {
	return append([]string(nil), RolePermissions[role]...)
}
