package user

type Permission string

const (
	// Self service
	PermissionPayrollViewOwn Permission = "payroll.view_own"

	// Payroll reports
	PermissionPayrollView          Permission = "payroll.view"
	PermissionPayrollViewAllShifts Permission = "payroll.view_all_shifts"
	PermissionPayrollBuild         Permission = "payroll.build"

	// Cash hand-over
	PermissionPayrollDisburse Permission = "payroll.disburse"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionPayrollViewOwn,
		PermissionPayrollView,
		PermissionPayrollViewAllShifts,
		PermissionPayrollBuild,
		PermissionPayrollDisburse,
	},
	RoleSupervisor: {
		PermissionPayrollViewOwn,
		PermissionPayrollView,
		PermissionPayrollViewAllShifts,
		PermissionPayrollDisburse,
	},
	RoleCashier: {
		// Pinned to the shift in their token
		PermissionPayrollViewOwn,
		PermissionPayrollView,
		PermissionPayrollDisburse,
	},
	RoleEmployee: {
		PermissionPayrollViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
