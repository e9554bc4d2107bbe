package user

type Role string

const (
	RoleAdmin      Role = "admin"      // Operations admin - full access
	RoleSupervisor Role = "supervisor" // Shift supervisor - sees every shift, hands out cash
	RoleCashier    Role = "cashier"    // Hands out cash for their own shift
	RoleEmployee   Role = "employee"   // Ground staff - own pay history only
)

func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// Principal is the caller identity carried by a verified access token.
type Principal struct {
	UserID     string
	EmployeeID *string
	Role       Role
	Shift      *string
}

func (p Principal) Can(permission Permission) bool {
	return HasPermission(p.Role, permission)
}
