package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermissionPayrollBuild))
	assert.True(t, HasPermission(RoleSupervisor, PermissionPayrollViewAllShifts))
	assert.False(t, HasPermission(RoleSupervisor, PermissionPayrollBuild))
	assert.True(t, HasPermission(RoleCashier, PermissionPayrollDisburse))
	assert.False(t, HasPermission(RoleCashier, PermissionPayrollViewAllShifts))
	assert.False(t, HasPermission(RoleEmployee, PermissionPayrollView))
	assert.False(t, HasPermission(Role("intruder"), PermissionPayrollViewOwn))
}

func TestPrincipal_Can(t *testing.T) {
	p := Principal{UserID: "u1", Role: RoleEmployee}
	assert.True(t, p.Can(PermissionPayrollViewOwn))
	assert.False(t, p.Can(PermissionPayrollDisburse))
	assert.True(t, RoleCashier.IsValid())
	assert.False(t, Role("").IsValid())
}
