package user

import "errors"

var (
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrShiftAccessDenied       = errors.New("access to another shift is not allowed")
	ErrShiftAssignmentRequired = errors.New("no shift assigned to this account")
	ErrEmployeeLinkRequired    = errors.New("account is not linked to an employee")
)
