package payroll

import "errors"

var (
	ErrPayrollNotFound      = errors.New("payroll not found")
	ErrPayrollAlreadyExists = errors.New("payroll already exists for this user")
	ErrUserNotFound         = errors.New("user not found")
	ErrAccessDenied         = errors.New("access denied")
)
