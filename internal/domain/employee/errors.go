package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrEmployeeInactive   = errors.New("employee account is inactive")
	ErrUnauthorized       = errors.New("unauthorized to access this employee")
	ErrCannotDemoteSelf   = errors.New("cannot change your own role")
	ErrCannotDeactivateSelf = errors.New("cannot deactivate your own account")
)
