package shift

import "errors"

var (
	ErrShiftNotFound = errors.New("shift record not found")
	ErrUnauthorized  = errors.New("you are not authorized to perform this action")
)
