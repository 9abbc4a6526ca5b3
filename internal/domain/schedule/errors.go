package schedule

import "errors"

var (
	// Scheduled Shift Errors
	ErrScheduledShiftNotFound = errors.New("scheduled shift not found")

	// Assignment Errors
	ErrAssignmentNotFound = errors.New("shift assignment not found")
	ErrDuplicateAssignee  = errors.New("employee is already assigned to this shift")
)
