package schedule

import (
	"context"
	"time"
)

type ScheduledShiftRepository interface {
	// Create inserts a new scheduled shift and returns it with generated fields.
	Create(ctx context.Context, shift ScheduledShift) (ScheduledShift, error)

	// GetByID retrieves a scheduled shift by its ID.
	GetByID(ctx context.Context, id string) (ScheduledShift, error)

	// Update persists the mutable fields of a scheduled shift, including
	// clearing the end time.
	Update(ctx context.Context, shift ScheduledShift) (ScheduledShift, error)

	// Delete removes a scheduled shift along with its assignments.
	Delete(ctx context.Context, id string) error

	// List returns every scheduled shift ordered by start time ascending.
	// Which side of the upcoming/past divide a shift falls on is computed at
	// read time, never stored.
	List(ctx context.Context) ([]ScheduledShift, error)

	// ListForEmployee returns the scheduled shifts an employee is assigned
	// to, ordered by start time ascending.
	ListForEmployee(ctx context.Context, employeeID string) ([]ScheduledShift, error)

	// ListEndingBetween returns shifts whose effective end (the end time, or
	// the start when no end is set) falls in [from, to).
	ListEndingBetween(ctx context.Context, from, to time.Time) ([]ScheduledShift, error)
}

type AssignmentRepository interface {
	// GetAssignees returns the assignments for one scheduled shift with
	// employee names joined, ordered by name.
	GetAssignees(ctx context.Context, scheduledShiftID string) ([]Assignment, error)

	// ListByShiftIDs returns assignments for all given shifts in one query.
	ListByShiftIDs(ctx context.Context, scheduledShiftIDs []string) ([]Assignment, error)

	// AddAssignees inserts all given employees onto the shift in a single
	// statement, stamped with the assigning admin. Employees already assigned
	// are left untouched.
	AddAssignees(ctx context.Context, scheduledShiftID string, employeeIDs []string, assignedBy string) error

	// RemoveAssignees removes all given employees from the shift in a single
	// statement.
	RemoveAssignees(ctx context.Context, scheduledShiftID string, employeeIDs []string) error
}
