package shift

import "context"

type ShiftService interface {
	// LogShift validates and records a worked shift, computing hours and pay.
	LogShift(ctx context.Context, req LogShiftRequest) (ShiftResponse, error)

	// GetShift retrieves a single shift record.
	GetShift(ctx context.Context, id string) (ShiftResponse, error)

	// ListShifts retrieves shift records matching the filter with pagination.
	ListShifts(ctx context.Context, filter ShiftFilter) ([]ShiftResponse, int64, error)

	// UpdateShift re-validates and recomputes a shift from its edited fields.
	UpdateShift(ctx context.Context, id string, req UpdateShiftRequest) (ShiftResponse, error)

	// DeleteShift removes a shift record regardless of its pay state.
	DeleteShift(ctx context.Context, id string) error
}
