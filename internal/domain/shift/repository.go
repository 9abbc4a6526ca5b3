package shift

import "context"

type ShiftRepository interface {
	// Create inserts a new shift record and returns it with generated fields.
	Create(ctx context.Context, record ShiftRecord) (ShiftRecord, error)

	// GetByID retrieves a shift record by its ID, including joined display names.
	GetByID(ctx context.Context, id string) (ShiftRecord, error)

	// Update persists the mutable fields of an existing shift record.
	Update(ctx context.Context, record ShiftRecord) (ShiftRecord, error)

	// Delete removes a shift record unconditionally.
	Delete(ctx context.Context, id string) error

	// List retrieves shift records matching the filter with pagination.
	List(ctx context.Context, filter ShiftFilter) ([]ShiftRecord, int64, error)

	// ListByIDs retrieves shift records for the given IDs, skipping unknown ones.
	ListByIDs(ctx context.Context, ids []string) ([]ShiftRecord, error)
}
