package payroll

import (
	"context"

	"github.com/crewcall/crewcall-backend-go/internal/domain/shift"
)

// PayrollRepository defines the settlement-side data access over shift
// records. Reads and writes always address whole pay states, never single
// columns, so paid, paid_at, and paid_by move together.
type PayrollRepository interface {
	// ListByEmployeeAndPaid returns one employee's shift records in the given
	// pay state, oldest shift first.
	ListByEmployeeAndPaid(ctx context.Context, employeeID string, paid bool) ([]shift.ShiftRecord, error)

	// BatchUpdatePayState applies the pay state to every given shift in a
	// single statement and returns the rows actually updated. Unknown IDs are
	// skipped, not errors.
	BatchUpdatePayState(ctx context.Context, ids []string, state shift.PayState) ([]shift.ShiftRecord, error)

	// UpdatePayState applies the pay state to one shift record.
	UpdatePayState(ctx context.Context, id string, state shift.PayState) error

	// ListInWindow returns every shift record inside the filter window with
	// employee names joined. Totals are reduced from these rows in the
	// service so the pay rules live in exactly one place.
	ListInWindow(ctx context.Context, filter SummaryFilter) ([]shift.ShiftRecord, error)
}
