package payroll

import (
	"context"

	"github.com/crewcall/crewcall-backend-go/internal/domain/shift"
)

type PayrollService interface {
	// MarkPaid moves one shift to the requested pay state, stamping who
	// settled it and when. Marking unpaid clears the whole pay state.
	MarkPaid(ctx context.Context, shiftID, adminID string, req MarkPaidRequest) (shift.ShiftResponse, error)

	// BulkMarkPaidByEmployee settles every shift of one employee that is not
	// already in the target state. Without confirmation it only previews the
	// change; an empty candidate set is a no-op either way.
	BulkMarkPaidByEmployee(ctx context.Context, employeeID, adminID string, req BulkMarkPaidRequest) (BulkPayResult, error)

	// BatchMarkPaidBySelection settles an explicit cross-employee selection
	// of shifts in one batch, returning running totals over the rows updated.
	BatchMarkPaidBySelection(ctx context.Context, adminID string, req BulkSelectionRequest) (BatchSettleResult, error)

	// Summary aggregates hours and pay per employee for the period.
	Summary(ctx context.Context, filter SummaryFilter) (PayrollSummaryResponse, error)
}
