package payroll

import (
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/pkg/timeutil"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SETTLEMENT DTOs ==========

type MarkPaidRequest struct {
	Paid bool `json:"paid"`
}

type BulkMarkPaidRequest struct {
	Paid    bool `json:"paid"`
	Confirm bool `json:"confirm"`
}

type BulkSelectionRequest struct {
	ShiftIDs []string `json:"shift_ids"`
	Paid     bool     `json:"paid"`
}

func (r *BulkSelectionRequest) Validate() error {
	var errs validator.ValidationErrors

	for _, id := range r.ShiftIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: "shift_ids", Message: "must contain valid shift IDs"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BulkPayResult reports one employee-scoped settlement round. When the caller
// has not confirmed yet, Settled is false and the numbers preview what a
// confirmed call would change.
type BulkPayResult struct {
	Settled    bool            `json:"settled"`
	Count      int             `json:"count"`
	TotalHours decimal.Decimal `json:"total_hours"`
	TotalPay   decimal.Decimal `json:"total_pay"`
}

// BatchSettleResult reports a cross-employee settlement by explicit shift
// selection, with running totals over the shifts actually updated.
type BatchSettleResult struct {
	UpdatedCount int             `json:"updated_count"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	TotalPay     decimal.Decimal `json:"total_pay"`
}

// ========== SUMMARY DTOs ==========

type SummaryFilter struct {
	Period string `json:"period"` // week, month, all

	// Resolved by the service from Period; not part of the request payload.
	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`
}

func (f *SummaryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Period == "" {
		f.Period = timeutil.PeriodAll // Default period
	} else if !validator.IsInSlice(f.Period, timeutil.Periods) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "must be one of: week, month, all"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeePayrollSummary struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	ShiftCount   int64           `json:"shift_count"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	TotalPay     decimal.Decimal `json:"total_pay"`
	PaidPay      decimal.Decimal `json:"paid_pay"`
	UnpaidPay    decimal.Decimal `json:"unpaid_pay"`
}

type PayrollTotals struct {
	TotalHours decimal.Decimal `json:"total_hours"`
	TotalPay   decimal.Decimal `json:"total_pay"`
	PaidPay    decimal.Decimal `json:"paid_pay"`
	UnpaidPay  decimal.Decimal `json:"unpaid_pay"`
}

type PayrollSummaryResponse struct {
	Period    string                   `json:"period"`
	Employees []EmployeePayrollSummary `json:"employees"`
	Totals    PayrollTotals            `json:"totals"`
}
