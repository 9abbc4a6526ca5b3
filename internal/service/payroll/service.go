package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/domain/audit"
	"github.com/crewcall/crewcall-backend-go/internal/domain/employee"
	"github.com/crewcall/crewcall-backend-go/internal/domain/payroll"
	"github.com/crewcall/crewcall-backend-go/internal/domain/shift"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/cache"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/timeutil"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	payrollRepo     payroll.PayrollRepository
	shiftRepo       shift.ShiftRepository
	employeeRepo    employee.EmployeeRepository
	auditService    audit.Service
	nameCache       *cache.Store
	defaultTimezone string
}

// employeeName resolves a display name by id, consulting the process-lifetime
// cache before the store. An unresolvable id yields an empty name rather than
// an error; summaries degrade instead of failing.
func (s *PayrollServiceImpl) employeeName(ctx context.Context, employeeID string) string {
	if name, ok := s.nameCache.Get(employeeID); ok {
		return name
	}
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return ""
	}
	s.nameCache.Set(employeeID, emp.FullName)
	return emp.FullName
}

// recordPay derives the settle-relevant numbers for one record through the
// pay rules, honoring a persisted pay-due amount over recomputation.
func recordPay(rec shift.ShiftRecord) decimal.Decimal {
	stored := payroll.NoPayDue()
	if rec.PayDue != nil {
		stored = payroll.SomePayDue(*rec.PayDue)
	}
	return payroll.ComputePay(rec.HoursWorked, rec.PayRate, string(rec.ShiftType), stored)
}

// sumRecords reduces records to total hours and pay. Addition commutes, so
// the result does not depend on row order.
func sumRecords(records []shift.ShiftRecord) (hours, pay decimal.Decimal) {
	hours, pay = decimal.Zero, decimal.Zero
	for _, rec := range records {
		hours = hours.Add(rec.HoursWorked)
		pay = pay.Add(recordPay(rec))
	}
	return hours, pay
}

func toShiftResponse(rec shift.ShiftRecord) shift.ShiftResponse {
	stored := payroll.NoPayDue()
	if rec.PayDue != nil {
		stored = payroll.SomePayDue(*rec.PayDue)
	}
	detail := payroll.ComputePayDetail(rec.HoursWorked, rec.PayRate, string(rec.ShiftType), stored)

	var paidAt *string
	if rec.PaidAt != nil {
		s := rec.PaidAt.UTC().Format(time.RFC3339)
		paidAt = &s
	}

	return shift.ShiftResponse{
		ID:           rec.ID,
		EmployeeID:   rec.EmployeeID,
		EmployeeName: rec.EmployeeName,
		ShiftDate:    rec.ShiftDate.Format("2006-01-02"),
		ShiftType:    string(rec.ShiftType),
		TimeIn:       rec.TimeIn.UTC().Format(time.RFC3339),
		TimeOut:      rec.TimeOut.UTC().Format(time.RFC3339),
		HoursWorked:  rec.HoursWorked,
		PayRate:      rec.PayRate,
		PayDue:       detail.PayDue,
		MinApplied:   detail.MinApplied,
		Paid:         rec.Paid,
		PaidAt:       paidAt,
		PaidBy:       rec.PaidBy,
		PaidByName:   rec.PaidByName,
		Notes:        rec.Notes,
		CreatedAt:    rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// MarkPaid implements payroll.PayrollService. The pay state is applied to the
// in-memory record first and rolled back if the store write fails, so the
// returned record always matches what was persisted. Concurrent calls against
// the same shift are not serialized; the last write wins.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, shiftID, adminID string, req payroll.MarkPaidRequest) (shift.ShiftResponse, error) {
	record, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ShiftResponse{}, shift.ErrShiftNotFound
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift record: %w", err)
	}

	next := shift.UnpaidState()
	if req.Paid {
		next = shift.PaidState(adminID, time.Now().UTC())
	}

	rollback := record.ApplyPayState(next)
	if err := s.payrollRepo.UpdatePayState(ctx, shiftID, next); err != nil {
		rollback()
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ShiftResponse{}, shift.ErrShiftNotFound
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to update pay state: %w", err)
	}

	record.PaidByName = nil
	if req.Paid {
		if name := s.employeeName(ctx, adminID); name != "" {
			record.PaidByName = &name
		}
	}

	action := audit.ActionShiftUnpaid
	if req.Paid {
		action = audit.ActionShiftPaid
	}
	s.auditService.Record(ctx, audit.RecordRequest{
		ActorID:    adminID,
		Action:     action,
		EntityType: "shift_record",
		EntityID:   &shiftID,
		Detail: map[string]interface{}{
			"employee_id": record.EmployeeID,
			"pay_due":     recordPay(record).String(),
		},
	})

	return toShiftResponse(record), nil
}

// BulkMarkPaidByEmployee implements payroll.PayrollService. The first call
// previews the candidate set; only a confirmed call writes, and the write is
// one batch statement so a failure changes nothing.
func (s *PayrollServiceImpl) BulkMarkPaidByEmployee(ctx context.Context, employeeID, adminID string, req payroll.BulkMarkPaidRequest) (payroll.BulkPayResult, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.BulkPayResult{}, employee.ErrEmployeeNotFound
		}
		return payroll.BulkPayResult{}, fmt.Errorf("failed to get employee: %w", err)
	}

	candidates, err := s.payrollRepo.ListByEmployeeAndPaid(ctx, employeeID, !req.Paid)
	if err != nil {
		return payroll.BulkPayResult{}, fmt.Errorf("failed to list settlement candidates: %w", err)
	}

	hours, pay := sumRecords(candidates)
	result := payroll.BulkPayResult{
		Settled:    false,
		Count:      len(candidates),
		TotalHours: hours,
		TotalPay:   pay,
	}

	// Nothing to move, or the caller has not confirmed yet: report the
	// numbers without touching the store.
	if len(candidates) == 0 || !req.Confirm {
		return result, nil
	}

	ids := make([]string, 0, len(candidates))
	for _, rec := range candidates {
		ids = append(ids, rec.ID)
	}

	next := shift.UnpaidState()
	if req.Paid {
		next = shift.PaidState(adminID, time.Now().UTC())
	}

	updated, err := s.payrollRepo.BatchUpdatePayState(ctx, ids, next)
	if err != nil {
		return payroll.BulkPayResult{}, fmt.Errorf("failed to settle shifts: %w", err)
	}

	hours, pay = sumRecords(updated)
	result = payroll.BulkPayResult{
		Settled:    true,
		Count:      len(updated),
		TotalHours: hours,
		TotalPay:   pay,
	}

	s.auditService.Record(ctx, audit.RecordRequest{
		ActorID:    adminID,
		Action:     audit.ActionBulkSettled,
		EntityType: "shift_record",
		Detail: map[string]interface{}{
			"employee_id": employeeID,
			"paid":        req.Paid,
			"count":       len(updated),
			"total_pay":   pay.String(),
		},
	})

	return result, nil
}

// BatchMarkPaidBySelection implements payroll.PayrollService. IDs already in
// the target state or no longer present are skipped; the running totals cover
// only the rows that actually changed.
func (s *PayrollServiceImpl) BatchMarkPaidBySelection(ctx context.Context, adminID string, req payroll.BulkSelectionRequest) (payroll.BatchSettleResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchSettleResult{}, err
	}

	result := payroll.BatchSettleResult{
		TotalHours: decimal.Zero,
		TotalPay:   decimal.Zero,
	}
	if len(req.ShiftIDs) == 0 {
		return result, nil
	}

	next := shift.UnpaidState()
	if req.Paid {
		next = shift.PaidState(adminID, time.Now().UTC())
	}

	updated, err := s.payrollRepo.BatchUpdatePayState(ctx, req.ShiftIDs, next)
	if err != nil {
		return payroll.BatchSettleResult{}, fmt.Errorf("failed to settle shifts: %w", err)
	}

	hours, pay := sumRecords(updated)
	result = payroll.BatchSettleResult{
		UpdatedCount: len(updated),
		TotalHours:   hours,
		TotalPay:     pay,
	}

	s.auditService.Record(ctx, audit.RecordRequest{
		ActorID:    adminID,
		Action:     audit.ActionBulkSettled,
		EntityType: "shift_record",
		Detail: map[string]interface{}{
			"paid":      req.Paid,
			"count":     len(updated),
			"total_pay": pay.String(),
		},
	})

	return result, nil
}

// Summary implements payroll.PayrollService. Every number is reduced from raw
// records through the pay rules here; nothing is aggregated in the store, so
// paid plus unpaid always equals the total.
func (s *PayrollServiceImpl) Summary(ctx context.Context, filter payroll.SummaryFilter) (payroll.PayrollSummaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}

	loc := timeutil.LoadLocation(s.defaultTimezone, "UTC")
	if from, to, ok := timeutil.PeriodWindow(filter.Period, time.Now(), loc); ok {
		filter.From = &from
		filter.To = &to
	}

	records, err := s.payrollRepo.ListInWindow(ctx, filter)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to list shift records: %w", err)
	}

	byEmployee := make(map[string]*payroll.EmployeePayrollSummary)
	order := make([]string, 0)
	totals := payroll.PayrollTotals{
		TotalHours: decimal.Zero,
		TotalPay:   decimal.Zero,
		PaidPay:    decimal.Zero,
		UnpaidPay:  decimal.Zero,
	}

	for _, rec := range records {
		summary, ok := byEmployee[rec.EmployeeID]
		if !ok {
			name := ""
			if rec.EmployeeName != nil && *rec.EmployeeName != "" {
				name = *rec.EmployeeName
			} else {
				name = s.employeeName(ctx, rec.EmployeeID)
			}
			summary = &payroll.EmployeePayrollSummary{
				EmployeeID:   rec.EmployeeID,
				EmployeeName: name,
				TotalHours:   decimal.Zero,
				TotalPay:     decimal.Zero,
				PaidPay:      decimal.Zero,
				UnpaidPay:    decimal.Zero,
			}
			byEmployee[rec.EmployeeID] = summary
			order = append(order, rec.EmployeeID)
		}

		pay := recordPay(rec)
		summary.ShiftCount++
		summary.TotalHours = summary.TotalHours.Add(rec.HoursWorked)
		summary.TotalPay = summary.TotalPay.Add(pay)
		totals.TotalHours = totals.TotalHours.Add(rec.HoursWorked)
		totals.TotalPay = totals.TotalPay.Add(pay)

		if rec.Paid {
			summary.PaidPay = summary.PaidPay.Add(pay)
			totals.PaidPay = totals.PaidPay.Add(pay)
		} else {
			summary.UnpaidPay = summary.UnpaidPay.Add(pay)
			totals.UnpaidPay = totals.UnpaidPay.Add(pay)
		}
	}

	employees := make([]payroll.EmployeePayrollSummary, 0, len(order))
	for _, id := range order {
		employees = append(employees, *byEmployee[id])
	}

	return payroll.PayrollSummaryResponse{
		Period:    filter.Period,
		Employees: employees,
		Totals:    totals,
	}, nil
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	auditService audit.Service,
	nameCache *cache.Store,
	defaultTimezone string,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:     payrollRepo,
		shiftRepo:       shiftRepo,
		employeeRepo:    employeeRepo,
		auditService:    auditService,
		nameCache:       nameCache,
		defaultTimezone: defaultTimezone,
	}
}
