package postgresql

import (
	"context"
	"fmt"

	"github.com/crewcall/crewcall-backend-go/internal/domain/payroll"
	"github.com/crewcall/crewcall-backend-go/internal/domain/shift"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

// ListByEmployeeAndPaid implements payroll.PayrollRepository.
func (r *payrollRepository) ListByEmployeeAndPaid(ctx context.Context, employeeID string, paid bool) ([]shift.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			s.id, s.employee_id, s.shift_date, s.shift_type, s.time_in, s.time_out,
			s.hours_worked, s.pay_rate, s.pay_due,
			s.paid, s.paid_at, s.paid_by, s.notes,
			s.created_at, s.updated_at,
			e.full_name AS employee_name
		FROM shift_records s
		LEFT JOIN employees e ON e.id = s.employee_id
		WHERE s.employee_id = $1 AND s.paid = $2
		ORDER BY s.shift_date, s.time_in
	`

	rows, err := q.Query(ctx, query, employeeID, paid)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift records for settlement: %w", err)
	}
	defer rows.Close()

	var records []shift.ShiftRecord
	for rows.Next() {
		var record shift.ShiftRecord
		err := rows.Scan(
			&record.ID, &record.EmployeeID, &record.ShiftDate, &record.ShiftType, &record.TimeIn, &record.TimeOut,
			&record.HoursWorked, &record.PayRate, &record.PayDue,
			&record.Paid, &record.PaidAt, &record.PaidBy, &record.Notes,
			&record.CreatedAt, &record.UpdatedAt,
			&record.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift record: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

// BatchUpdatePayState implements payroll.PayrollRepository.
// One statement settles (or reopens) the whole selection; IDs that no longer
// exist or already carry the target paid flag simply do not come back.
func (r *payrollRepository) BatchUpdatePayState(ctx context.Context, ids []string, state shift.PayState) ([]shift.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	if len(ids) == 0 {
		return []shift.ShiftRecord{}, nil
	}

	query := `
		UPDATE shift_records
		SET paid = $1, paid_at = $2, paid_by = $3, updated_at = NOW()
		WHERE id = ANY($4) AND paid <> $1
		RETURNING id, employee_id, shift_date, shift_type, time_in, time_out,
		          hours_worked, pay_rate, pay_due, paid, paid_at, paid_by, notes,
		          created_at, updated_at
	`

	rows, err := q.Query(ctx, query, state.Paid, state.PaidAt, state.PaidBy, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to batch update pay state: %w", err)
	}
	defer rows.Close()

	var records []shift.ShiftRecord
	for rows.Next() {
		var record shift.ShiftRecord
		err := rows.Scan(
			&record.ID, &record.EmployeeID, &record.ShiftDate, &record.ShiftType, &record.TimeIn, &record.TimeOut,
			&record.HoursWorked, &record.PayRate, &record.PayDue,
			&record.Paid, &record.PaidAt, &record.PaidBy, &record.Notes,
			&record.CreatedAt, &record.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settled shift record: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

// UpdatePayState implements payroll.PayrollRepository.
func (r *payrollRepository) UpdatePayState(ctx context.Context, id string, state shift.PayState) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_records
		SET paid = $1, paid_at = $2, paid_by = $3, updated_at = NOW()
		WHERE id = $4
	`

	commandTag, err := q.Exec(ctx, query, state.Paid, state.PaidAt, state.PaidBy, id)
	if err != nil {
		return fmt.Errorf("failed to update pay state: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}

	return nil
}

// ListInWindow implements payroll.PayrollRepository.
func (r *payrollRepository) ListInWindow(ctx context.Context, filter payroll.SummaryFilter) ([]shift.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.From != nil {
		baseWhere += fmt.Sprintf(" AND s.shift_date >= $%d", argIdx)
		args = append(args, filter.From.Format("2006-01-02"))
		argIdx++
	}
	if filter.To != nil {
		baseWhere += fmt.Sprintf(" AND s.shift_date < $%d", argIdx)
		args = append(args, filter.To.Format("2006-01-02"))
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT
			s.id, s.employee_id, s.shift_date, s.shift_type, s.time_in, s.time_out,
			s.hours_worked, s.pay_rate, s.pay_due,
			s.paid, s.paid_at, s.paid_by, s.notes,
			s.created_at, s.updated_at,
			e.full_name AS employee_name
		FROM shift_records s
		LEFT JOIN employees e ON e.id = s.employee_id
		WHERE %s
		ORDER BY e.full_name, s.shift_date, s.time_in
	`, baseWhere)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift records in window: %w", err)
	}
	defer rows.Close()

	var records []shift.ShiftRecord
	for rows.Next() {
		var record shift.ShiftRecord
		err := rows.Scan(
			&record.ID, &record.EmployeeID, &record.ShiftDate, &record.ShiftType, &record.TimeIn, &record.TimeOut,
			&record.HoursWorked, &record.PayRate, &record.PayDue,
			&record.Paid, &record.PaidAt, &record.PaidBy, &record.Notes,
			&record.CreatedAt, &record.UpdatedAt,
			&record.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift record: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}
