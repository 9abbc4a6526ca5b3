package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/domain/shift"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepository struct {
	db *database.DB
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, record shift.ShiftRecord) (shift.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_records (
			employee_id, shift_date, shift_type, time_in, time_out,
			hours_worked, pay_rate, pay_due, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, paid, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.EmployeeID,
		record.ShiftDate,
		record.ShiftType,
		record.TimeIn,
		record.TimeOut,
		record.HoursWorked,
		record.PayRate,
		record.PayDue,
		record.Notes,
	).Scan(&record.ID, &record.Paid, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return shift.ShiftRecord{}, fmt.Errorf("failed to create shift record: %w", err)
	}

	return record, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			s.id, s.employee_id, s.shift_date, s.shift_type, s.time_in, s.time_out,
			s.hours_worked, s.pay_rate, s.pay_due,
			s.paid, s.paid_at, s.paid_by, s.notes,
			s.created_at, s.updated_at,
			e.full_name AS employee_name,
			p.full_name AS paid_by_name
		FROM shift_records s
		LEFT JOIN employees e ON e.id = s.employee_id
		LEFT JOIN employees p ON p.id = s.paid_by
		WHERE s.id = $1
	`

	var record shift.ShiftRecord
	err := q.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.EmployeeID, &record.ShiftDate, &record.ShiftType, &record.TimeIn, &record.TimeOut,
		&record.HoursWorked, &record.PayRate, &record.PayDue,
		&record.Paid, &record.PaidAt, &record.PaidBy, &record.Notes,
		&record.CreatedAt, &record.UpdatedAt,
		&record.EmployeeName, &record.PaidByName,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ShiftRecord{}, shift.ErrShiftNotFound
		}
		return shift.ShiftRecord{}, fmt.Errorf("failed to get shift record by ID: %w", err)
	}

	return record, nil
}

// Update implements shift.ShiftRepository.
// The pay state columns are owned by the settlement queries and never touched
// here.
func (r *shiftRepository) Update(ctx context.Context, record shift.ShiftRecord) (shift.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_records
		SET employee_id = $1, shift_date = $2, shift_type = $3, time_in = $4, time_out = $5,
		    hours_worked = $6, pay_rate = $7, pay_due = $8, notes = $9, updated_at = $10
		WHERE id = $11
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.EmployeeID,
		record.ShiftDate,
		record.ShiftType,
		record.TimeIn,
		record.TimeOut,
		record.HoursWorked,
		record.PayRate,
		record.PayDue,
		record.Notes,
		time.Now(),
		record.ID,
	).Scan(&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ShiftRecord{}, shift.ErrShiftNotFound
		}
		return shift.ShiftRecord{}, fmt.Errorf("failed to update shift record: %w", err)
	}

	return record, nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM shift_records WHERE id = $1`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift record: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}

	return nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, filter shift.ShiftFilter) ([]shift.ShiftRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	// Employee ID filter
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND s.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	// Period window (resolved by the service from the period name)
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

	// Paid filter
	if filter.Paid != nil {
		baseWhere += fmt.Sprintf(" AND s.paid = $%d", argIdx)
		args = append(args, *filter.Paid)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM shift_records s WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shift records: %w", err)
	}

	// Build ORDER BY
	orderByField := "s.shift_date"
	switch filter.SortBy {
	case "time_in":
		orderByField = "s.time_in"
	case "created_at":
		orderByField = "s.created_at"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	// Build query with pagination. time_in breaks ties within a day so the
	// listing is stable.
	selectQuery := fmt.Sprintf(`
		SELECT
			s.id, s.employee_id, s.shift_date, s.shift_type, s.time_in, s.time_out,
			s.hours_worked, s.pay_rate, s.pay_due,
			s.paid, s.paid_at, s.paid_by, s.notes,
			s.created_at, s.updated_at,
			e.full_name AS employee_name,
			p.full_name AS paid_by_name
		FROM shift_records s
		LEFT JOIN employees e ON e.id = s.employee_id
		LEFT JOIN employees p ON p.id = s.paid_by
		WHERE %s
		ORDER BY %s %s, s.time_in %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, orderByField, sortOrder, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query shift records: %w", err)
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
			&record.EmployeeName, &record.PaidByName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan shift record: %w", err)
		}
		records = append(records, record)
	}

	return records, total, nil
}

// ListByIDs implements shift.ShiftRepository.
func (r *shiftRepository) ListByIDs(ctx context.Context, ids []string) ([]shift.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	if len(ids) == 0 {
		return []shift.ShiftRecord{}, nil
	}

	query := `
		SELECT
			s.id, s.employee_id, s.shift_date, s.shift_type, s.time_in, s.time_out,
			s.hours_worked, s.pay_rate, s.pay_due,
			s.paid, s.paid_at, s.paid_by, s.notes,
			s.created_at, s.updated_at,
			e.full_name AS employee_name,
			p.full_name AS paid_by_name
		FROM shift_records s
		LEFT JOIN employees e ON e.id = s.employee_id
		LEFT JOIN employees p ON p.id = s.paid_by
		WHERE s.id = ANY($1)
		ORDER BY s.shift_date, s.time_in
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift records by ids: %w", err)
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
			&record.EmployeeName, &record.PaidByName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift record: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}
