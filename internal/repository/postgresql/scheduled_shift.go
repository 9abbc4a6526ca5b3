package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/domain/schedule"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type scheduledShiftRepository struct {
	db *database.DB
}

const scheduledShiftColumns = `
	id, title, job_type, location_name, address, starts_at, ends_at,
	notes, status, created_by, created_at, updated_at
`

// Create implements schedule.ScheduledShiftRepository.
func (r *scheduledShiftRepository) Create(ctx context.Context, s schedule.ScheduledShift) (schedule.ScheduledShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO scheduled_shifts (
			title, job_type, location_name, address, starts_at, ends_at,
			notes, status, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.Title,
		s.JobType,
		s.LocationName,
		s.Address,
		s.StartsAt,
		s.EndsAt,
		s.Notes,
		s.Status,
		s.CreatedBy,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return schedule.ScheduledShift{}, fmt.Errorf("failed to create scheduled shift: %w", err)
	}

	return s, nil
}

// GetByID implements schedule.ScheduledShiftRepository.
func (r *scheduledShiftRepository) GetByID(ctx context.Context, id string) (schedule.ScheduledShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + scheduledShiftColumns + ` FROM scheduled_shifts WHERE id = $1`

	var s schedule.ScheduledShift
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Title, &s.JobType, &s.LocationName, &s.Address, &s.StartsAt, &s.EndsAt,
		&s.Notes, &s.Status, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.ScheduledShift{}, schedule.ErrScheduledShiftNotFound
		}
		return schedule.ScheduledShift{}, fmt.Errorf("failed to get scheduled shift by ID: %w", err)
	}

	return s, nil
}

// Update implements schedule.ScheduledShiftRepository.
// ends_at is written unconditionally so a cleared end time reaches the store.
func (r *scheduledShiftRepository) Update(ctx context.Context, s schedule.ScheduledShift) (schedule.ScheduledShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE scheduled_shifts
		SET title = $1, job_type = $2, location_name = $3, address = $4,
		    starts_at = $5, ends_at = $6, notes = $7, status = $8, updated_at = $9
		WHERE id = $10
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.Title,
		s.JobType,
		s.LocationName,
		s.Address,
		s.StartsAt,
		s.EndsAt,
		s.Notes,
		s.Status,
		time.Now(),
		s.ID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.ScheduledShift{}, schedule.ErrScheduledShiftNotFound
		}
		return schedule.ScheduledShift{}, fmt.Errorf("failed to update scheduled shift: %w", err)
	}

	return s, nil
}

// Delete implements schedule.ScheduledShiftRepository.
// One statement removes the shift and its assignments together, so a partial
// delete cannot leave orphan assignment rows.
func (r *scheduledShiftRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH removed_assignments AS (
			DELETE FROM shift_assignments WHERE scheduled_shift_id = $1
		)
		DELETE FROM scheduled_shifts WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete scheduled shift: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return schedule.ErrScheduledShiftNotFound
	}

	return nil
}

// List implements schedule.ScheduledShiftRepository.
func (r *scheduledShiftRepository) List(ctx context.Context) ([]schedule.ScheduledShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + scheduledShiftColumns + ` FROM scheduled_shifts ORDER BY starts_at ASC, created_at ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled shifts: %w", err)
	}
	defer rows.Close()

	return scanScheduledShifts(rows)
}

// ListForEmployee implements schedule.ScheduledShiftRepository.
func (r *scheduledShiftRepository) ListForEmployee(ctx context.Context, employeeID string) ([]schedule.ScheduledShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + scheduledShiftColumns + `
		FROM scheduled_shifts
		WHERE id IN (
			SELECT scheduled_shift_id FROM shift_assignments WHERE employee_id = $1
		)
		ORDER BY starts_at ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled shifts for employee: %w", err)
	}
	defer rows.Close()

	return scanScheduledShifts(rows)
}

// ListEndingBetween implements schedule.ScheduledShiftRepository.
func (r *scheduledShiftRepository) ListEndingBetween(ctx context.Context, from, to time.Time) ([]schedule.ScheduledShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + scheduledShiftColumns + `
		FROM scheduled_shifts
		WHERE COALESCE(ends_at, starts_at) >= $1 AND COALESCE(ends_at, starts_at) < $2
		ORDER BY COALESCE(ends_at, starts_at) ASC
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled shifts ending between: %w", err)
	}
	defer rows.Close()

	return scanScheduledShifts(rows)
}

func scanScheduledShifts(rows pgx.Rows) ([]schedule.ScheduledShift, error) {
	var shifts []schedule.ScheduledShift
	for rows.Next() {
		var s schedule.ScheduledShift
		err := rows.Scan(
			&s.ID, &s.Title, &s.JobType, &s.LocationName, &s.Address, &s.StartsAt, &s.EndsAt,
			&s.Notes, &s.Status, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled shift: %w", err)
		}
		shifts = append(shifts, s)
	}

	return shifts, nil
}

func NewScheduledShiftRepository(db *database.DB) schedule.ScheduledShiftRepository {
	return &scheduledShiftRepository{db: db}
}
