package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/crewcall/crewcall-backend-go/internal/domain/schedule"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/database"
)

type shiftAssignmentRepository struct {
	db *database.DB
}

// GetAssignees implements schedule.AssignmentRepository.
func (r *shiftAssignmentRepository) GetAssignees(ctx context.Context, scheduledShiftID string) ([]schedule.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.scheduled_shift_id, a.employee_id, a.assigned_by, a.created_at,
		       e.full_name AS employee_name
		FROM shift_assignments a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.scheduled_shift_id = $1
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, scheduledShiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignees: %w", err)
	}
	defer rows.Close()

	var assignments []schedule.Assignment
	for rows.Next() {
		var a schedule.Assignment
		if err := rows.Scan(&a.ID, &a.ScheduledShiftID, &a.EmployeeID, &a.AssignedBy, &a.CreatedAt, &a.EmployeeName); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, nil
}

// ListByShiftIDs implements schedule.AssignmentRepository.
func (r *shiftAssignmentRepository) ListByShiftIDs(ctx context.Context, scheduledShiftIDs []string) ([]schedule.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	if len(scheduledShiftIDs) == 0 {
		return []schedule.Assignment{}, nil
	}

	query := `
		SELECT a.id, a.scheduled_shift_id, a.employee_id, a.assigned_by, a.created_at,
		       e.full_name AS employee_name
		FROM shift_assignments a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.scheduled_shift_id = ANY($1)
		ORDER BY a.scheduled_shift_id, e.full_name
	`

	rows, err := q.Query(ctx, query, scheduledShiftIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments by shift ids: %w", err)
	}
	defer rows.Close()

	var assignments []schedule.Assignment
	for rows.Next() {
		var a schedule.Assignment
		if err := rows.Scan(&a.ID, &a.ScheduledShiftID, &a.EmployeeID, &a.AssignedBy, &a.CreatedAt, &a.EmployeeName); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, nil
}

// AddAssignees implements schedule.AssignmentRepository.
// One multi-row insert; re-adding an existing assignee is a silent no-op.
func (r *shiftAssignmentRepository) AddAssignees(ctx context.Context, scheduledShiftID string, employeeIDs []string, assignedBy string) error {
	q := GetQuerier(ctx, r.db)

	if len(employeeIDs) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(employeeIDs))
	valueArgs := make([]interface{}, 0, len(employeeIDs)*3)

	for i, employeeID := range employeeIDs {
		base := i * 3
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		valueArgs = append(valueArgs, scheduledShiftID, employeeID, assignedBy)
	}

	query := fmt.Sprintf(`
		INSERT INTO shift_assignments (scheduled_shift_id, employee_id, assigned_by)
		VALUES %s
		ON CONFLICT (scheduled_shift_id, employee_id) DO NOTHING
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to add assignees: %w", err)
	}

	return nil
}

// RemoveAssignees implements schedule.AssignmentRepository.
func (r *shiftAssignmentRepository) RemoveAssignees(ctx context.Context, scheduledShiftID string, employeeIDs []string) error {
	q := GetQuerier(ctx, r.db)

	if len(employeeIDs) == 0 {
		return nil
	}

	query := `
		DELETE FROM shift_assignments
		WHERE scheduled_shift_id = $1 AND employee_id = ANY($2)
	`

	if _, err := q.Exec(ctx, query, scheduledShiftID, employeeIDs); err != nil {
		return fmt.Errorf("failed to remove assignees: %w", err)
	}

	return nil
}

func NewShiftAssignmentRepository(db *database.DB) schedule.AssignmentRepository {
	return &shiftAssignmentRepository{db: db}
}
