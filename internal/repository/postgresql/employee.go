package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/domain/employee"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

const employeeColumns = `
	id, full_name, email, password_hash, role, phone, pay_rate, payment_handle,
	is_active, created_at, updated_at
`

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.FullName, &emp.Email, &emp.PasswordHash, &emp.Role, &emp.Phone,
		&emp.PayRate, &emp.PaymentHandle, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	return emp, nil
}

// GetByEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE LOWER(email) = LOWER($1)`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, email).Scan(
		&emp.ID, &emp.FullName, &emp.Email, &emp.PasswordHash, &emp.Role, &emp.Phone,
		&emp.PayRate, &emp.PaymentHandle, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by email: %w", err)
	}

	return emp, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			full_name, email, password_hash, role, phone, pay_rate, payment_handle, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newEmployee.FullName,
		newEmployee.Email,
		newEmployee.PasswordHash,
		newEmployee.Role,
		newEmployee.Phone,
		newEmployee.PayRate,
		newEmployee.PaymentHandle,
		newEmployee.IsActive,
	).Scan(&newEmployee.ID, &newEmployee.CreatedAt, &newEmployee.UpdatedAt)

	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return newEmployee, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	if req.FullName != nil {
		updates = append(updates, fmt.Sprintf("full_name = $%d", argIdx))
		args = append(args, *req.FullName)
		argIdx++
	}
	if req.Phone != nil {
		updates = append(updates, fmt.Sprintf("phone = $%d", argIdx))
		args = append(args, req.Phone)
		argIdx++
	}
	if req.Role != nil {
		updates = append(updates, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, *req.Role)
		argIdx++
	}
	if req.PayRate != nil {
		updates = append(updates, fmt.Sprintf("pay_rate = $%d", argIdx))
		args = append(args, req.PayRate)
		argIdx++
	}
	if req.PaymentHandle != nil {
		updates = append(updates, fmt.Sprintf("payment_handle = $%d", argIdx))
		args = append(args, req.PaymentHandle)
		argIdx++
	}
	if req.IsActive != nil {
		updates = append(updates, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *req.IsActive)
		argIdx++
	}

	if len(updates) == 0 {
		return e.GetByID(ctx, id)
	}

	updates = append(updates, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now())
	argIdx++

	args = append(args, id)

	query := "UPDATE employees SET " + strings.Join(updates, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", argIdx) + employeeColumns

	var emp employee.Employee
	err := q.QueryRow(ctx, query, args...).Scan(
		&emp.ID, &emp.FullName, &emp.Email, &emp.PasswordHash, &emp.Role, &emp.Phone,
		&emp.PayRate, &emp.PaymentHandle, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return emp, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	// Name or email search
	if filter.Search != nil && *filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (full_name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	// Role filter
	if filter.Role != nil && *filter.Role != "" {
		baseWhere += fmt.Sprintf(" AND role = $%d", argIdx)
		args = append(args, *filter.Role)
		argIdx++
	}

	// Active filter
	if filter.IsActive != nil {
		baseWhere += fmt.Sprintf(" AND is_active = $%d", argIdx)
		args = append(args, *filter.IsActive)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM employees WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	// Build ORDER BY
	orderByField := "full_name"
	switch filter.SortBy {
	case "email":
		orderByField = "email"
	case "created_at":
		orderByField = "created_at"
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == "desc" {
		sortOrder = "DESC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM employees
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, employeeColumns, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees, err := scanEmployees(rows)
	if err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE is_active = TRUE ORDER BY full_name ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active employees: %w", err)
	}
	defer rows.Close()

	return scanEmployees(rows)
}

// ListByIDs implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if len(ids) == 0 {
		return []employee.Employee{}, nil
	}

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ANY($1) ORDER BY full_name ASC`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees by ids: %w", err)
	}
	defer rows.Close()

	return scanEmployees(rows)
}

func scanEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		err := rows.Scan(
			&emp.ID, &emp.FullName, &emp.Email, &emp.PasswordHash, &emp.Role, &emp.Phone,
			&emp.PayRate, &emp.PaymentHandle, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	return employees, nil
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}
