package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// GetEmployee retrieves a single employee by ID (admins, or the employee themselves)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// CreateEmployee creates a new employee account (admin only)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee updates an existing employee (admin only)
	UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// ListEmployees lists employees with filters (admin only)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, int64, error)
}
