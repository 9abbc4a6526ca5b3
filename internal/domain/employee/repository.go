package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	ListActive(ctx context.Context) ([]Employee, error)
	ListByIDs(ctx context.Context, ids []string) ([]Employee, error)
}
