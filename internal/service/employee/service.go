package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/crewcall/crewcall-backend-go/internal/domain/audit"
	"github.com/crewcall/crewcall-backend-go/internal/domain/employee"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/cache"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	auditService audit.Service
	nameCache    *cache.Store
}

// Helper function to extract claims from context
func getClaimsFromContext(ctx context.Context) (employeeID, role string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["user_id"].(string)
	if !ok || employeeID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}
	role, _ = claims["role"].(string)

	return employeeID, role, nil
}

// Helper function to map Employee to EmployeeResponse
func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:            emp.ID,
		FullName:      emp.FullName,
		Email:         emp.Email,
		Role:          string(emp.Role),
		Phone:         emp.Phone,
		PayRate:       emp.PayRate,
		PaymentHandle: emp.PaymentHandle,
		IsActive:      emp.IsActive,
		CreatedAt:     emp.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     emp.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	requestingEmployeeID, role, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	// Employees can only view their own record.
	if role == string(employee.RoleEmployee) && requestingEmployeeID != id {
		return employee.EmployeeResponse{}, employee.ErrUnauthorized
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return mapEmployeeToResponse(emp), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	requestingEmployeeID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	// Check if the email is already taken
	if _, err := s.employeeRepo.GetByEmail(ctx, req.Email); err == nil {
		return employee.EmployeeResponse{}, employee.ErrEmailExists
	} else if !errors.Is(err, employee.ErrEmployeeNotFound) {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check email existence: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	newEmployee := employee.Employee{
		FullName:      req.FullName,
		Email:         req.Email,
		PasswordHash:  string(passwordHash),
		Role:          employee.Role(req.Role),
		Phone:         req.Phone,
		PayRate:       req.PayRate,
		PaymentHandle: req.PaymentHandle,
		IsActive:      true,
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	s.auditService.Record(ctx, audit.RecordRequest{
		ActorID:    requestingEmployeeID,
		Action:     audit.ActionEmployeeCreated,
		EntityType: "employee",
		EntityID:   &created.ID,
		Detail: map[string]interface{}{
			"email": created.Email,
			"role":  string(created.Role),
		},
	})

	return mapEmployeeToResponse(created), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	requestingEmployeeID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	// An admin cannot strip their own access: no self-demotion, no
	// self-deactivation. Another admin has to do it.
	if requestingEmployeeID == id {
		if req.Role != nil && *req.Role != string(employee.RoleAdmin) {
			return employee.EmployeeResponse{}, employee.ErrCannotDemoteSelf
		}
		if req.IsActive != nil && !*req.IsActive {
			return employee.EmployeeResponse{}, employee.ErrCannotDeactivateSelf
		}
	}

	updated, err := s.employeeRepo.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	// Drop the cached display name so payroll summaries pick up renames.
	s.nameCache.Delete(id)

	s.auditService.Record(ctx, audit.RecordRequest{
		ActorID:    requestingEmployeeID,
		Action:     audit.ActionEmployeeUpdated,
		EntityType: "employee",
		EntityID:   &id,
	})

	return mapEmployeeToResponse(updated), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, mapEmployeeToResponse(emp))
	}

	return responses, total, nil
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	auditService audit.Service,
	nameCache *cache.Store,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		auditService: auditService,
		nameCache:    nameCache,
	}
}
