package employee

import (
	"github.com/crewcall/crewcall-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	FullName      string           `json:"full_name"`
	Email         string           `json:"email"`
	Password      string           `json:"password"`
	Role          string           `json:"role"`
	Phone         *string          `json:"phone,omitempty"`
	PayRate       *decimal.Decimal `json:"pay_rate,omitempty"`
	PaymentHandle *string          `json:"payment_handle,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	} else if len(r.FullName) > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not exceed 200 characters",
		})
	}

	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if r.Role == "" {
		r.Role = string(RoleEmployee)
	} else if !validator.IsInSlice(r.Role, RoleValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: admin, employee",
		})
	}

	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must be a valid phone number",
		})
	}

	if r.PayRate != nil && r.PayRate.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "pay_rate",
			Message: "pay_rate must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEmployeeRequest struct {
	FullName      *string          `json:"full_name,omitempty"`
	Phone         *string          `json:"phone,omitempty"`
	Role          *string          `json:"role,omitempty"`
	PayRate       *decimal.Decimal `json:"pay_rate,omitempty"`
	PaymentHandle *string          `json:"payment_handle,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil {
		if validator.IsEmpty(*r.FullName) {
			errs = append(errs, validator.ValidationError{
				Field:   "full_name",
				Message: "full_name must not be empty",
			})
		} else if len(*r.FullName) > 200 {
			errs = append(errs, validator.ValidationError{
				Field:   "full_name",
				Message: "full_name must not exceed 200 characters",
			})
		}
	}

	if r.Role != nil && !validator.IsInSlice(*r.Role, RoleValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: admin, employee",
		})
	}

	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must be a valid phone number",
		})
	}

	if r.PayRate != nil && r.PayRate.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "pay_rate",
			Message: "pay_rate must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeFilter struct {
	Search   *string `json:"search,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // full_name, email, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Role != nil && !validator.IsInSlice(*f.Role, RoleValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: admin, employee",
		})
	}

	if f.SortBy != "" {
		validSortFields := []string{"full_name", "email", "created_at"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: full_name, email, created_at",
			})
		}
	} else {
		f.SortBy = "full_name" // Default sort
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(f.SortOrder, validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "asc" // Default order
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID            string           `json:"id"`
	FullName      string           `json:"full_name"`
	Email         string           `json:"email"`
	Role          string           `json:"role"`
	Phone         *string          `json:"phone,omitempty"`
	PayRate       *decimal.Decimal `json:"pay_rate,omitempty"`
	PaymentHandle *string          `json:"payment_handle,omitempty"`
	IsActive      bool             `json:"is_active"`
	CreatedAt     string           `json:"created_at"`
	UpdatedAt     string           `json:"updated_at"`
}
