package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the single identity + profile record: credentials, role, and
// the payroll attributes (pay rate, payment handle) the pay engine consumes.
type Employee struct {
	ID            string
	FullName      string
	Email         string
	PasswordHash  string
	Role          Role
	Phone         *string
	PayRate       *decimal.Decimal
	PaymentHandle *string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

var RoleValues = []string{string(RoleAdmin), string(RoleEmployee)}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}
