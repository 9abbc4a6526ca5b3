package shift

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShiftType string

const (
	TypeSetup     ShiftType = "setup"
	TypeBreakdown ShiftType = "breakdown"
	TypeShop      ShiftType = "shop"
	TypeEvent     ShiftType = "event"
	TypeOther     ShiftType = "other"
)

var ShiftTypeValues = []string{
	string(TypeSetup),
	string(TypeBreakdown),
	string(TypeShop),
	string(TypeEvent),
	string(TypeOther),
}

// ShiftRecord is a logged worked shift, the system of record for payroll.
type ShiftRecord struct {
	ID          string
	EmployeeID  string
	ShiftDate   time.Time // the shift's canonical local day
	ShiftType   ShiftType
	TimeIn      time.Time
	TimeOut     time.Time
	HoursWorked decimal.Decimal
	PayRate     decimal.Decimal
	PayDue      *decimal.Decimal // persisted value wins over recomputation when present
	Paid        bool
	PaidAt      *time.Time
	PaidBy      *string
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// DTO
	EmployeeName *string
	PaidByName   *string
}

// PayState is the payment sub-state of a shift record. The three fields
// change together: Paid=true implies PaidAt and PaidBy are set, Paid=false
// implies both are nil.
type PayState struct {
	Paid   bool
	PaidAt *time.Time
	PaidBy *string
}

// PaidState builds the Paid state stamped with the settling admin and time.
func PaidState(adminID string, at time.Time) PayState {
	return PayState{Paid: true, PaidAt: &at, PaidBy: &adminID}
}

// UnpaidState builds the cleared (undo) state.
func UnpaidState() PayState {
	return PayState{}
}

// ApplyPayState sets the record's payment fields and returns a rollback that
// restores the previous values. Callers apply optimistically before the store
// write and roll back if it fails, so the record they return always matches
// the store.
func (s *ShiftRecord) ApplyPayState(next PayState) (rollback func()) {
	prev := PayState{Paid: s.Paid, PaidAt: s.PaidAt, PaidBy: s.PaidBy}
	s.Paid = next.Paid
	s.PaidAt = next.PaidAt
	s.PaidBy = next.PaidBy
	return func() {
		s.Paid = prev.Paid
		s.PaidAt = prev.PaidAt
		s.PaidBy = prev.PaidBy
	}
}
