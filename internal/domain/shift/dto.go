package shift

import (
	"strings"
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/pkg/timeutil"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// SHIFT RECORD DTOs
// ========================================

type LogShiftRequest struct {
	EmployeeID string  `json:"employee_id"` // optional for non-admins, pinned to the caller
	ShiftDate  string  `json:"shift_date"`  // YYYY-MM-DD, the shift's local day
	ShiftType  string  `json:"shift_type"`
	TimeIn     string  `json:"time_in"`  // HH:MM, local to Timezone
	TimeOut    string  `json:"time_out"` // HH:MM, local to Timezone
	Timezone   *string `json:"timezone,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

func (r *LogShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, valid := validator.IsValidDate(r.ShiftDate); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_date",
			Message: "shift_date must be in YYYY-MM-DD format",
		})
	}

	r.ShiftType = strings.ToLower(strings.TrimSpace(r.ShiftType))
	if !validator.IsInSlice(r.ShiftType, ShiftTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_type",
			Message: "shift_type must be one of: setup, breakdown, shop, event, other",
		})
	}

	if !validator.IsValidClockTime(r.TimeIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "time_in",
			Message: "time_in must be in HH:MM format",
		})
	}

	if !validator.IsValidClockTime(r.TimeOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "time_out",
			Message: "time_out must be in HH:MM format",
		})
	}

	if r.Timezone != nil && !validator.IsValidTimezone(*r.Timezone) {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone",
			Message: "timezone must be a valid IANA zone name",
		})
	}

	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateShiftRequest struct {
	ShiftDate         *string `json:"shift_date,omitempty"`
	ShiftType         *string `json:"shift_type,omitempty"`
	TimeIn            *string `json:"time_in,omitempty"`  // HH:MM, local to Timezone
	TimeOut           *string `json:"time_out,omitempty"` // HH:MM, local to Timezone
	Timezone          *string `json:"timezone,omitempty"`
	EndsAfterMidnight *bool   `json:"ends_after_midnight,omitempty"` // force the overnight rollover
	Notes             *string `json:"notes,omitempty"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ShiftDate != nil {
		if _, valid := validator.IsValidDate(*r.ShiftDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "shift_date",
				Message: "shift_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.ShiftType != nil {
		normalized := strings.ToLower(strings.TrimSpace(*r.ShiftType))
		r.ShiftType = &normalized
		if !validator.IsInSlice(normalized, ShiftTypeValues) {
			errs = append(errs, validator.ValidationError{
				Field:   "shift_type",
				Message: "shift_type must be one of: setup, breakdown, shop, event, other",
			})
		}
	}

	if r.TimeIn != nil && !validator.IsValidClockTime(*r.TimeIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "time_in",
			Message: "time_in must be in HH:MM format",
		})
	}

	if r.TimeOut != nil && !validator.IsValidClockTime(*r.TimeOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "time_out",
			Message: "time_out must be in HH:MM format",
		})
	}

	if r.Timezone != nil && !validator.IsValidTimezone(*r.Timezone) {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone",
			Message: "timezone must be a valid IANA zone name",
		})
	}

	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ShiftFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Period     string  `json:"period"` // week, month, all
	Paid       *bool   `json:"paid,omitempty"`

	// Resolved by the service from Period; not part of the request payload.
	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // shift_date, time_in, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *ShiftFilter) Validate() error {
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

	if f.Period == "" {
		f.Period = timeutil.PeriodAll // Default period
	} else if !validator.IsInSlice(f.Period, timeutil.Periods) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must be one of: week, month, all",
		})
	}

	if f.SortBy != "" {
		validSortFields := []string{"shift_date", "time_in", "created_at"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: shift_date, time_in, created_at",
			})
		}
	} else {
		f.SortBy = "shift_date" // Default sort
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
		f.SortOrder = "desc" // Default order
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ShiftResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName *string         `json:"employee_name,omitempty"`
	ShiftDate    string          `json:"shift_date"`
	ShiftType    string          `json:"shift_type"`
	TimeIn       string          `json:"time_in"`  // RFC3339
	TimeOut      string          `json:"time_out"` // RFC3339
	HoursWorked  decimal.Decimal `json:"hours_worked"`
	PayRate      decimal.Decimal `json:"pay_rate"`
	PayDue       decimal.Decimal `json:"pay_due"`
	MinApplied   bool            `json:"min_applied"`
	Paid         bool            `json:"paid"`
	PaidAt       *string         `json:"paid_at,omitempty"`
	PaidBy       *string         `json:"paid_by,omitempty"`
	PaidByName   *string         `json:"paid_by_name,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}
