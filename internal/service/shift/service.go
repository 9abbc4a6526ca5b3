package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/domain/audit"
	"github.com/crewcall/crewcall-backend-go/internal/domain/employee"
	"github.com/crewcall/crewcall-backend-go/internal/domain/payroll"
	"github.com/crewcall/crewcall-backend-go/internal/domain/shift"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/timeutil"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
)

// maxShiftHours bounds a single logged shift. Anything longer is an
// operator data-entry mistake, not a real shift.
var maxShiftHours = decimal.NewFromInt(18)

type ShiftServiceImpl struct {
	shiftRepo       shift.ShiftRepository
	employeeRepo    employee.EmployeeRepository
	auditService    audit.Service
	defaultTimezone string
}

// callerFromContext extracts the authenticated employee and role from the
// request token.
func callerFromContext(ctx context.Context) (employeeID string, role employee.Role, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["user_id"].(string)
	if !ok || employeeID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}

	roleStr, _ := claims["role"].(string)
	return employeeID, employee.Role(roleStr), nil
}

// deriveShiftWindow turns the local wall-clock fields into absolute
// timestamps and worked hours. Time-out at or before time-in rolls to the
// next day; forceOvernight rolls it regardless, covering shifts that end
// exactly at or after midnight without the inference.
func deriveShiftWindow(date, timeIn, timeOut string, loc *time.Location, forceOvernight bool) (in, out time.Time, hours decimal.Decimal, err error) {
	in, err = timeutil.CombineDateTime(date, timeIn, loc)
	if err != nil {
		return time.Time{}, time.Time{}, decimal.Zero, validator.ValidationErrors{{
			Field:   "time_in",
			Message: "time_in must be in HH:MM format",
		}}
	}

	out, err = timeutil.CombineDateTime(date, timeOut, loc)
	if err != nil {
		return time.Time{}, time.Time{}, decimal.Zero, validator.ValidationErrors{{
			Field:   "time_out",
			Message: "time_out must be in HH:MM format",
		}}
	}

	if !out.After(in) || forceOvernight {
		out = out.Add(24 * time.Hour)
	}

	minutes := int64(out.Sub(in) / time.Minute)
	hours = decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60))

	if hours.LessThanOrEqual(decimal.Zero) || hours.GreaterThan(maxShiftHours) {
		return time.Time{}, time.Time{}, decimal.Zero, validator.ValidationErrors{{
			Field:   "time_out",
			Message: "shift length must be over 0 and at most 18 hours",
		}}
	}

	return in, out, hours, nil
}

// toShiftResponse maps a record to its API shape. Pay due and the minimum
// flag are derived through the pay rules on every read, with the persisted
// value taking precedence over recomputation.
func toShiftResponse(rec shift.ShiftRecord) shift.ShiftResponse {
	stored := payroll.NoPayDue()
	if rec.PayDue != nil {
		stored = payroll.SomePayDue(*rec.PayDue)
	}
	detail := payroll.ComputePayDetail(rec.HoursWorked, rec.PayRate, string(rec.ShiftType), stored)

	var paidAt *string
	if rec.PaidAt != nil {
		s := rec.PaidAt.UTC().Format(time.RFC3339)
		paidAt = &s
	}

	return shift.ShiftResponse{
		ID:           rec.ID,
		EmployeeID:   rec.EmployeeID,
		EmployeeName: rec.EmployeeName,
		ShiftDate:    rec.ShiftDate.Format("2006-01-02"),
		ShiftType:    string(rec.ShiftType),
		TimeIn:       rec.TimeIn.UTC().Format(time.RFC3339),
		TimeOut:      rec.TimeOut.UTC().Format(time.RFC3339),
		HoursWorked:  rec.HoursWorked,
		PayRate:      rec.PayRate,
		PayDue:       detail.PayDue,
		MinApplied:   detail.MinApplied,
		Paid:         rec.Paid,
		PaidAt:       paidAt,
		PaidBy:       rec.PaidBy,
		PaidByName:   rec.PaidByName,
		Notes:        rec.Notes,
		CreatedAt:    rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// LogShift implements shift.ShiftService.
func (s *ShiftServiceImpl) LogShift(ctx context.Context, req shift.LogShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	callerID, role, err := callerFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = callerID
	}
	if !role.IsAdmin() && employeeID != callerID {
		return shift.ShiftResponse{}, shift.ErrUnauthorized
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return shift.ShiftResponse{}, employee.ErrEmployeeNotFound
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	tz := s.defaultTimezone
	if req.Timezone != nil {
		tz = *req.Timezone
	}
	loc := timeutil.LoadLocation(tz, s.defaultTimezone)

	timeIn, timeOut, hours, err := deriveShiftWindow(req.ShiftDate, req.TimeIn, req.TimeOut, loc, false)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	shiftDate, _ := validator.IsValidDate(req.ShiftDate)
	rate := payroll.ResolveRate(emp.PayRate)
	payDue := payroll.ComputePay(hours, rate, req.ShiftType, payroll.NoPayDue())

	record := shift.ShiftRecord{
		EmployeeID:  employeeID,
		ShiftDate:   shiftDate,
		ShiftType:   shift.ShiftType(req.ShiftType),
		TimeIn:      timeIn.UTC(),
		TimeOut:     timeOut.UTC(),
		HoursWorked: hours,
		PayRate:     rate,
		PayDue:      &payDue,
		Notes:       req.Notes,
	}

	created, err := s.shiftRepo.Create(ctx, record)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift record: %w", err)
	}
	created.EmployeeName = &emp.FullName

	s.auditService.Record(ctx, audit.RecordRequest{
		ActorID:    callerID,
		Action:     audit.ActionShiftLogged,
		EntityType: "shift_record",
		EntityID:   &created.ID,
		Detail: map[string]interface{}{
			"employee_id": employeeID,
			"shift_date":  req.ShiftDate,
			"shift_type":  req.ShiftType,
			"hours":       hours.String(),
		},
	})

	return toShiftResponse(created), nil
}

// GetShift implements shift.ShiftService.
func (s *ShiftServiceImpl) GetShift(ctx context.Context, id string) (shift.ShiftResponse, error) {
	callerID, role, err := callerFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	record, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ShiftResponse{}, shift.ErrShiftNotFound
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift record: %w", err)
	}

	if !role.IsAdmin() && record.EmployeeID != callerID {
		return shift.ShiftResponse{}, shift.ErrUnauthorized
	}

	return toShiftResponse(record), nil
}

// ListShifts implements shift.ShiftService.
func (s *ShiftServiceImpl) ListShifts(ctx context.Context, filter shift.ShiftFilter) ([]shift.ShiftResponse, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	callerID, role, err := callerFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	// Non-admins only ever see their own records.
	if !role.IsAdmin() {
		filter.EmployeeID = &callerID
	}

	loc := timeutil.LoadLocation(s.defaultTimezone, "UTC")
	if from, to, ok := timeutil.PeriodWindow(filter.Period, time.Now(), loc); ok {
		filter.From = &from
		filter.To = &to
	}

	records, total, err := s.shiftRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shift records: %w", err)
	}

	responses := make([]shift.ShiftResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toShiftResponse(rec))
	}

	return responses, total, nil
}

// UpdateShift implements shift.ShiftService.
func (s *ShiftServiceImpl) UpdateShift(ctx context.Context, id string, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	callerID, role, err := callerFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	record, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ShiftResponse{}, shift.ErrShiftNotFound
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift record: %w", err)
	}

	if !role.IsAdmin() {
		if record.EmployeeID != callerID {
			return shift.ShiftResponse{}, shift.ErrUnauthorized
		}
		// Settled records are frozen for the employee; only an admin can
		// still correct them.
		if record.Paid {
			return shift.ShiftResponse{}, shift.ErrUnauthorized
		}
	}

	tz := s.defaultTimezone
	if req.Timezone != nil {
		tz = *req.Timezone
	}
	loc := timeutil.LoadLocation(tz, s.defaultTimezone)

	// Merge the edited fields over the stored record, then re-derive the
	// window and pay exactly as on creation.
	dateStr := record.ShiftDate.Format("2006-01-02")
	if req.ShiftDate != nil {
		dateStr = *req.ShiftDate
	}
	timeInStr := record.TimeIn.In(loc).Format("15:04")
	if req.TimeIn != nil {
		timeInStr = *req.TimeIn
	}
	timeOutStr := record.TimeOut.In(loc).Format("15:04")
	if req.TimeOut != nil {
		timeOutStr = *req.TimeOut
	}

	forceOvernight := req.EndsAfterMidnight != nil && *req.EndsAfterMidnight

	timeIn, timeOut, hours, err := deriveShiftWindow(dateStr, timeInStr, timeOutStr, loc, forceOvernight)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	shiftDate, _ := validator.IsValidDate(dateStr)
	record.ShiftDate = shiftDate
	record.TimeIn = timeIn.UTC()
	record.TimeOut = timeOut.UTC()
	record.HoursWorked = hours
	if req.ShiftType != nil {
		record.ShiftType = shift.ShiftType(*req.ShiftType)
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}

	payDue := payroll.ComputePay(hours, record.PayRate, string(record.ShiftType), payroll.NoPayDue())
	record.PayDue = &payDue

	updated, err := s.shiftRepo.Update(ctx, record)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ShiftResponse{}, shift.ErrShiftNotFound
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to update shift record: %w", err)
	}
	updated.EmployeeName = record.EmployeeName
	updated.PaidByName = record.PaidByName

	s.auditService.Record(ctx, audit.RecordRequest{
		ActorID:    callerID,
		Action:     audit.ActionShiftUpdated,
		EntityType: "shift_record",
		EntityID:   &updated.ID,
		Detail: map[string]interface{}{
			"shift_date": dateStr,
			"hours":      hours.String(),
		},
	})

	return toShiftResponse(updated), nil
}

// DeleteShift implements shift.ShiftService. Deletion is unconditional once
// authorized; paid records go too.
func (s *ShiftServiceImpl) DeleteShift(ctx context.Context, id string) error {
	callerID, role, err := callerFromContext(ctx)
	if err != nil {
		return err
	}

	record, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("failed to get shift record: %w", err)
	}

	if !role.IsAdmin() && record.EmployeeID != callerID {
		return shift.ErrUnauthorized
	}

	if err := s.shiftRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("failed to delete shift record: %w", err)
	}

	s.auditService.Record(ctx, audit.RecordRequest{
		ActorID:    callerID,
		Action:     audit.ActionShiftDeleted,
		EntityType: "shift_record",
		EntityID:   &id,
		Detail: map[string]interface{}{
			"employee_id": record.EmployeeID,
			"shift_date":  record.ShiftDate.Format("2006-01-02"),
		},
	})

	return nil
}

func NewShiftService(
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	auditService audit.Service,
	defaultTimezone string,
) shift.ShiftService {
	return &ShiftServiceImpl{
		shiftRepo:       shiftRepo,
		employeeRepo:    employeeRepo,
		auditService:    auditService,
		defaultTimezone: defaultTimezone,
	}
}
