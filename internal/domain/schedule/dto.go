package schedule

import (
	"strings"
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/pkg/validator"
)

// Scope selects which side of the upcoming/past partition a listing returns.
const (
	ScopeUpcoming = "upcoming"
	ScopePast     = "past"
	ScopeAll      = "all"
)

var ScopeValues = []string{ScopeUpcoming, ScopePast, ScopeAll}

// ========================================
// SCHEDULED SHIFT DTOs
// ========================================

type CreateScheduledShiftRequest struct {
	Title        string  `json:"title"`
	JobType      string  `json:"job_type"`
	LocationName string  `json:"location_name"`
	Address      *string `json:"address,omitempty"`
	StartsAt     string  `json:"starts_at"`          // RFC3339
	EndsAt       *string `json:"ends_at,omitempty"`  // RFC3339, optional
	Notes        *string `json:"notes,omitempty"`
	Status       string  `json:"status,omitempty"` // defaults to draft
}

func (r *CreateScheduledShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}
	if len(r.Title) > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title must not exceed 200 characters",
		})
	}

	r.JobType = strings.ToLower(strings.TrimSpace(r.JobType))
	if !validator.IsInSlice(r.JobType, JobTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "job_type",
			Message: "job_type must be one of: " + strings.Join(JobTypeValues, ", "),
		})
	}

	if len(r.LocationName) > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "location_name",
			Message: "location_name must not exceed 200 characters",
		})
	}

	startsAt, startValid := validator.IsValidDateTime(r.StartsAt)
	if !startValid {
		errs = append(errs, validator.ValidationError{
			Field:   "starts_at",
			Message: "starts_at must be a valid RFC3339 timestamp",
		})
	}

	if r.EndsAt != nil {
		endsAt, endValid := validator.IsValidDateTime(*r.EndsAt)
		if !endValid {
			errs = append(errs, validator.ValidationError{
				Field:   "ends_at",
				Message: "ends_at must be a valid RFC3339 timestamp",
			})
		} else if startValid && !endsAt.After(startsAt) {
			errs = append(errs, validator.ValidationError{
				Field:   "ends_at",
				Message: "ends_at must be after starts_at",
			})
		}
	}

	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 1000 characters",
		})
	}

	if r.Status == "" {
		r.Status = string(StatusDraft) // Default status
	} else {
		r.Status = strings.ToLower(strings.TrimSpace(r.Status))
		if !validator.IsInSlice(r.Status, StatusValues) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: " + strings.Join(StatusValues, ", "),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateScheduledShiftRequest struct {
	Title        *string `json:"title,omitempty"`
	JobType      *string `json:"job_type,omitempty"`
	LocationName *string `json:"location_name,omitempty"`
	Address      *string `json:"address,omitempty"`
	StartsAt     *string `json:"starts_at,omitempty"`
	EndsAt       *string `json:"ends_at,omitempty"` // empty string clears the end time
	Notes        *string `json:"notes,omitempty"`
	Status       *string `json:"status,omitempty"`
}

func (r *UpdateScheduledShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Title != nil {
		if validator.IsEmpty(*r.Title) {
			errs = append(errs, validator.ValidationError{
				Field:   "title",
				Message: "title must not be empty",
			})
		}
		if len(*r.Title) > 200 {
			errs = append(errs, validator.ValidationError{
				Field:   "title",
				Message: "title must not exceed 200 characters",
			})
		}
	}

	if r.JobType != nil {
		normalized := strings.ToLower(strings.TrimSpace(*r.JobType))
		r.JobType = &normalized
		if !validator.IsInSlice(normalized, JobTypeValues) {
			errs = append(errs, validator.ValidationError{
				Field:   "job_type",
				Message: "job_type must be one of: " + strings.Join(JobTypeValues, ", "),
			})
		}
	}

	if r.LocationName != nil && len(*r.LocationName) > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "location_name",
			Message: "location_name must not exceed 200 characters",
		})
	}

	if r.StartsAt != nil {
		if _, valid := validator.IsValidDateTime(*r.StartsAt); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "starts_at",
				Message: "starts_at must be a valid RFC3339 timestamp",
			})
		}
	}

	if r.EndsAt != nil && *r.EndsAt != "" {
		if _, valid := validator.IsValidDateTime(*r.EndsAt); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "ends_at",
				Message: "ends_at must be a valid RFC3339 timestamp",
			})
		}
	}

	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 1000 characters",
		})
	}

	if r.Status != nil {
		normalized := strings.ToLower(strings.TrimSpace(*r.Status))
		r.Status = &normalized
		if !validator.IsInSlice(normalized, StatusValues) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: " + strings.Join(StatusValues, ", "),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ScheduleFilter struct {
	Scope string `json:"scope"` // upcoming, past, all
}

func (f *ScheduleFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Scope == "" {
		f.Scope = ScopeAll // Default scope
	} else if !validator.IsInSlice(f.Scope, ScopeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "scope",
			Message: "scope must be one of: upcoming, past, all",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AssigneeResponse struct {
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
}

type ScheduledShiftResponse struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	JobType      string             `json:"job_type"`
	LocationName string             `json:"location_name"`
	Address      *string            `json:"address,omitempty"`
	StartsAt     string             `json:"starts_at"`
	EndsAt       *string            `json:"ends_at,omitempty"`
	Notes        *string            `json:"notes,omitempty"`
	Status       string             `json:"status"`
	Upcoming     bool               `json:"upcoming"`
	Assignees    []AssigneeResponse `json:"assignees"`
	CreatedAt    string             `json:"created_at"`
	UpdatedAt    string             `json:"updated_at"`
}

// ScheduleListResponse carries both sides of the partition. A scoped request
// leaves the other side as an empty list, never null.
type ScheduleListResponse struct {
	Upcoming []ScheduledShiftResponse `json:"upcoming"`
	Past     []ScheduledShiftResponse `json:"past"`
}

// ========================================
// ASSIGNMENT DTOs
// ========================================

type AssignmentRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
}

func (r *AssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	for _, id := range r.EmployeeIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "employee_ids",
				Message: "employee_ids must contain valid employee IDs",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// MyScheduleShift is a scheduled shift seen from one assignee's side:
// teammates lists everyone else working it.
type MyScheduleShift struct {
	ScheduledShiftResponse
	Teammates []AssigneeResponse `json:"teammates"`
}

type MyScheduleResponse struct {
	Upcoming []MyScheduleShift `json:"upcoming"`
	Past     []MyScheduleShift `json:"past"`
}

// DeletePastResult reports a bulk cleanup of past shifts. Deletions run one
// by one, so a partial outcome is possible and reported rather than rolled
// back.
type DeletePastResult struct {
	DeletedCount int      `json:"deleted_count"`
	FailedIDs    []string `json:"failed_ids"`
}

// PartitionChangeEvent notifies connected clients that shifts crossed from
// upcoming to past since the previous sweep.
type PartitionChangeEvent struct {
	ShiftIDs  []string  `json:"shift_ids"`
	CheckedAt time.Time `json:"checked_at"`
}

// AssignmentNotification is pushed to an employee's event stream when they
// are added to a scheduled shift.
type AssignmentNotification struct {
	ScheduledShiftID string `json:"scheduled_shift_id"`
	Title            string `json:"title"`
	StartsAt         string `json:"starts_at"`
}
