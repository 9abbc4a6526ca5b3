package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/domain/audit"
	"github.com/crewcall/crewcall-backend-go/internal/domain/employee"
	"github.com/crewcall/crewcall-backend-go/internal/domain/schedule"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/email"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/sse"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

type scheduleServiceImpl struct {
	scheduledRepo  schedule.ScheduledShiftRepository
	assignmentRepo schedule.AssignmentRepository
	employeeRepo   employee.EmployeeRepository
	auditService   audit.Service
	emailService   email.EmailService
	hub            *sse.Hub

	// lastSweep marks where the previous partition sweep ended, so each run
	// only reports shifts that crossed to past since then.
	mu        sync.Mutex
	lastSweep time.Time
}

func actorFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	actorID, ok := claims["user_id"].(string)
	if !ok || actorID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}
	return actorID, nil
}

func toAssigneeResponses(assignments []schedule.Assignment) []schedule.AssigneeResponse {
	out := make([]schedule.AssigneeResponse, 0, len(assignments))
	for _, a := range assignments {
		name := ""
		if a.EmployeeName != nil {
			name = *a.EmployeeName
		}
		out = append(out, schedule.AssigneeResponse{EmployeeID: a.EmployeeID, FullName: name})
	}
	return out
}

func toScheduledShiftResponse(s schedule.ScheduledShift, assignees []schedule.AssigneeResponse, now time.Time) schedule.ScheduledShiftResponse {
	var endsAt *string
	if s.EndsAt != nil {
		v := s.EndsAt.UTC().Format(time.RFC3339)
		endsAt = &v
	}
	if assignees == nil {
		assignees = []schedule.AssigneeResponse{}
	}

	return schedule.ScheduledShiftResponse{
		ID:           s.ID,
		Title:        s.Title,
		JobType:      string(s.JobType),
		LocationName: s.LocationName,
		Address:      s.Address,
		StartsAt:     s.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:       endsAt,
		Notes:        s.Notes,
		Status:       string(s.Status),
		Upcoming:     s.IsUpcoming(now),
		Assignees:    assignees,
		CreatedAt:    s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// CreateScheduledShift implements schedule.ScheduleService.
func (s *scheduleServiceImpl) CreateScheduledShift(ctx context.Context, createdBy string, req schedule.CreateScheduledShiftRequest) (schedule.ScheduledShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduledShiftResponse{}, err
	}

	startsAt, _ := validator.IsValidDateTime(req.StartsAt)
	var endsAt *time.Time
	if req.EndsAt != nil {
		parsed, _ := validator.IsValidDateTime(*req.EndsAt)
		parsedUTC := parsed.UTC()
		endsAt = &parsedUTC
	}

	newShift := schedule.ScheduledShift{
		Title:        req.Title,
		JobType:      schedule.JobType(req.JobType),
		LocationName: req.LocationName,
		Address:      req.Address,
		StartsAt:     startsAt.UTC(),
		EndsAt:       endsAt,
		Notes:        req.Notes,
		Status:       schedule.Status(req.Status),
		CreatedBy:    createdBy,
	}

	created, err := s.scheduledRepo.Create(ctx, newShift)
	if err != nil {
		return schedule.ScheduledShiftResponse{}, fmt.Errorf("failed to create scheduled shift: %w", err)
	}

	s.auditService.Record(ctx, audit.RecordRequest{
		ActorID:    createdBy,
		Action:     audit.ActionScheduleCreated,
		EntityType: "scheduled_shift",
		EntityID:   &created.ID,
		Detail: map[string]interface{}{
			"title":     created.Title,
			"starts_at": created.StartsAt.UTC().Format(time.RFC3339),
		},
	})

	return toScheduledShiftResponse(created, nil, time.Now()), nil
}

// GetScheduledShift implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetScheduledShift(ctx context.Context, id string) (schedule.ScheduledShiftResponse, error) {
	found, err := s.scheduledRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduledShiftNotFound) {
			return schedule.ScheduledShiftResponse{}, schedule.ErrScheduledShiftNotFound
		}
		return schedule.ScheduledShiftResponse{}, fmt.Errorf("failed to get scheduled shift: %w", err)
	}

	assignments, err := s.assignmentRepo.GetAssignees(ctx, id)
	if err != nil {
		return schedule.ScheduledShiftResponse{}, fmt.Errorf("failed to get assignees: %w", err)
	}

	return toScheduledShiftResponse(found, toAssigneeResponses(assignments), time.Now()), nil
}

// ListScheduledShifts implements schedule.ScheduleService. The partition is
// derived from the wall clock on every call; nothing about it is stored.
func (s *scheduleServiceImpl) ListScheduledShifts(ctx context.Context, filter schedule.ScheduleFilter) (schedule.ScheduleListResponse, error) {
	if err := filter.Validate(); err != nil {
		return schedule.ScheduleListResponse{}, err
	}

	shifts, err := s.scheduledRepo.List(ctx)
	if err != nil {
		return schedule.ScheduleListResponse{}, fmt.Errorf("failed to list scheduled shifts: %w", err)
	}

	ids := make([]string, 0, len(shifts))
	for _, sh := range shifts {
		ids = append(ids, sh.ID)
	}
	assignmentsByShift, err := s.assigneesByShift(ctx, ids)
	if err != nil {
		return schedule.ScheduleListResponse{}, err
	}

	now := time.Now()
	response := schedule.ScheduleListResponse{
		Upcoming: []schedule.ScheduledShiftResponse{},
		Past:     []schedule.ScheduledShiftResponse{},
	}

	// Rows arrive ordered by start ascending, which is the upcoming order.
	// The past side reverses onto effective end, most recently ended first.
	var past []schedule.ScheduledShift
	for _, sh := range shifts {
		if sh.IsUpcoming(now) {
			if filter.Scope != schedule.ScopePast {
				response.Upcoming = append(response.Upcoming, toScheduledShiftResponse(sh, assignmentsByShift[sh.ID], now))
			}
		} else {
			past = append(past, sh)
		}
	}

	if filter.Scope != schedule.ScopeUpcoming {
		sort.SliceStable(past, func(i, j int) bool {
			return past[i].EffectiveEnd().After(past[j].EffectiveEnd())
		})
		for _, sh := range past {
			response.Past = append(response.Past, toScheduledShiftResponse(sh, assignmentsByShift[sh.ID], now))
		}
	}

	return response, nil
}

func (s *scheduleServiceImpl) assigneesByShift(ctx context.Context, shiftIDs []string) (map[string][]schedule.AssigneeResponse, error) {
	result := make(map[string][]schedule.AssigneeResponse)
	if len(shiftIDs) == 0 {
		return result, nil
	}

	assignments, err := s.assignmentRepo.ListByShiftIDs(ctx, shiftIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	for _, a := range assignments {
		name := ""
		if a.EmployeeName != nil {
			name = *a.EmployeeName
		}
		result[a.ScheduledShiftID] = append(result[a.ScheduledShiftID], schedule.AssigneeResponse{
			EmployeeID: a.EmployeeID,
			FullName:   name,
		})
	}
	return result, nil
}

// UpdateScheduledShift implements schedule.ScheduleService.
func (s *scheduleServiceImpl) UpdateScheduledShift(ctx context.Context, id string, req schedule.UpdateScheduledShiftRequest) (schedule.ScheduledShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduledShiftResponse{}, err
	}

	current, err := s.scheduledRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduledShiftNotFound) {
			return schedule.ScheduledShiftResponse{}, schedule.ErrScheduledShiftNotFound
		}
		return schedule.ScheduledShiftResponse{}, fmt.Errorf("failed to get scheduled shift: %w", err)
	}

	if req.Title != nil {
		current.Title = *req.Title
	}
	if req.JobType != nil {
		current.JobType = schedule.JobType(*req.JobType)
	}
	if req.LocationName != nil {
		current.LocationName = *req.LocationName
	}
	if req.Address != nil {
		current.Address = req.Address
	}
	if req.Notes != nil {
		current.Notes = req.Notes
	}
	if req.Status != nil {
		current.Status = schedule.Status(*req.Status)
	}
	if req.StartsAt != nil {
		parsed, _ := validator.IsValidDateTime(*req.StartsAt)
		current.StartsAt = parsed.UTC()
	}
	if req.EndsAt != nil {
		if *req.EndsAt == "" {
			current.EndsAt = nil
		} else {
			parsed, _ := validator.IsValidDateTime(*req.EndsAt)
			parsedUTC := parsed.UTC()
			current.EndsAt = &parsedUTC
		}
	}

	// The window stays consistent across partial edits, so the cross-field
	// check runs on the merged result.
	if current.EndsAt != nil && !current.EndsAt.After(current.StartsAt) {
		return schedule.ScheduledShiftResponse{}, validator.ValidationErrors{{
			Field:   "ends_at",
			Message: "ends_at must be after starts_at",
		}}
	}

	updated, err := s.scheduledRepo.Update(ctx, current)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduledShiftNotFound) {
			return schedule.ScheduledShiftResponse{}, schedule.ErrScheduledShiftNotFound
		}
		return schedule.ScheduledShiftResponse{}, fmt.Errorf("failed to update scheduled shift: %w", err)
	}

	assignments, err := s.assignmentRepo.GetAssignees(ctx, id)
	if err != nil {
		return schedule.ScheduledShiftResponse{}, fmt.Errorf("failed to get assignees: %w", err)
	}

	if actorID, err := actorFromContext(ctx); err == nil {
		s.auditService.Record(ctx, audit.RecordRequest{
			ActorID:    actorID,
			Action:     audit.ActionScheduleUpdated,
			EntityType: "scheduled_shift",
			EntityID:   &id,
			Detail: map[string]interface{}{
				"title": updated.Title,
			},
		})
	}

	return toScheduledShiftResponse(updated, toAssigneeResponses(assignments), time.Now()), nil
}

// DeleteScheduledShift implements schedule.ScheduleService. The shift and its
// assignments go together or not at all.
func (s *scheduleServiceImpl) DeleteScheduledShift(ctx context.Context, id string) error {
	if err := s.scheduledRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, schedule.ErrScheduledShiftNotFound) {
			return schedule.ErrScheduledShiftNotFound
		}
		return fmt.Errorf("failed to delete scheduled shift: %w", err)
	}

	if actorID, err := actorFromContext(ctx); err == nil {
		s.auditService.Record(ctx, audit.RecordRequest{
			ActorID:    actorID,
			Action:     audit.ActionScheduleDeleted,
			EntityType: "scheduled_shift",
			EntityID:   &id,
		})
	}

	return nil
}

// DeletePastShifts implements schedule.ScheduleService. Each record is
// deleted on its own; one failure does not undo the rest, it is reported.
func (s *scheduleServiceImpl) DeletePastShifts(ctx context.Context) (schedule.DeletePastResult, error) {
	shifts, err := s.scheduledRepo.List(ctx)
	if err != nil {
		return schedule.DeletePastResult{}, fmt.Errorf("failed to list scheduled shifts: %w", err)
	}

	now := time.Now()
	result := schedule.DeletePastResult{FailedIDs: []string{}}

	for _, sh := range shifts {
		if sh.IsUpcoming(now) {
			continue
		}
		if err := s.scheduledRepo.Delete(ctx, sh.ID); err != nil {
			slog.Error("failed to delete past scheduled shift", "shift_id", sh.ID, "error", err)
			result.FailedIDs = append(result.FailedIDs, sh.ID)
			continue
		}
		result.DeletedCount++
	}

	if actorID, err := actorFromContext(ctx); err == nil {
		s.auditService.Record(ctx, audit.RecordRequest{
			ActorID:    actorID,
			Action:     audit.ActionScheduleDeleted,
			EntityType: "scheduled_shift",
			Detail: map[string]interface{}{
				"deleted_count": result.DeletedCount,
				"failed_count":  len(result.FailedIDs),
			},
		})
	}

	return result, nil
}

// GetAssignees implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetAssignees(ctx context.Context, scheduledShiftID string) ([]schedule.AssigneeResponse, error) {
	if _, err := s.scheduledRepo.GetByID(ctx, scheduledShiftID); err != nil {
		if errors.Is(err, schedule.ErrScheduledShiftNotFound) {
			return nil, schedule.ErrScheduledShiftNotFound
		}
		return nil, fmt.Errorf("failed to get scheduled shift: %w", err)
	}

	assignments, err := s.assignmentRepo.GetAssignees(ctx, scheduledShiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignees: %w", err)
	}

	return toAssigneeResponses(assignments), nil
}

// SetAssignees implements schedule.ScheduleService. Only the difference is
// written: one insert batch for the newcomers, one delete batch for the
// removed, and no write at all when the roster already matches.
func (s *scheduleServiceImpl) SetAssignees(ctx context.Context, scheduledShiftID string, req schedule.AssignmentRequest) ([]schedule.AssigneeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	target, err := s.scheduledRepo.GetByID(ctx, scheduledShiftID)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduledShiftNotFound) {
			return nil, schedule.ErrScheduledShiftNotFound
		}
		return nil, fmt.Errorf("failed to get scheduled shift: %w", err)
	}

	current, err := s.assignmentRepo.GetAssignees(ctx, scheduledShiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignees: %w", err)
	}

	currentSet := make(map[string]bool, len(current))
	for _, a := range current {
		currentSet[a.EmployeeID] = true
	}

	desired := dedupe(req.EmployeeIDs)
	desiredSet := make(map[string]bool, len(desired))
	for _, id := range desired {
		desiredSet[id] = true
	}

	var toAdd, toRemove []string
	for _, id := range desired {
		if !currentSet[id] {
			toAdd = append(toAdd, id)
		}
	}
	for _, a := range current {
		if !desiredSet[a.EmployeeID] {
			toRemove = append(toRemove, a.EmployeeID)
		}
	}

	if len(toAdd) == 0 && len(toRemove) == 0 {
		return toAssigneeResponses(current), nil
	}

	added, err := s.applyRosterDiff(ctx, target, toAdd, toRemove)
	if err != nil {
		return nil, err
	}

	updated, err := s.assignmentRepo.GetAssignees(ctx, scheduledShiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignees: %w", err)
	}

	s.recordRosterChange(ctx, scheduledShiftID, len(toAdd), len(toRemove))
	s.notifyAssignees(target, added)

	return toAssigneeResponses(updated), nil
}

// AddAssignees implements schedule.ScheduleService. Adding an employee who is
// already on the roster is a conflict; the unique constraint backstops
// concurrent adds.
func (s *scheduleServiceImpl) AddAssignees(ctx context.Context, scheduledShiftID string, req schedule.AssignmentRequest) ([]schedule.AssigneeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	target, err := s.scheduledRepo.GetByID(ctx, scheduledShiftID)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduledShiftNotFound) {
			return nil, schedule.ErrScheduledShiftNotFound
		}
		return nil, fmt.Errorf("failed to get scheduled shift: %w", err)
	}

	if ids := dedupe(req.EmployeeIDs); len(ids) > 0 {
		current, err := s.assignmentRepo.GetAssignees(ctx, scheduledShiftID)
		if err != nil {
			return nil, fmt.Errorf("failed to get assignees: %w", err)
		}
		assigned := make(map[string]bool, len(current))
		for _, a := range current {
			assigned[a.EmployeeID] = true
		}
		for _, id := range ids {
			if assigned[id] {
				return nil, schedule.ErrDuplicateAssignee
			}
		}

		added, err := s.applyRosterDiff(ctx, target, ids, nil)
		if err != nil {
			return nil, err
		}
		s.recordRosterChange(ctx, scheduledShiftID, len(ids), 0)
		s.notifyAssignees(target, added)
	}

	updated, err := s.assignmentRepo.GetAssignees(ctx, scheduledShiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignees: %w", err)
	}
	return toAssigneeResponses(updated), nil
}

// RemoveAssignees implements schedule.ScheduleService.
func (s *scheduleServiceImpl) RemoveAssignees(ctx context.Context, scheduledShiftID string, req schedule.AssignmentRequest) ([]schedule.AssigneeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.scheduledRepo.GetByID(ctx, scheduledShiftID); err != nil {
		if errors.Is(err, schedule.ErrScheduledShiftNotFound) {
			return nil, schedule.ErrScheduledShiftNotFound
		}
		return nil, fmt.Errorf("failed to get scheduled shift: %w", err)
	}

	if len(req.EmployeeIDs) > 0 {
		if err := s.assignmentRepo.RemoveAssignees(ctx, scheduledShiftID, req.EmployeeIDs); err != nil {
			return nil, fmt.Errorf("failed to remove assignees: %w", err)
		}
		s.recordRosterChange(ctx, scheduledShiftID, 0, len(req.EmployeeIDs))
	}

	updated, err := s.assignmentRepo.GetAssignees(ctx, scheduledShiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignees: %w", err)
	}
	return toAssigneeResponses(updated), nil
}

// applyRosterDiff validates the incoming employees, then writes each side of
// the diff as one batch statement. Additions are stamped with the acting
// admin. It returns the employees actually added.
func (s *scheduleServiceImpl) applyRosterDiff(ctx context.Context, target schedule.ScheduledShift, toAdd, toRemove []string) ([]employee.Employee, error) {
	var added []employee.Employee

	if len(toAdd) > 0 {
		assignedBy, err := actorFromContext(ctx)
		if err != nil {
			return nil, err
		}

		found, err := s.employeeRepo.ListByIDs(ctx, toAdd)
		if err != nil {
			return nil, fmt.Errorf("failed to look up employees: %w", err)
		}
		if len(found) != len(toAdd) {
			return nil, employee.ErrEmployeeNotFound
		}
		added = found

		if err := s.assignmentRepo.AddAssignees(ctx, target.ID, toAdd, assignedBy); err != nil {
			return nil, fmt.Errorf("failed to add assignees: %w", err)
		}
	}
	if len(toRemove) > 0 {
		if err := s.assignmentRepo.RemoveAssignees(ctx, target.ID, toRemove); err != nil {
			return nil, fmt.Errorf("failed to remove assignees: %w", err)
		}
	}

	return added, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (s *scheduleServiceImpl) recordRosterChange(ctx context.Context, scheduledShiftID string, addedCount, removedCount int) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return
	}

	action := audit.ActionCrewAssigned
	if addedCount == 0 && removedCount > 0 {
		action = audit.ActionCrewUnassigned
	}
	s.auditService.Record(ctx, audit.RecordRequest{
		ActorID:    actorID,
		Action:     action,
		EntityType: "scheduled_shift",
		EntityID:   &scheduledShiftID,
		Detail: map[string]interface{}{
			"added":   addedCount,
			"removed": removedCount,
		},
	})
}

// notifyAssignees emails the newly assigned crew and pushes a targeted event
// to anyone already connected. Delivery runs detached from the request; a
// failed send is logged, never surfaced.
func (s *scheduleServiceImpl) notifyAssignees(target schedule.ScheduledShift, added []employee.Employee) {
	if len(added) == 0 {
		return
	}

	startsAt := target.StartsAt.UTC().Format(time.RFC3339)

	ids := make([]string, 0, len(added))
	for _, emp := range added {
		ids = append(ids, emp.ID)
	}
	s.hub.PublishToMany(ids, sse.Event{
		Event: "shift_assigned",
		Data: schedule.AssignmentNotification{
			ScheduledShiftID: target.ID,
			Title:            target.Title,
			StartsAt:         startsAt,
		},
	})

	if s.emailService == nil {
		return
	}

	address := ""
	if target.Address != nil {
		address = *target.Address
	}

	go func() {
		for _, emp := range added {
			if err := s.emailService.SendShiftAssignment(emp.Email, emp.FullName, target.LocationName, address, string(target.JobType), startsAt); err != nil {
				slog.Error("failed to send assignment email", "employee_id", emp.ID, "error", err)
			}
		}
	}()
}

// MySchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) MySchedule(ctx context.Context, employeeID string) (schedule.MyScheduleResponse, error) {
	shifts, err := s.scheduledRepo.ListForEmployee(ctx, employeeID)
	if err != nil {
		return schedule.MyScheduleResponse{}, fmt.Errorf("failed to list assigned shifts: %w", err)
	}

	ids := make([]string, 0, len(shifts))
	for _, sh := range shifts {
		ids = append(ids, sh.ID)
	}
	assignmentsByShift, err := s.assigneesByShift(ctx, ids)
	if err != nil {
		return schedule.MyScheduleResponse{}, err
	}

	now := time.Now()
	response := schedule.MyScheduleResponse{
		Upcoming: []schedule.MyScheduleShift{},
		Past:     []schedule.MyScheduleShift{},
	}

	build := func(sh schedule.ScheduledShift) schedule.MyScheduleShift {
		roster := assignmentsByShift[sh.ID]
		teammates := make([]schedule.AssigneeResponse, 0, len(roster))
		for _, member := range roster {
			if member.EmployeeID != employeeID {
				teammates = append(teammates, member)
			}
		}
		return schedule.MyScheduleShift{
			ScheduledShiftResponse: toScheduledShiftResponse(sh, roster, now),
			Teammates:              teammates,
		}
	}

	var past []schedule.ScheduledShift
	for _, sh := range shifts {
		if sh.IsUpcoming(now) {
			response.Upcoming = append(response.Upcoming, build(sh))
		} else {
			past = append(past, sh)
		}
	}
	sort.SliceStable(past, func(i, j int) bool {
		return past[i].EffectiveEnd().After(past[j].EffectiveEnd())
	})
	for _, sh := range past {
		response.Past = append(response.Past, build(sh))
	}

	return response, nil
}

// PublishPartitionChanges implements schedule.ScheduleService. It finds the
// shifts whose effective end fell inside the window since the previous sweep
// and broadcasts them, so clients move items to past without reloading.
// The mutex keeps sweeps from overlapping; a failed sweep leaves the marker
// untouched so the next run covers the same window again.
func (s *scheduleServiceImpl) PublishPartitionChanges(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	crossed, err := s.scheduledRepo.ListEndingBetween(ctx, s.lastSweep, now)
	if err != nil {
		return fmt.Errorf("failed to sweep partition changes: %w", err)
	}
	s.lastSweep = now

	if len(crossed) == 0 {
		return nil
	}

	ids := make([]string, 0, len(crossed))
	for _, sh := range crossed {
		ids = append(ids, sh.ID)
	}

	s.hub.Broadcast(sse.Event{
		Event: "schedule_partition_changed",
		Data: schedule.PartitionChangeEvent{
			ShiftIDs:  ids,
			CheckedAt: now,
		},
	})

	return nil
}

func NewScheduleService(
	scheduledRepo schedule.ScheduledShiftRepository,
	assignmentRepo schedule.AssignmentRepository,
	employeeRepo employee.EmployeeRepository,
	auditService audit.Service,
	emailService email.EmailService,
	hub *sse.Hub,
) schedule.ScheduleService {
	return &scheduleServiceImpl{
		scheduledRepo:  scheduledRepo,
		assignmentRepo: assignmentRepo,
		employeeRepo:   employeeRepo,
		auditService:   auditService,
		emailService:   emailService,
		hub:            hub,
		lastSweep:      time.Now(),
	}
}
