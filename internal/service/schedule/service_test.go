package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/domain/audit"
	"github.com/crewcall/crewcall-backend-go/internal/domain/employee"
	"github.com/crewcall/crewcall-backend-go/internal/domain/schedule"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/sse"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== TEST DOUBLES =====

type sweepWindow struct {
	from time.Time
	to   time.Time
}

type fakeScheduledShiftRepo struct {
	shifts     map[string]schedule.ScheduledShift
	seq        int
	failDelete map[string]bool

	// assignedTo maps employee id to the shift ids ListForEmployee returns.
	assignedTo map[string][]string

	// crossing is handed out once per ListEndingBetween call.
	crossing     [][]schedule.ScheduledShift
	sweepWindows []sweepWindow
}

func newFakeScheduledShiftRepo() *fakeScheduledShiftRepo {
	return &fakeScheduledShiftRepo{
		shifts:     make(map[string]schedule.ScheduledShift),
		failDelete: make(map[string]bool),
		assignedTo: make(map[string][]string),
	}
}

func (f *fakeScheduledShiftRepo) add(s schedule.ScheduledShift) schedule.ScheduledShift {
	if s.ID == "" {
		f.seq++
		s.ID = fmt.Sprintf("sched-%d", f.seq)
	}
	f.shifts[s.ID] = s
	return s
}

func (f *fakeScheduledShiftRepo) Create(ctx context.Context, s schedule.ScheduledShift) (schedule.ScheduledShift, error) {
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	return f.add(s), nil
}

func (f *fakeScheduledShiftRepo) GetByID(ctx context.Context, id string) (schedule.ScheduledShift, error) {
	s, ok := f.shifts[id]
	if !ok {
		return schedule.ScheduledShift{}, schedule.ErrScheduledShiftNotFound
	}
	return s, nil
}

func (f *fakeScheduledShiftRepo) Update(ctx context.Context, s schedule.ScheduledShift) (schedule.ScheduledShift, error) {
	if _, ok := f.shifts[s.ID]; !ok {
		return schedule.ScheduledShift{}, schedule.ErrScheduledShiftNotFound
	}
	s.UpdatedAt = time.Now()
	f.shifts[s.ID] = s
	return s, nil
}

func (f *fakeScheduledShiftRepo) Delete(ctx context.Context, id string) error {
	if f.failDelete[id] {
		return errors.New("store unavailable")
	}
	if _, ok := f.shifts[id]; !ok {
		return schedule.ErrScheduledShiftNotFound
	}
	delete(f.shifts, id)
	return nil
}

func (f *fakeScheduledShiftRepo) List(ctx context.Context) ([]schedule.ScheduledShift, error) {
	out := make([]schedule.ScheduledShift, 0, len(f.shifts))
	for _, s := range f.shifts {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (f *fakeScheduledShiftRepo) ListForEmployee(ctx context.Context, employeeID string) ([]schedule.ScheduledShift, error) {
	var out []schedule.ScheduledShift
	for _, id := range f.assignedTo[employeeID] {
		if s, ok := f.shifts[id]; ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (f *fakeScheduledShiftRepo) ListEndingBetween(ctx context.Context, from, to time.Time) ([]schedule.ScheduledShift, error) {
	f.sweepWindows = append(f.sweepWindows, sweepWindow{from: from, to: to})
	if len(f.crossing) == 0 {
		return nil, nil
	}
	next := f.crossing[0]
	f.crossing = f.crossing[1:]
	return next, nil
}

type fakeAssignmentRepo struct {
	assignments    map[string][]schedule.Assignment
	addCalls       int
	removeCalls    int
	lastAdded      []string
	lastRemoved    []string
	lastAssignedBy string
	failAdd        error
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[string][]schedule.Assignment)}
}

func (f *fakeAssignmentRepo) seed(shiftID string, employeeIDs ...string) {
	for _, id := range employeeIDs {
		name := "Crew " + id
		f.assignments[shiftID] = append(f.assignments[shiftID], schedule.Assignment{
			ID:               fmt.Sprintf("assign-%s-%s", shiftID, id),
			ScheduledShiftID: shiftID,
			EmployeeID:       id,
			EmployeeName:     &name,
		})
	}
}

func (f *fakeAssignmentRepo) GetAssignees(ctx context.Context, scheduledShiftID string) ([]schedule.Assignment, error) {
	return f.assignments[scheduledShiftID], nil
}

func (f *fakeAssignmentRepo) ListByShiftIDs(ctx context.Context, scheduledShiftIDs []string) ([]schedule.Assignment, error) {
	var out []schedule.Assignment
	for _, id := range scheduledShiftIDs {
		out = append(out, f.assignments[id]...)
	}
	return out, nil
}

func (f *fakeAssignmentRepo) AddAssignees(ctx context.Context, scheduledShiftID string, employeeIDs []string, assignedBy string) error {
	f.addCalls++
	f.lastAdded = employeeIDs
	f.lastAssignedBy = assignedBy
	if f.failAdd != nil {
		err := f.failAdd
		f.failAdd = nil
		return err
	}
	existing := make(map[string]bool)
	for _, a := range f.assignments[scheduledShiftID] {
		existing[a.EmployeeID] = true
	}
	for _, id := range employeeIDs {
		if existing[id] {
			continue
		}
		name := "Crew " + id
		f.assignments[scheduledShiftID] = append(f.assignments[scheduledShiftID], schedule.Assignment{
			ID:               fmt.Sprintf("assign-%s-%s", scheduledShiftID, id),
			ScheduledShiftID: scheduledShiftID,
			EmployeeID:       id,
			EmployeeName:     &name,
			AssignedBy:       assignedBy,
		})
	}
	return nil
}

func (f *fakeAssignmentRepo) RemoveAssignees(ctx context.Context, scheduledShiftID string, employeeIDs []string) error {
	f.removeCalls++
	f.lastRemoved = employeeIDs
	drop := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		drop[id] = true
	}
	var kept []schedule.Assignment
	for _, a := range f.assignments[scheduledShiftID] {
		if !drop[a.EmployeeID] {
			kept = append(kept, a)
		}
	}
	f.assignments[scheduledShiftID] = kept
	return nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(ids ...string) *fakeEmployeeRepo {
	repo := &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
	for _, id := range ids {
		repo.employees[id] = employee.Employee{
			ID:       id,
			FullName: "Crew " + id,
			Email:    id + "@example.com",
			Role:     employee.RoleEmployee,
			IsActive: true,
		}
	}
	return repo
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	return newEmployee, nil
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	return f.employees[id], nil
}

func (f *fakeEmployeeRepo) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	return nil, 0, nil
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) ListByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, id := range ids {
		if emp, ok := f.employees[id]; ok {
			out = append(out, emp)
		}
	}
	return out, nil
}

type recordingAudit struct {
	entries []audit.RecordRequest
}

func (r *recordingAudit) Record(ctx context.Context, req audit.RecordRequest) {
	r.entries = append(r.entries, req)
}

func (r *recordingAudit) List(ctx context.Context, filter audit.Filter) ([]audit.AuditTrailResponse, int64, error) {
	return nil, 0, nil
}

func (r *recordingAudit) Stop() {}

type recordingEmail struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingEmail) SendShiftAssignment(to, employeeName, locationName, address, jobType, startsAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, to)
	return nil
}

func (r *recordingEmail) recipients() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent...)
}

// ===== HELPERS =====

var testTokenAuth = jwtauth.New("HS256", []byte("test-secret"), nil)

func contextFor(t *testing.T, employeeID string, role employee.Role) context.Context {
	t.Helper()
	token, _, err := testTokenAuth.Encode(map[string]interface{}{
		"user_id": employeeID,
		"role":    string(role),
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// uuid-shaped ids so assignment validation passes.
func employeeUUID(n byte) string {
	return fmt.Sprintf("018f6b0a-0000-7000-8000-%012d", n)
}

func strPtr(s string) *string {
	return &s
}

func scheduledShift(id, title string, startsAt time.Time, endsAt *time.Time) schedule.ScheduledShift {
	return schedule.ScheduledShift{
		ID:           id,
		Title:        title,
		JobType:      schedule.JobTypeEvent,
		LocationName: "Grand Hall",
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		Status:       schedule.StatusConfirmed,
		CreatedBy:    "admin-1",
	}
}

type serviceFixture struct {
	scheduled *fakeScheduledShiftRepo
	assigns   *fakeAssignmentRepo
	employees *fakeEmployeeRepo
	auditRec  *recordingAudit
	emails    *recordingEmail
	hub       *sse.Hub
	svc       schedule.ScheduleService
}

func newFixture(employeeIDs ...string) *serviceFixture {
	f := &serviceFixture{
		scheduled: newFakeScheduledShiftRepo(),
		assigns:   newFakeAssignmentRepo(),
		employees: newFakeEmployeeRepo(employeeIDs...),
		auditRec:  &recordingAudit{},
		emails:    &recordingEmail{},
		hub:       sse.NewHub(),
	}
	f.svc = NewScheduleService(f.scheduled, f.assigns, f.employees, f.auditRec, f.emails, f.hub)
	return f
}

// ===== CREATE =====

func TestScheduleService_CreateScheduledShift_Success(t *testing.T) {
	f := newFixture()
	startsAt := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	endsAt := startsAt.Add(6 * time.Hour)

	resp, err := f.svc.CreateScheduledShift(context.Background(), "admin-1", schedule.CreateScheduledShiftRequest{
		Title:        "Spring Gala",
		JobType:      "setup",
		LocationName: "Grand Hall",
		StartsAt:     startsAt.Format(time.RFC3339),
		EndsAt:       strPtr(endsAt.Format(time.RFC3339)),
	})

	require.NoError(t, err)
	assert.Equal(t, "Spring Gala", resp.Title)
	assert.Equal(t, "setup", resp.JobType)
	assert.Equal(t, "draft", resp.Status)
	assert.True(t, resp.Upcoming)
	assert.Equal(t, startsAt.Format(time.RFC3339), resp.StartsAt)
	require.NotNil(t, resp.EndsAt)
	assert.Equal(t, endsAt.Format(time.RFC3339), *resp.EndsAt)
	assert.NotNil(t, resp.Assignees)
	assert.Empty(t, resp.Assignees)

	require.Len(t, f.auditRec.entries, 1)
	assert.Equal(t, audit.ActionScheduleCreated, f.auditRec.entries[0].Action)
	assert.Equal(t, "admin-1", f.auditRec.entries[0].ActorID)
}

func TestScheduleService_CreateScheduledShift_EndBeforeStartRejected(t *testing.T) {
	f := newFixture()
	startsAt := time.Now().Add(48 * time.Hour).UTC()
	endsAt := startsAt.Add(-time.Hour)

	_, err := f.svc.CreateScheduledShift(context.Background(), "admin-1", schedule.CreateScheduledShiftRequest{
		Title:        "Spring Gala",
		JobType:      "event",
		LocationName: "Grand Hall",
		StartsAt:     startsAt.Format(time.RFC3339),
		EndsAt:       strPtr(endsAt.Format(time.RFC3339)),
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "ends_at", verrs[0].Field)
	assert.Empty(t, f.scheduled.shifts)
}

// ===== GET / LIST =====

func TestScheduleService_GetScheduledShift_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetScheduledShift(context.Background(), "missing")

	assert.ErrorIs(t, err, schedule.ErrScheduledShiftNotFound)
}

func TestScheduleService_ListScheduledShifts_PartitionsByEffectiveEnd(t *testing.T) {
	f := newFixture()
	now := time.Now()

	// Started already but still running: upcoming by its end time.
	runningEnd := now.Add(time.Hour)
	f.scheduled.add(scheduledShift("running", "Running", now.Add(-3*time.Hour), &runningEnd))
	// Not started yet, no end recorded.
	f.scheduled.add(scheduledShift("future", "Future", now.Add(2*time.Hour), nil))
	// Over two hours ago.
	olderEnd := now.Add(-2 * time.Hour)
	f.scheduled.add(scheduledShift("older", "Older", now.Add(-5*time.Hour), &olderEnd))
	// No end; its start is the effective end, one hour ago.
	f.scheduled.add(scheduledShift("recent", "Recent", now.Add(-time.Hour), nil))

	resp, err := f.svc.ListScheduledShifts(context.Background(), schedule.ScheduleFilter{})

	require.NoError(t, err)
	require.Len(t, resp.Upcoming, 2)
	assert.Equal(t, "running", resp.Upcoming[0].ID)
	assert.Equal(t, "future", resp.Upcoming[1].ID)
	assert.True(t, resp.Upcoming[0].Upcoming)

	// Most recently ended first.
	require.Len(t, resp.Past, 2)
	assert.Equal(t, "recent", resp.Past[0].ID)
	assert.Equal(t, "older", resp.Past[1].ID)
	assert.False(t, resp.Past[0].Upcoming)
}

func TestScheduleService_ListScheduledShifts_ScopeLeavesOtherSideEmpty(t *testing.T) {
	f := newFixture()
	now := time.Now()
	f.scheduled.add(scheduledShift("future", "Future", now.Add(2*time.Hour), nil))
	f.scheduled.add(scheduledShift("gone", "Gone", now.Add(-2*time.Hour), nil))

	upcoming, err := f.svc.ListScheduledShifts(context.Background(), schedule.ScheduleFilter{Scope: schedule.ScopeUpcoming})
	require.NoError(t, err)
	assert.Len(t, upcoming.Upcoming, 1)
	require.NotNil(t, upcoming.Past)
	assert.Empty(t, upcoming.Past)

	past, err := f.svc.ListScheduledShifts(context.Background(), schedule.ScheduleFilter{Scope: schedule.ScopePast})
	require.NoError(t, err)
	assert.Len(t, past.Past, 1)
	require.NotNil(t, past.Upcoming)
	assert.Empty(t, past.Upcoming)
}

func TestScheduleService_ListScheduledShifts_AttachesAssignees(t *testing.T) {
	crewA, crewB := employeeUUID(1), employeeUUID(2)
	f := newFixture(crewA, crewB)
	now := time.Now()
	f.scheduled.add(scheduledShift("staffed", "Staffed", now.Add(2*time.Hour), nil))
	f.assigns.seed("staffed", crewA, crewB)

	resp, err := f.svc.ListScheduledShifts(context.Background(), schedule.ScheduleFilter{})

	require.NoError(t, err)
	require.Len(t, resp.Upcoming, 1)
	require.Len(t, resp.Upcoming[0].Assignees, 2)
	assert.Equal(t, crewA, resp.Upcoming[0].Assignees[0].EmployeeID)
	assert.Equal(t, "Crew "+crewA, resp.Upcoming[0].Assignees[0].FullName)
}

// ===== UPDATE =====

func TestScheduleService_UpdateScheduledShift_ClearsEndTime(t *testing.T) {
	f := newFixture()
	startsAt := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	endsAt := startsAt.Add(4 * time.Hour)
	f.scheduled.add(scheduledShift("open-ended", "Open", startsAt, &endsAt))

	resp, err := f.svc.UpdateScheduledShift(contextFor(t, "admin-1", employee.RoleAdmin), "open-ended", schedule.UpdateScheduledShiftRequest{
		EndsAt: strPtr(""),
	})

	require.NoError(t, err)
	assert.Nil(t, resp.EndsAt)
	assert.Equal(t, "Open", resp.Title)
	assert.Nil(t, f.scheduled.shifts["open-ended"].EndsAt)
}

func TestScheduleService_UpdateScheduledShift_RejectsEndNotAfterMergedStart(t *testing.T) {
	f := newFixture()
	startsAt := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	endsAt := startsAt.Add(4 * time.Hour)
	f.scheduled.add(scheduledShift("windowed", "Windowed", startsAt, &endsAt))

	// Pushing the start past the kept end leaves an inverted window.
	newStart := endsAt.Add(time.Hour)
	_, err := f.svc.UpdateScheduledShift(contextFor(t, "admin-1", employee.RoleAdmin), "windowed", schedule.UpdateScheduledShiftRequest{
		StartsAt: strPtr(newStart.Format(time.RFC3339)),
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "ends_at", verrs[0].Field)
	assert.Equal(t, startsAt, f.scheduled.shifts["windowed"].StartsAt)
}

func TestScheduleService_UpdateScheduledShift_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateScheduledShift(contextFor(t, "admin-1", employee.RoleAdmin), "missing", schedule.UpdateScheduledShiftRequest{
		Title: strPtr("Renamed"),
	})

	assert.ErrorIs(t, err, schedule.ErrScheduledShiftNotFound)
}

// ===== DELETE =====

func TestScheduleService_DeleteScheduledShift_Success(t *testing.T) {
	f := newFixture()
	f.scheduled.add(scheduledShift("doomed", "Doomed", time.Now().Add(time.Hour), nil))

	err := f.svc.DeleteScheduledShift(contextFor(t, "admin-1", employee.RoleAdmin), "doomed")

	require.NoError(t, err)
	assert.Empty(t, f.scheduled.shifts)
	require.Len(t, f.auditRec.entries, 1)
	assert.Equal(t, audit.ActionScheduleDeleted, f.auditRec.entries[0].Action)
}

func TestScheduleService_DeleteScheduledShift_NotFound(t *testing.T) {
	f := newFixture()

	err := f.svc.DeleteScheduledShift(contextFor(t, "admin-1", employee.RoleAdmin), "missing")

	assert.ErrorIs(t, err, schedule.ErrScheduledShiftNotFound)
}

func TestScheduleService_DeletePastShifts_DeletesEachAndReportsFailures(t *testing.T) {
	f := newFixture()
	now := time.Now()
	f.scheduled.add(scheduledShift("past-1", "Past 1", now.Add(-4*time.Hour), nil))
	f.scheduled.add(scheduledShift("past-2", "Past 2", now.Add(-2*time.Hour), nil))
	f.scheduled.add(scheduledShift("future", "Future", now.Add(2*time.Hour), nil))
	f.scheduled.failDelete["past-2"] = true

	result, err := f.svc.DeletePastShifts(contextFor(t, "admin-1", employee.RoleAdmin))

	require.NoError(t, err)
	assert.Equal(t, 1, result.DeletedCount)
	assert.Equal(t, []string{"past-2"}, result.FailedIDs)

	_, stillThere := f.scheduled.shifts["past-2"]
	assert.True(t, stillThere)
	_, futureKept := f.scheduled.shifts["future"]
	assert.True(t, futureKept)
}

// ===== ASSIGNMENTS =====

func TestScheduleService_SetAssignees_AppliesOnlyTheDiff(t *testing.T) {
	keep, drop, join := employeeUUID(1), employeeUUID(2), employeeUUID(3)
	f := newFixture(keep, drop, join)
	f.scheduled.add(scheduledShift("staffed", "Staffed", time.Now().Add(time.Hour), nil))
	f.assigns.seed("staffed", keep, drop)

	roster, err := f.svc.SetAssignees(contextFor(t, "admin-1", employee.RoleAdmin), "staffed", schedule.AssignmentRequest{
		EmployeeIDs: []string{keep, join},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, f.assigns.addCalls)
	assert.Equal(t, []string{join}, f.assigns.lastAdded)
	assert.Equal(t, "admin-1", f.assigns.lastAssignedBy)
	assert.Equal(t, 1, f.assigns.removeCalls)
	assert.Equal(t, []string{drop}, f.assigns.lastRemoved)

	ids := make([]string, 0, len(roster))
	for _, a := range roster {
		ids = append(ids, a.EmployeeID)
	}
	assert.ElementsMatch(t, []string{keep, join}, ids)
}

func TestScheduleService_SetAssignees_NoOpWhenRosterMatches(t *testing.T) {
	crewA, crewB := employeeUUID(1), employeeUUID(2)
	f := newFixture(crewA, crewB)
	f.scheduled.add(scheduledShift("staffed", "Staffed", time.Now().Add(time.Hour), nil))
	f.assigns.seed("staffed", crewA, crewB)

	// The duplicate id collapses before the diff, so nothing changes.
	roster, err := f.svc.SetAssignees(contextFor(t, "admin-1", employee.RoleAdmin), "staffed", schedule.AssignmentRequest{
		EmployeeIDs: []string{crewA, crewB, crewA},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, f.assigns.addCalls)
	assert.Equal(t, 0, f.assigns.removeCalls)
	assert.Len(t, roster, 2)
	assert.Empty(t, f.auditRec.entries)
}

func TestScheduleService_SetAssignees_UnknownEmployeeRejected(t *testing.T) {
	known := employeeUUID(1)
	f := newFixture(known)
	f.scheduled.add(scheduledShift("staffed", "Staffed", time.Now().Add(time.Hour), nil))

	_, err := f.svc.SetAssignees(contextFor(t, "admin-1", employee.RoleAdmin), "staffed", schedule.AssignmentRequest{
		EmployeeIDs: []string{known, employeeUUID(9)},
	})

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.Equal(t, 0, f.assigns.addCalls)
	assert.Equal(t, 0, f.assigns.removeCalls)
}

func TestScheduleService_SetAssignees_EmailsOnlyNewAssignees(t *testing.T) {
	current, newcomer := employeeUUID(1), employeeUUID(2)
	f := newFixture(current, newcomer)
	f.scheduled.add(scheduledShift("staffed", "Staffed", time.Now().Add(time.Hour), nil))
	f.assigns.seed("staffed", current)

	_, err := f.svc.SetAssignees(contextFor(t, "admin-1", employee.RoleAdmin), "staffed", schedule.AssignmentRequest{
		EmployeeIDs: []string{current, newcomer},
	})

	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		got := f.emails.recipients()
		return len(got) == 1 && got[0] == newcomer+"@example.com"
	}, time.Second, 10*time.Millisecond)
}

func TestScheduleService_AddAssignees_PushesTargetedEvent(t *testing.T) {
	current, newcomer := employeeUUID(1), employeeUUID(2)
	f := newFixture(current, newcomer)
	f.scheduled.add(scheduledShift("staffed", "Staffed", time.Now().Add(time.Hour), nil))
	f.assigns.seed("staffed", current)

	events, cleanup := f.hub.Subscribe(newcomer)
	defer cleanup()

	_, err := f.svc.AddAssignees(contextFor(t, "admin-1", employee.RoleAdmin), "staffed", schedule.AssignmentRequest{
		EmployeeIDs: []string{newcomer},
	})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, "shift_assigned", ev.Event)
		notif, ok := ev.Data.(schedule.AssignmentNotification)
		require.True(t, ok)
		assert.Equal(t, "staffed", notif.ScheduledShiftID)
	default:
		t.Fatal("expected a shift_assigned event for the new assignee")
	}
}

func TestScheduleService_AddAssignees_DuplicateIsConflict(t *testing.T) {
	current := employeeUUID(1)
	f := newFixture(current)
	f.scheduled.add(scheduledShift("staffed", "Staffed", time.Now().Add(time.Hour), nil))
	f.assigns.seed("staffed", current)

	_, err := f.svc.AddAssignees(contextFor(t, "admin-1", employee.RoleAdmin), "staffed", schedule.AssignmentRequest{
		EmployeeIDs: []string{current},
	})

	assert.ErrorIs(t, err, schedule.ErrDuplicateAssignee)
	assert.Equal(t, 0, f.assigns.addCalls)
}

func TestScheduleService_AddAssignees_AppendsWithoutRemoving(t *testing.T) {
	current, extra := employeeUUID(1), employeeUUID(2)
	f := newFixture(current, extra)
	f.scheduled.add(scheduledShift("staffed", "Staffed", time.Now().Add(time.Hour), nil))
	f.assigns.seed("staffed", current)

	roster, err := f.svc.AddAssignees(contextFor(t, "admin-1", employee.RoleAdmin), "staffed", schedule.AssignmentRequest{
		EmployeeIDs: []string{extra},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, f.assigns.removeCalls)
	assert.Len(t, roster, 2)
}

func TestScheduleService_RemoveAssignees_RemovesOnly(t *testing.T) {
	stay, leave := employeeUUID(1), employeeUUID(2)
	f := newFixture(stay, leave)
	f.scheduled.add(scheduledShift("staffed", "Staffed", time.Now().Add(time.Hour), nil))
	f.assigns.seed("staffed", stay, leave)

	roster, err := f.svc.RemoveAssignees(contextFor(t, "admin-1", employee.RoleAdmin), "staffed", schedule.AssignmentRequest{
		EmployeeIDs: []string{leave},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, f.assigns.addCalls)
	require.Len(t, roster, 1)
	assert.Equal(t, stay, roster[0].EmployeeID)

	require.Len(t, f.auditRec.entries, 1)
	assert.Equal(t, audit.ActionCrewUnassigned, f.auditRec.entries[0].Action)
}

// ===== MY SCHEDULE =====

func TestScheduleService_MySchedule_TeammatesExcludeSelf(t *testing.T) {
	self, mate := employeeUUID(1), employeeUUID(2)
	f := newFixture(self, mate)
	now := time.Now()
	f.scheduled.add(scheduledShift("together", "Together", now.Add(2*time.Hour), nil))
	f.scheduled.add(scheduledShift("finished", "Finished", now.Add(-2*time.Hour), nil))
	f.scheduled.assignedTo[self] = []string{"together", "finished"}
	f.assigns.seed("together", self, mate)
	f.assigns.seed("finished", self)

	resp, err := f.svc.MySchedule(context.Background(), self)

	require.NoError(t, err)
	require.Len(t, resp.Upcoming, 1)
	assert.Equal(t, "together", resp.Upcoming[0].ID)
	require.Len(t, resp.Upcoming[0].Teammates, 1)
	assert.Equal(t, mate, resp.Upcoming[0].Teammates[0].EmployeeID)

	require.Len(t, resp.Past, 1)
	assert.Empty(t, resp.Past[0].Teammates)
}

// ===== PARTITION SWEEP =====

func TestScheduleService_PublishPartitionChanges_BroadcastsOnlyCrossedShifts(t *testing.T) {
	f := newFixture()
	crossedEnd := time.Now().Add(-time.Minute)
	crossed := scheduledShift("crossed", "Crossed", crossedEnd.Add(-4*time.Hour), &crossedEnd)
	f.scheduled.crossing = [][]schedule.ScheduledShift{{crossed}}

	events, cleanup := f.hub.Subscribe("viewer-1")
	defer cleanup()

	require.NoError(t, f.svc.PublishPartitionChanges(context.Background()))

	select {
	case ev := <-events:
		assert.Equal(t, "schedule_partition_changed", ev.Event)
		payload, ok := ev.Data.(schedule.PartitionChangeEvent)
		require.True(t, ok)
		assert.Equal(t, []string{"crossed"}, payload.ShiftIDs)
	case <-time.After(time.Second):
		t.Fatal("expected a partition change event")
	}

	// Nothing crossed since the last sweep, so nothing is broadcast.
	require.NoError(t, f.svc.PublishPartitionChanges(context.Background()))

	select {
	case ev := <-events:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}

	// Consecutive sweeps tile the timeline with no gap.
	require.Len(t, f.scheduled.sweepWindows, 2)
	assert.Equal(t, f.scheduled.sweepWindows[0].to, f.scheduled.sweepWindows[1].from)
}
