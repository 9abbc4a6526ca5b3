package schedule

import "context"

type ScheduleService interface {
	// Scheduled Shift
	CreateScheduledShift(ctx context.Context, createdBy string, req CreateScheduledShiftRequest) (ScheduledShiftResponse, error)
	GetScheduledShift(ctx context.Context, id string) (ScheduledShiftResponse, error)
	ListScheduledShifts(ctx context.Context, filter ScheduleFilter) (ScheduleListResponse, error)
	UpdateScheduledShift(ctx context.Context, id string, req UpdateScheduledShiftRequest) (ScheduledShiftResponse, error)
	DeleteScheduledShift(ctx context.Context, id string) error

	// DeletePastShifts removes every shift already on the past side,
	// deleting one at a time and reporting partial failures.
	DeletePastShifts(ctx context.Context) (DeletePastResult, error)

	// Assignment
	GetAssignees(ctx context.Context, scheduledShiftID string) ([]AssigneeResponse, error)
	// SetAssignees reconciles the shift's roster to exactly the given set,
	// adding and removing only the difference.
	SetAssignees(ctx context.Context, scheduledShiftID string, req AssignmentRequest) ([]AssigneeResponse, error)
	AddAssignees(ctx context.Context, scheduledShiftID string, req AssignmentRequest) ([]AssigneeResponse, error)
	RemoveAssignees(ctx context.Context, scheduledShiftID string, req AssignmentRequest) ([]AssigneeResponse, error)

	// MySchedule returns the calling employee's assigned shifts, partitioned,
	// with teammates listed per shift.
	MySchedule(ctx context.Context, employeeID string) (MyScheduleResponse, error)

	// PublishPartitionChanges sweeps for shifts that crossed from upcoming to
	// past since the previous sweep and notifies connected clients.
	PublishPartitionChanges(ctx context.Context) error
}
