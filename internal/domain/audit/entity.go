package audit

import "time"

// Action identifies what an audit entry records.
type Action string

const (
	ActionShiftLogged      Action = "shift_logged"
	ActionShiftUpdated     Action = "shift_updated"
	ActionShiftDeleted     Action = "shift_deleted"
	ActionShiftPaid        Action = "shift_paid"
	ActionShiftUnpaid      Action = "shift_unpaid"
	ActionBulkSettled      Action = "bulk_settled"
	ActionScheduleCreated  Action = "schedule_created"
	ActionScheduleUpdated  Action = "schedule_updated"
	ActionScheduleDeleted  Action = "schedule_deleted"
	ActionCrewAssigned     Action = "crew_assigned"
	ActionCrewUnassigned   Action = "crew_unassigned"
	ActionEmployeeCreated  Action = "employee_created"
	ActionEmployeeUpdated  Action = "employee_updated"
	ActionLogin            Action = "login"
	ActionLogout           Action = "logout"
)

// AuditTrail is one recorded admin or employee action.
type AuditTrail struct {
	ID         string
	ActorID    string
	Action     Action
	EntityType string
	EntityID   *string
	Detail     map[string]interface{}
	CreatedAt  time.Time

	// DTO fields (populated by JOIN queries)
	ActorName *string
}
