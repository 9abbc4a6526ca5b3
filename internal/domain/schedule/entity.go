package schedule

import "time"

type JobType string

const (
	JobTypeSetup     JobType = "setup"
	JobTypeEvent     JobType = "event"
	JobTypeBreakdown JobType = "breakdown"
	JobTypeOther     JobType = "other"
)

var JobTypeValues = []string{
	string(JobTypeSetup),
	string(JobTypeEvent),
	string(JobTypeBreakdown),
	string(JobTypeOther),
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusChanged   Status = "changed"
)

var StatusValues = []string{
	string(StatusDraft),
	string(StatusConfirmed),
	string(StatusChanged),
}

type ScheduledShift struct {
	ID           string
	Title        string
	JobType      JobType
	LocationName string
	Address      *string
	StartsAt     time.Time
	EndsAt       *time.Time
	Notes        *string
	Status       Status
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsUpcoming reports whether the shift still counts as upcoming at the given
// instant. A shift with an end time stays upcoming until the end passes; one
// without stays upcoming until its start passes. The boundary itself is
// upcoming.
func (s ScheduledShift) IsUpcoming(now time.Time) bool {
	if s.EndsAt != nil {
		return !s.EndsAt.Before(now)
	}
	return !s.StartsAt.Before(now)
}

// EffectiveEnd is the instant a shift is ordered by once it has passed: the
// end when present, else the start.
func (s ScheduledShift) EffectiveEnd() time.Time {
	if s.EndsAt != nil {
		return *s.EndsAt
	}
	return s.StartsAt
}

type Assignment struct {
	ID               string
	ScheduledShiftID string
	EmployeeID       string
	AssignedBy       string
	CreatedAt        time.Time

	// DTO fields (populated by JOIN queries)
	EmployeeName *string
}
