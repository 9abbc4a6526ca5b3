package cron

import (
	"context"
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/domain/schedule"
)

// ScheduleJobs contains scheduled-shift related cron jobs
type ScheduleJobs struct {
	scheduleService schedule.ScheduleService
}

// NewScheduleJobs creates scheduled-shift cron jobs
func NewScheduleJobs(scheduleService schedule.ScheduleService) *ScheduleJobs {
	return &ScheduleJobs{
		scheduleService: scheduleService,
	}
}

// RegisterJobs registers all scheduled-shift cron jobs
func (j *ScheduleJobs) RegisterJobs(scheduler *Scheduler) {
	// Re-derive the upcoming/past partition every minute so shifts migrate
	// to past without clients having to reload.
	scheduler.AddJob(
		"scheduled_shift_partition",
		1*time.Minute,
		j.PublishPartitionChanges,
	)
}

// PublishPartitionChanges notifies subscribers about shifts that moved from
// upcoming to past since the previous tick.
func (j *ScheduleJobs) PublishPartitionChanges(ctx context.Context) error {
	return j.scheduleService.PublishPartitionChanges(ctx)
}
