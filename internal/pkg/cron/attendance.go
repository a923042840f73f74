package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
)

// StaleSessionJobName is the name the sweep is registered under.
const StaleSessionJobName = "void_stale_sessions"

type AttendanceJobs struct {
	reaper   attendance.StaleSessionReaper
	schedule Schedule
}

func NewAttendanceJobs(reaper attendance.StaleSessionReaper, schedule Schedule) *AttendanceJobs {
	return &AttendanceJobs{
		reaper:   reaper,
		schedule: schedule,
	}
}

// RegisterJobs adds the daily sweep. It also runs once at startup so sessions
// left open while the process was down are voided without waiting a day.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:       StaleSessionJobName,
		Schedule:   j.schedule,
		RunOnStart: true,
		Fn:         j.VoidStaleSessions,
	})
}

func (j *AttendanceJobs) VoidStaleSessions(ctx context.Context) error {
	slog.Info("Cron: Starting void stale sessions job")

	result, err := j.reaper.VoidStaleSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to void stale sessions: %w", err)
	}

	slog.Info("Cron: Voided stale sessions", "before", result.Before, "count", result.Voided, "skipped", result.Skipped)
	return nil
}
