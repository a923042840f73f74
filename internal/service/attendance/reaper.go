package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/communication"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/sse"
)

// ReaperOptions configures retries of transient store failures during a sweep.
type ReaperOptions struct {
	Options
	MaxRetries  int
	BaseBackoff time.Duration
	Notifier    communication.Notifier
}

type StaleSessionReaperImpl struct {
	attendance.SessionRepository
	loc         *time.Location
	clock       clock.Clock
	events      EventPublisher
	notifier    communication.Notifier
	maxRetries  int
	baseBackoff time.Duration
}

func NewStaleSessionReaper(sessionRepo attendance.SessionRepository, opts ReaperOptions) attendance.StaleSessionReaper {
	base := opts.Options.withDefaults()
	notifier := opts.Notifier
	if notifier == nil {
		notifier = communication.Nop{}
	}
	backoff := opts.BaseBackoff
	if backoff <= 0 {
		backoff = time.Second
	}
	return &StaleSessionReaperImpl{
		SessionRepository: sessionRepo,
		loc:               base.Location,
		clock:             base.Clock,
		events:            base.Events,
		notifier:          notifier,
		maxRetries:        opts.MaxRetries,
		baseBackoff:       backoff,
	}
}

// VoidStaleSessions implements attendance.StaleSessionReaper.
// Each stale session is voided by its own conditional update, so a failure on one
// session neither rolls back nor blocks the others, and the next sweep picks it up again.
func (r *StaleSessionReaperImpl) VoidStaleSessions(ctx context.Context) (attendance.SweepResult, error) {
	now := r.clock.Now()
	today := clock.DateOf(now, r.loc)
	result := attendance.SweepResult{Before: today}

	var stale []attendance.Session
	err := r.retry(ctx, "list stale sessions", func() error {
		var err error
		stale, err = r.SessionRepository.ListStaleOpen(ctx, today)
		return err
	})
	if err != nil {
		r.notifyError(ctx, fmt.Sprintf("Stale session sweep for %s could not list sessions: %v", today, err))
		return result, fmt.Errorf("failed to list stale sessions: %w", err)
	}

	result.Scanned = len(stale)
	if result.Scanned == 0 {
		slog.Info("No stale sessions found", "before", today)
		return result, nil
	}

	for _, session := range stale {
		var voided bool
		err := r.retry(ctx, "void session", func() error {
			var err error
			voided, err = r.SessionRepository.Void(ctx, session.ID, now)
			return err
		})
		switch {
		case err != nil:
			result.Failed++
			slog.Error("Failed to void stale session",
				"session_id", session.ID,
				"user_id", session.UserID,
				"date", session.CalendarDate,
				"error", err,
			)
		case voided:
			result.Voided++
		default:
			// Closed or voided by someone else between listing and updating.
			result.Skipped++
		}
	}

	slog.Info("Stale session sweep finished",
		"before", today,
		"scanned", result.Scanned,
		"voided", result.Voided,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	if r.events != nil {
		r.events.PublishToMany([]string{sse.DashboardTopic}, sse.Event{Event: EventSweep, Data: result})
	}

	if result.Failed > 0 {
		err := fmt.Errorf("%d of %d stale sessions could not be voided", result.Failed, result.Scanned)
		r.notifyError(ctx, fmt.Sprintf("Stale session sweep for %s: %v", today, err))
		return result, err
	}

	r.notifyInfo(ctx, fmt.Sprintf("Stale session sweep for %s voided %d of %d open sessions", today, result.Voided, result.Scanned))
	return result, nil
}

// retry re-runs fn while it fails with attendance.ErrStoreUnavailable, doubling the wait each time.
func (r *StaleSessionReaperImpl) retry(ctx context.Context, op string, fn func() error) error {
	backoff := r.baseBackoff
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !errors.Is(err, attendance.ErrStoreUnavailable) || attempt >= r.maxRetries {
			return err
		}

		slog.Warn("Attendance store unavailable, retrying", "op", op, "attempt", attempt+1, "backoff", backoff, "error", err)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-timer.C:
		}
		backoff *= 2
	}
}

func (r *StaleSessionReaperImpl) notifyInfo(ctx context.Context, message string) {
	if err := r.notifier.Info(ctx, message); err != nil {
		slog.Warn("Failed to send sweep notification", "error", err)
	}
}

func (r *StaleSessionReaperImpl) notifyError(ctx context.Context, message string) {
	if err := r.notifier.Error(ctx, message); err != nil {
		slog.Warn("Failed to send sweep notification", "error", err)
	}
}
