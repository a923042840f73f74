package attendance

import (
	"context"
	"time"
)

// SessionRepository is the durable session store. Create, Close and Void are the only writes
// and each must be atomic on its own.
type SessionRepository interface {
	// Create persists a new open session, failing with ErrAlreadyClockedIn when the user
	// already holds an open session for the same calendar date.
	Create(ctx context.Context, session Session) (Session, error)

	// Close claims the most recently opened open session for the user and date and closes it.
	// Returns ErrNoOpenSession when there is nothing left to claim.
	Close(ctx context.Context, userID string, calendarDate string, clockOut time.Time, policy CompletionPolicy) (Session, error)

	// Void resolves the session only if it is still open. Reports whether this call voided it.
	Void(ctx context.Context, id string, at time.Time) (bool, error)

	// ListByUserAndRange returns sessions with from <= calendar_date <= to ordered by clock-in.
	ListByUserAndRange(ctx context.Context, userID string, from string, to string) ([]Session, error)

	// ListByDate returns every session of a calendar date ordered by clock-in.
	ListByDate(ctx context.Context, calendarDate string) ([]Session, error)

	// ListStaleOpen returns open sessions whose calendar date is before the given date.
	ListStaleOpen(ctx context.Context, before string) ([]Session, error)

	// List returns sessions ordered by calendar date then clock-in, newest first.
	List(ctx context.Context, filter SessionFilter) ([]Session, error)
}
