package attendance

import (
	"context"
)

// AttendanceService covers clock transitions and the read-side summaries built from sessions.
type AttendanceService interface {
	// ClockIn opens a session for today in the reference timezone
	ClockIn(ctx context.Context, req ClockInRequest) (SessionResponse, error)

	// ClockOut closes the user's open session for today
	ClockOut(ctx context.Context, req ClockOutRequest) (SessionResponse, error)

	// Today returns the user's summary for today, nil when the user has no session today
	Today(ctx context.Context, userID string) (*DailySummaryResponse, error)

	// History summarizes the last 30 days including today
	History(ctx context.Context, userID string) (RangeSummaryResponse, error)

	// RangeSummary returns one entry per date between from and to inclusive
	RangeSummary(ctx context.Context, req RangeSummaryRequest) (RangeSummaryResponse, error)

	// ListSessions returns raw sessions for administrators
	ListSessions(ctx context.Context, filter SessionFilter) (ListSessionsResponse, error)
}

// StaleSessionReaper voids sessions left open past their calendar day.
type StaleSessionReaper interface {
	VoidStaleSessions(ctx context.Context) (SweepResult, error)
}
