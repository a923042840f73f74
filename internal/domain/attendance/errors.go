package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyClockedIn = errors.New("already clocked in for today")
	ErrNoOpenSession    = errors.New("no open session found for today")
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrStoreUnavailable marks transient storage failures. Callers may retry.
	ErrStoreUnavailable = errors.New("attendance store unavailable")
)
