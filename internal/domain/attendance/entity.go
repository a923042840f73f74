package attendance

import (
	"time"
)

type WorkLocation string

const (
	WorkLocationOffice WorkLocation = "Office"
	WorkLocationHome   WorkLocation = "Home"
)

func (w WorkLocation) IsValid() bool {
	return w == WorkLocationOffice || w == WorkLocationHome
}

// Status is the credit a session earns, independent of whether it is still open.
type Status string

const (
	StatusPresent Status = "Present"
	StatusHalfDay Status = "Half Day"
	StatusAbsent  Status = "Absent"
)

// State is the session lifecycle: open -> closed, or open -> voided. Both ends are terminal.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
	StateVoided State = "voided"
)

type Session struct {
	ID              string
	UserID          string
	CalendarDate    string
	ClockIn         time.Time
	ClockOut        *time.Time
	DurationMinutes *int
	WorkLocation    WorkLocation
	Status          Status
	State           State
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (s Session) IsOpen() bool {
	return s.State == StateOpen
}

// Close moves an open session to closed at clockOut using policy for the credit.
func (s *Session) Close(clockOut time.Time, policy CompletionPolicy) {
	minutes := DurationMinutes(s.ClockIn, clockOut)
	s.ClockOut = &clockOut
	s.DurationMinutes = &minutes
	s.Status = policy.StatusFor(minutes)
	s.State = StateClosed
	s.UpdatedAt = clockOut
}

// Void resolves an abandoned open session. ClockOut stays unset.
func (s *Session) Void(at time.Time) {
	zero := 0
	s.ClockOut = nil
	s.DurationMinutes = &zero
	s.Status = StatusAbsent
	s.State = StateVoided
	s.UpdatedAt = at
}

// DurationMinutes is the whole number of minutes between clock-in and clock-out, floored.
func DurationMinutes(clockIn, clockOut time.Time) int {
	d := clockOut.Sub(clockIn)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// CompletionPolicy decides the status of a session at clock-out.
// A zero HalfDayThresholdMinutes keeps every closed session Present.
type CompletionPolicy struct {
	HalfDayThresholdMinutes int
}

func (p CompletionPolicy) StatusFor(durationMinutes int) Status {
	if p.HalfDayThresholdMinutes > 0 && durationMinutes < p.HalfDayThresholdMinutes {
		return StatusHalfDay
	}
	return StatusPresent
}

// SweepResult reports one pass of the stale session sweep.
type SweepResult struct {
	Before  string
	Scanned int
	Voided  int
	Skipped int
	Failed  int
}
