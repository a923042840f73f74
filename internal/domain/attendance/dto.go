package attendance

import (
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK DTOs
// ========================================

type ClockInRequest struct {
	UserID       string       `json:"-"`
	WorkLocation WorkLocation `json:"work_location"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	errs.Required("user_id", r.UserID)
	if r.WorkLocation != "" && !r.WorkLocation.IsValid() {
		errs.Add("work_location", "work_location must be one of: Office, Home")
	}

	return errs.Err()
}

type ClockOutRequest struct {
	UserID string `json:"-"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("user_id", r.UserID)
	return errs.Err()
}

type SessionResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	Date            string  `json:"date"`
	ClockIn         string  `json:"clock_in"`
	ClockOut        *string `json:"clock_out"`
	DurationMinutes *int    `json:"duration_minutes"`
	WorkLocation    string  `json:"work_location"`
	Status          string  `json:"status"`
	State           string  `json:"state"`
}

func NewSessionResponse(s Session) SessionResponse {
	var clockOut *string
	if s.ClockOut != nil {
		out := s.ClockOut.Format(time.RFC3339)
		clockOut = &out
	}
	return SessionResponse{
		ID:              s.ID,
		UserID:          s.UserID,
		Date:            s.CalendarDate,
		ClockIn:         s.ClockIn.Format(time.RFC3339),
		ClockOut:        clockOut,
		DurationMinutes: s.DurationMinutes,
		WorkLocation:    string(s.WorkLocation),
		Status:          string(s.Status),
		State:           string(s.State),
	}
}

// ========================================
// SUMMARY DTOs
// ========================================

type DailySummaryResponse struct {
	Date                 string  `json:"date"`
	FirstClockIn         *string `json:"first_clock_in"`
	LastClockOut         *string `json:"last_clock_out"`
	TotalDurationMinutes int     `json:"total_duration_minutes"`
	TotalDuration        string  `json:"total_duration"`
	IsRunning            bool    `json:"is_running"`
	Status               string  `json:"status"`
	SessionCount         int     `json:"session_count"`
	LiveElapsedMinutes   *int    `json:"live_elapsed_minutes,omitempty"`
}

// NewDailySummaryResponse renders a summary. now feeds the live counter of a running day.
func NewDailySummaryResponse(s DailySummary, now time.Time) DailySummaryResponse {
	resp := DailySummaryResponse{
		Date:                 s.Date,
		FirstClockIn:         formatTimePtr(s.FirstClockIn),
		LastClockOut:         formatTimePtr(s.LastClockOut),
		TotalDurationMinutes: s.TotalDurationMinutes,
		TotalDuration:        FormatDuration(s.TotalDurationMinutes),
		IsRunning:            s.IsRunning,
		Status:               string(s.Status),
		SessionCount:         s.SessionCount,
	}
	if s.IsRunning && s.OpenSession != nil {
		elapsed := LiveElapsedMinutes(*s.OpenSession, now)
		resp.LiveElapsedMinutes = &elapsed
	}
	return resp
}

type RangeSummaryResponse struct {
	UserID               string                 `json:"user_id"`
	From                 string                 `json:"from"`
	To                   string                 `json:"to"`
	TotalDurationMinutes int                    `json:"total_duration_minutes"`
	Days                 []DailySummaryResponse `json:"days"`
}

type RangeSummaryRequest struct {
	UserID string
	From   string
	To     string
}

// MaxRangeDays bounds a range summary request.
const MaxRangeDays = 366

func (r *RangeSummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	errs.Required("user_id", r.UserID)
	errs.Date("from", r.From)
	errs.Date("to", r.To)

	return errs.Err()
}

// ========================================
// LISTING DTOs
// ========================================

type SessionFilter struct {
	UserID    *string
	StartDate *string
	EndDate   *string
}

func (f *SessionFilter) Validate() error {
	var errs validator.ValidationErrors

	errs.OptionalDate("start_date", f.StartDate)
	errs.OptionalDate("end_date", f.EndDate)
	if err := errs.Err(); err != nil {
		return err
	}

	if f.StartDate != nil && f.EndDate != nil && *f.StartDate > *f.EndDate {
		return ErrInvalidDateRange
	}
	return nil
}

type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Total    int               `json:"total"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
