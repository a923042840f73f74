package report

import (
	"fmt"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// Placeholder fills report cells that have no value.
const Placeholder = "-"

// Day statuses that are not derived from a session.
const (
	StatusPresent        = "Present"
	StatusPresentRunning = "Present (Running)"
	StatusWeekOff        = "Week Off"
	StatusAbsent         = "Absent"
	leaveStatusFormat    = "Leave (%s)"
)

// LeaveStatus renders the day status of an approved leave.
func LeaveStatus(leaveType string) string {
	return fmt.Sprintf(leaveStatusFormat, leaveType)
}

// MinYear is the earliest year a consolidated report accepts.
const MinYear = 2000

type MonthlyReportRequest struct {
	UserID string
	Month  int
	Year   int
}

// Validate checks required fields. Month and year bounds are checked by the builder
// because they depend on the reference clock.
func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors
	errs.Required("user_id", r.UserID)
	return errs.Err()
}

// DayRow is one calendar day of a consolidated report. Times are RFC 3339 or "-".
type DayRow struct {
	Date     string `json:"date"`
	Day      string `json:"day"`
	Status   string `json:"status"`
	ClockIn  string `json:"clock_in"`
	ClockOut string `json:"clock_out"`
	Duration string `json:"duration"`
}

type MonthlyReport struct {
	UserID      string   `json:"user_id"`
	UserName    string   `json:"user_name,omitempty"`
	PeriodMonth int      `json:"period_month"`
	PeriodYear  int      `json:"period_year"`
	PeriodStart string   `json:"period_start"`
	PeriodEnd   string   `json:"period_end"`
	GeneratedAt string   `json:"generated_at"`
	Days        []DayRow `json:"days"`
}

// UserRow is a DayRow for today attributed to a directory user.
type UserRow struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	DayRow
}

type DashboardStats struct {
	TotalEmployees int `json:"total_employees"`
	PresentToday   int `json:"present_today"`
	OnLeaveToday   int `json:"on_leave_today"`
	AbsentToday    int `json:"absent_today"`
}

type TodaySummary struct {
	Date           string         `json:"date"`
	Rows           []UserRow      `json:"rows"`
	DashboardStats DashboardStats `json:"dashboard_stats"`
}
