package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/clock"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Location *time.Location
	Clock    clock.Clock
	// WeekOff lists the weekdays rendered as "Week Off". Nil means Sunday; an empty
	// slice means no week-off days.
	WeekOff []time.Weekday
}

type ReportServiceImpl struct {
	attendance.SessionRepository
	leaves  leave.Store
	users   user.Directory
	loc     *time.Location
	clock   clock.Clock
	weekOff map[time.Weekday]bool
}

func NewReportService(
	sessionRepo attendance.SessionRepository,
	leaves leave.Store,
	users user.Directory,
	opts Options,
) report.ReportService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Clock == nil {
		opts.Clock = clock.System
	}
	if opts.WeekOff == nil {
		opts.WeekOff = []time.Weekday{time.Sunday}
	}

	weekOff := make(map[time.Weekday]bool, len(opts.WeekOff))
	for _, d := range opts.WeekOff {
		weekOff[d] = true
	}

	return &ReportServiceImpl{
		SessionRepository: sessionRepo,
		leaves:            leaves,
		users:             users,
		loc:               opts.Location,
		clock:             opts.Clock,
		weekOff:           weekOff,
	}
}

// MonthlyReport implements report.ReportService.
func (s *ReportServiceImpl) MonthlyReport(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlyReport, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyReport{}, err
	}

	now := s.clock.Now().In(s.loc)
	if req.Month < 1 || req.Month > 12 {
		return report.MonthlyReport{}, fmt.Errorf("%w: month %d is not between 1 and 12", attendance.ErrInvalidDateRange, req.Month)
	}
	if req.Year < report.MinYear || req.Year > now.Year()+1 {
		return report.MonthlyReport{}, fmt.Errorf("%w: year %d is not between %d and %d", attendance.ErrInvalidDateRange, req.Year, report.MinYear, now.Year()+1)
	}

	first := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	from, to := first.Format(clock.DateLayout), last.Format(clock.DateLayout)

	var (
		owner    user.User
		sessions []attendance.Session
		leaves   []leave.Interval
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u, err := s.users.GetByID(gCtx, req.UserID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		owner = u
		return nil
	})

	g.Go(func() error {
		list, err := s.SessionRepository.ListByUserAndRange(gCtx, req.UserID, from, to)
		if err != nil {
			return fmt.Errorf("failed to load sessions: %w", err)
		}
		sessions = list
		return nil
	})

	g.Go(func() error {
		userID := req.UserID
		list, err := s.leaves.ApprovedLeaves(gCtx, &userID, from, to)
		if err != nil {
			return fmt.Errorf("failed to load leaves: %w", err)
		}
		leaves = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return report.MonthlyReport{}, err
	}

	today := now.Format(clock.DateLayout)
	byDate := attendance.GroupByDate(sessions)

	days := make([]report.DayRow, 0, last.Day())
	for _, date := range clock.DatesBetween(first, last) {
		days = append(days, s.resolveDay(date, today, byDate[date], leaves))
	}

	slog.Debug("Monthly report built", "user_id", req.UserID, "month", req.Month, "year", req.Year, "sessions", len(sessions), "leaves", len(leaves))

	return report.MonthlyReport{
		UserID:      req.UserID,
		UserName:    owner.Name,
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		PeriodStart: from,
		PeriodEnd:   to,
		GeneratedAt: now.Format(time.RFC3339),
		Days:        days,
	}, nil
}

// TodaySummary implements report.ReportService.
func (s *ReportServiceImpl) TodaySummary(ctx context.Context) (report.TodaySummary, error) {
	today := clock.Today(s.clock, s.loc)

	var (
		users    []user.User
		sessions []attendance.Session
		leaves   []leave.Interval
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := s.users.ListActiveUsers(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		users = list
		return nil
	})

	g.Go(func() error {
		list, err := s.SessionRepository.ListByDate(gCtx, today)
		if err != nil {
			return fmt.Errorf("failed to load today's sessions: %w", err)
		}
		sessions = list
		return nil
	})

	g.Go(func() error {
		list, err := s.leaves.ApprovedLeaves(gCtx, nil, today, today)
		if err != nil {
			return fmt.Errorf("failed to load today's leaves: %w", err)
		}
		leaves = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return report.TodaySummary{}, err
	}

	byUser := make(map[string][]attendance.Session)
	for _, session := range sessions {
		byUser[session.UserID] = append(byUser[session.UserID], session)
	}
	leavesByUser := make(map[string][]leave.Interval)
	onLeave := 0
	for _, l := range leaves {
		leavesByUser[l.UserID] = append(leavesByUser[l.UserID], l)
		if l.Covers(today) {
			onLeave++
		}
	}

	rows := make([]report.UserRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, report.UserRow{
			UserID: u.ID,
			Name:   u.Name,
			Email:  u.Email,
			DayRow: s.resolveDay(today, today, byUser[u.ID], leavesByUser[u.ID]),
		})
	}

	// Present counts every user with a session today, listed or not.
	stats := report.DashboardStats{
		TotalEmployees: len(users),
		PresentToday:   len(byUser),
		OnLeaveToday:   onLeave,
	}
	// Leave is not subtracted here; existing dashboards depend on this arithmetic.
	stats.AbsentToday = max(0, stats.TotalEmployees-stats.PresentToday)

	return report.TodaySummary{
		Date:           today,
		Rows:           rows,
		DashboardStats: stats,
	}, nil
}

// resolveDay applies the row priority: attendance, approved leave, week off, past absence, unresolved.
func (s *ReportServiceImpl) resolveDay(date, today string, sessions []attendance.Session, leaves []leave.Interval) report.DayRow {
	row := report.DayRow{
		Date:     date,
		Status:   report.Placeholder,
		ClockIn:  report.Placeholder,
		ClockOut: report.Placeholder,
		Duration: report.Placeholder,
	}

	day, err := clock.ParseDate(date)
	if err == nil {
		row.Day = day.Weekday().String()
	}

	if summary := attendance.Summarize(date, sessions); summary != nil {
		row.Status = report.StatusPresent
		if summary.IsRunning {
			row.Status = report.StatusPresentRunning
		}
		row.Duration = attendance.FormatDuration(summary.TotalDurationMinutes)
		row.ClockIn = summary.FirstClockIn.In(s.loc).Format(time.RFC3339)
		if summary.LastClockOut != nil {
			row.ClockOut = summary.LastClockOut.In(s.loc).Format(time.RFC3339)
		}
		return row
	}

	for _, l := range leaves {
		if l.Covers(date) {
			row.Status = report.LeaveStatus(string(l.Type))
			return row
		}
	}

	if err == nil && s.weekOff[day.Weekday()] {
		row.Status = report.StatusWeekOff
		return row
	}

	if date < today {
		row.Status = report.StatusAbsent
		row.Duration = attendance.FormatDuration(0)
	}

	return row
}
