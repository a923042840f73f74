package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/sse"
)

// historyDays is the window of the history endpoint, today included.
const historyDays = 30

// Event names published to the SSE hub.
const (
	EventClockIn  = "attendance.clock_in"
	EventClockOut = "attendance.clock_out"
	EventSweep    = "attendance.sweep"
)

// EventPublisher is satisfied by *sse.Hub.
type EventPublisher interface {
	PublishToMany(topics []string, event sse.Event)
}

// Options carries the organization-wide settings shared by the service and the reaper.
type Options struct {
	Location *time.Location
	Clock    clock.Clock
	Policy   attendance.CompletionPolicy
	Events   EventPublisher
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Clock == nil {
		o.Clock = clock.System
	}
	return o
}

type AttendanceServiceImpl struct {
	attendance.SessionRepository
	loc    *time.Location
	clock  clock.Clock
	policy attendance.CompletionPolicy
	events EventPublisher
}

func NewAttendanceService(sessionRepo attendance.SessionRepository, opts Options) attendance.AttendanceService {
	opts = opts.withDefaults()
	return &AttendanceServiceImpl{
		SessionRepository: sessionRepo,
		loc:               opts.Location,
		clock:             opts.Clock,
		policy:            opts.Policy,
		events:            opts.Events,
	}
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	now := s.clock.Now()
	today := clock.DateOf(now, s.loc)

	workLocation := req.WorkLocation
	if workLocation == "" {
		workLocation = attendance.WorkLocationOffice
	}

	created, err := s.SessionRepository.Create(ctx, attendance.Session{
		UserID:       req.UserID,
		CalendarDate: today,
		ClockIn:      now,
		WorkLocation: workLocation,
		Status:       attendance.StatusPresent,
		State:        attendance.StateOpen,
	})
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to clock in: %w", err)
	}

	slog.Info("Clock-in recorded", "user_id", created.UserID, "session_id", created.ID, "date", today)

	resp := attendance.NewSessionResponse(created)
	s.publish(EventClockIn, created.UserID, resp)
	return resp, nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	now := s.clock.Now()
	today := clock.DateOf(now, s.loc)

	closed, err := s.SessionRepository.Close(ctx, req.UserID, today, now, s.policy)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to clock out: %w", err)
	}

	slog.Info("Clock-out recorded",
		"user_id", closed.UserID,
		"session_id", closed.ID,
		"date", today,
		"duration_minutes", *closed.DurationMinutes,
	)

	resp := attendance.NewSessionResponse(closed)
	s.publish(EventClockOut, closed.UserID, resp)
	return resp, nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context, userID string) (*attendance.DailySummaryResponse, error) {
	now := s.clock.Now()
	today := clock.DateOf(now, s.loc)

	sessions, err := s.SessionRepository.ListByUserAndRange(ctx, userID, today, today)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's sessions: %w", err)
	}

	summary := attendance.Summarize(today, sessions)
	if summary == nil {
		return nil, nil
	}

	resp := attendance.NewDailySummaryResponse(*summary, now)
	return &resp, nil
}

// History implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) History(ctx context.Context, userID string) (attendance.RangeSummaryResponse, error) {
	today := clock.Today(s.clock, s.loc)
	from, err := clock.AddDays(today, -(historyDays - 1))
	if err != nil {
		return attendance.RangeSummaryResponse{}, err
	}

	return s.RangeSummary(ctx, attendance.RangeSummaryRequest{
		UserID: userID,
		From:   from,
		To:     today,
	})
}

// RangeSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RangeSummary(ctx context.Context, req attendance.RangeSummaryRequest) (attendance.RangeSummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RangeSummaryResponse{}, err
	}

	from, _ := clock.ParseDate(req.From)
	to, _ := clock.ParseDate(req.To)
	if from.After(to) {
		return attendance.RangeSummaryResponse{}, fmt.Errorf("%w: from %s is after to %s", attendance.ErrInvalidDateRange, req.From, req.To)
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > attendance.MaxRangeDays {
		return attendance.RangeSummaryResponse{}, fmt.Errorf("%w: %d days exceeds %d", attendance.ErrInvalidDateRange, days, attendance.MaxRangeDays)
	}

	sessions, err := s.SessionRepository.ListByUserAndRange(ctx, req.UserID, req.From, req.To)
	if err != nil {
		return attendance.RangeSummaryResponse{}, fmt.Errorf("failed to load sessions: %w", err)
	}

	now := s.clock.Now()
	byDate := attendance.GroupByDate(sessions)
	resp := attendance.RangeSummaryResponse{
		UserID: req.UserID,
		From:   req.From,
		To:     req.To,
		Days:   make([]attendance.DailySummaryResponse, 0),
	}

	for _, date := range clock.DatesBetween(from, to) {
		day := attendance.EmptyDay(date)
		if summary := attendance.Summarize(date, byDate[date]); summary != nil {
			day = *summary
		}
		resp.TotalDurationMinutes += day.TotalDurationMinutes
		resp.Days = append(resp.Days, attendance.NewDailySummaryResponse(day, now))
	}

	return resp, nil
}

// ListSessions implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListSessions(ctx context.Context, filter attendance.SessionFilter) (attendance.ListSessionsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListSessionsResponse{}, err
	}

	sessions, err := s.SessionRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListSessionsResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	resp := attendance.ListSessionsResponse{
		Sessions: make([]attendance.SessionResponse, 0, len(sessions)),
		Total:    len(sessions),
	}
	for _, session := range sessions {
		resp.Sessions = append(resp.Sessions, attendance.NewSessionResponse(session))
	}
	return resp, nil
}

func (s *AttendanceServiceImpl) publish(event string, userID string, data any) {
	if s.events == nil {
		return
	}
	s.events.PublishToMany([]string{sse.DashboardTopic, userID}, sse.Event{Event: event, Data: data})
}
