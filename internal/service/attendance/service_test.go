package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = mustLoadLocation("Asia/Kolkata")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.March, day, hour, minute, 0, 0, ist)
}

type fixture struct {
	repo    *memory.SessionRepository
	clock   *clock.Fixed
	hub     *sse.Hub
	service attendance.AttendanceService
}

func newFixture(t *testing.T, policy attendance.CompletionPolicy) *fixture {
	t.Helper()
	repo := memory.NewSessionRepository()
	c := clock.NewFixed(at(4, 9, 0))
	hub := sse.NewHub()
	svc := NewAttendanceService(repo, Options{
		Location: ist,
		Clock:    c,
		Policy:   policy,
		Events:   hub,
	})
	return &fixture{repo: repo, clock: c, hub: hub, service: svc}
}

func TestClockIn_DefaultsToOffice(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{})
	ctx := context.Background()

	session, err := f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: "user-1"})
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	id, err := uuid.Parse(session.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Equal(t, "2024-03-04", session.Date)
	assert.Equal(t, "Office", session.WorkLocation)
	assert.Equal(t, "Present", session.Status)
	assert.Equal(t, "open", session.State)
	assert.Nil(t, session.ClockOut)
	assert.Nil(t, session.DurationMinutes)
}

func TestClockIn_RejectsSecondOpenSession(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{})
	ctx := context.Background()

	_, err := f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: "user-1", WorkLocation: attendance.WorkLocationHome})
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	_, err = f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: "user-1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	// Another user is unaffected.
	_, err = f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: "user-2"})
	assert.NoError(t, err)
}

func TestClockIn_Validation(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{})

	_, err := f.service.ClockIn(context.Background(), attendance.ClockInRequest{UserID: "user-1", WorkLocation: "Beach"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "work_location")

	_, err = f.service.ClockIn(context.Background(), attendance.ClockInRequest{})
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "user_id")
}

func TestClockIn_CalendarDateUsesReferenceTimezone(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{})
	// 19:00 UTC is 00:30 the next day in IST.
	f.clock.Set(time.Date(2024, time.March, 4, 19, 0, 0, 0, time.UTC))

	session, err := f.service.ClockIn(context.Background(), attendance.ClockInRequest{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", session.Date)
}

func TestClockOut_ScenarioA(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{})
	ctx := context.Background()

	_, err := f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: "user-1"})
	require.NoError(t, err)

	f.clock.Set(at(4, 13, 0))
	closed, err := f.service.ClockOut(ctx, attendance.ClockOutRequest{UserID: "user-1"})
	require.NoError(t, err)

	require.NotNil(t, closed.DurationMinutes)
	assert.Equal(t, 240, *closed.DurationMinutes)
	assert.Equal(t, "Present", closed.Status)
	assert.Equal(t, "closed", closed.State)
	require.NotNil(t, closed.ClockOut)

	today, err := f.service.Today(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, 240, today.TotalDurationMinutes)
	assert.Equal(t, "4h 0m", today.TotalDuration)
	assert.False(t, today.IsRunning)
	assert.Equal(t, *closed.ClockOut, *today.LastClockOut)
	assert.Nil(t, today.LiveElapsedMinutes)
}

func TestClockOut_FloorsPartialMinutes(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{})
	ctx := context.Background()

	_, err := f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: "user-1"})
	require.NoError(t, err)

	f.clock.Advance(59*time.Minute + 59*time.Second)
	closed, err := f.service.ClockOut(ctx, attendance.ClockOutRequest{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 59, *closed.DurationMinutes)
}

func TestClockOut_WithoutOpenSession(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{})
	ctx := context.Background()

	_, err := f.service.ClockOut(ctx, attendance.ClockOutRequest{UserID: "user-1"})
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)

	_, err = f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: "user-1"})
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.service.ClockOut(ctx, attendance.ClockOutRequest{UserID: "user-1"})
	require.NoError(t, err)

	_, err = f.service.ClockOut(ctx, attendance.ClockOutRequest{UserID: "user-1"})
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestClockOut_DoesNotReachYesterdaysSession(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{})
	ctx := context.Background()

	f.clock.Set(at(4, 23, 0))
	_, err := f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: "user-1"})
	require.NoError(t, err)

	f.clock.Set(at(5, 0, 30))
	_, err = f.service.ClockOut(ctx, attendance.ClockOutRequest{UserID: "user-1"})
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestClockOut_HalfDayPolicy(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{HalfDayThresholdMinutes: 240})
	ctx := context.Background()

	_, err := f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: "user-1"})
	require.NoError(t, err)
	f.clock.Set(at(4, 12, 0))
	short, err := f.service.ClockOut(ctx, attendance.ClockOutRequest{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "Half Day", short.Status)

	_, err = f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: "user-1"})
	require.NoError(t, err)
	f.clock.Set(at(4, 16, 0))
	long, err := f.service.ClockOut(ctx, attendance.ClockOutRequest{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "Present", long.Status)

	today, err := f.service.Today(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Present", today.Status)
	assert.Equal(t, 2, today.SessionCount)
}

func TestToday_ScenarioC(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{})
	ctx := context.Background()

	_, err := f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: "user-1"})
	require.NoError(t, err)
	f.clock.Set(at(4, 12, 0))
	_, err = f.service.ClockOut(ctx, attendance.ClockOutRequest{UserID: "user-1"})
	require.NoError(t, err)
	f.clock.Set(at(4, 13, 0))
	_, err = f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: "user-1"})
	require.NoError(t, err)

	f.clock.Set(at(4, 14, 30))
	today, err := f.service.Today(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, today)

	assert.Equal(t, 180, today.TotalDurationMinutes)
	assert.True(t, today.IsRunning)
	assert.Nil(t, today.LastClockOut)
	assert.Equal(t, at(4, 9, 0).Format(time.RFC3339), *today.FirstClockIn)
	require.NotNil(t, today.LiveElapsedMinutes)
	assert.Equal(t, 90, *today.LiveElapsedMinutes)

	// Reading the summary never writes the live counter.
	sessions, err := f.repo.ListByDate(ctx, "2024-03-04")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Nil(t, sessions[1].DurationMinutes)
}

func TestToday_NoSessions(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{})
	today, err := f.service.Today(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, today)
}

func TestConcurrentClockIn_ExactlyOneWins(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{})
	ctx := context.Background()

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: "user-1"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, attendance.ErrAlreadyClockedIn):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	sessions, err := f.repo.ListByDate(ctx, "2024-03-04")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestConcurrentClockOut_ExactlyOneWins(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{})
	ctx := context.Background()

	_, err := f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: "user-1"})
	require.NoError(t, err)
	f.clock.Advance(2 * time.Hour)

	const attempts = 10
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.ClockOut(ctx, attendance.ClockOutRequest{UserID: "user-1"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, misses int
	for err := range results {
		if err == nil {
			successes++
		} else if errors.Is(err, attendance.ErrNoOpenSession) {
			misses++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, misses)
}

func TestHistory_CoversThirtyDays(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{})
	ctx := context.Background()

	// Two closed days inside the window and one before it.
	for _, day := range []int{1, 3} {
		f.clock.Set(at(day, 9, 0))
		_, err := f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: "user-1"})
		require.NoError(t, err)
		f.clock.Set(at(day, 11, 30))
		_, err = f.service.ClockOut(ctx, attendance.ClockOutRequest{UserID: "user-1"})
		require.NoError(t, err)
	}

	f.clock.Set(time.Date(2024, time.March, 31, 10, 0, 0, 0, ist))
	history, err := f.service.History(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-02", history.From)
	assert.Equal(t, "2024-03-31", history.To)
	require.Len(t, history.Days, 30)
	assert.Equal(t, 150, history.TotalDurationMinutes)

	sum := 0
	for _, day := range history.Days {
		sum += day.TotalDurationMinutes
		if day.Date == "2024-03-03" {
			assert.Equal(t, "Present", day.Status)
			assert.Equal(t, 1, day.SessionCount)
		} else {
			assert.Equal(t, "Absent", day.Status)
			assert.Equal(t, 0, day.TotalDurationMinutes)
			assert.Nil(t, day.FirstClockIn)
		}
	}
	assert.Equal(t, history.TotalDurationMinutes, sum)
}

func TestRangeSummary_InvalidRange(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{})
	ctx := context.Background()

	_, err := f.service.RangeSummary(ctx, attendance.RangeSummaryRequest{UserID: "user-1", From: "2024-03-10", To: "2024-03-01"})
	assert.ErrorIs(t, err, attendance.ErrInvalidDateRange)

	_, err = f.service.RangeSummary(ctx, attendance.RangeSummaryRequest{UserID: "user-1", From: "2022-01-01", To: "2024-01-01"})
	assert.ErrorIs(t, err, attendance.ErrInvalidDateRange)

	_, err = f.service.RangeSummary(ctx, attendance.RangeSummaryRequest{UserID: "user-1", From: "2024-02-30", To: "2024-03-01"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestListSessions_NewestFirst(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{})
	ctx := context.Background()

	for _, day := range []int{2, 3} {
		for _, user := range []string{"user-1", "user-2"} {
			f.clock.Set(at(day, 9, 0))
			if user == "user-2" {
				f.clock.Set(at(day, 10, 0))
			}
			_, err := f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: user})
			require.NoError(t, err)
		}
	}

	all, err := f.service.ListSessions(ctx, attendance.SessionFilter{})
	require.NoError(t, err)
	require.Equal(t, 4, all.Total)
	assert.Equal(t, "2024-03-03", all.Sessions[0].Date)
	assert.Equal(t, "user-2", all.Sessions[0].UserID)
	assert.Equal(t, "2024-03-02", all.Sessions[3].Date)
	assert.Equal(t, "user-1", all.Sessions[3].UserID)

	userID := "user-1"
	start := "2024-03-03"
	filtered, err := f.service.ListSessions(ctx, attendance.SessionFilter{UserID: &userID, StartDate: &start})
	require.NoError(t, err)
	require.Equal(t, 1, filtered.Total)
	assert.Equal(t, "2024-03-03", filtered.Sessions[0].Date)

	end := "2024-03-01"
	_, err = f.service.ListSessions(ctx, attendance.SessionFilter{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, attendance.ErrInvalidDateRange)
}

func TestClockEvents_ArePublished(t *testing.T) {
	f := newFixture(t, attendance.CompletionPolicy{})
	ctx := context.Background()

	dashboard, stop := f.hub.Subscribe(sse.DashboardTopic)
	defer stop()
	mine, stopMine := f.hub.Subscribe("user-1")
	defer stopMine()

	_, err := f.service.ClockIn(ctx, attendance.ClockInRequest{UserID: "user-1"})
	require.NoError(t, err)

	assert.Equal(t, EventClockIn, (<-dashboard).Event)
	assert.Equal(t, EventClockIn, (<-mine).Event)

	f.clock.Advance(time.Hour)
	_, err = f.service.ClockOut(ctx, attendance.ClockOutRequest{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, EventClockOut, (<-dashboard).Event)
}
