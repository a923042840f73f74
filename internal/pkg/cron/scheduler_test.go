package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyAt_Next(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	midnight := DailyAt{Hour: 0, Minute: 0, Location: ist}

	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{
			name: "evening rolls to next midnight",
			from: time.Date(2024, 3, 4, 22, 0, 0, 0, ist),
			want: time.Date(2024, 3, 5, 0, 0, 0, 0, ist),
		},
		{
			name: "exactly at run time waits a full day",
			from: time.Date(2024, 3, 5, 0, 0, 0, 0, ist),
			want: time.Date(2024, 3, 6, 0, 0, 0, 0, ist),
		},
		{
			name: "utc input is interpreted in the schedule location",
			from: time.Date(2024, 3, 4, 18, 29, 0, 0, time.UTC),
			want: time.Date(2024, 3, 5, 0, 0, 0, 0, ist),
		},
		{
			name: "month boundary",
			from: time.Date(2024, 2, 29, 12, 0, 0, 0, ist),
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, ist),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(midnight.Next(tt.from)), "got %s", midnight.Next(tt.from))
		})
	}

	later := DailyAt{Hour: 2, Minute: 30, Location: ist}
	got := later.Next(time.Date(2024, 3, 4, 1, 0, 0, 0, ist))
	assert.True(t, time.Date(2024, 3, 4, 2, 30, 0, 0, ist).Equal(got))
}

func TestEvery_Next(t *testing.T) {
	from := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, from.Add(time.Hour), Every(time.Hour).Next(from))
}

func TestScheduler_RunOnStartAndStop(t *testing.T) {
	var runs atomic.Int32
	done := make(chan struct{}, 1)

	s := NewScheduler()
	s.AddJob(Job{
		Name:       "probe",
		Schedule:   Every(time.Hour),
		RunOnStart: true,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			done <- struct{}{}
			return nil
		},
	})
	s.Start()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
	assert.Equal(t, int32(1), runs.Load())
}

type stubReaper struct {
	calls  int
	result attendance.SweepResult
	err    error
}

func (r *stubReaper) VoidStaleSessions(ctx context.Context) (attendance.SweepResult, error) {
	r.calls++
	return r.result, r.err
}

func TestAttendanceJobs_VoidStaleSessions(t *testing.T) {
	reaper := &stubReaper{result: attendance.SweepResult{Before: "2024-03-05", Scanned: 2, Voided: 2}}
	jobs := NewAttendanceJobs(reaper, DailyAt{})

	s := NewScheduler()
	jobs.RegisterJobs(s)
	require.Len(t, s.jobs, 1)
	assert.Equal(t, StaleSessionJobName, s.jobs[0].Name)
	assert.True(t, s.jobs[0].RunOnStart)

	s.RunOnce(context.Background())
	assert.Equal(t, 1, reaper.calls)

	reaper.err = errors.New("boom")
	err := jobs.VoidStaleSessions(context.Background())
	assert.ErrorContains(t, err, "failed to void stale sessions")
}
