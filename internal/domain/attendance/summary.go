package attendance

import (
	"fmt"
	"sort"
	"time"
)

// DailySummary folds one user's sessions of a calendar date.
type DailySummary struct {
	Date                 string
	FirstClockIn         *time.Time
	LastClockOut         *time.Time
	TotalDurationMinutes int
	IsRunning            bool
	Status               Status
	SessionCount         int
	OpenSession          *Session
}

// Summarize folds the sessions of a single date. Returns nil when there are none.
// Open sessions add nothing to the total; the day is running iff its latest session is open.
func Summarize(date string, sessions []Session) *DailySummary {
	if len(sessions) == 0 {
		return nil
	}

	ordered := make([]Session, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ClockIn.Before(ordered[j].ClockIn)
	})

	first := ordered[0].ClockIn
	last := ordered[len(ordered)-1]

	summary := &DailySummary{
		Date:         date,
		FirstClockIn: &first,
		SessionCount: len(ordered),
		Status:       StatusAbsent,
	}

	for _, s := range ordered {
		if s.DurationMinutes != nil {
			summary.TotalDurationMinutes += *s.DurationMinutes
		}
		summary.Status = betterStatus(summary.Status, s.Status)
	}

	if last.IsOpen() {
		summary.IsRunning = true
		open := last
		summary.OpenSession = &open
	} else if last.ClockOut != nil {
		out := *last.ClockOut
		summary.LastClockOut = &out
	}

	return summary
}

// EmptyDay is the summary of a date with no sessions inside a range.
func EmptyDay(date string) DailySummary {
	return DailySummary{
		Date:   date,
		Status: StatusAbsent,
	}
}

// GroupByDate buckets sessions by calendar date.
func GroupByDate(sessions []Session) map[string][]Session {
	grouped := make(map[string][]Session)
	for _, s := range sessions {
		grouped[s.CalendarDate] = append(grouped[s.CalendarDate], s)
	}
	return grouped
}

// LiveElapsedMinutes is the display-only running time of an open session.
func LiveElapsedMinutes(open Session, now time.Time) int {
	return DurationMinutes(open.ClockIn, now)
}

// FormatDuration renders minutes as "{h}h {m}m".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

var statusRank = map[Status]int{
	StatusAbsent:  0,
	StatusHalfDay: 1,
	StatusPresent: 2,
}

func betterStatus(a, b Status) Status {
	if statusRank[b] > statusRank[a] {
		return b
	}
	return a
}
