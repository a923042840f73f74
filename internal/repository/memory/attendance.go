package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

// SessionRepository keeps sessions in process. Every write holds the lock for its
// whole check-and-set so the open-session invariant holds under concurrency.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]attendance.Session
	order    []string
}

var _ attendance.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]attendance.Session),
	}
}

// Create implements attendance.SessionRepository.
func (r *SessionRepository) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Session{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		s := r.sessions[id]
		if s.UserID == session.UserID && s.CalendarDate == session.CalendarDate && s.IsOpen() {
			return attendance.Session{}, attendance.ErrAlreadyClockedIn
		}
	}

	if session.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Session{}, err
		}
		session.ID = id.String()
	}
	session.CreatedAt = session.ClockIn
	session.UpdatedAt = session.ClockIn

	r.sessions[session.ID] = session
	r.order = append(r.order, session.ID)
	return session, nil
}

// Close implements attendance.SessionRepository.
func (r *SessionRepository) Close(ctx context.Context, userID string, calendarDate string, clockOut time.Time, policy attendance.CompletionPolicy) (attendance.Session, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Session{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		latest attendance.Session
		found  bool
	)
	for _, id := range r.order {
		s := r.sessions[id]
		if s.UserID != userID || s.CalendarDate != calendarDate || !s.IsOpen() {
			continue
		}
		if !found || s.ClockIn.After(latest.ClockIn) {
			latest = s
			found = true
		}
	}
	if !found {
		return attendance.Session{}, attendance.ErrNoOpenSession
	}

	latest.Close(clockOut, policy)
	r.sessions[latest.ID] = latest
	return latest, nil
}

// Void implements attendance.SessionRepository.
func (r *SessionRepository) Void(ctx context.Context, id string, at time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || !s.IsOpen() {
		return false, nil
	}
	s.Void(at)
	r.sessions[id] = s
	return true, nil
}

// ListByUserAndRange implements attendance.SessionRepository.
func (r *SessionRepository) ListByUserAndRange(ctx context.Context, userID string, from string, to string) ([]attendance.Session, error) {
	return r.selectSorted(ctx, func(s attendance.Session) bool {
		return s.UserID == userID && s.CalendarDate >= from && s.CalendarDate <= to
	}, false)
}

// ListByDate implements attendance.SessionRepository.
func (r *SessionRepository) ListByDate(ctx context.Context, calendarDate string) ([]attendance.Session, error) {
	return r.selectSorted(ctx, func(s attendance.Session) bool {
		return s.CalendarDate == calendarDate
	}, false)
}

// ListStaleOpen implements attendance.SessionRepository.
func (r *SessionRepository) ListStaleOpen(ctx context.Context, before string) ([]attendance.Session, error) {
	return r.selectSorted(ctx, func(s attendance.Session) bool {
		return s.IsOpen() && s.CalendarDate < before
	}, false)
}

// List implements attendance.SessionRepository.
func (r *SessionRepository) List(ctx context.Context, filter attendance.SessionFilter) ([]attendance.Session, error) {
	return r.selectSorted(ctx, func(s attendance.Session) bool {
		if filter.UserID != nil && s.UserID != *filter.UserID {
			return false
		}
		if filter.StartDate != nil && s.CalendarDate < *filter.StartDate {
			return false
		}
		if filter.EndDate != nil && s.CalendarDate > *filter.EndDate {
			return false
		}
		return true
	}, true)
}

// Get returns a copy of a stored session.
func (r *SessionRepository) Get(id string) (attendance.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *SessionRepository) selectSorted(ctx context.Context, match func(attendance.Session) bool, newestFirst bool) ([]attendance.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	result := make([]attendance.Session, 0)
	for _, id := range r.order {
		if s := r.sessions[id]; match(s) {
			result = append(result, s)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.CalendarDate != b.CalendarDate {
			if newestFirst {
				return a.CalendarDate > b.CalendarDate
			}
			return a.CalendarDate < b.CalendarDate
		}
		if newestFirst {
			return a.ClockIn.After(b.ClockIn)
		}
		return a.ClockIn.Before(b.ClockIn)
	})
	return result, nil
}
