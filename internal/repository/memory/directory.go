package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
)

// UserDirectory is an in-process user.Directory.
type UserDirectory struct {
	mu    sync.RWMutex
	users map[string]user.User
}

var _ user.Directory = (*UserDirectory)(nil)

func NewUserDirectory(users ...user.User) *UserDirectory {
	d := &UserDirectory{users: make(map[string]user.User)}
	for _, u := range users {
		d.Put(u)
	}
	return d
}

// Put adds or replaces a user.
func (d *UserDirectory) Put(u user.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

// ListActiveUsers implements user.Directory.
func (d *UserDirectory) ListActiveUsers(ctx context.Context) ([]user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	users := make([]user.User, 0, len(d.users))
	for _, u := range d.users {
		if u.IsListed() {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

// GetByID implements user.Directory.
func (d *UserDirectory) GetByID(ctx context.Context, id string) (user.User, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

// LeaveStore is an in-process leave.Store.
type LeaveStore struct {
	mu        sync.RWMutex
	intervals []leave.Interval
}

var _ leave.Store = (*LeaveStore)(nil)

func NewLeaveStore(intervals ...leave.Interval) *LeaveStore {
	return &LeaveStore{intervals: append([]leave.Interval(nil), intervals...)}
}

// Add records a leave request of any status.
func (s *LeaveStore) Add(iv leave.Interval) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intervals = append(s.intervals, iv)
}

// ApprovedLeaves implements leave.Store.
func (s *LeaveStore) ApprovedLeaves(ctx context.Context, userID *string, from string, to string) ([]leave.Interval, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]leave.Interval, 0)
	for _, iv := range s.intervals {
		if iv.Status != leave.StatusApproved || !iv.Overlaps(from, to) {
			continue
		}
		if userID != nil && iv.UserID != *userID {
			continue
		}
		result = append(result, iv)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartDate < result[j].StartDate
	})
	return result, nil
}
