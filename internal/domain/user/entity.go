package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Sees every user's attendance
	RoleEmployee Role = "employee" // Own attendance only
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInvited  Status = "invited"
	StatusInactive Status = "inactive"
)

type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Status    Status
	CreatedAt time.Time
}

// IsAdmin checks if user can read other users' attendance
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsListed reports whether the user appears on attendance dashboards.
func (u *User) IsListed() bool {
	return u.Status == StatusActive || u.Status == StatusInvited
}
