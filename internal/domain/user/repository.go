package user

import "context"

// Directory is the read-only view of the user directory.
type Directory interface {
	// ListActiveUsers returns active and invited users ordered by name
	ListActiveUsers(ctx context.Context) ([]User, error)

	// GetByID returns ErrUserNotFound for unknown ids
	GetByID(ctx context.Context, id string) (User, error)
}
