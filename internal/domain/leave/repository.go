package leave

import "context"

// Store is the read-only view of leave requests.
type Store interface {
	// ApprovedLeaves returns approved intervals overlapping from..to. A nil userID means every user.
	ApprovedLeaves(ctx context.Context, userID *string, from string, to string) ([]Interval, error)
}
