package leave

import "time"

type Type string

const (
	TypeSick   Type = "Sick"
	TypeCasual Type = "Casual"
	TypeEarned Type = "Earned"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Interval is a leave request spanning StartDate..EndDate inclusive (YYYY-MM-DD).
type Interval struct {
	ID        string
	UserID    string
	Type      Type
	StartDate string
	EndDate   string
	Status    Status
	Reason    *string
	CreatedAt time.Time
}

// Covers reports whether date falls inside the interval.
func (i Interval) Covers(date string) bool {
	return i.StartDate <= date && date <= i.EndDate
}

// Overlaps reports whether the interval shares at least one day with from..to.
func (i Interval) Overlaps(from, to string) bool {
	return i.StartDate <= to && i.EndDate >= from
}
