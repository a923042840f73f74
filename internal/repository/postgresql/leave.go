package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.Store {
	return &leaveRepository{db: db}
}

// ApprovedLeaves implements leave.Store.
func (r *leaveRepository) ApprovedLeaves(ctx context.Context, userID *string, from string, to string) ([]leave.Interval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, leave_type, start_date::text, end_date::text, status, reason, created_at
		FROM leave_requests
		WHERE status = 'Approved'
		  AND start_date <= $2::date
		  AND end_date >= $1::date
	`
	args := []any{from, to}
	if userID != nil {
		query += ` AND user_id = $3`
		args = append(args, *userID)
	}
	query += ` ORDER BY start_date ASC, created_at ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved leaves: %w", storeError(err))
	}
	defer rows.Close()

	intervals := make([]leave.Interval, 0)
	for rows.Next() {
		var (
			iv                leave.Interval
			leaveType, status string
		)
		if err := rows.Scan(&iv.ID, &iv.UserID, &leaveType, &iv.StartDate, &iv.EndDate, &status, &iv.Reason, &iv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		iv.Type = leave.Type(leaveType)
		iv.Status = leave.Status(status)
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", storeError(err))
	}

	return intervals, nil
}
