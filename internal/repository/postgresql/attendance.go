package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) attendance.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `
	id, user_id, calendar_date::text, clock_in, clock_out, duration_minutes,
	work_location, status, state, created_at, updated_at`

func scanSession(row pgx.Row) (attendance.Session, error) {
	var (
		s                           attendance.Session
		workLocation, status, state string
	)
	err := row.Scan(
		&s.ID, &s.UserID, &s.CalendarDate, &s.ClockIn, &s.ClockOut, &s.DurationMinutes,
		&workLocation, &status, &state, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return attendance.Session{}, err
	}
	s.WorkLocation = attendance.WorkLocation(workLocation)
	s.Status = attendance.Status(status)
	s.State = attendance.State(state)
	return s, nil
}

func collectSessions(rows pgx.Rows) ([]attendance.Session, error) {
	defer rows.Close()

	sessions := make([]attendance.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", storeError(err))
	}
	return sessions, nil
}

// Create implements attendance.SessionRepository.
func (r *sessionRepository) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	if session.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Session{}, fmt.Errorf("failed to generate session id: %w", err)
		}
		session.ID = id.String()
	}

	query := `
		INSERT INTO attendance_sessions (
			id, user_id, calendar_date, clock_in, work_location, status, state, created_at, updated_at
		) VALUES (
			$1, $2, $3::date, $4, $5, $6, $7, $8, $8
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		session.ID,
		session.UserID,
		session.CalendarDate,
		session.ClockIn,
		string(session.WorkLocation),
		string(session.Status),
		string(session.State),
		session.ClockIn,
	).Scan(&session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, openSessionIndex) {
			return attendance.Session{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Session{}, fmt.Errorf("failed to create session: %w", storeError(err))
	}

	return session, nil
}

// Close implements attendance.SessionRepository.
func (r *sessionRepository) Close(ctx context.Context, userID string, calendarDate string, clockOut time.Time, policy attendance.CompletionPolicy) (attendance.Session, error) {
	var closed attendance.Session

	err := WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		q := GetQuerier(ctx, r.db)

		// A concurrent closer blocks on the row lock, then re-checks state and finds nothing.
		selectQuery := `SELECT ` + sessionColumns + `
			FROM attendance_sessions
			WHERE user_id = $1
			  AND calendar_date = $2::date
			  AND state = 'open'
			ORDER BY clock_in DESC
			LIMIT 1
			FOR UPDATE
		`

		session, err := scanSession(q.QueryRow(ctx, selectQuery, userID, calendarDate))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return attendance.ErrNoOpenSession
			}
			return fmt.Errorf("failed to get open session: %w", storeError(err))
		}

		session.Close(clockOut, policy)

		updateQuery := `
			UPDATE attendance_sessions
			SET clock_out = $2, duration_minutes = $3, status = $4, state = $5, updated_at = $6
			WHERE id = $1 AND state = 'open'
		`
		tag, err := q.Exec(ctx, updateQuery,
			session.ID,
			session.ClockOut,
			session.DurationMinutes,
			string(session.Status),
			string(session.State),
			session.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to close session: %w", storeError(err))
		}
		if tag.RowsAffected() == 0 {
			return attendance.ErrNoOpenSession
		}

		closed = session
		return nil
	})
	if err != nil {
		return attendance.Session{}, err
	}

	return closed, nil
}

// Void implements attendance.SessionRepository.
func (r *sessionRepository) Void(ctx context.Context, id string, at time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET duration_minutes = 0, status = $2, state = $3, updated_at = $4
		WHERE id = $1 AND state = 'open'
	`

	tag, err := q.Exec(ctx, query, id, string(attendance.StatusAbsent), string(attendance.StateVoided), at)
	if err != nil {
		return false, fmt.Errorf("failed to void session %s: %w", id, storeError(err))
	}

	return tag.RowsAffected() == 1, nil
}

// ListByUserAndRange implements attendance.SessionRepository.
func (r *sessionRepository) ListByUserAndRange(ctx context.Context, userID string, from string, to string) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE user_id = $1
		  AND calendar_date BETWEEN $2::date AND $3::date
		ORDER BY calendar_date ASC, clock_in ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions by user: %w", storeError(err))
	}
	return collectSessions(rows)
}

// ListByDate implements attendance.SessionRepository.
func (r *sessionRepository) ListByDate(ctx context.Context, calendarDate string) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE calendar_date = $1::date
		ORDER BY clock_in ASC
	`

	rows, err := q.Query(ctx, query, calendarDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions by date: %w", storeError(err))
	}
	return collectSessions(rows)
}

// ListStaleOpen implements attendance.SessionRepository.
func (r *sessionRepository) ListStaleOpen(ctx context.Context, before string) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE state = 'open'
		  AND calendar_date < $1::date
		ORDER BY calendar_date ASC, clock_in ASC
	`

	rows, err := q.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale sessions: %w", storeError(err))
	}
	return collectSessions(rows)
}

// List implements attendance.SessionRepository.
func (r *sessionRepository) List(ctx context.Context, filter attendance.SessionFilter) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	conditions := []string{"1=1"}
	args := []any{}
	argIdx := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("calendar_date >= $%d::date", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("calendar_date <= $%d::date", argIdx))
		args = append(args, *filter.EndDate)
	}

	query := `SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY calendar_date DESC, clock_in DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", storeError(err))
	}
	return collectSessions(rows)
}
