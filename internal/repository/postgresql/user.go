package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.Directory {
	return &userRepository{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var (
		u            user.User
		role, status string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &status, &u.CreatedAt); err != nil {
		return user.User{}, err
	}
	u.Role = user.Role(role)
	u.Status = user.Status(status)
	return u, nil
}

// ListActiveUsers implements user.Directory.
func (r *userRepository) ListActiveUsers(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, email, role, status, created_at
		FROM users
		WHERE status IN ('active', 'invited')
		ORDER BY name ASC, id ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", storeError(err))
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", storeError(err))
	}

	return users, nil
}

// GetByID implements user.Directory.
func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, email, role, status, created_at
		FROM users
		WHERE id = $1
	`

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by id: %w", storeError(err))
	}

	return u, nil
}
