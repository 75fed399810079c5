package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
)

func (r *roleRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Role, error) {
	query := `
		SELECT role
		FROM role_assignments
		WHERE user_id = $1
		ORDER BY role
	`
	var roles []model.Role
	if err := r.db.SelectContext(ctx, &roles, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

func (r *roleRepository) Assign(ctx context.Context, userID uuid.UUID, role model.Role) error {
	query := `
		INSERT INTO role_assignments (user_id, role, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, userID, role, time.Now())
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

func (r *roleRepository) Revoke(ctx context.Context, userID uuid.UUID, role model.Role) error {
	query := `
		DELETE FROM role_assignments
		WHERE user_id = $1 AND role = $2
	`
	result, err := r.db.ExecContext(ctx, query, userID, role)
	if err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}
