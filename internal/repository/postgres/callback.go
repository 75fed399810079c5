package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
)

func (r *callbackRepository) Create(ctx context.Context, cb *model.CallbackRequest) error {
	query := `
		INSERT INTO callback_requests (
			id, name, phone, email, preferred_time, reason, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	cb.ID = uuid.New()
	cb.Status = model.CallbackStatusPending
	cb.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		cb.ID,
		cb.Name,
		cb.Phone,
		cb.Email,
		cb.PreferredTime,
		cb.Reason,
		cb.Status,
		cb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create callback request: %w", err)
	}
	return nil
}

func (r *callbackRepository) Get(ctx context.Context, id uuid.UUID) (*model.CallbackRequest, error) {
	query := `
		SELECT id, name, phone, email, preferred_time, reason, status, created_at
		FROM callback_requests
		WHERE id = $1
	`
	var cb model.CallbackRequest
	err := r.db.GetContext(ctx, &cb, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get callback request: %w", err)
	}
	return &cb, nil
}

func (r *callbackRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.CallbackStatus) error {
	query := `
		UPDATE callback_requests
		SET status = $1
		WHERE id = $2
	`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update callback status: %w", err)
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
