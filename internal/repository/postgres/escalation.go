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

func (r *escalationRepository) Create(ctx context.Context, esc *model.EscalationRequest) error {
	query := `
		INSERT INTO escalation_requests (
			id, actor_id, action, title, message, resolved, created_at
		) VALUES ($1, $2, $3, $4, $5, false, $6)
	`
	esc.ID = uuid.New()
	esc.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		esc.ID,
		esc.ActorID,
		esc.Action,
		esc.Title,
		esc.Message,
		esc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create escalation request: %w", err)
	}
	return nil
}

func (r *escalationRepository) Get(ctx context.Context, id uuid.UUID) (*model.EscalationRequest, error) {
	query := `
		SELECT id, actor_id, action, title, message, resolved, resolved_by, resolved_at, created_at
		FROM escalation_requests
		WHERE id = $1
	`
	var esc model.EscalationRequest
	err := r.db.GetContext(ctx, &esc, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get escalation request: %w", err)
	}
	return &esc, nil
}

func (r *escalationRepository) ListPending(ctx context.Context) ([]*model.EscalationRequest, error) {
	query := `
		SELECT id, actor_id, action, title, message, resolved, resolved_by, resolved_at, created_at
		FROM escalation_requests
		WHERE resolved = false
		ORDER BY created_at DESC
	`
	var escs []*model.EscalationRequest
	if err := r.db.SelectContext(ctx, &escs, query); err != nil {
		return nil, fmt.Errorf("failed to list escalation requests: %w", err)
	}
	return escs, nil
}

func (r *escalationRepository) Resolve(ctx context.Context, id, resolvedBy uuid.UUID) error {
	query := `
		UPDATE escalation_requests
		SET resolved = true, resolved_by = $1, resolved_at = $2
		WHERE id = $3 AND resolved = false
	`
	result, err := r.db.ExecContext(ctx, query, resolvedBy, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to resolve escalation request: %w", err)
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
