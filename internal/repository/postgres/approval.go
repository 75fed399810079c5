package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
)

func (r *approvalRepository) Create(ctx context.Context, req *model.StaffApprovalRequest) error {
	query := `
		INSERT INTO staff_approval_requests (
			id, user_id, email, full_name, requested_role, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	req.ID = uuid.New()
	req.Status = model.ApprovalStatusPending
	req.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.UserID,
		req.Email,
		req.FullName,
		req.RequestedRole,
		req.Status,
		req.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create approval request: %w", err)
	}
	return nil
}

func (r *approvalRepository) Get(ctx context.Context, id uuid.UUID) (*model.StaffApprovalRequest, error) {
	query := `
		SELECT id, user_id, email, full_name, requested_role, status,
			   rejection_reason, reviewed_by, reviewed_at, created_at
		FROM staff_approval_requests
		WHERE id = $1
	`
	var req model.StaffApprovalRequest
	err := r.db.GetContext(ctx, &req, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get approval request: %w", err)
	}
	return &req, nil
}

func (r *approvalRepository) HasPending(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM staff_approval_requests
			WHERE user_id = $1 AND status = 'pending'
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID); err != nil {
		return false, fmt.Errorf("failed to check pending request: %w", err)
	}
	return exists, nil
}

func (r *approvalRepository) List(ctx context.Context, status model.ApprovalStatus) ([]*model.StaffApprovalRequest, error) {
	query := `
		SELECT id, user_id, email, full_name, requested_role, status,
			   rejection_reason, reviewed_by, reviewed_at, created_at
		FROM staff_approval_requests
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
	`
	var reqs []*model.StaffApprovalRequest
	if err := r.db.SelectContext(ctx, &reqs, query, status); err != nil {
		return nil, fmt.Errorf("failed to list approval requests: %w", err)
	}
	return reqs, nil
}

// Approve runs the role grant and the status flip in one transaction. The
// status update is guarded on status='pending' so a concurrent decision on
// the same request cannot apply twice.
func (r *approvalRepository) Approve(ctx context.Context, req *model.StaffApprovalRequest, reviewerID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		UPDATE staff_approval_requests
		SET status = 'approved', reviewed_by = $1, reviewed_at = $2
		WHERE id = $3 AND status = 'pending'
	`, reviewerID, now, req.ID)
	if err != nil {
		return fmt.Errorf("failed to update approval request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO role_assignments (user_id, role, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, role) DO NOTHING
	`, req.UserID, req.RequestedRole, now)
	if err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit approval: %w", err)
	}

	req.Status = model.ApprovalStatusApproved
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	return nil
}

func (r *approvalRepository) Reject(ctx context.Context, id, reviewerID uuid.UUID, reason *string) error {
	query := `
		UPDATE staff_approval_requests
		SET status = 'rejected', rejection_reason = $1, reviewed_by = $2, reviewed_at = $3
		WHERE id = $4 AND status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, reason, reviewerID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to reject approval request: %w", err)
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
