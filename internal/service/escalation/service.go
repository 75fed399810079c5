// Package escalation implements the permission-escalation flow. When a
// constrained role attempts a restricted mutation, the mutation is abandoned
// and a notification addressed to administrators is created instead.
// Resolving the notification is an acknowledgement only; nothing is replayed.
package escalation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
	"github.com/carelink/hospital-api/internal/service/rbac"
	apperrors "github.com/carelink/hospital-api/pkg/errors"
	"github.com/carelink/hospital-api/pkg/metrics"
)

type Service struct {
	repo    repository.EscalationRepository
	gate    rbac.Gate
	metrics *metrics.Metrics
}

func NewService(repo repository.EscalationRepository, gate rbac.Gate, m *metrics.Metrics) *Service {
	return &Service{repo: repo, gate: gate, metrics: m}
}

// Raise records that actor attempted action but lacked the privilege. The
// caller gets a non-error "request submitted" result; the attempted mutation
// itself is gone and will only happen if a human performs it out-of-band.
func (s *Service) Raise(ctx context.Context, actorID uuid.UUID, action, detail string) (*model.EscalationRequest, error) {
	display, err := s.gate.DisplayRole(ctx, actorID)
	if err != nil {
		display = model.DisplayRole("unknown")
	}

	esc := &model.EscalationRequest{
		ActorID: actorID,
		Action:  action,
		Title:   fmt.Sprintf("Permission needed: %s", action),
		Message: fmt.Sprintf("A %s (user %s) attempted to %s but does not have permission. %s", display, actorID, action, detail),
	}
	if err := s.repo.Create(ctx, esc); err != nil {
		return nil, fmt.Errorf("failed to create escalation request: %w", err)
	}

	s.metrics.EscalationsCreated.Inc()
	return esc, nil
}

// ListPending returns unresolved escalations. Admin only.
func (s *Service) ListPending(ctx context.Context, callerID uuid.UUID) ([]*model.EscalationRequest, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListPending(ctx)
}

// Resolve acknowledges the escalation. It has no further systemic effect.
func (s *Service) Resolve(ctx context.Context, id, callerID uuid.UUID) error {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}

	if err := s.repo.Resolve(ctx, id, callerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("escalation request", err)
		}
		return fmt.Errorf("failed to resolve escalation request: %w", err)
	}
	return nil
}

func (s *Service) requireAdmin(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperrors.Unauthorized(nil)
	}
	isAdmin, err := s.gate.HasRole(ctx, userID, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to check caller role: %w", err)
	}
	if !isAdmin {
		return apperrors.Forbidden("admin role required", nil)
	}
	return nil
}
