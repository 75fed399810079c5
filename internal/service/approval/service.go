// Package approval implements the staff-access approval workflow:
// pending -> approved | rejected, both terminal. Approving grants the
// requested role in the same database transaction as the status flip.
package approval

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/carelink/hospital-api/internal/email"
	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
	"github.com/carelink/hospital-api/internal/service/rbac"
	apperrors "github.com/carelink/hospital-api/pkg/errors"
	"github.com/carelink/hospital-api/pkg/metrics"
)

type Service struct {
	repo     repository.ApprovalRepository
	gate     rbac.Gate
	emailSvc email.Service
	metrics  *metrics.Metrics
}

func NewService(repo repository.ApprovalRepository, gate rbac.Gate, emailSvc email.Service, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		gate:     gate,
		emailSvc: emailSvc,
		metrics:  m,
	}
}

// Submit creates a pending request. A user may have at most one outstanding
// pending request; the check here is backed by a partial unique index so a
// racing duplicate still loses.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, req *model.SubmitApprovalRequest) (*model.StaffApprovalRequest, error) {
	if userID == uuid.Nil {
		return nil, apperrors.Unauthorized(nil)
	}
	if !req.RequestedRole.Staff() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid requested role: %s", req.RequestedRole), nil)
	}

	pending, err := s.repo.HasPending(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending request: %w", err)
	}
	if pending {
		return nil, apperrors.InvalidState("a pending request already exists for this user", nil)
	}

	request := &model.StaffApprovalRequest{
		UserID:        userID,
		Email:         req.Email,
		FullName:      req.FullName,
		RequestedRole: req.RequestedRole,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.InvalidState("a pending request already exists for this user", err)
		}
		return nil, fmt.Errorf("failed to create approval request: %w", err)
	}
	return request, nil
}

// Approve requires the reviewer to hold admin. The role grant and the status
// write commit together; a failed grant leaves the request pending.
func (s *Service) Approve(ctx context.Context, requestID, reviewerID uuid.UUID) (*model.StaffApprovalRequest, error) {
	if err := s.requireAdmin(ctx, reviewerID); err != nil {
		return nil, err
	}

	request, err := s.repo.Get(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("approval request", err)
		}
		return nil, fmt.Errorf("failed to get approval request: %w", err)
	}
	if request.Status != model.ApprovalStatusPending {
		return nil, apperrors.InvalidState(fmt.Sprintf("request is already %s", request.Status), nil)
	}

	if err := s.repo.Approve(ctx, request, reviewerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost the race to another reviewer.
			return nil, apperrors.InvalidState("request was already decided", err)
		}
		return nil, fmt.Errorf("failed to approve request: %w", err)
	}

	s.metrics.ApprovalDecisions.WithLabelValues("approved").Inc()
	s.notifyOutcome(ctx, request, true, "")
	return request, nil
}

func (s *Service) Reject(ctx context.Context, requestID, reviewerID uuid.UUID, reason string) (*model.StaffApprovalRequest, error) {
	if err := s.requireAdmin(ctx, reviewerID); err != nil {
		return nil, err
	}

	request, err := s.repo.Get(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("approval request", err)
		}
		return nil, fmt.Errorf("failed to get approval request: %w", err)
	}
	if request.Status != model.ApprovalStatusPending {
		return nil, apperrors.InvalidState(fmt.Sprintf("request is already %s", request.Status), nil)
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	if err := s.repo.Reject(ctx, requestID, reviewerID, reasonPtr); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.InvalidState("request was already decided", err)
		}
		return nil, fmt.Errorf("failed to reject request: %w", err)
	}

	request.Status = model.ApprovalStatusRejected
	request.RejectionReason = reasonPtr
	request.ReviewedBy = &reviewerID

	s.metrics.ApprovalDecisions.WithLabelValues("rejected").Inc()
	s.notifyOutcome(ctx, request, false, reason)
	return request, nil
}

func (s *Service) List(ctx context.Context, callerID uuid.UUID, status model.ApprovalStatus) ([]*model.StaffApprovalRequest, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, status)
}

func (s *Service) requireAdmin(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperrors.Unauthorized(nil)
	}
	isAdmin, err := s.gate.HasRole(ctx, userID, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to check reviewer role: %w", err)
	}
	if !isAdmin {
		return apperrors.Forbidden("admin role required", nil)
	}
	return nil
}

// notifyOutcome emails the requester. Delivery is best-effort: the decision
// already committed.
func (s *Service) notifyOutcome(ctx context.Context, req *model.StaffApprovalRequest, approved bool, reason string) {
	if s.emailSvc == nil {
		return
	}
	if err := s.emailSvc.SendApprovalOutcome(ctx, req.Email, req.FullName, approved, req.RequestedRole, reason); err != nil {
		log.Warn().Err(err).Str("request_id", req.ID.String()).Msg("failed to send approval outcome email")
	}
}
