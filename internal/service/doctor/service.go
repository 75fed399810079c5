// Package doctor holds the schedule mutation that demonstrates the gate and
// escalation flows end to end: admins and the doctor's own account may write
// a schedule; other staff get an escalation instead of the write.
package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
	"github.com/carelink/hospital-api/internal/service/escalation"
	"github.com/carelink/hospital-api/internal/service/rbac"
	apperrors "github.com/carelink/hospital-api/pkg/errors"
)

type Service struct {
	repo        repository.DoctorRepository
	gate        rbac.Gate
	escalations *escalation.Service
}

func NewService(repo repository.DoctorRepository, gate rbac.Gate, escalations *escalation.Service) *Service {
	return &Service{repo: repo, gate: gate, escalations: escalations}
}

// UpdateScheduleResult distinguishes an applied write from an escalated one.
type UpdateScheduleResult struct {
	Applied      bool                     `json:"applied"`
	EscalationID *uuid.UUID               `json:"escalation_id,omitempty"`
	Escalation   *model.EscalationRequest `json:"-"`
}

// UpdateSchedule applies the schedule write for a caller holding admin or
// doctor. Any other staff caller gets an escalation raised on their behalf
// and the schedule is left untouched. Non-staff callers are refused outright.
func (s *Service) UpdateSchedule(ctx context.Context, actorID, doctorID uuid.UUID, schedule []byte) (*UpdateScheduleResult, error) {
	if actorID == uuid.Nil {
		return nil, apperrors.Unauthorized(nil)
	}

	isStaff, err := s.gate.IsStaff(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check staff role: %w", err)
	}
	if !isStaff {
		return nil, apperrors.Forbidden("staff role required", nil)
	}

	allowed := false
	for _, role := range []model.Role{model.RoleAdmin, model.RoleDoctor} {
		ok, err := s.gate.HasRole(ctx, actorID, role)
		if err != nil {
			return nil, fmt.Errorf("failed to check role: %w", err)
		}
		if ok {
			allowed = true
			break
		}
	}

	if !allowed {
		esc, err := s.escalations.Raise(ctx, actorID,
			"update doctor schedule",
			fmt.Sprintf("Target doctor: %s.", doctorID))
		if err != nil {
			return nil, fmt.Errorf("failed to raise escalation: %w", err)
		}
		return &UpdateScheduleResult{Applied: false, EscalationID: &esc.ID, Escalation: esc}, nil
	}

	if err := s.repo.UpdateSchedule(ctx, doctorID, schedule); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to update doctor schedule: %w", err)
	}
	return &UpdateScheduleResult{Applied: true}, nil
}
