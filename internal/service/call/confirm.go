package call

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
	apperrors "github.com/carelink/hospital-api/pkg/errors"
)

// confirmableFrom is the set of statuses the confirmation transition accepts.
// Including confirmed makes the handler idempotent: repeated provider
// callbacks converge on confirmed without error. Terminal statuses refuse the
// transition instead of being silently overwritten.
var confirmableFrom = []model.AppointmentStatus{
	model.AppointmentStatusCallInitiated,
	model.AppointmentStatusPending,
	model.AppointmentStatusConfirmed,
}

// Confirm is the inbound entry point the voice provider invokes once the
// patient verbally confirms.
func (s *Service) Confirm(ctx context.Context, recordID string) error {
	id, err := uuid.Parse(recordID)
	if err != nil {
		return apperrors.BadRequest("invalid record id", err)
	}

	if appt, err := s.appointments.Get(ctx, id); err == nil {
		return s.confirmTransition(ctx, model.RecordKindAppointment, id, appt.Status)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to look up appointment: %w", err)
	}

	if appt, err := s.patientAppointments.Get(ctx, id); err == nil {
		return s.confirmTransition(ctx, model.RecordKindPatientAppointment, id, appt.Status)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to look up patient appointment: %w", err)
	}

	s.metrics.Confirmations.WithLabelValues("not_found").Inc()
	return apperrors.Unprocessable(ErrRecordNotFound)
}

func (s *Service) confirmTransition(ctx context.Context, kind model.RecordKind, id uuid.UUID, current model.AppointmentStatus) error {
	if !confirmable(current) {
		s.metrics.Confirmations.WithLabelValues("invalid_state").Inc()
		return apperrors.InvalidState(fmt.Sprintf("record is %s and cannot be confirmed", current), nil)
	}

	var updated bool
	var err error
	switch kind {
	case model.RecordKindAppointment:
		updated, err = s.appointments.UpdateStatusIf(ctx, id, confirmableFrom, model.AppointmentStatusConfirmed)
	case model.RecordKindPatientAppointment:
		updated, err = s.patientAppointments.UpdateStatusIf(ctx, id, confirmableFrom, model.AppointmentStatusConfirmed)
	}
	if err != nil {
		return fmt.Errorf("failed to confirm record: %w", err)
	}
	if !updated {
		// The record moved to a terminal status between the read and the
		// guarded write.
		s.metrics.Confirmations.WithLabelValues("invalid_state").Inc()
		return apperrors.InvalidState("record can no longer be confirmed", nil)
	}

	s.metrics.Confirmations.WithLabelValues("confirmed").Inc()
	log.Info().Str("record_id", id.String()).Str("kind", string(kind)).Msg("appointment confirmed by patient")
	return nil
}

func confirmable(status model.AppointmentStatus) bool {
	for _, s := range confirmableFrom {
		if s == status {
			return true
		}
	}
	return false
}
