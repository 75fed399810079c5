// Package call implements the outbound voice-call dispatcher: resolve the
// target record, gate the caller, script the call, audit it, hand it to the
// provider, and advance the record status.
package call

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
	"github.com/carelink/hospital-api/internal/service/audit"
	"github.com/carelink/hospital-api/internal/service/rbac"
	"github.com/carelink/hospital-api/internal/voice"
	apperrors "github.com/carelink/hospital-api/pkg/errors"
	"github.com/carelink/hospital-api/pkg/metrics"
	"github.com/carelink/hospital-api/pkg/phone"
)

type Service struct {
	resolver            *Resolver
	appointments        repository.AppointmentRepository
	patientAppointments repository.PatientAppointmentRepository
	gate                rbac.Gate
	auditor             audit.Recorder
	caller              voice.Caller
	locks               DispatchLock
	metrics             *metrics.Metrics
	facility            string
}

func NewService(
	resolver *Resolver,
	appointments repository.AppointmentRepository,
	patientAppointments repository.PatientAppointmentRepository,
	gate rbac.Gate,
	auditor audit.Recorder,
	caller voice.Caller,
	locks DispatchLock,
	m *metrics.Metrics,
	facility string,
) *Service {
	return &Service{
		resolver:            resolver,
		appointments:        appointments,
		patientAppointments: patientAppointments,
		gate:                gate,
		auditor:             auditor,
		caller:              caller,
		locks:               locks,
		metrics:             m,
		facility:            facility,
	}
}

// DispatchAppointmentCall places a call against an appointment record.
// Preconditions run in a fixed order, each with its own failure; the id is
// validated syntactically before any store access, and a missing record is
// indistinguishable from one without a phone number.
func (s *Service) DispatchAppointmentCall(ctx context.Context, requestorID uuid.UUID, recordID string, action model.CallAction) (*model.DispatchResult, error) {
	if requestorID == uuid.Nil {
		return nil, apperrors.Unauthorized(nil)
	}

	isStaff, err := s.gate.IsStaff(ctx, requestorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check staff role: %w", err)
	}
	if !isStaff {
		s.metrics.CallsFailed.WithLabelValues("forbidden").Inc()
		return nil, apperrors.Forbidden("staff role required", nil)
	}

	id, err := uuid.Parse(recordID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid record id", err)
	}
	if !action.ValidForAppointment() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid action: %s", action), nil)
	}

	rec, err := s.resolver.ResolveAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			log.Warn().Str("record_id", recordID).Msg("dispatch target not found")
			s.metrics.CallsFailed.WithLabelValues("not_found").Inc()
			return nil, apperrors.Unprocessable(err)
		}
		return nil, err
	}
	if rec.PatientPhone == "" || !phone.Valid(rec.PatientPhone) {
		// Same public failure as a missing record, distinct log.
		log.Warn().Str("record_id", recordID).Msg("dispatch target has no usable contact phone")
		s.metrics.CallsFailed.WithLabelValues("missing_contact").Inc()
		return nil, apperrors.Unprocessable(errors.New("record has no contact phone"))
	}

	return s.placeCall(ctx, &requestorID, rec, action)
}

// DispatchCallbackCall places a call against a callback request. For an
// existing record the caller must be staff; the create-and-call path is the
// one deliberate exception to the staff gate, open to the public intake form
// (requestorID is Nil for an anonymous caller).
func (s *Service) DispatchCallbackCall(ctx context.Context, requestorID uuid.UUID, req *model.DispatchCallbackCallRequest) (*model.DispatchResult, error) {
	if req.CallbackID != "" {
		if requestorID == uuid.Nil {
			return nil, apperrors.Unauthorized(nil)
		}
		isStaff, err := s.gate.IsStaff(ctx, requestorID)
		if err != nil {
			return nil, fmt.Errorf("failed to check staff role: %w", err)
		}
		if !isStaff {
			s.metrics.CallsFailed.WithLabelValues("forbidden").Inc()
			return nil, apperrors.Forbidden("staff role required", nil)
		}

		id, err := uuid.Parse(req.CallbackID)
		if err != nil {
			return nil, apperrors.BadRequest("invalid record id", err)
		}
		rec, err := s.resolver.ResolveCallback(ctx, id)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				log.Warn().Str("record_id", req.CallbackID).Msg("dispatch target not found")
				s.metrics.CallsFailed.WithLabelValues("not_found").Inc()
				return nil, apperrors.Unprocessable(err)
			}
			return nil, err
		}
		var staffID *uuid.UUID
		if requestorID != uuid.Nil {
			staffID = &requestorID
		}
		return s.placeCall(ctx, staffID, rec, model.CallActionCallback)
	}

	// Create-and-call: capture the lead first, then dial it.
	if req.Name == "" || req.Phone == "" {
		return nil, apperrors.BadRequest("name and phone are required", nil)
	}
	if !phone.Valid(req.Phone) {
		return nil, apperrors.BadRequest("invalid phone number", nil)
	}

	rec, err := s.resolver.CreateCallback(ctx, req)
	if err != nil {
		return nil, err
	}

	var staffID *uuid.UUID
	if requestorID != uuid.Nil {
		staffID = &requestorID
	}
	return s.placeCall(ctx, staffID, rec, model.CallActionCallback)
}

// placeCall runs the shared tail of every dispatch: audit entry first, then
// the per-record lock, then the provider. The status transition afterwards is
// best-effort; the call has already happened and cannot be recalled.
func (s *Service) placeCall(ctx context.Context, staffID *uuid.UUID, rec *model.NormalizedRecord, action model.CallAction) (*model.DispatchResult, error) {
	entry := &model.CallAuditEntry{
		StaffUserID: staffID,
		TargetKind:  rec.Kind,
		TargetID:    rec.ID,
		Action:      string(action),
		PatientName: rec.PatientName,
		PhoneMasked: phone.Mask(rec.PatientPhone),
	}
	if staffID != nil {
		roles, err := s.gate.Roles(ctx, *staffID)
		if err == nil {
			for _, r := range roles {
				entry.StaffRoles = append(entry.StaffRoles, string(r))
			}
		}
	}
	if err := s.auditor.Record(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to write audit entry: %w", err)
	}

	acquired, err := s.locks.Acquire(ctx, rec.ID.String())
	if err != nil {
		// Lock store trouble fails open; the invariant is cooperative.
		log.Warn().Err(err).Str("record_id", rec.ID.String()).Msg("dispatch lock unavailable, proceeding")
	} else if !acquired {
		s.metrics.CallsFailed.WithLabelValues("in_flight").Inc()
		return nil, apperrors.InvalidState("a call for this record is already in progress", nil)
	}
	defer s.locks.Release(ctx, rec.ID.String())

	callReq := voice.CallRequest{
		Phone:        rec.PatientPhone,
		FirstMessage: buildScript(s.facility, rec, action),
		SystemPrompt: buildSystemPrompt(s.facility, action),
		RecordID:     rec.ID.String(),
	}

	start := time.Now()
	result, err := s.caller.PlaceCall(ctx, callReq)
	s.metrics.ProviderLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.CallsFailed.WithLabelValues("provider").Inc()
		log.Error().Err(err).Str("record_id", rec.ID.String()).Msg("voice provider call failed")
		return nil, apperrors.ExternalService("failed to place call", err)
	}

	s.metrics.CallsDispatched.WithLabelValues(string(action), string(rec.Kind)).Inc()

	// Confirmation is provider-driven: the record moves to call_initiated
	// here and only the inbound confirmation handler moves it to confirmed.
	if action == model.CallActionConfirm {
		s.markCallInitiated(ctx, rec)
	}

	return &model.DispatchResult{
		CallID:  result.ID,
		Message: "call placed",
	}, nil
}

func (s *Service) markCallInitiated(ctx context.Context, rec *model.NormalizedRecord) {
	from := []model.AppointmentStatus{model.AppointmentStatusPending, model.AppointmentStatusConfirmed}

	var updated bool
	var err error
	switch rec.Kind {
	case model.RecordKindAppointment:
		updated, err = s.appointments.UpdateStatusIf(ctx, rec.ID, from, model.AppointmentStatusCallInitiated)
	case model.RecordKindPatientAppointment:
		updated, err = s.patientAppointments.UpdateStatusIf(ctx, rec.ID, from, model.AppointmentStatusCallInitiated)
	default:
		return
	}

	if err != nil {
		log.Error().Err(err).Str("record_id", rec.ID.String()).
			Msg("inconsistency: call placed but status update failed")
		return
	}
	if !updated {
		log.Warn().Str("record_id", rec.ID.String()).Str("status", rec.Status).
			Msg("call placed but record status did not allow call_initiated")
	}
}
