// Package audit records outbound-call audit entries. Entries are written
// before the call is placed and are append-only.
package audit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
	"github.com/carelink/hospital-api/pkg/phone"
)

// Recorder is the write-side contract the dispatcher depends on.
type Recorder interface {
	Record(ctx context.Context, entry *model.CallAuditEntry) error
}

type Service struct {
	repo repository.CallAuditRepository
}

func NewService(repo repository.CallAuditRepository) *Service {
	return &Service{repo: repo}
}

// Record persists the entry and emits a structured log line. The phone field
// is re-masked here unconditionally; an unmasked number must not survive this
// call even if the caller forgot to mask.
func (s *Service) Record(ctx context.Context, entry *model.CallAuditEntry) error {
	entry.PhoneMasked = phone.Mask(entry.PhoneMasked)

	if err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to record call audit entry: %w", err)
	}

	evt := log.Info().
		Str("target_kind", string(entry.TargetKind)).
		Str("target_id", entry.TargetID.String()).
		Str("action", entry.Action).
		Str("phone", entry.PhoneMasked)
	if entry.StaffUserID != nil {
		evt = evt.Str("staff_user_id", entry.StaffUserID.String())
	}
	evt.Msg("call dispatch audited")

	return nil
}
