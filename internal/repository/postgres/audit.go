package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/model"
)

// call_audit_entries is append-only; there is deliberately no update or
// delete method.

func (r *callAuditRepository) Create(ctx context.Context, entry *model.CallAuditEntry) error {
	query := `
		INSERT INTO call_audit_entries (
			id, staff_user_id, staff_roles, target_kind, target_id,
			action, patient_name, phone_masked, call_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.StaffUserID,
		entry.StaffRoles,
		entry.TargetKind,
		entry.TargetID,
		entry.Action,
		entry.PatientName,
		entry.PhoneMasked,
		entry.CallID,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create call audit entry: %w", err)
	}
	return nil
}
