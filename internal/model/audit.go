package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CallAuditEntry is written once per dispatch attempt that reached the
// provider call, before the call is placed. Append-only. PhoneMasked must
// already be masked when the entry is recorded; the audit service enforces
// this regardless of what the caller passes.
type CallAuditEntry struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	StaffUserID  *uuid.UUID     `db:"staff_user_id" json:"staff_user_id,omitempty"`
	StaffRoles   pq.StringArray `db:"staff_roles" json:"staff_roles"`
	TargetKind   RecordKind     `db:"target_kind" json:"target_kind"`
	TargetID     uuid.UUID      `db:"target_id" json:"target_id"`
	Action       string         `db:"action" json:"action"`
	PatientName  string         `db:"patient_name" json:"patient_name"`
	PhoneMasked  string         `db:"phone_masked" json:"phone_masked"`
	CallID       *string        `db:"call_id" json:"call_id,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}
