package model

import (
	"time"

	"github.com/google/uuid"
)

// EscalationRequest is a typed notification addressed to administrators,
// describing an action a constrained role attempted but could not perform.
// Resolving it is an acknowledgement only: the original mutation was
// abandoned at the gate and is never queued or replayed.
type EscalationRequest struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	ActorID    uuid.UUID  `db:"actor_id" json:"actor_id"`
	Action     string     `db:"action" json:"action"`
	Title      string     `db:"title" json:"title"`
	Message    string     `db:"message" json:"message"`
	Resolved   bool       `db:"resolved" json:"resolved"`
	ResolvedBy *uuid.UUID `db:"resolved_by" json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
