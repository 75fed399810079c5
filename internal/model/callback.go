package model

import (
	"time"

	"github.com/google/uuid"
)

type CallbackStatus string

const (
	CallbackStatusPending   CallbackStatus = "pending"
	CallbackStatusCompleted CallbackStatus = "completed"
	CallbackStatusCancelled CallbackStatus = "cancelled"
)

// CallbackRequest is a lead asking to be phoned back. Rows come either from
// an authenticated user or anonymously from the public intake form.
type CallbackRequest struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Phone         string         `db:"phone" json:"phone"`
	Email         *string        `db:"email" json:"email,omitempty"`
	PreferredTime *string        `db:"preferred_time" json:"preferred_time,omitempty"`
	Reason        *string        `db:"reason" json:"reason,omitempty"`
	Status        CallbackStatus `db:"status" json:"status"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}
