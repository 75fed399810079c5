package model

import (
	"time"

	"github.com/google/uuid"
)

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// StaffApprovalRequest tracks a registered user asking for a staff role.
// Approved and rejected are terminal; the schema keeps at most one pending
// row per user.
type StaffApprovalRequest struct {
	ID              uuid.UUID      `db:"id" json:"id"`
	UserID          uuid.UUID      `db:"user_id" json:"user_id"`
	Email           string         `db:"email" json:"email"`
	FullName        string         `db:"full_name" json:"full_name"`
	RequestedRole   Role           `db:"requested_role" json:"requested_role"`
	Status          ApprovalStatus `db:"status" json:"status"`
	RejectionReason *string        `db:"rejection_reason" json:"rejection_reason,omitempty"`
	ReviewedBy      *uuid.UUID     `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time     `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

type SubmitApprovalRequest struct {
	Email         string `json:"email" binding:"required,email"`
	FullName      string `json:"full_name" binding:"required,max=200"`
	RequestedRole Role   `json:"requested_role" binding:"required,staffrole"`
}

type RejectApprovalRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}
