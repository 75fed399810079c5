package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/model"
)

// ErrNotFound is returned by every repository when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

type RoleRepository interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Role, error)
	Assign(ctx context.Context, userID uuid.UUID, role model.Role) error
	Revoke(ctx context.Context, userID uuid.UUID, role model.Role) error
}

type ApprovalRepository interface {
	Create(ctx context.Context, req *model.StaffApprovalRequest) error
	Get(ctx context.Context, id uuid.UUID) (*model.StaffApprovalRequest, error)
	HasPending(ctx context.Context, userID uuid.UUID) (bool, error)
	List(ctx context.Context, status model.ApprovalStatus) ([]*model.StaffApprovalRequest, error)
	// Approve grants the requested role and marks the request approved in
	// one transaction; if the grant fails the status write is rolled back.
	Approve(ctx context.Context, req *model.StaffApprovalRequest, reviewerID uuid.UUID) error
	Reject(ctx context.Context, id, reviewerID uuid.UUID, reason *string) error
}

type EscalationRepository interface {
	Create(ctx context.Context, esc *model.EscalationRequest) error
	Get(ctx context.Context, id uuid.UUID) (*model.EscalationRequest, error)
	ListPending(ctx context.Context) ([]*model.EscalationRequest, error)
	Resolve(ctx context.Context, id, resolvedBy uuid.UUID) error
}

type AppointmentRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	// UpdateStatusIf transitions the status only when the current status is
	// one of from; reports whether a row changed. This is the compare-and-swap
	// both the dispatcher and the confirmation handler rely on.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from []model.AppointmentStatus, to model.AppointmentStatus) (bool, error)
}

type PatientAppointmentRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.PatientAppointment, error)
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from []model.AppointmentStatus, to model.AppointmentStatus) (bool, error)
}

type CallbackRepository interface {
	Create(ctx context.Context, cb *model.CallbackRequest) error
	Get(ctx context.Context, id uuid.UUID) (*model.CallbackRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.CallbackStatus) error
}

type PatientRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
}

type DoctorRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	UpdateSchedule(ctx context.Context, id uuid.UUID, schedule []byte) error
}

type DepartmentRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Department, error)
}

type CallAuditRepository interface {
	Create(ctx context.Context, entry *model.CallAuditEntry) error
}
