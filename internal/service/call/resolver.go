package call

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
)

// ErrRecordNotFound is the resolver's miss signal. The dispatcher folds it
// into the generic unprocessable failure before anything reaches a client.
var ErrRecordNotFound = errors.New("no matching record")

// Resolver locates a record across the two appointment families and the
// callback store, and flattens whichever shape matched into one normalized
// view. Downstream code never branches on the underlying shape again.
type Resolver struct {
	appointments        repository.AppointmentRepository
	patientAppointments repository.PatientAppointmentRepository
	callbacks           repository.CallbackRepository
	patients            repository.PatientRepository
	doctors             repository.DoctorRepository
	departments         repository.DepartmentRepository
}

func NewResolver(
	appointments repository.AppointmentRepository,
	patientAppointments repository.PatientAppointmentRepository,
	callbacks repository.CallbackRepository,
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	departments repository.DepartmentRepository,
) *Resolver {
	return &Resolver{
		appointments:        appointments,
		patientAppointments: patientAppointments,
		callbacks:           callbacks,
		patients:            patients,
		doctors:             doctors,
		departments:         departments,
	}
}

// ResolveAppointment tries the staff-entered store first, then the
// self-service store. A miss in both is ErrRecordNotFound.
func (r *Resolver) ResolveAppointment(ctx context.Context, id uuid.UUID) (*model.NormalizedRecord, error) {
	appt, err := r.appointments.Get(ctx, id)
	if err == nil {
		return r.normalizeStaffEntered(ctx, appt)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up appointment: %w", err)
	}

	selfAppt, err := r.patientAppointments.Get(ctx, id)
	if err == nil {
		return r.normalizeSelfService(ctx, selfAppt)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up patient appointment: %w", err)
	}

	return nil, ErrRecordNotFound
}

// ResolveCallback loads an existing callback request by id.
func (r *Resolver) ResolveCallback(ctx context.Context, id uuid.UUID) (*model.NormalizedRecord, error) {
	cb, err := r.callbacks.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to look up callback request: %w", err)
	}
	return normalizeCallback(cb), nil
}

// CreateCallback is the create-on-demand path: capture a new lead and treat
// it as the resolved record, so one endpoint serves both "call an existing
// lead" and "capture and immediately call a new lead".
func (r *Resolver) CreateCallback(ctx context.Context, req *model.DispatchCallbackCallRequest) (*model.NormalizedRecord, error) {
	cb := &model.CallbackRequest{
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		PreferredTime: req.PreferredTime,
		Reason:        req.Reason,
	}
	if err := r.callbacks.Create(ctx, cb); err != nil {
		return nil, fmt.Errorf("failed to create callback request: %w", err)
	}
	return normalizeCallback(cb), nil
}

func (r *Resolver) normalizeStaffEntered(ctx context.Context, appt *model.Appointment) (*model.NormalizedRecord, error) {
	rec := &model.NormalizedRecord{
		Kind:   model.RecordKindAppointment,
		ID:     appt.ID,
		Date:   appt.Date.Format("2006-01-02"),
		Time:   appt.Time,
		Status: string(appt.Status),
	}

	patient, err := r.patients.Get(ctx, appt.PatientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to look up patient: %w", err)
	}
	rec.PatientName = patient.Name
	rec.PatientPhone = patient.Phone

	r.fillDoctor(ctx, rec, &appt.DoctorID, nil)
	return rec, nil
}

func (r *Resolver) normalizeSelfService(ctx context.Context, appt *model.PatientAppointment) (*model.NormalizedRecord, error) {
	rec := &model.NormalizedRecord{
		Kind:         model.RecordKindPatientAppointment,
		ID:           appt.ID,
		PatientName:  appt.PatientName,
		PatientPhone: appt.PatientPhone,
		Date:         appt.PreferredDate.Format("2006-01-02"),
		Status:       string(appt.Status),
	}
	if appt.PreferredTime != nil {
		rec.Time = *appt.PreferredTime
	}

	r.fillDoctor(ctx, rec, appt.DoctorID, appt.DepartmentID)
	return rec, nil
}

// fillDoctor enriches the record with doctor and department names. Misses
// here are tolerable: the record is still callable without them.
func (r *Resolver) fillDoctor(ctx context.Context, rec *model.NormalizedRecord, doctorID, departmentID *uuid.UUID) {
	if doctorID != nil && *doctorID != uuid.Nil {
		if doc, err := r.doctors.Get(ctx, *doctorID); err == nil {
			rec.DoctorName = doc.Name
			rec.Specialty = doc.Specialty
			if departmentID == nil {
				departmentID = doc.DepartmentID
			}
		}
	}
	if departmentID != nil && *departmentID != uuid.Nil {
		if dept, err := r.departments.Get(ctx, *departmentID); err == nil {
			rec.DepartmentName = dept.Name
		}
	}
}

func normalizeCallback(cb *model.CallbackRequest) *model.NormalizedRecord {
	rec := &model.NormalizedRecord{
		Kind:         model.RecordKindCallback,
		ID:           cb.ID,
		PatientName:  cb.Name,
		PatientPhone: cb.Phone,
		Status:       string(cb.Status),
	}
	if cb.PreferredTime != nil {
		rec.Time = *cb.PreferredTime
	}
	return rec
}
