package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
)

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, date, time, duration_minutes,
			   type, status, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from []model.AppointmentStatus, to model.AppointmentStatus) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = ANY($4)
	`
	fromStrs := make([]string, len(from))
	for i, s := range from {
		fromStrs[i] = string(s)
	}

	result, err := r.db.ExecContext(ctx, query, to, time.Now(), id, pq.Array(fromStrs))
	if err != nil {
		return false, fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *patientAppointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.PatientAppointment, error) {
	query := `
		SELECT id, user_id, patient_name, patient_phone, patient_email,
			   doctor_id, department_id, preferred_date, preferred_time,
			   appointment_type, status, created_at, updated_at
		FROM patient_appointments
		WHERE id = $1
	`
	var appointment model.PatientAppointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient appointment: %w", err)
	}
	return &appointment, nil
}

func (r *patientAppointmentRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from []model.AppointmentStatus, to model.AppointmentStatus) (bool, error) {
	query := `
		UPDATE patient_appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = ANY($4)
	`
	fromStrs := make([]string, len(from))
	for i, s := range from {
		fromStrs[i] = string(s)
	}

	result, err := r.db.ExecContext(ctx, query, to, time.Now(), id, pq.Array(fromStrs))
	if err != nil {
		return false, fmt.Errorf("failed to update patient appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
