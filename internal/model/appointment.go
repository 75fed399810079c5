package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending       AppointmentStatus = "pending"
	AppointmentStatusConfirmed     AppointmentStatus = "confirmed"
	AppointmentStatusInProgress    AppointmentStatus = "in-progress"
	AppointmentStatusCallInitiated AppointmentStatus = "call_initiated"
	AppointmentStatusCompleted     AppointmentStatus = "completed"
	AppointmentStatusCancelled     AppointmentStatus = "cancelled"
)

// Appointment is the staff-entered shape: the patient exists as a record and
// contact data is joined in from the patients table.
type Appointment struct {
	ID              uuid.UUID         `db:"id" json:"id"`
	PatientID       uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	Date            time.Time         `db:"date" json:"date"`
	Time            string            `db:"time" json:"time"`
	DurationMinutes int               `db:"duration_minutes" json:"duration_minutes"`
	Type            string            `db:"type" json:"type"`
	Status          AppointmentStatus `db:"status" json:"status"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// PatientAppointment is the self-service shape booked by the patient
// directly; contact data lives on the row itself.
type PatientAppointment struct {
	ID              uuid.UUID         `db:"id" json:"id"`
	UserID          uuid.UUID         `db:"user_id" json:"user_id"`
	PatientName     string            `db:"patient_name" json:"patient_name"`
	PatientPhone    string            `db:"patient_phone" json:"patient_phone"`
	PatientEmail    *string           `db:"patient_email" json:"patient_email,omitempty"`
	DoctorID        *uuid.UUID        `db:"doctor_id" json:"doctor_id,omitempty"`
	DepartmentID    *uuid.UUID        `db:"department_id" json:"department_id,omitempty"`
	PreferredDate   time.Time         `db:"preferred_date" json:"preferred_date"`
	PreferredTime   *string           `db:"preferred_time" json:"preferred_time,omitempty"`
	AppointmentType string            `db:"appointment_type" json:"appointment_type"`
	Status          AppointmentStatus `db:"status" json:"status"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

type Patient struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Name  string    `db:"name" json:"name"`
	Phone string    `db:"phone" json:"phone"`
	Email *string   `db:"email" json:"email,omitempty"`
}

type Doctor struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Specialty    string     `db:"specialty" json:"specialty"`
	Schedule     []byte     `db:"schedule" json:"schedule,omitempty"`
	DepartmentID *uuid.UUID `db:"department_id" json:"department_id,omitempty"`
}

type Department struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
}

// RecordKind tags which underlying store a normalized record came from.
type RecordKind string

const (
	RecordKindAppointment        RecordKind = "appointment"
	RecordKindPatientAppointment RecordKind = "patient_appointment"
	RecordKindCallback           RecordKind = "callback"
)

// NormalizedRecord is the single view the dispatcher consumes. Downstream
// logic never branches on which underlying shape matched.
type NormalizedRecord struct {
	Kind           RecordKind `json:"kind"`
	ID             uuid.UUID  `json:"id"`
	PatientName    string     `json:"patient_name"`
	PatientPhone   string     `json:"patient_phone"`
	DoctorName     string     `json:"doctor_name,omitempty"`
	Specialty      string     `json:"specialty,omitempty"`
	DepartmentName string     `json:"department_name,omitempty"`
	Date           string     `json:"date,omitempty"`
	Time           string     `json:"time,omitempty"`
	Status         string     `json:"status"`
}
