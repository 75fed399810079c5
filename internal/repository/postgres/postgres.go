package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/carelink/hospital-api/internal/repository"
)

type roleRepository struct {
	db *sqlx.DB
}

type approvalRepository struct {
	db *sqlx.DB
}

type escalationRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

type patientAppointmentRepository struct {
	db *sqlx.DB
}

type callbackRepository struct {
	db *sqlx.DB
}

type patientRepository struct {
	db *sqlx.DB
}

type doctorRepository struct {
	db *sqlx.DB
}

type departmentRepository struct {
	db *sqlx.DB
}

type callAuditRepository struct {
	db *sqlx.DB
}

func NewRoleRepository(db *sqlx.DB) repository.RoleRepository {
	return &roleRepository{db: db}
}

func NewApprovalRepository(db *sqlx.DB) repository.ApprovalRepository {
	return &approvalRepository{db: db}
}

func NewEscalationRepository(db *sqlx.DB) repository.EscalationRepository {
	return &escalationRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewPatientAppointmentRepository(db *sqlx.DB) repository.PatientAppointmentRepository {
	return &patientAppointmentRepository{db: db}
}

func NewCallbackRepository(db *sqlx.DB) repository.CallbackRepository {
	return &callbackRepository{db: db}
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func NewDepartmentRepository(db *sqlx.DB) repository.DepartmentRepository {
	return &departmentRepository{db: db}
}

func NewCallAuditRepository(db *sqlx.DB) repository.CallAuditRepository {
	return &callAuditRepository{db: db}
}
