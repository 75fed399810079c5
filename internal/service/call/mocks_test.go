package call

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/voice"
	"github.com/carelink/hospital-api/pkg/metrics"
)

// One registry per test binary; promauto panics on re-registration.
var testMetrics = metrics.NewMetrics("test", "call")

type mockAppointmentRepository struct {
	mock.Mock
}

func (m *mockAppointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Appointment), args.Error(1)
}

func (m *mockAppointmentRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from []model.AppointmentStatus, to model.AppointmentStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

type mockPatientAppointmentRepository struct {
	mock.Mock
}

func (m *mockPatientAppointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.PatientAppointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PatientAppointment), args.Error(1)
}

func (m *mockPatientAppointmentRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from []model.AppointmentStatus, to model.AppointmentStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

type mockCallbackRepository struct {
	mock.Mock
}

func (m *mockCallbackRepository) Create(ctx context.Context, cb *model.CallbackRequest) error {
	args := m.Called(ctx, cb)
	cb.ID = uuid.New()
	cb.Status = model.CallbackStatusPending
	return args.Error(0)
}

func (m *mockCallbackRepository) Get(ctx context.Context, id uuid.UUID) (*model.CallbackRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CallbackRequest), args.Error(1)
}

func (m *mockCallbackRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.CallbackStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type mockPatientRepository struct {
	mock.Mock
}

func (m *mockPatientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Patient), args.Error(1)
}

type mockDoctorRepository struct {
	mock.Mock
}

func (m *mockDoctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Doctor), args.Error(1)
}

func (m *mockDoctorRepository) UpdateSchedule(ctx context.Context, id uuid.UUID, schedule []byte) error {
	args := m.Called(ctx, id, schedule)
	return args.Error(0)
}

type mockDepartmentRepository struct {
	mock.Mock
}

func (m *mockDepartmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Department), args.Error(1)
}

type mockGate struct {
	mock.Mock
}

func (m *mockGate) HasRole(ctx context.Context, userID uuid.UUID, role model.Role) (bool, error) {
	args := m.Called(ctx, userID, role)
	return args.Bool(0), args.Error(1)
}

func (m *mockGate) IsStaff(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockGate) Roles(ctx context.Context, userID uuid.UUID) ([]model.Role, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Role), args.Error(1)
}

func (m *mockGate) DisplayRole(ctx context.Context, userID uuid.UUID) (model.DisplayRole, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.DisplayRole), args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(ctx context.Context, entry *model.CallAuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type mockCaller struct {
	mock.Mock
}

func (m *mockCaller) PlaceCall(ctx context.Context, req voice.CallRequest) (*voice.CallResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*voice.CallResult), args.Error(1)
}

type mockLock struct {
	mock.Mock
}

func (m *mockLock) Acquire(ctx context.Context, recordID string) (bool, error) {
	args := m.Called(ctx, recordID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLock) Release(ctx context.Context, recordID string) {
	m.Called(ctx, recordID)
}

// openLock never blocks a dispatch.
func openLock() *mockLock {
	l := new(mockLock)
	l.On("Acquire", mock.Anything, mock.Anything).Return(true, nil)
	l.On("Release", mock.Anything, mock.Anything).Return()
	return l
}

// fixture bundles every dependency of the dispatcher with pass-through
// defaults so each test only overrides what it exercises.
type fixture struct {
	appointments        *mockAppointmentRepository
	patientAppointments *mockPatientAppointmentRepository
	callbacks           *mockCallbackRepository
	patients            *mockPatientRepository
	doctors             *mockDoctorRepository
	departments         *mockDepartmentRepository
	gate                *mockGate
	auditor             *mockRecorder
	caller              *mockCaller
	locks               *mockLock
}

func newFixture() *fixture {
	return &fixture{
		appointments:        new(mockAppointmentRepository),
		patientAppointments: new(mockPatientAppointmentRepository),
		callbacks:           new(mockCallbackRepository),
		patients:            new(mockPatientRepository),
		doctors:             new(mockDoctorRepository),
		departments:         new(mockDepartmentRepository),
		gate:                new(mockGate),
		auditor:             new(mockRecorder),
		caller:              new(mockCaller),
		locks:               openLock(),
	}
}

func (f *fixture) resolver() *Resolver {
	return NewResolver(f.appointments, f.patientAppointments, f.callbacks, f.patients, f.doctors, f.departments)
}

func (f *fixture) service() *Service {
	return NewService(f.resolver(), f.appointments, f.patientAppointments,
		f.gate, f.auditor, f.caller, f.locks, testMetrics, "City General Hospital")
}
