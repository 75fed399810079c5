package doctor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
	"github.com/carelink/hospital-api/internal/service/escalation"
	apperrors "github.com/carelink/hospital-api/pkg/errors"
	"github.com/carelink/hospital-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("test", "doctor")

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

type mockEscalationRepository struct {
	mock.Mock
}

func (m *mockEscalationRepository) Create(ctx context.Context, esc *model.EscalationRequest) error {
	args := m.Called(ctx, esc)
	esc.ID = uuid.New()
	return args.Error(0)
}

func (m *mockEscalationRepository) Get(ctx context.Context, id uuid.UUID) (*model.EscalationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EscalationRequest), args.Error(1)
}

func (m *mockEscalationRepository) ListPending(ctx context.Context) ([]*model.EscalationRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.EscalationRequest), args.Error(1)
}

func (m *mockEscalationRepository) Resolve(ctx context.Context, id, resolvedBy uuid.UUID) error {
	args := m.Called(ctx, id, resolvedBy)
	return args.Error(0)
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

func newTestService(repo *mockDoctorRepository, gate *mockGate, escRepo *mockEscalationRepository) *Service {
	escSvc := escalation.NewService(escRepo, gate, testMetrics)
	return NewService(repo, gate, escSvc)
}

func TestUpdateScheduleAsAdmin(t *testing.T) {
	actorID := uuid.New()
	doctorID := uuid.New()
	schedule := []byte(`{"monday":"09:00-17:00"}`)

	gate := new(mockGate)
	gate.On("IsStaff", mock.Anything, actorID).Return(true, nil)
	gate.On("HasRole", mock.Anything, actorID, model.RoleAdmin).Return(true, nil)

	repo := new(mockDoctorRepository)
	repo.On("UpdateSchedule", mock.Anything, doctorID, schedule).Return(nil)

	svc := newTestService(repo, gate, new(mockEscalationRepository))
	result, err := svc.UpdateSchedule(context.Background(), actorID, doctorID, schedule)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Nil(t, result.EscalationID)
	repo.AssertExpectations(t)
}

func TestUpdateScheduleAsDoctor(t *testing.T) {
	actorID := uuid.New()
	doctorID := uuid.New()

	gate := new(mockGate)
	gate.On("IsStaff", mock.Anything, actorID).Return(true, nil)
	gate.On("HasRole", mock.Anything, actorID, model.RoleAdmin).Return(false, nil)
	gate.On("HasRole", mock.Anything, actorID, model.RoleDoctor).Return(true, nil)

	repo := new(mockDoctorRepository)
	repo.On("UpdateSchedule", mock.Anything, doctorID, mock.Anything).Return(nil)

	svc := newTestService(repo, gate, new(mockEscalationRepository))
	result, err := svc.UpdateSchedule(context.Background(), actorID, doctorID, []byte(`{}`))
	require.NoError(t, err)
	assert.True(t, result.Applied)
}

func TestUpdateScheduleEscalatesForConstrainedStaff(t *testing.T) {
	actorID := uuid.New()
	doctorID := uuid.New()

	gate := new(mockGate)
	gate.On("IsStaff", mock.Anything, actorID).Return(true, nil)
	gate.On("HasRole", mock.Anything, actorID, model.RoleAdmin).Return(false, nil)
	gate.On("HasRole", mock.Anything, actorID, model.RoleDoctor).Return(false, nil)
	gate.On("DisplayRole", mock.Anything, actorID).Return(model.DisplayNurse, nil)

	escRepo := new(mockEscalationRepository)
	escRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.EscalationRequest")).Return(nil)

	repo := new(mockDoctorRepository)
	svc := newTestService(repo, gate, escRepo)

	result, err := svc.UpdateSchedule(context.Background(), actorID, doctorID, []byte(`{}`))
	require.NoError(t, err)
	assert.False(t, result.Applied)
	require.NotNil(t, result.EscalationID)
	// The write itself must be abandoned, not deferred.
	repo.AssertNotCalled(t, "UpdateSchedule")

	require.NotNil(t, result.Escalation)
	assert.Contains(t, result.Escalation.Message, doctorID.String())
}

func TestUpdateScheduleRefusesNonStaff(t *testing.T) {
	actorID := uuid.New()

	gate := new(mockGate)
	gate.On("IsStaff", mock.Anything, actorID).Return(false, nil)

	escRepo := new(mockEscalationRepository)
	repo := new(mockDoctorRepository)
	svc := newTestService(repo, gate, escRepo)

	_, err := svc.UpdateSchedule(context.Background(), actorID, uuid.New(), []byte(`{}`))
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
	// Patients are refused outright, no escalation on their behalf.
	escRepo.AssertNotCalled(t, "Create")
	repo.AssertNotCalled(t, "UpdateSchedule")
}

func TestUpdateScheduleUnauthenticated(t *testing.T) {
	svc := newTestService(new(mockDoctorRepository), new(mockGate), new(mockEscalationRepository))
	_, err := svc.UpdateSchedule(context.Background(), uuid.Nil, uuid.New(), []byte(`{}`))
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestUpdateScheduleDoctorNotFound(t *testing.T) {
	actorID := uuid.New()
	doctorID := uuid.New()

	gate := new(mockGate)
	gate.On("IsStaff", mock.Anything, actorID).Return(true, nil)
	gate.On("HasRole", mock.Anything, actorID, model.RoleAdmin).Return(true, nil)

	repo := new(mockDoctorRepository)
	repo.On("UpdateSchedule", mock.Anything, doctorID, mock.Anything).Return(repository.ErrNotFound)

	svc := newTestService(repo, gate, new(mockEscalationRepository))
	_, err := svc.UpdateSchedule(context.Background(), actorID, doctorID, []byte(`{}`))
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}
