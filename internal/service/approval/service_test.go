package approval

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
	apperrors "github.com/carelink/hospital-api/pkg/errors"
	"github.com/carelink/hospital-api/pkg/metrics"
)

// One registry per test binary; promauto panics on re-registration.
var testMetrics = metrics.NewMetrics("test", "approval")

type mockApprovalRepository struct {
	mock.Mock
}

func (m *mockApprovalRepository) Create(ctx context.Context, req *model.StaffApprovalRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockApprovalRepository) Get(ctx context.Context, id uuid.UUID) (*model.StaffApprovalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StaffApprovalRequest), args.Error(1)
}

func (m *mockApprovalRepository) HasPending(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockApprovalRepository) List(ctx context.Context, status model.ApprovalStatus) ([]*model.StaffApprovalRequest, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.StaffApprovalRequest), args.Error(1)
}

func (m *mockApprovalRepository) Approve(ctx context.Context, req *model.StaffApprovalRequest, reviewerID uuid.UUID) error {
	args := m.Called(ctx, req, reviewerID)
	return args.Error(0)
}

func (m *mockApprovalRepository) Reject(ctx context.Context, id, reviewerID uuid.UUID, reason *string) error {
	args := m.Called(ctx, id, reviewerID, reason)
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

func pendingRequest(userID uuid.UUID) *model.StaffApprovalRequest {
	return &model.StaffApprovalRequest{
		ID:            uuid.New(),
		UserID:        userID,
		Email:         "nurse@example.com",
		FullName:      "Asha Verma",
		RequestedRole: model.RoleNurse,
		Status:        model.ApprovalStatusPending,
	}
}

func TestSubmit(t *testing.T) {
	userID := uuid.New()
	repo := new(mockApprovalRepository)
	repo.On("HasPending", mock.Anything, userID).Return(false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.StaffApprovalRequest")).Return(nil)

	svc := NewService(repo, new(mockGate), nil, testMetrics)
	req, err := svc.Submit(context.Background(), userID, &model.SubmitApprovalRequest{
		Email:         "nurse@example.com",
		FullName:      "Asha Verma",
		RequestedRole: model.RoleNurse,
	})
	require.NoError(t, err)
	assert.Equal(t, userID, req.UserID)
	assert.Equal(t, model.RoleNurse, req.RequestedRole)
	repo.AssertExpectations(t)
}

func TestSubmitRejectsNonStaffRole(t *testing.T) {
	repo := new(mockApprovalRepository)
	svc := NewService(repo, new(mockGate), nil, testMetrics)

	for _, role := range []model.Role{model.RolePatient, model.Role("superuser")} {
		_, err := svc.Submit(context.Background(), uuid.New(), &model.SubmitApprovalRequest{
			Email:         "x@example.com",
			FullName:      "X",
			RequestedRole: role,
		})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
	}
	repo.AssertNotCalled(t, "Create")
}

func TestSubmitWithPendingRequest(t *testing.T) {
	userID := uuid.New()
	repo := new(mockApprovalRepository)
	repo.On("HasPending", mock.Anything, userID).Return(true, nil)

	svc := NewService(repo, new(mockGate), nil, testMetrics)
	_, err := svc.Submit(context.Background(), userID, &model.SubmitApprovalRequest{
		Email:         "nurse@example.com",
		FullName:      "Asha Verma",
		RequestedRole: model.RoleNurse,
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrInvalidState, appErr.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestSubmitDuplicateRace(t *testing.T) {
	userID := uuid.New()
	repo := new(mockApprovalRepository)
	repo.On("HasPending", mock.Anything, userID).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	svc := NewService(repo, new(mockGate), nil, testMetrics)
	_, err := svc.Submit(context.Background(), userID, &model.SubmitApprovalRequest{
		Email:         "nurse@example.com",
		FullName:      "Asha Verma",
		RequestedRole: model.RoleNurse,
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrInvalidState, appErr.Code)
}

func TestApprove(t *testing.T) {
	reviewerID := uuid.New()
	request := pendingRequest(uuid.New())

	gate := new(mockGate)
	gate.On("HasRole", mock.Anything, reviewerID, model.RoleAdmin).Return(true, nil)

	repo := new(mockApprovalRepository)
	repo.On("Get", mock.Anything, request.ID).Return(request, nil)
	repo.On("Approve", mock.Anything, request, reviewerID).Return(nil)

	svc := NewService(repo, gate, nil, testMetrics)
	got, err := svc.Approve(context.Background(), request.ID, reviewerID)
	require.NoError(t, err)
	assert.Equal(t, request.ID, got.ID)
	repo.AssertExpectations(t)
}

func TestApproveRequiresAdmin(t *testing.T) {
	reviewerID := uuid.New()
	gate := new(mockGate)
	gate.On("HasRole", mock.Anything, reviewerID, model.RoleAdmin).Return(false, nil)

	repo := new(mockApprovalRepository)
	svc := NewService(repo, gate, nil, testMetrics)

	_, err := svc.Approve(context.Background(), uuid.New(), reviewerID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
	// A refused reviewer must not touch the request or grant anything.
	repo.AssertNotCalled(t, "Get")
	repo.AssertNotCalled(t, "Approve")
}

func TestApproveUnauthenticated(t *testing.T) {
	svc := NewService(new(mockApprovalRepository), new(mockGate), nil, testMetrics)

	_, err := svc.Approve(context.Background(), uuid.New(), uuid.Nil)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestApproveAlreadyDecided(t *testing.T) {
	reviewerID := uuid.New()
	request := pendingRequest(uuid.New())
	request.Status = model.ApprovalStatusApproved

	gate := new(mockGate)
	gate.On("HasRole", mock.Anything, reviewerID, model.RoleAdmin).Return(true, nil)

	repo := new(mockApprovalRepository)
	repo.On("Get", mock.Anything, request.ID).Return(request, nil)

	svc := NewService(repo, gate, nil, testMetrics)
	_, err := svc.Approve(context.Background(), request.ID, reviewerID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrInvalidState, appErr.Code)
	repo.AssertNotCalled(t, "Approve")
}

func TestApproveLosesRace(t *testing.T) {
	reviewerID := uuid.New()
	request := pendingRequest(uuid.New())

	gate := new(mockGate)
	gate.On("HasRole", mock.Anything, reviewerID, model.RoleAdmin).Return(true, nil)

	repo := new(mockApprovalRepository)
	repo.On("Get", mock.Anything, request.ID).Return(request, nil)
	repo.On("Approve", mock.Anything, request, reviewerID).Return(repository.ErrNotFound)

	svc := NewService(repo, gate, nil, testMetrics)
	_, err := svc.Approve(context.Background(), request.ID, reviewerID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrInvalidState, appErr.Code)
}

func TestReject(t *testing.T) {
	reviewerID := uuid.New()
	request := pendingRequest(uuid.New())

	gate := new(mockGate)
	gate.On("HasRole", mock.Anything, reviewerID, model.RoleAdmin).Return(true, nil)

	repo := new(mockApprovalRepository)
	repo.On("Get", mock.Anything, request.ID).Return(request, nil)
	repo.On("Reject", mock.Anything, request.ID, reviewerID, mock.AnythingOfType("*string")).Return(nil)

	svc := NewService(repo, gate, nil, testMetrics)
	got, err := svc.Reject(context.Background(), request.ID, reviewerID, "credentials not verified")
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatusRejected, got.Status)
	require.NotNil(t, got.RejectionReason)
	assert.Equal(t, "credentials not verified", *got.RejectionReason)
}

func TestRejectAlreadyDecided(t *testing.T) {
	reviewerID := uuid.New()
	request := pendingRequest(uuid.New())
	request.Status = model.ApprovalStatusRejected

	gate := new(mockGate)
	gate.On("HasRole", mock.Anything, reviewerID, model.RoleAdmin).Return(true, nil)

	repo := new(mockApprovalRepository)
	repo.On("Get", mock.Anything, request.ID).Return(request, nil)

	svc := NewService(repo, gate, nil, testMetrics)
	_, err := svc.Reject(context.Background(), request.ID, reviewerID, "")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrInvalidState, appErr.Code)
	repo.AssertNotCalled(t, "Reject")
}

func TestListRequiresAdmin(t *testing.T) {
	callerID := uuid.New()
	gate := new(mockGate)
	gate.On("HasRole", mock.Anything, callerID, model.RoleAdmin).Return(false, nil)

	svc := NewService(new(mockApprovalRepository), gate, nil, testMetrics)
	_, err := svc.List(context.Background(), callerID, model.ApprovalStatusPending)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}
