package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Create(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	args := m.Called(ctx, s)
	if v := args.Get(0); v != nil {
		return v.(*domain.Service), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Service), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, filter domain.ServiceFilter) ([]*domain.Service, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Service), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	args := m.Called(ctx, s)
	if v := args.Get(0); v != nil {
		return v.(*domain.Service), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCleaner struct{ mock.Mock }

func (m *mockCleaner) Remove(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	admin = domain.Principal{UserID: 1, Role: domain.RoleAdmin}
	user  = domain.Principal{UserID: 7, Role: domain.RoleUser}
)

func dental() *domain.Service {
	return &domain.Service{
		ID:              3,
		Name:            "Dental Checkup",
		Category:        domain.CategoryDental,
		DurationMinutes: 45,
		Price:           decimal.NewFromInt(75),
		ImagePath:       ptr.Ptr("services/dental.png"),
		IsActive:        true,
	}
}

func TestCreate_RequiresAdmin(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, nil, nopLogger{})

	_, err := svc.Create(context.Background(), user, &models.CreateServiceRequest{Name: "X", Category: "dental"})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(&mockRepo{}, nil, nopLogger{})

	tests := []struct {
		name string
		req  models.CreateServiceRequest
	}{
		{name: "empty name", req: models.CreateServiceRequest{Category: "dental"}},
		{name: "unknown category", req: models.CreateServiceRequest{Name: "X", Category: "spa"}},
		{name: "too short", req: models.CreateServiceRequest{Name: "X", Category: "dental", DurationMinutes: ptr.Ptr(4)}},
		{name: "too long", req: models.CreateServiceRequest{Name: "X", Category: "dental", DurationMinutes: ptr.Ptr(481)}},
		{name: "negative price", req: models.CreateServiceRequest{Name: "X", Category: "dental", Price: decimal.NewFromInt(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), admin, &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreate_Defaults(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Service) bool {
		return s.DurationMinutes == 30 && s.IsActive && s.Name == "General Consultation"
	})).Return(&domain.Service{ID: 1, Name: "General Consultation", Category: domain.CategoryConsultation, DurationMinutes: 30, IsActive: true}, nil)

	svc := NewService(repo, nil, nopLogger{})
	resp, err := svc.Create(context.Background(), admin, &models.CreateServiceRequest{
		Name:     "  General Consultation ",
		Category: "consultation",
		Price:    decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "30m", resp.DurationDisplay)
	repo.AssertExpectations(t)
}

func TestUpdate_RemovesReplacedImage(t *testing.T) {
	repo := &mockRepo{}
	cleaner := &mockCleaner{}
	repo.On("GetByID", mock.Anything, int64(3)).Return(dental(), nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(s *domain.Service) bool {
		return s.ImagePath != nil && *s.ImagePath == "services/dental-v2.png"
	})).Return(&domain.Service{ID: 3, Name: "Dental Checkup", Category: domain.CategoryDental,
		DurationMinutes: 45, ImagePath: ptr.Ptr("services/dental-v2.png"), IsActive: true}, nil)
	cleaner.On("Remove", mock.Anything, "services/dental.png").Return(nil)

	svc := NewService(repo, cleaner, nopLogger{})
	_, err := svc.Update(context.Background(), admin, 3, &models.UpdateServiceRequest{ImagePath: ptr.Ptr("services/dental-v2.png")})
	require.NoError(t, err)

	cleaner.AssertExpectations(t)
}

func TestUpdate_KeepsImageWhenUnchanged(t *testing.T) {
	repo := &mockRepo{}
	cleaner := &mockCleaner{}
	updated := dental()
	updated.Price = decimal.NewFromInt(80)
	repo.On("GetByID", mock.Anything, int64(3)).Return(dental(), nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(updated, nil)

	svc := NewService(repo, cleaner, nopLogger{})
	resp, err := svc.Update(context.Background(), admin, 3, &models.UpdateServiceRequest{Price: ptr.Ptr(decimal.NewFromInt(80))})
	require.NoError(t, err)
	assert.True(t, resp.Price.Equal(decimal.NewFromInt(80)))

	cleaner.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestUpdate_CleanupFailureIsNotReturned(t *testing.T) {
	repo := &mockRepo{}
	cleaner := &mockCleaner{}
	updated := dental()
	updated.ImagePath = nil
	repo.On("GetByID", mock.Anything, int64(3)).Return(dental(), nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(updated, nil)
	cleaner.On("Remove", mock.Anything, "services/dental.png").Return(errors.New("permission denied"))

	svc := NewService(repo, cleaner, nopLogger{})
	_, err := svc.Update(context.Background(), admin, 3, &models.UpdateServiceRequest{ImagePath: ptr.Ptr("")})
	assert.NoError(t, err)
	cleaner.AssertExpectations(t)
}

func TestUpdate_NotFound(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetByID", mock.Anything, int64(9)).Return(nil, serviceRepo.ErrServiceNotFound)

	svc := NewService(repo, nil, nopLogger{})
	_, err := svc.Update(context.Background(), admin, 9, &models.UpdateServiceRequest{})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestGet_InactiveHiddenFromUsers(t *testing.T) {
	inactive := dental()
	inactive.IsActive = false

	repo := &mockRepo{}
	repo.On("GetByID", mock.Anything, int64(3)).Return(inactive, nil)
	svc := NewService(repo, nil, nopLogger{})

	_, err := svc.Get(context.Background(), user, 3)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	resp, err := svc.Get(context.Background(), admin, 3)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
}

func TestList_FilterValidation(t *testing.T) {
	svc := NewService(&mockRepo{}, nil, nopLogger{})

	bad := []models.ListServicesRequest{
		{Category: ptr.Ptr("spa")},
		{MinPrice: ptr.Ptr("abc")},
		{MinPrice: ptr.Ptr("-5")},
		{MinPrice: ptr.Ptr("100"), MaxPrice: ptr.Ptr("50")},
		{Duration: ptr.Ptr("huge")},
		{Sort: ptr.Ptr("rating")},
	}
	for _, req := range bad {
		_, err := svc.List(context.Background(), user, &req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestList_IncludeInactiveOnlyForAdmin(t *testing.T) {
	repo := &mockRepo{}
	repo.On("List", mock.Anything, mock.MatchedBy(func(f domain.ServiceFilter) bool { return !f.IncludeInactive })).
		Return([]*domain.Service{dental()}, nil).Once()
	repo.On("List", mock.Anything, mock.MatchedBy(func(f domain.ServiceFilter) bool { return f.IncludeInactive })).
		Return([]*domain.Service{dental()}, nil).Once()

	svc := NewService(repo, nil, nopLogger{})

	resp, err := svc.List(context.Background(), user, &models.ListServicesRequest{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, resp.Services, 1)

	_, err = svc.List(context.Background(), admin, &models.ListServicesRequest{
		IncludeInactive: true,
		MinPrice:        ptr.Ptr("10"),
		MaxPrice:        ptr.Ptr("100"),
		Duration:        ptr.Ptr("medium"),
		Sort:            ptr.Ptr("price_low"),
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
