package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// profileServiceFixtures holds all test dependencies for profile service tests.
type profileServiceFixtures struct {
	service     usecase.ProfileUsecase
	txManager   *mockRepo.MockTransactionManager
	userRepo    *mockRepo.MockUserRepository
	profileRepo *mockRepo.MockProfileRepository
}

func createTestProfileService(t *testing.T) profileServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	profileRepo := mockRepo.NewMockProfileRepository(t)
	factory := mockRepo.NewMockRepositoryFactory(t)

	factory.EXPECT().ProfileRepo().Return(profileRepo).Maybe()
	txManager.EXPECT().
		Execute(mock.Anything, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		}).
		Maybe()

	return profileServiceFixtures{
		service:     NewProfileService(txManager, userRepo, newDiscardLogger()),
		txManager:   txManager,
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestProfileService_GetProfile_Success(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	userID := uuid.New()
	profile := &entity.Profile{UserID: userID, FirstName: "Amina", Role: entity.RoleCustomer}

	fx.profileRepo.EXPECT().FindByUserID(ctx, userID).Return(profile, nil)

	got, err := fx.service.GetProfile(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, profile, got)
}

func TestProfileService_GetProfile_NotFound(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.profileRepo.EXPECT().FindByUserID(ctx, userID).Return(nil, repository.ErrProfileNotFound)

	_, err := fx.service.GetProfile(ctx, userID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestProfileService_GetProfile_AuthRequired(t *testing.T) {
	fx := createTestProfileService(t)

	_, err := fx.service.GetProfile(context.Background(), uuid.Nil)

	assert.True(t, errors.Is(err, domainerrors.ErrAuthRequired))
}

func TestProfileService_UpdateProfile_OnlySetFields(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	userID := uuid.New()
	profile := &entity.Profile{
		UserID:    userID,
		Email:     "amina@example.com",
		FirstName: "Amina",
		City:      "Mombasa",
		Role:      entity.RoleCustomer,
	}

	fx.profileRepo.EXPECT().FindByUserID(ctx, userID).Return(profile, nil)
	fx.profileRepo.EXPECT().Update(ctx, profile).Return(nil)

	updated, err := fx.service.UpdateProfile(ctx, userID, &usecase.UpdateProfileInput{
		Phone: ptr(" +254700000000 "),
		City:  ptr("Nairobi"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Amina", updated.FirstName)
	assert.Equal(t, "+254700000000", updated.Phone)
	assert.Equal(t, "Nairobi", updated.City)
	assert.Equal(t, entity.RoleCustomer, updated.Role)
	assert.True(t, updated.IsComplete())
}

func TestProfileService_UpdateProfile_StoreError(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.profileRepo.EXPECT().FindByUserID(ctx, userID).Return(&entity.Profile{UserID: userID}, nil)
	fx.profileRepo.EXPECT().Update(ctx, mock.Anything).Return(errors.New("db down"))

	_, err := fx.service.UpdateProfile(ctx, userID, &usecase.UpdateProfileInput{FirstName: ptr("Amina")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update profile")
}

func TestProfileService_UpdateUser_Role(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	userID := uuid.New()
	profile := &entity.Profile{UserID: userID, Role: entity.RoleCustomer}

	fx.profileRepo.EXPECT().FindByUserID(ctx, userID).Return(profile, nil)
	fx.profileRepo.EXPECT().Update(ctx, profile).Return(nil)

	updated, err := fx.service.UpdateUser(ctx, userID, &usecase.AdminUpdateUserInput{Role: ptr(entity.RoleAdmin)})

	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, updated.Role)

	_, err = fx.service.UpdateUser(ctx, userID, &usecase.AdminUpdateUserInput{Role: ptr(entity.Role("owner"))})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestProfileService_ListAndDeleteUsers(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	users := []*entity.User{{ID: uuid.New()}}
	missing := uuid.New()

	fx.userRepo.EXPECT().FindAll(ctx).Return(users, nil)
	fx.userRepo.EXPECT().Delete(ctx, missing).Return(repository.ErrUserNotFound)

	got, err := fx.service.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, users, got)

	err = fx.service.DeleteUser(ctx, missing)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}
