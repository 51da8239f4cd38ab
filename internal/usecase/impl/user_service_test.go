package impl

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service          usecase.UserUsecase
	txManager        *mockRepo.MockTransactionManager
	factory          *mockRepo.MockRepositoryFactory
	userRepo         *mockRepo.MockUserRepository
	authRepo         *mockRepo.MockAuthRepository
	txRefreshRepo    *mockRepo.MockRefreshTokenRepository
	refreshTokenRepo *mockRepo.MockRefreshTokenRepository
	hasher           *mockSvc.MockPasswordHasher
	tokenService     *mockSvc.MockTokenService
}

func createTestUserService(t *testing.T) userServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	factory := mockRepo.NewMockRepositoryFactory(t)
	refreshTokenRepo := mockRepo.NewMockRefreshTokenRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)

	srv := NewUserService(UserServiceParams{
		TxManager:        txManager,
		RefreshTokenRepo: refreshTokenRepo,
		Hasher:           hasher,
		TokenService:     tokenService,
		Logger:           newDiscardLogger(),
	})

	txManager.EXPECT().
		Execute(mock.Anything, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		}).
		Maybe()

	return userServiceFixtures{
		service:          srv,
		txManager:        txManager,
		factory:          factory,
		userRepo:         mockRepo.NewMockUserRepository(t),
		authRepo:         mockRepo.NewMockAuthRepository(t),
		txRefreshRepo:    mockRepo.NewMockRefreshTokenRepository(t),
		refreshTokenRepo: refreshTokenRepo,
		hasher:           hasher,
		tokenService:     tokenService,
	}
}

func (fx userServiceFixtures) withRepos() {
	fx.factory.EXPECT().UserRepo().Return(fx.userRepo).Maybe()
	fx.factory.EXPECT().AuthRepo().Return(fx.authRepo).Maybe()
	fx.factory.EXPECT().RefreshTokenRepo().Return(fx.txRefreshRepo).Maybe()
}

func TestUserService_Register_Success(t *testing.T) {
	fx := createTestUserService(t)
	fx.withRepos()

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:     "  Amina@Example.com ",
		Password:  "Password123!",
		FirstName: "Amina",
		LastName:  "Otieno",
	}
	userID := uuid.New()

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.authRepo.EXPECT().
		FindAuthentication(ctx, entity.ProviderTypeEmail, "amina@example.com").
		Return(nil, repository.ErrAuthNotFound)
	fx.userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(_ context.Context, user *entity.User) {
			user.ID = userID
		}).
		Return(nil)
	fx.authRepo.EXPECT().
		CreateAuthentication(ctx, mock.MatchedBy(func(auth *entity.Authentication) bool {
			return auth.UserID == userID && auth.PasswordHash == "hashed_password" && auth.ProviderUserID == "amina@example.com"
		})).
		Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", output.User.Email)
	assert.Equal(t, entity.RoleCustomer, output.User.Role())
	assert.Equal(t, "Amina Otieno", output.User.Profile.FullName())
}

func TestUserService_Register_AlreadyExists(t *testing.T) {
	fx := createTestUserService(t)
	fx.withRepos()

	ctx := context.Background()
	input := &usecase.RegisterInput{Email: "amina@example.com", Password: "Password123!"}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.authRepo.EXPECT().
		FindAuthentication(ctx, entity.ProviderTypeEmail, input.Email).
		Return(&entity.Authentication{UserID: uuid.New()}, nil)

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
	fx.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Register_MissingFields(t *testing.T) {
	fx := createTestUserService(t)

	_, err := fx.service.Register(context.Background(), &usecase.RegisterInput{Email: " "})

	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestUserService_Login_Success(t *testing.T) {
	fx := createTestUserService(t)
	fx.withRepos()

	ctx := context.Background()
	user := &entity.User{
		ID:      uuid.New(),
		Email:   "admin@example.com",
		Profile: &entity.Profile{Role: entity.RoleAdmin},
	}
	authRecord := &entity.Authentication{UserID: user.ID, PasswordHash: "hashed"}

	fx.authRepo.EXPECT().FindAuthentication(ctx, entity.ProviderTypeEmail, user.Email).Return(authRecord, nil)
	fx.hasher.EXPECT().Check("secret", "hashed").Return(true)
	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
	fx.tokenService.EXPECT().GenerateTokens(user.ID, []string{"admin"}).Return("access", "refresh", nil)
	fx.tokenService.EXPECT().HashToken("refresh").Return("refresh-hash")
	fx.tokenService.EXPECT().GetRefreshTokenDuration().Return(time.Hour)
	fx.refreshTokenRepo.EXPECT().
		CreateRefreshToken(ctx, mock.MatchedBy(func(token *entity.RefreshToken) bool {
			return token.UserID == user.ID && token.TokenHash == "refresh-hash" && token.ExpiresAt.After(time.Now())
		})).
		Return(nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "Admin@Example.com", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "access", output.AccessToken)
	assert.Equal(t, "refresh", output.RefreshToken)
	assert.Equal(t, user, output.User)
}

func TestUserService_Login_InvalidCredentials(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		fx := createTestUserService(t)
		fx.withRepos()

		ctx := context.Background()
		fx.authRepo.EXPECT().
			FindAuthentication(ctx, entity.ProviderTypeEmail, "ghost@example.com").
			Return(nil, repository.ErrAuthNotFound)

		_, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "ghost@example.com", Password: "x"})

		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	})

	t.Run("wrong password", func(t *testing.T) {
		fx := createTestUserService(t)
		fx.withRepos()

		ctx := context.Background()
		fx.authRepo.EXPECT().
			FindAuthentication(ctx, entity.ProviderTypeEmail, "amina@example.com").
			Return(&entity.Authentication{UserID: uuid.New(), PasswordHash: "hashed"}, nil)
		fx.hasher.EXPECT().Check("wrong", "hashed").Return(false)

		_, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "amina@example.com", Password: "wrong"})

		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
		fx.tokenService.AssertNotCalled(t, "GenerateTokens", mock.Anything, mock.Anything)
	})
}

func TestUserService_RefreshToken_Success(t *testing.T) {
	fx := createTestUserService(t)
	fx.withRepos()

	ctx := context.Background()
	user := &entity.User{ID: uuid.New()}

	fx.tokenService.EXPECT().
		ValidateToken("refresh").
		Return(&service.Claims{UserID: user.ID, Type: service.TokenTypeRefresh}, nil)
	fx.tokenService.EXPECT().HashToken("refresh").Return("refresh-hash")
	fx.txRefreshRepo.EXPECT().
		FindRefreshTokenByHash(ctx, "refresh-hash").
		Return(&entity.RefreshToken{UserID: user.ID}, nil)
	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
	fx.tokenService.EXPECT().GenerateTokens(user.ID, []string{"customer"}).Return("new-access", "unused", nil)

	output, err := fx.service.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "refresh"})

	require.NoError(t, err)
	assert.Equal(t, "new-access", output.AccessToken)
}

func TestUserService_RefreshToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		setup func(fx userServiceFixtures)
	}{
		{
			name: "bad signature",
			setup: func(fx userServiceFixtures) {
				fx.tokenService.EXPECT().ValidateToken("refresh").Return(nil, errors.New("signature is invalid"))
			},
		},
		{
			name: "access token presented",
			setup: func(fx userServiceFixtures) {
				fx.tokenService.EXPECT().
					ValidateToken("refresh").
					Return(&service.Claims{UserID: uuid.New(), Type: service.TokenTypeAccess}, nil)
			},
		},
		{
			name: "revoked session",
			setup: func(fx userServiceFixtures) {
				fx.tokenService.EXPECT().
					ValidateToken("refresh").
					Return(&service.Claims{UserID: uuid.New(), Type: service.TokenTypeRefresh}, nil)
				fx.tokenService.EXPECT().HashToken("refresh").Return("refresh-hash")
				fx.txRefreshRepo.EXPECT().
					FindRefreshTokenByHash(mock.Anything, "refresh-hash").
					Return(nil, repository.ErrRefreshTokenNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestUserService(t)
			fx.withRepos()
			tt.setup(fx)

			_, err := fx.service.RefreshToken(context.Background(), &usecase.RefreshTokenInput{RefreshToken: "refresh"})

			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
		})
	}
}

func TestUserService_Logout(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()

	fx.tokenService.EXPECT().ValidateToken("refresh").Return(nil, errors.New("token is expired"))
	fx.tokenService.EXPECT().HashToken("refresh").Return("refresh-hash")
	fx.refreshTokenRepo.EXPECT().DeleteRefreshTokenByHash(ctx, "refresh-hash").Return(repository.ErrRefreshTokenNotFound)

	require.NoError(t, fx.service.Logout(ctx, &usecase.LogoutInput{RefreshToken: "refresh"}))
}

func TestUserService_CleanupExpiredSessions(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	fx.refreshTokenRepo.EXPECT().DeleteExpiredRefreshTokens(ctx).Return(int64(4), nil)

	deleted, err := fx.service.CleanupExpiredSessions(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
}
