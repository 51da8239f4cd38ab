package impl

import (
	"context"
	"log/slog"
	"strings"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	logger    *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(
	txManager repository.TransactionManager,
	userRepo repository.UserRepository,
	logger *slog.Logger,
) usecase.ProfileUsecase {
	return &profileService{
		txManager: txManager,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// GetProfile returns the signed-in user's profile.
func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	srv.logger.Debug("Getting user profile", "userID", userID)

	var profile *entity.Profile
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		profile, err = findProfile(ctx, repoFactory.ProfileRepo(), userID)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user profile")
	}

	return profile, nil
}

// UpdateProfile applies the non-nil fields of input to the user's profile.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.Profile, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	srv.logger.Info("Updating user profile", "userID", userID)

	return srv.updateProfile(ctx, userID, func(profile *entity.Profile) error {
		applyProfileInput(profile, input)

		return nil
	})
}

// ListUsers returns every user with its profile.
func (srv *profileService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := srv.userRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

// UpdateUser lets an admin edit any profile, including its role.
func (srv *profileService) UpdateUser(ctx context.Context, userID uuid.UUID, input *usecase.AdminUpdateUserInput) (*entity.Profile, error) {
	if input.Role != nil && !input.Role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown role " + input.Role.String())
	}

	srv.logger.Info("Admin updating user", "userID", userID)

	return srv.updateProfile(ctx, userID, func(profile *entity.Profile) error {
		applyProfileInput(profile, &input.UpdateProfileInput)
		if input.Role != nil {
			profile.Role = *input.Role
		}

		return nil
	})
}

// DeleteUser removes the user and everything it owns.
func (srv *profileService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := srv.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrUserNotFound, userID.String())
		}

		return errors.Wrap(err, "failed to delete user")
	}

	srv.logger.Info("User deleted", "userID", userID)

	return nil
}

func (srv *profileService) updateProfile(ctx context.Context, userID uuid.UUID, mutate func(*entity.Profile) error) (*entity.Profile, error) {
	var profile *entity.Profile

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profileRepo := repoFactory.ProfileRepo()

		found, err := findProfile(ctx, profileRepo, userID)
		if err != nil {
			return err
		}

		if err := mutate(found); err != nil {
			return err
		}

		if err := profileRepo.Update(ctx, found); err != nil {
			return errors.Wrap(err, "failed to update profile")
		}
		profile = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update user profile")
	}

	return profile, nil
}

func findProfile(ctx context.Context, profileRepo repository.ProfileRepository, userID uuid.UUID) (*entity.Profile, error) {
	profile, err := profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "profile not found")
		}

		return nil, errors.Wrap(err, "failed to find profile")
	}

	return profile, nil
}

func applyProfileInput(profile *entity.Profile, input *usecase.UpdateProfileInput) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}

	set(&profile.FirstName, input.FirstName)
	set(&profile.LastName, input.LastName)
	set(&profile.Phone, input.Phone)
	set(&profile.Address, input.Address)
	set(&profile.City, input.City)
	set(&profile.PostalCode, input.PostalCode)
	set(&profile.Country, input.Country)
}
