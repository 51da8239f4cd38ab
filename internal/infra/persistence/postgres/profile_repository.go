package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// profileRepository implements the repository.ProfileRepository interface.
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository is the constructor for profileRepository.
func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

// FindByUserID retrieves the profile of a user.
func (repo *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	var profileM model.ProfileModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profileM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProfileNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find profile")
	}

	return toProfileDomain(&profileM), nil
}

// Update overwrites the editable profile columns.
func (repo *profileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	role := profile.Role
	if !role.IsValid() {
		role = entity.RoleCustomer
	}

	result := repo.db.WithContext(ctx).
		Model(&model.ProfileModel{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]any{
			"first_name":  profile.FirstName,
			"last_name":   profile.LastName,
			"phone":       profile.Phone,
			"address":     profile.Address,
			"city":        profile.City,
			"postal_code": profile.PostalCode,
			"country":     profile.Country,
			"role":        string(role),
		})
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("profile violates a check constraint")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update profile")
	}

	if result.RowsAffected == 0 {
		return repository.ErrProfileNotFound
	}

	return nil
}

// CountByRole returns how many profiles carry role.
func (repo *profileRepository) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.ProfileModel{}).
		Where("role = ?", string(role)).
		Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count profiles")
	}

	return count, nil
}

func toProfileDomain(data *model.ProfileModel) *entity.Profile {
	return &entity.Profile{
		UserID:     data.UserID,
		Email:      data.Email,
		FirstName:  data.FirstName,
		LastName:   data.LastName,
		Phone:      data.Phone,
		Address:    data.Address,
		City:       data.City,
		PostalCode: data.PostalCode,
		Country:    data.Country,
		Role:       entity.Role(data.Role),
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

func fromProfileDomain(data *entity.Profile) *model.ProfileModel {
	return &model.ProfileModel{
		UserID:     data.UserID,
		Email:      data.Email,
		FirstName:  data.FirstName,
		LastName:   data.LastName,
		Phone:      data.Phone,
		Address:    data.Address,
		City:       data.City,
		PostalCode: data.PostalCode,
		Country:    data.Country,
		Role:       string(data.Role),
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
