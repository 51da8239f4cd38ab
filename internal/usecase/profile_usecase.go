package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ProfileUsecase covers the signed-in user's own profile and the admin user screens.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.Profile, error)

	ListUsers(ctx context.Context) ([]*entity.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, input *AdminUpdateUserInput) (*entity.Profile, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// --- Input DTOs ---

// UpdateProfileInput holds the contact fields a user may edit. Nil fields are left unchanged.
type UpdateProfileInput struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	Address    *string
	City       *string
	PostalCode *string
	Country    *string
}

// AdminUpdateUserInput is UpdateProfileInput plus the role, which only admins may change.
type AdminUpdateUserInput struct {
	UpdateProfileInput
	Role *entity.Role
}
