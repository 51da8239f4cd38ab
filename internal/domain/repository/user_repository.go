// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for account persistence.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrProfileNotFound is returned when a user has no profile row.
	ErrProfileNotFound = errors.New("profile not found")
)

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user with its profile.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindAll lists every user with its profile, newest first.
	FindAll(ctx context.Context) ([]*entity.User, error)

	// Create persists a new user and, when set, its profile.
	Create(ctx context.Context, user *entity.User) error

	// Delete removes a user together with its profile, credentials and sessions.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProfileRepository reads and writes the contact details and role of a user.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)

	// Update overwrites the editable profile fields. Email is never changed here.
	Update(ctx context.Context, profile *entity.Profile) error

	// CountByRole returns how many profiles carry the given role.
	CountByRole(ctx context.Context, role entity.Role) (int64, error)
}
