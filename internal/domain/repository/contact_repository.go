package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrContactMessageNotFound is returned when a contact message id does not exist.
var ErrContactMessageNotFound = errors.New("contact message not found")

// ContactRepository defines the persistence operations for contact form messages.
type ContactRepository interface {
	Create(ctx context.Context, msg *entity.ContactMessage) error
	FindAll(ctx context.Context) ([]*entity.ContactMessage, error)
	FindUnseen(ctx context.Context, limit int) ([]*entity.ContactMessage, error)
	MarkSeen(ctx context.Context, id uuid.UUID) error
	MarkAllSeen(ctx context.Context) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
