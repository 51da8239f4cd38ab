package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCartLineNotFound is returned when the user has no cart line for a product.
var ErrCartLineNotFound = errors.New("cart line not found")

// CartRepository persists the per-user cart. A user holds at most one line per product.
type CartRepository interface {
	// FindLinesByUser returns the user's lines oldest first, each with its current product loaded.
	FindLinesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartLine, error)

	// FindLine returns the line for a product in the user's cart.
	FindLine(ctx context.Context, userID, productID uuid.UUID) (*entity.CartLine, error)

	CreateLine(ctx context.Context, line *entity.CartLine) error
	UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error

	// DeleteLine removes the line for a product. Removing an absent line is not an error.
	DeleteLine(ctx context.Context, userID, productID uuid.UUID) error

	// DeleteAllByUser empties the user's cart.
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) error
}
