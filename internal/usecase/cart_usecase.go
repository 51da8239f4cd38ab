package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartUsecase holds the signed-in user's selections. Every call requires a user;
// uuid.Nil yields ErrAuthRequired.
type CartUsecase interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// AddToCart adds quantity to the line for productID, creating it when missing.
	AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*entity.Cart, error)

	// UpdateQuantity sets a line's quantity, clamped to stock. A quantity below 1 removes the line.
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*entity.Cart, error)

	// RemoveFromCart deletes a line. Removing a missing line is not an error.
	RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) (*entity.Cart, error)

	GetCartItemCount(ctx context.Context, userID uuid.UUID) (int, error)
	GetCartTotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}
