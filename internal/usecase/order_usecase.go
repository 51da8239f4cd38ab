package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderDetail is an order with its items and the owner's profile, for the admin order view.
type OrderDetail struct {
	Order   *entity.Order
	Profile *entity.Profile // Nil when the owner has no profile.
}

// OrderUsecase covers order history, the admin order screens and dashboard figures.
type OrderUsecase interface {
	// GetOrderHistory returns the user's orders newest first, with items.
	GetOrderHistory(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// GetOrderQR renders the order reference as a PNG. Only the owner or an admin may read it.
	GetOrderQR(ctx context.Context, orderID, requesterID uuid.UUID, isAdmin bool) ([]byte, error)

	ListOrders(ctx context.Context) ([]*entity.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDetail, error)

	// UpdateOrderStatus changes only the status column.
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) (*entity.Order, error)

	GetStats(ctx context.Context) (*entity.OrderStats, error)
}
