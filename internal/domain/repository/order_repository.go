package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrOrderNotFound is returned when an order id does not exist.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the persistence operations for orders and their items.
type OrderRepository interface {
	// Create inserts the order row only. Items are written by CreateItems.
	Create(ctx context.Context, order *entity.Order) error

	// CreateItems inserts every item of an order in one statement.
	CreateItems(ctx context.Context, items []*entity.OrderItem) error

	// FindByID returns the order with its items.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindByUser returns the user's orders newest first, items included.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// FindAll returns every order newest first without items.
	FindAll(ctx context.Context) ([]*entity.Order, error)

	// UpdateStatus changes only the status column.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error

	// FindUnseen returns at most limit unseen orders, newest first.
	FindUnseen(ctx context.Context, limit int) ([]*entity.Order, error)
	MarkSeen(ctx context.Context, id uuid.UUID) error
	MarkAllSeen(ctx context.Context) error

	Count(ctx context.Context) (int64, error)

	// SumTotals returns the order count and total amount, restricted to status when it is not empty.
	SumTotals(ctx context.Context, status entity.OrderStatus) (int64, decimal.Decimal, error)
}
