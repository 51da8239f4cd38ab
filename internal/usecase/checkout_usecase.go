package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrdersRedirect is where a successful checkout sends the shopper.
const OrdersRedirect = "/orders"

// ShippingInput is the checkout form.
type ShippingInput struct {
	Address    string
	City       string
	PostalCode string
	Country    string
	Phone      string
}

// CheckoutSummary is what the checkout page shows before submission.
type CheckoutSummary struct {
	Lines     []*entity.CartLine
	ItemCount int
	Total     decimal.Decimal
	Profile   *entity.Profile // May be nil for users without a stored profile.
}

// CheckoutResult describes one checkout attempt.
type CheckoutResult struct {
	State       entity.CheckoutState
	States      []entity.CheckoutState // Every state the attempt visited, starting at idle.
	OrderID     uuid.UUID
	Reference   string
	TotalAmount decimal.Decimal
	Warning     string // Set to CART_CLEAR_FAILED when the order was placed but the cart was kept.
	RedirectTo  string
}

// CheckoutUsecase turns a cart into an order.
type CheckoutUsecase interface {
	// Prepare guards entry to checkout: the user must be signed in and the cart non-empty.
	Prepare(ctx context.Context, userID uuid.UUID) (*CheckoutSummary, error)

	// PlaceOrder runs one attempt. On failure the returned result is still populated with the visited states.
	PlaceOrder(ctx context.Context, userID uuid.UUID, input *ShippingInput) (*CheckoutResult, error)
}
