package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderReferenceLength is how many leading characters of the order id are shown to customers.
const OrderReferenceLength = 8

// Order is a placed purchase. Only Status and Seen change after creation.
type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	TotalAmount     decimal.Decimal
	ShippingAddress string
	Phone           string
	Status          OrderStatus
	Seen            bool
	Items           []*OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Reference returns the short customer-facing order reference.
func (o *Order) Reference() string {
	return ShortReference(o.ID)
}

// ItemsTotal sums the snapshotted price times quantity of every item.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}

	return total.Round(2)
}

// ShortReference truncates an order id to its display form.
func ShortReference(id uuid.UUID) string {
	return id.String()[:OrderReferenceLength]
}

// OrderItem records one product of an order with its price at order time.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal // Snapshot; never follows later product price changes.

	// Display-only fields populated by history reads.
	ProductName     string
	ProductImageURL string

	CreatedAt time.Time
}

// LineTotal is the snapshotted price times quantity.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderStats summarises the store for the admin dashboard.
type OrderStats struct {
	ProductCount   int64
	OrderCount     int64
	CustomerCount  int64
	ContactCount   int64
	TotalRevenue   decimal.Decimal
	DeliveredCount int64
	DeliveredTotal decimal.Decimal
}
