// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item. Shoppers only ever see active products.
type Product struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Price         decimal.Decimal // Unit price, never negative.
	ImageURL      string
	StockQuantity int
	CategoryID    *uuid.UUID // Weak reference; a deleted category leaves this dangling.
	Category      *Category  // Populated by catalog reads only.
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InStock reports whether at least one unit can be sold.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// Purchasable reports whether the product can be placed in a cart.
func (p *Product) Purchasable() bool {
	return p.IsActive && p.InStock()
}
