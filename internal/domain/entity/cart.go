package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one (user, product) selection. Quantity is at least 1.
type CartLine struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Product   *Product // Current product row, used for live pricing.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineTotal is the current price times quantity. Lines without a loaded product count as zero.
func (l *CartLine) LineTotal() decimal.Decimal {
	if l.Product == nil {
		return decimal.Zero
	}

	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Shortfall says why the line cannot be ordered at its current quantity. Empty means it can.
func (l *CartLine) Shortfall() string {
	switch {
	case l.Product == nil:
		return "product " + l.ProductID.String() + " is not available"
	case !l.Product.IsActive:
		return l.Product.Name + " is not available"
	case l.Product.StockQuantity <= 0:
		return l.Product.Name + " is sold out"
	case l.Quantity > l.Product.StockQuantity:
		return fmt.Sprintf("only %d of %s in stock", l.Product.StockQuantity, l.Product.Name)
	}

	return ""
}

// Cart is the full set of lines owned by one user.
type Cart struct {
	UserID uuid.UUID
	Lines  []*CartLine
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount is the sum of quantities across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}

	return count
}

// Total is the sum of current price times quantity across all lines, rounded to currency precision.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.LineTotal())
	}

	return total.Round(2)
}

// Shortfalls lists the problems of every line that cannot be ordered as is.
func (c *Cart) Shortfalls() []string {
	var problems []string
	for _, line := range c.Lines {
		if problem := line.Shortfall(); problem != "" {
			problems = append(problems, problem)
		}
	}

	return problems
}

// Line returns the line for productID, or nil.
func (c *Cart) Line(productID uuid.UUID) *CartLine {
	for _, line := range c.Lines {
		if line.ProductID == productID {
			return line
		}
	}

	return nil
}
