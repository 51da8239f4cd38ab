package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newLine(price string, qty int) *CartLine {
	productID := uuid.New()

	return &CartLine{
		ProductID: productID,
		Quantity:  qty,
		Product: &Product{
			ID:            productID,
			Price:         decimal.RequireFromString(price),
			StockQuantity: 100,
			IsActive:      true,
		},
	}
}

func TestCart_TotalAndItemCount(t *testing.T) {
	cart := &Cart{Lines: []*CartLine{newLine("500", 2), newLine("1200", 1)}}

	assert.True(t, cart.Total().Equal(decimal.NewFromInt(2200)))
	assert.Equal(t, 3, cart.ItemCount())
	assert.False(t, cart.IsEmpty())
}

func TestCart_TotalKeepsCurrencyPrecision(t *testing.T) {
	cart := &Cart{Lines: []*CartLine{newLine("0.10", 3), newLine("19.99", 2)}}

	assert.Equal(t, "40.28", cart.Total().StringFixed(2))
}

func TestCart_EmptyCart(t *testing.T) {
	cart := &Cart{}

	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total().IsZero())
	assert.Equal(t, 0, cart.ItemCount())
}

func TestCart_LineWithoutProductCountsZero(t *testing.T) {
	cart := &Cart{Lines: []*CartLine{{ProductID: uuid.New(), Quantity: 4}}}

	assert.True(t, cart.Total().IsZero())
	assert.Equal(t, 4, cart.ItemCount())
}

func TestCart_Line(t *testing.T) {
	line := newLine("10", 1)
	cart := &Cart{Lines: []*CartLine{line}}

	assert.Same(t, line, cart.Line(line.ProductID))
	assert.Nil(t, cart.Line(uuid.New()))
}

func TestCartLine_Shortfall(t *testing.T) {
	tests := []struct {
		name   string
		line   func() *CartLine
		expect string
	}{
		{
			name:   "orderable",
			line:   func() *CartLine { return newLine("10", 3) },
			expect: "",
		},
		{
			name: "quantity above stock",
			line: func() *CartLine {
				line := newLine("10", 5)
				line.Product.Name = "kikoy"
				line.Product.StockQuantity = 1

				return line
			},
			expect: "only 1 of kikoy in stock",
		},
		{
			name: "inactive",
			line: func() *CartLine {
				line := newLine("10", 1)
				line.Product.Name = "kanga"
				line.Product.IsActive = false

				return line
			},
			expect: "kanga is not available",
		},
		{
			name: "sold out",
			line: func() *CartLine {
				line := newLine("10", 1)
				line.Product.Name = "shuka"
				line.Product.StockQuantity = 0

				return line
			},
			expect: "shuka is sold out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.line().Shortfall())
		})
	}
}

func TestCart_Shortfalls(t *testing.T) {
	missing := &CartLine{ProductID: uuid.New(), Quantity: 1}
	cart := &Cart{Lines: []*CartLine{newLine("10", 1), missing}}

	problems := cart.Shortfalls()

	assert.Equal(t, []string{"product " + missing.ProductID.String() + " is not available"}, problems)
	assert.Empty(t, (&Cart{Lines: []*CartLine{newLine("10", 2)}}).Shortfalls())
}
