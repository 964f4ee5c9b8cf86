// Package pricing computes the server-side order totals. Clients never
// supply prices; checkout recomputes everything from the line items.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Dibyajyoti06/CareConnect/internal/apperr"
)

var (
	// TaxRate is 5% GST.
	TaxRate = decimal.NewFromFloat(0.05)
	// FreeShippingOver is the items-price threshold above which shipping is free.
	FreeShippingOver = decimal.NewFromInt(500)
	// FlatShippingFee applies below the threshold.
	FlatShippingFee = decimal.NewFromInt(50)
)

type Line struct {
	Qty       int
	UnitPrice decimal.Decimal
}

type Quote struct {
	ItemsPrice    decimal.Decimal
	TaxPrice      decimal.Decimal
	ShippingPrice decimal.Decimal
	TotalPrice    decimal.Decimal
}

// Compute derives the itemized totals for an order. Rounding to two
// decimals is applied once, at the grand total.
func Compute(lines []Line) (Quote, error) {
	if len(lines) == 0 {
		return Quote{}, apperr.Validationf("order has no line items")
	}

	items := decimal.Zero
	for _, l := range lines {
		if l.Qty <= 0 {
			return Quote{}, apperr.Validationf("line quantity must be positive")
		}
		if l.UnitPrice.IsNegative() {
			return Quote{}, apperr.Validationf("line price must not be negative")
		}
		items = items.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty))))
	}

	tax := items.Mul(TaxRate)
	shipping := FlatShippingFee
	if items.GreaterThan(FreeShippingOver) {
		shipping = decimal.Zero
	}

	return Quote{
		ItemsPrice:    items,
		TaxPrice:      tax,
		ShippingPrice: shipping,
		TotalPrice:    items.Add(tax).Add(shipping).Round(2),
	}, nil
}

// LineSubtotal is qty x unit price for one line.
func LineSubtotal(l Line) decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))
}
