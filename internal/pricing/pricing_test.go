package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Dibyajyoti06/CareConnect/internal/apperr"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCompute_TwoLines(t *testing.T) {
	q, err := Compute([]Line{
		{Qty: 2, UnitPrice: dec("100")},
		{Qty: 1, UnitPrice: dec("50")},
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !q.ItemsPrice.Equal(dec("250")) {
		t.Errorf("itemsPrice: expected 250, got %s", q.ItemsPrice)
	}
	if !q.TaxPrice.Equal(dec("12.5")) {
		t.Errorf("taxPrice: expected 12.5, got %s", q.TaxPrice)
	}
	// 250 does not clear the free-shipping threshold of 500
	if !q.ShippingPrice.Equal(dec("50")) {
		t.Errorf("shippingPrice: expected 50, got %s", q.ShippingPrice)
	}
	if !q.TotalPrice.Equal(dec("312.5")) {
		t.Errorf("totalPrice: expected 312.5, got %s", q.TotalPrice)
	}
}

func TestCompute_FreeShipping(t *testing.T) {
	q, err := Compute([]Line{{Qty: 3, UnitPrice: dec("200")}})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !q.ShippingPrice.IsZero() {
		t.Errorf("expected free shipping over %s, got %s", FreeShippingOver, q.ShippingPrice)
	}
	if !q.TotalPrice.Equal(dec("630")) {
		t.Errorf("totalPrice: expected 630, got %s", q.TotalPrice)
	}
}

func TestCompute_TotalIsSumOfParts(t *testing.T) {
	cases := [][]Line{
		{{Qty: 1, UnitPrice: dec("0")}},
		{{Qty: 7, UnitPrice: dec("19.99")}, {Qty: 2, UnitPrice: dec("3.33")}},
		{{Qty: 1, UnitPrice: dec("500")}},
		{{Qty: 1, UnitPrice: dec("500.01")}},
	}
	for _, lines := range cases {
		q, err := Compute(lines)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		sum := q.ItemsPrice.Add(q.TaxPrice).Add(q.ShippingPrice).Round(2)
		if !q.TotalPrice.Equal(sum) {
			t.Errorf("totalPrice %s != items+tax+shipping %s", q.TotalPrice, sum)
		}
	}
}

func TestCompute_Invalid(t *testing.T) {
	cases := map[string][]Line{
		"empty":          {},
		"zero qty":       {{Qty: 0, UnitPrice: dec("10")}},
		"negative qty":   {{Qty: -1, UnitPrice: dec("10")}},
		"negative price": {{Qty: 1, UnitPrice: dec("-0.01")}},
	}
	for name, lines := range cases {
		_, err := Compute(lines)
		if apperr.CodeOf(err) != apperr.CodeValidation {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
}
