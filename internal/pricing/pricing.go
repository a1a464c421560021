// SPDX-License-Identifier: MPL-2.0

// Package pricing derives cart totals and the member discount.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/keranjangkita/keranjang/internal/cart"
	"github.com/keranjangkita/keranjang/internal/member"
)

var hundred = decimal.NewFromInt(100)

// Totals is the derived price summary of a cart. It is never stored.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Resolve sums price times quantity over lines and applies the member's
// discount percentage. A nil member gets no discount.
func Resolve(lines []cart.Line, m *member.Member) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(decimal.NewFromInt(int64(l.Price)).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	discount := decimal.Zero
	if m != nil {
		pct := decimal.NewFromFloat(float64(m.DiscountPercentage.Clamp()))
		discount = subtotal.Mul(pct).Div(hundred)
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount),
	}
}

// Rounded returns the totals rounded to whole currency units, half away from
// zero. The total is recomputed so the three figures stay consistent.
func (t Totals) Rounded() Totals {
	discount := t.Discount.Round(0)
	return Totals{
		Subtotal: t.Subtotal,
		Discount: discount,
		Total:    t.Subtotal.Sub(discount),
	}
}

// HasDiscount reports whether any discount applies.
func (t Totals) HasDiscount() bool {
	return t.Discount.IsPositive()
}
