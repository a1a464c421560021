// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/keranjangkita/keranjang/internal/cart"
	"github.com/keranjangkita/keranjang/internal/member"
	"github.com/keranjangkita/keranjang/internal/pricing"
	"github.com/keranjangkita/keranjang/pkg/types"
)

const nameColumnWidth = 28

// rupiah formats a whole amount without grouping, e.g. "Rp 7000".
func rupiah(v int64) string {
	return "Rp " + strconv.FormatInt(v, 10)
}

func rupiahDecimal(d decimal.Decimal) string {
	return "Rp " + d.StringFixed(0)
}

func rupiahPrice(p types.Price) string {
	return rupiah(int64(p))
}

// padName pads before styling so ANSI sequences don't break alignment.
func padName(name string) string {
	if len(name) > nameColumnWidth {
		return name
	}
	return name + strings.Repeat(" ", nameColumnWidth-len(name))
}

func writeLine(w io.Writer, l cart.Line) {
	fmt.Fprintf(w, "  %s  %s  %3d × %-10s %s\n",
		SubtitleStyle.Render(l.ID),
		productStyle.Render(padName(l.Name)),
		l.Quantity,
		rupiahPrice(l.Price),
		amountStyle.Render(rupiah(l.Subtotal())),
	)
}

func writeTotals(w io.Writer, t pricing.Totals, m *member.Member) {
	t = t.Rounded()
	fmt.Fprintf(w, "  %-12s %s\n", "Subtotal", rupiahDecimal(t.Subtotal))
	if m != nil {
		label := fmt.Sprintf("Discount (%s, %s%%)", m.Level, m.DiscountPercentage.Clamp())
		fmt.Fprintf(w, "  %s -%s\n", discountStyle.Render(label), rupiahDecimal(t.Discount))
	}
	fmt.Fprintf(w, "  %-12s %s\n", "Total", totalStyle.Render(rupiahDecimal(t.Total)))
}

func describeMember(m member.Member) string {
	return fmt.Sprintf("%s (%s, %s%% discount)", m.Name, m.Level, m.DiscountPercentage.Clamp())
}

// maskPhone shows only the last four digits.
func maskPhone(p types.PhoneDigits) string {
	s := p.String()
	if len(s) <= member.PhoneSuffixLength {
		return s
	}
	return strings.Repeat("•", len(s)-member.PhoneSuffixLength) + s[len(s)-member.PhoneSuffixLength:]
}
