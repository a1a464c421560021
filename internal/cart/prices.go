// SPDX-License-Identifier: MPL-2.0

package cart

import (
	"context"
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"

	"github.com/keranjangkita/keranjang/internal/kvstore"
	"github.com/keranjangkita/keranjang/pkg/types"
)

// PricesKey is the kvstore key holding the price history as a JSON object.
const PricesKey = "keranjang_kita_prices"

// PriceHistory remembers the last price entered for each barcode. It only
// pre-fills the price of the next scan and never changes cart lines.
type PriceHistory struct {
	kv     kvstore.Store
	logger *log.Logger
}

// NewPriceHistory creates a PriceHistory persisted in kv. A nil logger discards output.
func NewPriceHistory(kv kvstore.Store, logger *log.Logger) *PriceHistory {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PriceHistory{kv: kv, logger: logger}
}

// Save records price as the last price for barcode. Failures are logged.
func (p *PriceHistory) Save(ctx context.Context, barcode types.Barcode, price types.Price) {
	if barcode.IsZero() {
		return
	}
	prices := p.All(ctx)
	prices[barcode] = price

	data, err := json.Marshal(prices)
	if err == nil {
		err = p.kv.Set(ctx, PricesKey, string(data))
	}
	if err != nil {
		p.logger.Warn("price history not saved", "barcode", barcode, "err", err)
	}
}

// Lookup returns the last price saved for barcode. A zero price counts as
// unknown so it never pre-fills an entry.
func (p *PriceHistory) Lookup(ctx context.Context, barcode types.Barcode) (types.Price, bool) {
	price, ok := p.All(ctx)[barcode]
	if !ok || price <= 0 {
		return 0, false
	}
	return price, true
}

// All returns every remembered price. Unreadable or corrupt data reads as empty.
func (p *PriceHistory) All(ctx context.Context) map[types.Barcode]types.Price {
	prices := make(map[types.Barcode]types.Price)

	raw, ok, err := p.kv.Get(ctx, PricesKey)
	if err != nil {
		p.logger.Warn("price history unreadable", "err", err)
		return prices
	}
	if !ok || raw == "" {
		return prices
	}
	if err := json.Unmarshal([]byte(raw), &prices); err != nil {
		p.logger.Warn("price history corrupt, ignoring it", "err", err)
		return make(map[types.Barcode]types.Price)
	}
	if prices == nil {
		// A stored "null" decodes without error into a nil map.
		return make(map[types.Barcode]types.Price)
	}
	return prices
}
