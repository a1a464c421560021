// SPDX-License-Identifier: MPL-2.0

package cart

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/keranjangkita/keranjang/pkg/types"
)

type (
	// Line is one entry of the cart.
	Line struct {
		// ID is the barcode for scanned items and a random token otherwise.
		ID       string
		Barcode  types.Barcode
		Name     string
		Price    types.Price
		Quantity types.Quantity
		AddedAt  time.Time
	}

	// Candidate is an item about to be added to the cart.
	Candidate struct {
		// Barcode is optional; the zero value means the item was typed in by hand.
		Barcode types.Barcode
		Name    string
		Price   types.Price
	}

	// lineJSON is the persisted form of Line. addedAt is Unix milliseconds.
	lineJSON struct {
		ID       string         `json:"id"`
		Barcode  types.Barcode  `json:"barcode,omitempty"`
		Name     string         `json:"name"`
		Price    types.Price    `json:"price"`
		Quantity types.Quantity `json:"quantity"`
		AddedAt  int64          `json:"addedAt"`
	}
)

// Subtotal returns price times quantity.
func (l Line) Subtotal() int64 {
	return int64(l.Price) * int64(l.Quantity)
}

// MarshalJSON implements json.Marshaler.
func (l Line) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineJSON{
		ID:       l.ID,
		Barcode:  l.Barcode,
		Name:     l.Name,
		Price:    l.Price,
		Quantity: l.Quantity,
		AddedAt:  l.AddedAt.UnixMilli(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Line) UnmarshalJSON(data []byte) error {
	var v lineJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*l = Line{
		ID:       v.ID,
		Barcode:  v.Barcode,
		Name:     v.Name,
		Price:    v.Price,
		Quantity: v.Quantity,
		AddedAt:  time.UnixMilli(v.AddedAt),
	}
	return nil
}

// Validate checks the candidate before it touches the cart. The barcode is
// expected to be trimmed already.
func (c Candidate) Validate() error {
	name := types.ProductName(c.Name)
	if ok, errs := name.IsValid(); !ok {
		return &types.ValidationError{Field: "name", Reason: "product name must not be empty", Cause: errs[0]}
	}
	if err := c.Price.Validate(); err != nil {
		return &types.ValidationError{Field: "price", Reason: "price must not be negative", Cause: err}
	}
	if ok, errs := c.Barcode.IsValid(); !ok {
		return &types.ValidationError{Field: "barcode", Reason: "barcode must not contain whitespace", Cause: errs[0]}
	}
	return nil
}

// normalized trims the name and barcode.
func (c Candidate) normalized() Candidate {
	c.Name = types.ProductName(c.Name).Display()
	c.Barcode = types.Barcode(strings.TrimSpace(c.Barcode.String()))
	return c
}

// matches reports whether the line absorbs the candidate: same barcode when
// the candidate has one, otherwise same name ignoring case at the same price.
func (l Line) matches(c Candidate) bool {
	if !c.Barcode.IsZero() {
		return l.Barcode == c.Barcode
	}
	return types.ProductName(l.Name).Normalized() == types.ProductName(c.Name).Normalized() &&
		l.Price == c.Price
}
