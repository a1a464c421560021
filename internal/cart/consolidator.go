// SPDX-License-Identifier: MPL-2.0

package cart

import (
	"context"
	"encoding/json"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/keranjangkita/keranjang/internal/kvstore"
	"github.com/keranjangkita/keranjang/pkg/types"
)

// CartKey is the kvstore key holding the cart as a JSON array.
const CartKey = "keranjang_kita_cart"

type (
	// Clock supplies the time stamped on new lines.
	Clock interface {
		Now() time.Time
	}

	// HistoryRecorder receives every item added to the cart.
	HistoryRecorder interface {
		Upsert(ctx context.Context, name string, price types.Price)
	}

	// Consolidator owns the cart lines.
	Consolidator struct {
		kv      kvstore.Store
		history HistoryRecorder
		prices  *PriceHistory
		clock   Clock
		newID   func() string
		logger  *log.Logger
		lines   []Line
	}

	// Option configures a Consolidator.
	Option func(*Consolidator)

	systemClock struct{}
)

func (systemClock) Now() time.Time { return time.Now() }

// WithClock sets the clock used for AddedAt.
func WithClock(c Clock) Option {
	return func(cc *Consolidator) { cc.clock = c }
}

// WithIDGenerator sets the id source for lines without a barcode.
func WithIDGenerator(f func() string) Option {
	return func(cc *Consolidator) { cc.newID = f }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(cc *Consolidator) {
		if l != nil {
			cc.logger = l
		}
	}
}

// NewConsolidator loads the persisted cart from kv. A missing or corrupt cart
// starts empty.
func NewConsolidator(ctx context.Context, kv kvstore.Store, history HistoryRecorder, prices *PriceHistory, opts ...Option) *Consolidator {
	c := &Consolidator{
		kv:      kv,
		history: history,
		prices:  prices,
		clock:   systemClock{},
		newID:   uuid.NewString,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lines = c.load(ctx)
	return c
}

// AddOrIncrement adds the candidate as a new line at the top of the cart, or
// increments the quantity of the line it matches. The matched line keeps its
// name and price. The item is always recorded in the product history, and
// its price is remembered when it has a barcode.
func (c *Consolidator) AddOrIncrement(ctx context.Context, cand Candidate) (Line, error) {
	cand = cand.normalized()
	if err := cand.Validate(); err != nil {
		return Line{}, err
	}

	var line Line
	if i := slices.IndexFunc(c.lines, func(l Line) bool { return l.matches(cand) }); i >= 0 {
		c.lines[i].Quantity++
		line = c.lines[i]
		c.logger.Debug("cart line incremented", "id", line.ID, "quantity", line.Quantity)
	} else {
		id := cand.Barcode.String()
		if id == "" {
			id = c.newID()
		}
		line = Line{
			ID:       id,
			Barcode:  cand.Barcode,
			Name:     cand.Name,
			Price:    cand.Price,
			Quantity: types.MinQuantity,
			AddedAt:  c.clock.Now(),
		}
		c.lines = slices.Insert(c.lines, 0, line)
		c.logger.Debug("cart line added", "id", line.ID, "name", line.Name, "price", line.Price)
	}

	c.history.Upsert(ctx, cand.Name, cand.Price)
	if !cand.Barcode.IsZero() {
		c.prices.Save(ctx, cand.Barcode, cand.Price)
	}
	c.persist(ctx)
	return line, nil
}

// UpdateQuantity adds delta to the line's quantity, never going below 1.
// It reports false, changing nothing, when no line has the id.
func (c *Consolidator) UpdateQuantity(ctx context.Context, id string, delta int) (Line, bool) {
	i := c.index(id)
	if i < 0 {
		return Line{}, false
	}
	c.lines[i].Quantity = c.lines[i].Quantity.Add(delta)
	c.persist(ctx)
	return c.lines[i], true
}

// Remove deletes the line. It reports false when no line has the id.
func (c *Consolidator) Remove(ctx context.Context, id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.lines = slices.Delete(c.lines, i, i+1)
	c.persist(ctx)
	return true
}

// Clear empties the cart.
func (c *Consolidator) Clear(ctx context.Context) {
	c.lines = nil
	c.persist(ctx)
}

// Lines returns a copy of the cart, newest line first.
func (c *Consolidator) Lines() []Line {
	return slices.Clone(c.lines)
}

// ItemCount returns the total quantity across all lines.
func (c *Consolidator) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += int(l.Quantity)
	}
	return n
}

func (c *Consolidator) index(id string) int {
	return slices.IndexFunc(c.lines, func(l Line) bool { return l.ID == id })
}

func (c *Consolidator) load(ctx context.Context) []Line {
	raw, ok, err := c.kv.Get(ctx, CartKey)
	if err != nil {
		c.logger.Warn("cart unreadable, starting empty", "err", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		c.logger.Warn("cart corrupt, starting empty", "err", err)
		return nil
	}
	// Persisted quantities below the minimum are lifted to it.
	for i := range lines {
		lines[i].Quantity = max(lines[i].Quantity, types.MinQuantity)
	}
	return lines
}

func (c *Consolidator) persist(ctx context.Context) {
	lines := c.lines
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(lines)
	if err == nil {
		err = c.kv.Set(ctx, CartKey, string(data))
	}
	if err != nil {
		c.logger.Error("cart not saved", "err", err)
	}
}
