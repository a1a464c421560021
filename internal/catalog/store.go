// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/keranjangkita/keranjang/internal/kvstore"
	"github.com/keranjangkita/keranjang/pkg/types"
)

const (
	// HistoryKey is the kvstore key holding the history as a JSON array.
	HistoryKey = "keranjang_kita_products"

	// HistoryCapacity is the default number of history entries kept.
	HistoryCapacity = 200
)

type (
	// Store is the product history plus the seed catalog.
	//
	// It never returns errors: an unreadable or corrupt history reads as
	// empty and a failed write is logged and dropped.
	Store struct {
		kv       kvstore.Store
		logger   *log.Logger
		capacity int
		seed     []Suggestion
	}

	// Option configures a Store.
	Option func(*Store)
)

// WithLogger sets the logger used for storage warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCapacity overrides HistoryCapacity. Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithSeed replaces the embedded seed catalog.
func WithSeed(seed []Suggestion) Option {
	return func(s *Store) {
		s.seed = make([]Suggestion, len(seed))
		for i, e := range seed {
			e.Source = SourceDatabase
			s.seed[i] = e
		}
	}
}

// NewStore creates a Store persisting its history in kv.
func NewStore(kv kvstore.Store, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		logger:   log.New(io.Discard),
		capacity: HistoryCapacity,
		seed:     seedCatalog,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capacity returns the maximum number of history entries.
func (s *Store) Capacity() int { return s.capacity }

// History returns the persisted history, most recently used first.
func (s *Store) History(ctx context.Context) []Suggestion {
	raw, ok, err := s.kv.Get(ctx, HistoryKey)
	if err != nil {
		s.logger.Warn("product history unreadable, using empty history", "err", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var history []Suggestion
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		s.logger.Warn("product history corrupt, using empty history", "err", err)
		return nil
	}

	out := history[:0]
	for _, e := range history {
		if strings.TrimSpace(e.Name) == "" {
			continue
		}
		e.Source = SourceHistory
		out = append(out, e)
	}
	return out
}

// Upsert records name at price as the most recently used entry. An entry with
// the same normalized name moves to the front with the new price; the oldest
// entries beyond the capacity are evicted. Blank names are ignored.
func (s *Store) Upsert(ctx context.Context, name string, price types.Price) {
	display := types.ProductName(name).Display()
	if display == "" {
		return
	}

	entry := Suggestion{Name: display, Price: price, Source: SourceHistory}
	key := entry.Key()

	history := s.History(ctx)
	next := make([]Suggestion, 0, len(history)+1)
	next = append(next, entry)
	for _, e := range history {
		if e.Key() != key {
			next = append(next, e)
		}
	}
	if len(next) > s.capacity {
		next = next[:s.capacity]
	}

	data, err := json.Marshal(next)
	if err != nil {
		s.logger.Warn("product history not saved", "name", display, "err", err)
		return
	}
	if err := s.kv.Set(ctx, HistoryKey, string(data)); err != nil {
		s.logger.Warn("product history not saved", "name", display, "err", err)
		return
	}
	s.logger.Debug("product history updated", "name", display, "price", price, "entries", len(next))
}

// All returns history and seed merged by normalized name, history winning,
// sorted by display name.
func (s *Store) All(ctx context.Context) []Suggestion {
	all := mergeByName(0, nil, s.History(ctx), s.seed)
	sort.SliceStable(all, func(i, j int) bool {
		a, b := strings.ToLower(all[i].Name), strings.ToLower(all[j].Name)
		if a != b {
			return a < b
		}
		return all[i].Name < all[j].Name
	})
	return all
}
