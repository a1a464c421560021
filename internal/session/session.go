// SPDX-License-Identifier: MPL-2.0

// Package session is the shopping session: the cart, the product history and
// the logged-in member behind one value, with totals derived on demand.
package session

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/keranjangkita/keranjang/internal/cart"
	"github.com/keranjangkita/keranjang/internal/catalog"
	"github.com/keranjangkita/keranjang/internal/kvstore"
	"github.com/keranjangkita/keranjang/internal/lookup"
	"github.com/keranjangkita/keranjang/internal/member"
	"github.com/keranjangkita/keranjang/internal/pricing"
	"github.com/keranjangkita/keranjang/pkg/types"
)

// ErrLineNotFound is returned when a cart line id is unknown.
var ErrLineNotFound = errors.New("cart line not found")

type (
	// ProductLookup resolves barcodes and free-text queries against a
	// product database.
	ProductLookup interface {
		ProductName(ctx context.Context, barcode types.Barcode) (string, bool)
		Search(ctx context.Context, query string) ([]lookup.APIProduct, error)
	}

	// MemberDirectory logs members in.
	MemberDirectory interface {
		Login(ctx context.Context, q member.Query) (member.Member, error)
	}

	// ScanDraft pre-fills the entry form for a scanned barcode.
	ScanDraft struct {
		Barcode types.Barcode
		// Name is the product database name, empty when unknown.
		Name string
		// Price is the last price entered for the barcode, valid when HasPrice.
		Price    types.Price
		HasPrice bool
	}

	// Options carries the collaborators of a Session. A nil Products skips
	// product database lookups; a nil Directory has no feed and finds no one.
	Options struct {
		Products        ProductLookup
		Directory       MemberDirectory
		Clock           cart.Clock
		Logger          *log.Logger
		HistoryCapacity int
	}

	// Session is the shopping session. Apart from PrepareScan it is not safe
	// for concurrent use.
	Session struct {
		catalog   *catalog.Store
		cart      *cart.Consolidator
		prices    *cart.PriceHistory
		members   *member.SessionStore
		products  ProductLookup
		directory MemberDirectory
		names     lookup.Latest[string]
		logger    *log.Logger
	}
)

// New opens a session over kv, loading the persisted cart.
func New(ctx context.Context, kv kvstore.Store, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	catalogOpts := []catalog.Option{catalog.WithLogger(logger.WithPrefix("catalog"))}
	if opts.HistoryCapacity > 0 {
		catalogOpts = append(catalogOpts, catalog.WithCapacity(opts.HistoryCapacity))
	}
	store := catalog.NewStore(kv, catalogOpts...)
	prices := cart.NewPriceHistory(kv, logger.WithPrefix("prices"))

	cartOpts := []cart.Option{cart.WithLogger(logger.WithPrefix("cart"))}
	if opts.Clock != nil {
		cartOpts = append(cartOpts, cart.WithClock(opts.Clock))
	}

	directory := opts.Directory
	if directory == nil {
		directory = member.NewDirectoryClient("", member.WithLogger(logger.WithPrefix("member")))
	}

	return &Session{
		catalog:   store,
		cart:      cart.NewConsolidator(ctx, kv, store, prices, cartOpts...),
		prices:    prices,
		members:   member.NewSessionStore(kv, logger.WithPrefix("member")),
		products:  opts.Products,
		directory: directory,
		logger:    logger,
	}
}

// PrepareScan pre-fills a draft for barcode from the price history and the
// product database. It may run on several goroutines at once, as when a
// scanner fires again before a slow lookup returns; a name that arrives after
// a newer scan began is dropped.
func (s *Session) PrepareScan(ctx context.Context, barcode types.Barcode) ScanDraft {
	draft := ScanDraft{Barcode: barcode}
	draft.Price, draft.HasPrice = s.prices.Lookup(ctx, barcode)

	if s.products == nil {
		return draft
	}
	ticket := s.names.Begin()
	name, ok := s.products.ProductName(ctx, barcode)
	if !ok {
		name = ""
	}
	if s.names.Settle(ticket, name) {
		draft.Name = name
	} else {
		s.logger.Debug("stale product name dropped", "barcode", barcode)
	}
	return draft
}

// Add puts the candidate into the cart.
func (s *Session) Add(ctx context.Context, c cart.Candidate) (cart.Line, error) {
	return s.cart.AddOrIncrement(ctx, c)
}

// UpdateQuantity changes a line's quantity by delta, never below 1.
func (s *Session) UpdateQuantity(ctx context.Context, id string, delta int) (cart.Line, error) {
	line, ok := s.cart.UpdateQuantity(ctx, id, delta)
	if !ok {
		return cart.Line{}, ErrLineNotFound
	}
	return line, nil
}

// Remove deletes a cart line.
func (s *Session) Remove(ctx context.Context, id string) error {
	if !s.cart.Remove(ctx, id) {
		return ErrLineNotFound
	}
	return nil
}

// Clear empties the cart. The member stays logged in.
func (s *Session) Clear(ctx context.Context) {
	s.cart.Clear(ctx)
}

// Lines returns the cart, newest first.
func (s *Session) Lines() []cart.Line { return s.cart.Lines() }

// ItemCount returns the total quantity in the cart.
func (s *Session) ItemCount() int { return s.cart.ItemCount() }

// Suggest returns autocomplete suggestions for a partly typed product name.
func (s *Session) Suggest(ctx context.Context, query string) []catalog.Suggestion {
	return s.catalog.Search(ctx, query)
}

// Catalog returns every known product, sorted by name.
func (s *Session) Catalog(ctx context.Context) []catalog.Suggestion {
	return s.catalog.All(ctx)
}

// FilterCatalog returns the known products whose name contains term, sorted
// by name. A blank term returns the whole catalog.
func (s *Session) FilterCatalog(ctx context.Context, term string) []catalog.Suggestion {
	return s.catalog.Filter(ctx, term)
}

// SearchGlobal queries the product database. Results are not added to the catalog.
func (s *Session) SearchGlobal(ctx context.Context, query string) ([]lookup.APIProduct, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.NewValidationError("query", "search query must not be empty")
	}
	if s.products == nil {
		return nil, nil
	}
	return s.products.Search(ctx, query)
}

// Login resolves q against the member directory and keeps the member for the
// rest of the session.
func (s *Session) Login(ctx context.Context, q member.Query) (member.Member, error) {
	m, err := s.directory.Login(ctx, q)
	if err != nil {
		return member.Member{}, err
	}
	if err := s.members.Save(ctx, m); err != nil {
		s.logger.Warn("member session not saved", "member", m.Name, "err", err)
	}
	s.logger.Debug("member logged in", "member", m.Name, "discount", m.DiscountPercentage)
	return m, nil
}

// Logout forgets the logged-in member.
func (s *Session) Logout(ctx context.Context) error {
	return s.members.Clear(ctx)
}

// Member returns the logged-in member, or nil.
func (s *Session) Member(ctx context.Context) *member.Member {
	return s.members.Current(ctx)
}

// Totals derives the cart totals with the logged-in member's discount.
func (s *Session) Totals(ctx context.Context) pricing.Totals {
	return pricing.Resolve(s.cart.Lines(), s.members.Current(ctx))
}
