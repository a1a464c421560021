// SPDX-License-Identifier: MPL-2.0

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/keranjangkita/keranjang/internal/cart"
	"github.com/keranjangkita/keranjang/internal/kvstore"
	"github.com/keranjangkita/keranjang/internal/lookup"
	"github.com/keranjangkita/keranjang/internal/member"
	"github.com/keranjangkita/keranjang/internal/testutil"
	"github.com/keranjangkita/keranjang/pkg/types"
)

type fakeProducts struct {
	names  map[types.Barcode]string
	onName func(barcode types.Barcode)
}

func (f *fakeProducts) ProductName(_ context.Context, barcode types.Barcode) (string, bool) {
	if f.onName != nil {
		f.onName(barcode)
	}
	name, ok := f.names[barcode]
	return name, ok
}

func (f *fakeProducts) Search(_ context.Context, query string) ([]lookup.APIProduct, error) {
	return []lookup.APIProduct{{Name: query, Barcode: "1"}}, nil
}

type fakeDirectory struct {
	members []member.Member
}

func (f fakeDirectory) Login(_ context.Context, q member.Query) (member.Member, error) {
	if err := q.Validate(); err != nil {
		return member.Member{}, err
	}
	m, ok := member.FindByQuery(f.members, q)
	if !ok {
		return member.Member{}, member.ErrMemberNotFound
	}
	return m, nil
}

func newSession(t *testing.T, kv kvstore.Store, products ProductLookup) *Session {
	t.Helper()
	return New(context.Background(), kv, Options{
		Products: products,
		Directory: fakeDirectory{members: []member.Member{
			{Name: "Budi Santoso", Phone: "081234561234", Level: "Gold", DiscountPercentage: 10},
		}},
		Clock: testutil.NewFakeClock(time.Time{}),
	})
}

func TestSession_ShoppingFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := kvstore.NewMemory()
	s := newSession(t, kv, &fakeProducts{names: map[types.Barcode]string{"899123": "Aqua 600ml"}})

	draft := s.PrepareScan(ctx, "899123")
	if draft.Name != "Aqua 600ml" || draft.HasPrice {
		t.Fatalf("first PrepareScan() = %+v", draft)
	}

	if _, err := s.Add(ctx, cart.Candidate{Barcode: draft.Barcode, Name: draft.Name, Price: 50000}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(ctx, cart.Candidate{Name: "Kopi", Price: 0}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpdateQuantity(ctx, "899123", 1); err != nil {
		t.Fatal(err)
	}

	if draft := s.PrepareScan(ctx, "899123"); !draft.HasPrice || draft.Price != 50000 {
		t.Errorf("second PrepareScan() = %+v, want remembered price", draft)
	}

	totals := s.Totals(ctx)
	if totals.Total.IntPart() != 100000 || totals.HasDiscount() {
		t.Errorf("Totals() before login = %s", totals.Total)
	}

	m, err := s.Login(ctx, member.Query{Name: "budi", PhoneSuffix: "1234"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if m.DiscountPercentage != 10 {
		t.Errorf("Login() = %+v", m)
	}
	if total := s.Totals(ctx).Total; total.IntPart() != 90000 {
		t.Errorf("Totals() after login = %s, want 90000", total)
	}

	// A fresh session over the same store sees the same cart and member.
	again := newSession(t, kv, nil)
	if again.ItemCount() != 3 || again.Member(ctx) == nil {
		t.Errorf("reopened session: items %d, member %v", again.ItemCount(), again.Member(ctx))
	}

	if err := s.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Member(ctx) != nil || s.Totals(ctx).Total.IntPart() != 100000 {
		t.Error("Logout() should drop the discount")
	}

	s.Clear(ctx)
	if len(s.Lines()) != 0 {
		t.Error("Clear() should empty the cart")
	}
	if len(s.Catalog(ctx)) == 0 || len(s.Suggest(ctx, "aqua")) == 0 {
		t.Error("product history should survive Clear()")
	}
}

func TestSession_UnknownLine(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newSession(t, kvstore.NewMemory(), nil)

	if _, err := s.UpdateQuantity(ctx, "nope", 1); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("UpdateQuantity() error = %v", err)
	}
	if err := s.Remove(ctx, "nope"); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("Remove() error = %v", err)
	}
}

func TestSession_LoginFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newSession(t, kvstore.NewMemory(), nil)

	if _, err := s.Login(ctx, member.Query{Name: "bu", PhoneSuffix: "1234"}); !errors.Is(err, types.ErrValidation) {
		t.Errorf("Login(short name) error = %v", err)
	}
	if _, err := s.Login(ctx, member.Query{Name: "budi", PhoneSuffix: "9999"}); !errors.Is(err, member.ErrMemberNotFound) {
		t.Errorf("Login(wrong suffix) error = %v", err)
	}
	if s.Member(ctx) != nil {
		t.Error("failed login must not start a member session")
	}
}

func TestSession_NoDirectory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New(ctx, kvstore.NewMemory(), Options{})

	_, err := s.Login(ctx, member.Query{Name: "budi", PhoneSuffix: "1234"})
	if !errors.Is(err, member.ErrMemberNotFound) || !errors.Is(err, member.ErrDirectoryUnavailable) {
		t.Errorf("Login() without feed error = %v", err)
	}
	if got, err := s.SearchGlobal(ctx, "aqua"); err != nil || got != nil {
		t.Errorf("SearchGlobal() without products = %v, %v", got, err)
	}
	if draft := s.PrepareScan(ctx, "1"); draft.Name != "" {
		t.Errorf("PrepareScan() without products = %+v", draft)
	}
}

func TestSession_StaleProductNameDropped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	products := &fakeProducts{names: map[types.Barcode]string{
		"111": "Old Product",
		"222": "New Product",
	}}
	s := newSession(t, kvstore.NewMemory(), products)

	var newer ScanDraft
	products.onName = func(barcode types.Barcode) {
		if barcode == "111" {
			// A second scan starts and finishes while the first lookup is in flight.
			products.onName = nil
			newer = s.PrepareScan(ctx, "222")
		}
	}

	older := s.PrepareScan(ctx, "111")
	if older.Name != "" {
		t.Errorf("stale lookup name = %q, want dropped", older.Name)
	}
	if newer.Name != "New Product" {
		t.Errorf("newer lookup name = %q", newer.Name)
	}
}

func TestSession_ConcurrentScansKeepNewestName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	products := &fakeProducts{
		names: map[types.Barcode]string{"111": "Old Product", "222": "New Product"},
		onName: func(barcode types.Barcode) {
			if barcode == "111" {
				close(started)
				<-release
			}
		},
	}
	s := newSession(t, kvstore.NewMemory(), products)

	slow := make(chan ScanDraft, 1)
	go func() { slow <- s.PrepareScan(ctx, "111") }()

	<-started
	newer := s.PrepareScan(ctx, "222")
	close(release)
	older := <-slow

	if newer.Name != "New Product" {
		t.Errorf("newer scan name = %q", newer.Name)
	}
	if older.Name != "" {
		t.Errorf("slow scan name = %q, want dropped", older.Name)
	}
}

func TestSession_SearchGlobalBlankQuery(t *testing.T) {
	t.Parallel()

	for _, products := range []ProductLookup{nil, &fakeProducts{}} {
		s := newSession(t, kvstore.NewMemory(), products)
		if _, err := s.SearchGlobal(context.Background(), "  "); !errors.Is(err, types.ErrValidation) {
			t.Errorf("SearchGlobal(blank) with products=%v error = %v, want ErrValidation", products != nil, err)
		}
	}
}

func TestSession_SearchGlobal(t *testing.T) {
	t.Parallel()
	s := newSession(t, kvstore.NewMemory(), &fakeProducts{})

	got, err := s.SearchGlobal(context.Background(), "teh")
	if err != nil || len(got) != 1 || got[0].Name != "teh" {
		t.Errorf("SearchGlobal() = %+v, %v", got, err)
	}
	if len(s.Catalog(context.Background())) == 0 {
		t.Fatal("seed catalog missing")
	}
	for _, e := range s.Catalog(context.Background()) {
		if e.Name == "teh" {
			t.Error("global search results must not enter the catalog")
		}
	}
}
