// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/keranjangkita/keranjang/internal/config"
	"github.com/keranjangkita/keranjang/internal/kvstore"
	"github.com/keranjangkita/keranjang/internal/lookup"
	"github.com/keranjangkita/keranjang/internal/member"
	"github.com/keranjangkita/keranjang/internal/session"
	"github.com/keranjangkita/keranjang/internal/testutil"
	"github.com/keranjangkita/keranjang/pkg/types"
)

type (
	staticConfig struct {
		cfg *config.Config
		err error
	}

	fakeProducts struct {
		names   map[types.Barcode]string
		results []lookup.APIProduct
	}

	fakeDirectory struct {
		members []member.Member
		err     error
	}

	harness struct {
		t     *testing.T
		app   *App
		store *kvstore.Memory
	}
)

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	c := *s.cfg
	return &c, nil
}

func (f *fakeProducts) ProductName(_ context.Context, barcode types.Barcode) (string, bool) {
	name, ok := f.names[barcode]
	return name, ok
}

func (f *fakeProducts) Search(_ context.Context, query string) ([]lookup.APIProduct, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.NewValidationError("query", "search query must not be empty")
	}
	return f.results, nil
}

func (f *fakeDirectory) Login(_ context.Context, q member.Query) (member.Member, error) {
	if err := q.Validate(); err != nil {
		return member.Member{}, err
	}
	if f.err != nil {
		return member.Member{}, fmt.Errorf("%w: %w", member.ErrMemberNotFound, f.err)
	}
	m, ok := member.FindByQuery(f.members, q)
	if !ok {
		return member.Member{}, member.ErrMemberNotFound
	}
	return m, nil
}

func newHarness(t *testing.T, products *fakeProducts, directory *fakeDirectory) *harness {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Storage.Backend = config.StorageMemory
	store := kvstore.NewMemory()

	app := NewApp(Dependencies{
		Config: staticConfig{cfg: cfg},
		OpenStore: func(_ context.Context, opts kvstore.Options) (kvstore.Store, error) {
			if opts.Backend != kvstore.BackendMemory {
				return nil, fmt.Errorf("unexpected backend %q", opts.Backend)
			}
			return store, nil
		},
		Products: func(*config.Config, *log.Logger) session.ProductLookup {
			if products == nil {
				return nil
			}
			return products
		},
		Directory: func(*config.Config, *log.Logger) session.MemberDirectory {
			if directory == nil {
				return &fakeDirectory{err: errors.New("offline")}
			}
			return directory
		},
		Clock: testutil.NewFakeClock(time.Time{}),
	})
	return &harness{t: t, app: app, store: store}
}

// run executes one command line against a fresh command tree sharing the
// harness store, like separate invocations of the binary.
func (h *harness) run(args ...string) (stdout, stderr string, err error) {
	h.t.Helper()

	var out, errOut bytes.Buffer
	h.app.stdout = &out
	h.app.stderr = &errOut

	root := NewRootCommand(h.app)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, errOut, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("%v: %v\nstderr:\n%s", args, err, errOut)
	}
	return out
}

func exitCode(t *testing.T, err error) types.ExitCode {
	t.Helper()
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v (%T), want *ExitError", err, err)
	}
	return exitErr.Code
}

func TestScanAddAndCart(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeProducts{names: map[types.Barcode]string{"8998866200301": "Teh Botol Sosro 450ml"}}, nil)

	out := h.mustRun("scan", "8991002101234", "--name", "Indomie Goreng", "--price", "Rp 3.500")
	if !strings.Contains(out, "Indomie Goreng × 1") || !strings.Contains(out, "Rp 3500") {
		t.Errorf("scan output = %q", out)
	}

	// The second scan reuses the name in the cart and the remembered price.
	out = h.mustRun("scan", "8991002101234")
	if !strings.Contains(out, "Indomie Goreng × 2") || !strings.Contains(out, "Rp 7000") {
		t.Errorf("second scan output = %q", out)
	}

	// The product database supplies the name, the price is typed.
	out = h.mustRun("scan", "8998866200301", "--price", "6000")
	if !strings.Contains(out, "Teh Botol Sosro 450ml × 1") {
		t.Errorf("database name scan output = %q", out)
	}

	out = h.mustRun("add", "--name", "  aqua 600ML ", "--price", "4000")
	if !strings.Contains(out, "aqua 600ML × 1") {
		t.Errorf("add output = %q", out)
	}
	out = h.mustRun("add", "--name", "Aqua 600ml", "--price", "4000")
	if !strings.Contains(out, "aqua 600ML × 2") {
		t.Errorf("add of the same product should increment, got %q", out)
	}

	out = h.mustRun("cart")
	for _, want := range []string{"Cart (5 items)", "8991002101234", "Subtotal", "Rp 21000", "Total"} {
		if !strings.Contains(out, want) {
			t.Errorf("cart output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Discount") {
		t.Errorf("cart without member should have no discount line:\n%s", out)
	}
}

func TestScanWithoutNameOrPrice(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, nil)

	_, errOut, err := h.run("scan", "8991002101234", "--price", "3500")
	if code := exitCode(t, err); code != types.ExitNotFound {
		t.Errorf("unknown product exit code = %d, want %d", code, types.ExitNotFound)
	}
	if !strings.Contains(errOut, "Product not found") {
		t.Errorf("stderr should render the product issue, got %q", errOut)
	}

	_, _, err = h.run("scan", "8991002101234", "--name", "Indomie Goreng")
	if code := exitCode(t, err); code != types.ExitValidation {
		t.Errorf("missing price exit code = %d, want %d", code, types.ExitValidation)
	}

	_, _, err = h.run("scan", "  ", "--name", "x", "--price", "1")
	if code := exitCode(t, err); code != types.ExitValidation {
		t.Errorf("blank barcode exit code = %d, want %d", code, types.ExitValidation)
	}

	if out := h.mustRun("cart"); !strings.Contains(out, "Cart is empty") {
		t.Errorf("rejected scans must not touch the cart, got %q", out)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"missing price", []string{"add", "--name", "Roti Tawar"}},
		{"price without digits", []string{"add", "--name", "Roti Tawar", "--price", "gratis"}},
		{"blank name", []string{"add", "--name", "   ", "--price", "15000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, nil, nil)
			_, errOut, err := h.run(tt.args...)
			if code := exitCode(t, err); code != types.ExitValidation {
				t.Errorf("exit code = %d, want %d", code, types.ExitValidation)
			}
			if !errors.Is(err, types.ErrValidation) {
				t.Errorf("error %v should wrap ErrValidation", err)
			}
			if !strings.Contains(errOut, "Invalid input") {
				t.Errorf("stderr should render the invalid input issue, got %q", errOut)
			}
		})
	}
}

func TestQtyRemoveClear(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, nil)
	h.mustRun("scan", "8991002101234", "--name", "Indomie Goreng", "--price", "3500")

	if out := h.mustRun("qty", "8991002101234", "3"); !strings.Contains(out, "Indomie Goreng × 4") {
		t.Errorf("qty +3 output = %q", out)
	}
	if out := h.mustRun("qty", "8991002101234", "--", "-10"); !strings.Contains(out, "Indomie Goreng × 1") {
		t.Errorf("qty -10 should stop at 1, got %q", out)
	}

	_, _, err := h.run("qty", "8991002101234", "banyak")
	if code := exitCode(t, err); code != types.ExitValidation {
		t.Errorf("non-numeric delta exit code = %d", code)
	}

	_, errOut, err := h.run("remove", "nope")
	if code := exitCode(t, err); code != types.ExitNotFound {
		t.Errorf("remove unknown exit code = %d", code)
	}
	if !strings.Contains(errOut, "Cart line not found") {
		t.Errorf("stderr = %q", errOut)
	}

	h.mustRun("remove", "8991002101234")
	if out := h.mustRun("cart"); !strings.Contains(out, "Cart is empty") {
		t.Errorf("cart after remove = %q", out)
	}

	h.mustRun("add", "--name", "Gula Pasir 1kg", "--price", "17500")
	if out := h.mustRun("clear"); !strings.Contains(out, "Cart cleared") {
		t.Errorf("clear output = %q", out)
	}
	if out := h.mustRun("cart"); !strings.Contains(out, "Cart is empty") {
		t.Errorf("cart after clear = %q", out)
	}

	// History survives clearing the cart.
	if out := h.mustRun("suggest", "gula"); !strings.Contains(out, "Gula Pasir 1kg") || !strings.Contains(out, "history") {
		t.Errorf("suggest after clear = %q", out)
	}
}

func TestMemberLoginDiscount(t *testing.T) {
	t.Parallel()

	directory := &fakeDirectory{members: []member.Member{
		{Name: "Budi Santoso", Phone: "081234561234", Level: "Gold", DiscountPercentage: 10},
	}}
	h := newHarness(t, nil, directory)
	h.mustRun("add", "--name", "Beras 5kg", "--price", "75000")

	if out := h.mustRun("member", "show"); !strings.Contains(out, "Not logged in") {
		t.Errorf("member show before login = %q", out)
	}

	out := h.mustRun("member", "login", "--name", "budi", "--phone", "1234")
	if !strings.Contains(out, "Welcome, Budi Santoso (Gold, 10% discount)") {
		t.Errorf("login output = %q", out)
	}

	out = h.mustRun("member", "show")
	if !strings.Contains(out, "Budi Santoso") || !strings.Contains(out, "••••••••1234") {
		t.Errorf("member show = %q", out)
	}

	out = h.mustRun("cart")
	for _, want := range []string{"Discount (Gold, 10%)", "-Rp 7500", "Rp 67500"} {
		if !strings.Contains(out, want) {
			t.Errorf("cart output missing %q:\n%s", want, out)
		}
	}

	h.mustRun("member", "logout")
	if out := h.mustRun("cart"); strings.Contains(out, "Discount") {
		t.Errorf("cart after logout should have no discount:\n%s", out)
	}
}

func TestMemberLoginFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		directory *fakeDirectory
		args      []string
		wantCode  types.ExitCode
		wantIssue string
	}{
		{
			name:      "short name",
			directory: &fakeDirectory{},
			args:      []string{"--name", "bu", "--phone", "1234"},
			wantCode:  types.ExitValidation,
			wantIssue: "Invalid input",
		},
		{
			name:      "phone not four digits",
			directory: &fakeDirectory{},
			args:      []string{"--name", "budi", "--phone", "12a4"},
			wantCode:  types.ExitValidation,
			wantIssue: "Invalid input",
		},
		{
			name:      "no match",
			directory: &fakeDirectory{members: []member.Member{{Name: "Siti", Phone: "0899"}}},
			args:      []string{"--name", "budi", "--phone", "1234"},
			wantCode:  types.ExitNotFound,
			wantIssue: "Member not found",
		},
		{
			name:      "directory unavailable",
			directory: &fakeDirectory{err: fmt.Errorf("%w: timeout", member.ErrDirectoryUnavailable)},
			args:      []string{"--name", "budi", "--phone", "1234"},
			wantCode:  types.ExitNotFound,
			wantIssue: "Member directory unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, nil, tt.directory)
			_, errOut, err := h.run(append([]string{"member", "login"}, tt.args...)...)
			if code := exitCode(t, err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(errOut, tt.wantIssue) {
				t.Errorf("stderr should contain %q, got %q", tt.wantIssue, errOut)
			}
			if out := h.mustRun("member", "show"); !strings.Contains(out, "Not logged in") {
				t.Errorf("failed login must not log in, got %q", out)
			}
		})
	}
}

func TestSuggestCatalogLookup(t *testing.T) {
	t.Parallel()

	products := &fakeProducts{results: []lookup.APIProduct{
		{Name: "Indomie Mi Goreng", Brand: "Indofood", Barcode: "089686010947"},
		{Name: "Unknown Product", Barcode: "089686010015"},
	}}
	h := newHarness(t, products, nil)

	out := h.mustRun("suggest", "indomie")
	if !strings.Contains(out, "Indomie Goreng") || !strings.Contains(out, "database") {
		t.Errorf("suggest output = %q", out)
	}
	if out := h.mustRun("suggest", "i"); !strings.Contains(out, "No suggestions") {
		t.Errorf("one-letter suggest = %q", out)
	}

	if out := h.mustRun("catalog"); !strings.Contains(out, "Catalog (") || !strings.Contains(out, "Aqua 600ml") {
		t.Errorf("catalog output = %q", out)
	}
	out = h.mustRun("catalog", "AQUA")
	if !strings.Contains(out, "Catalog (1 products)") || !strings.Contains(out, "Aqua 600ml") || strings.Contains(out, "Indomie") {
		t.Errorf("filtered catalog output = %q", out)
	}

	out = h.mustRun("lookup", "indomie", "goreng")
	if !strings.Contains(out, "089686010947") || !strings.Contains(out, "Indofood") {
		t.Errorf("lookup output = %q", out)
	}
}

func TestLookupWithoutProductDatabase(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, nil)
	_, errOut, err := h.run("lookup", "indomie")
	if code := exitCode(t, err); code != types.ExitNotFound {
		t.Errorf("exit code = %d, want %d", code, types.ExitNotFound)
	}
	if !strings.Contains(errOut, "Product not found") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, nil)

	_, _, err := h.run("--storage", "redis", "cart")
	if code := exitCode(t, err); code != types.ExitValidation {
		t.Errorf("invalid --storage exit code = %d, want %d", code, types.ExitValidation)
	}

	out := h.mustRun("--storage", "memory", "config", "dump")
	if !strings.Contains(out, `backend: "memory"`) {
		t.Errorf("config dump = %q", out)
	}

	out = h.mustRun("-v", "config", "show")
	if !strings.Contains(out, "verbose: true") || !strings.Contains(out, "history_capacity: 200") {
		t.Errorf("config show = %q", out)
	}
}

func TestStorageUnavailable(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	var errOut bytes.Buffer
	app := NewApp(Dependencies{
		Config: staticConfig{cfg: cfg},
		OpenStore: func(context.Context, kvstore.Options) (kvstore.Store, error) {
			return nil, errors.New("connection refused")
		},
		Stdout: &bytes.Buffer{},
		Stderr: &errOut,
	})

	root := NewRootCommand(app)
	root.SetArgs([]string{"cart"})
	err := root.ExecuteContext(context.Background())
	if code := exitCode(t, err); code != types.ExitFailure {
		t.Errorf("exit code = %d, want %d", code, types.ExitFailure)
	}
	if !strings.Contains(errOut.String(), "Storage unavailable") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestConfigLoadFailure(t *testing.T) {
	t.Parallel()

	var errOut bytes.Buffer
	app := NewApp(Dependencies{
		Config: staticConfig{err: fmt.Errorf("broken: %w", config.ErrInvalidConfig)},
		Stdout: &bytes.Buffer{},
		Stderr: &errOut,
	})

	root := NewRootCommand(app)
	root.SetArgs([]string{"config", "show"})
	err := root.ExecuteContext(context.Background())
	if code := exitCode(t, err); code != types.ExitFailure {
		t.Errorf("exit code = %d, want %d", code, types.ExitFailure)
	}
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("error %v should wrap ErrInvalidConfig", err)
	}
}
