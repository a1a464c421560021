// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/keranjangkita/keranjang/internal/cart"
	"github.com/keranjangkita/keranjang/internal/config"
	"github.com/keranjangkita/keranjang/internal/issue"
	"github.com/keranjangkita/keranjang/internal/kvstore"
	"github.com/keranjangkita/keranjang/internal/lookup"
	"github.com/keranjangkita/keranjang/internal/member"
	"github.com/keranjangkita/keranjang/internal/session"
	"github.com/keranjangkita/keranjang/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra handler receives an App and works through the
	// session it opens.
	App struct {
		Config    ConfigProvider
		OpenStore StoreOpener
		Products  ProductsFactory
		Directory DirectoryFactory
		Clock     cart.Clock
		stdout    io.Writer
		stderr    io.Writer
		flags     globalFlags
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		OpenStore StoreOpener
		Products  ProductsFactory
		Directory DirectoryFactory
		Clock     cart.Clock
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// StoreOpener opens the key-value store selected by the configuration.
	StoreOpener func(ctx context.Context, opts kvstore.Options) (kvstore.Store, error)

	// ProductsFactory builds the product database client. It may return nil
	// to run without product lookups.
	ProductsFactory func(cfg *config.Config, logger *log.Logger) session.ProductLookup

	// DirectoryFactory builds the member directory client.
	DirectoryFactory func(cfg *config.Config, logger *log.Logger) session.MemberDirectory

	globalFlags struct {
		configPath string
		verbose    bool
		storage    string
	}

	// shop is one opened session with the configuration and store behind it.
	shop struct {
		cfg     *config.Config
		session *session.Session
		store   kvstore.Store
		logger  *log.Logger
	}
)

// NewApp creates the CLI composition root from the given dependencies.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:    deps.Config,
		OpenStore: deps.OpenStore,
		Products:  deps.Products,
		Directory: deps.Directory,
		Clock:     deps.Clock,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.OpenStore == nil {
		app.OpenStore = kvstore.Open
	}
	if app.Products == nil {
		app.Products = defaultProducts
	}
	if app.Directory == nil {
		app.Directory = defaultDirectory
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

func defaultProducts(cfg *config.Config, logger *log.Logger) session.ProductLookup {
	if cfg.Lookup.BaseURL == "" {
		return nil
	}
	return lookup.NewProductClient(cfg.Lookup.BaseURL,
		lookup.WithTimeout(cfg.Lookup.Timeout),
		lookup.WithLogger(logger.WithPrefix("lookup")),
	)
}

func defaultDirectory(cfg *config.Config, logger *log.Logger) session.MemberDirectory {
	return member.NewDirectoryClient(cfg.Member.FeedURL,
		member.WithTimeout(cfg.Lookup.Timeout),
		member.WithMinNameLength(cfg.Member.MinNameLength),
		member.WithLogger(logger.WithPrefix("member")),
	)
}

// loadConfig loads the configuration and applies the global flags over it.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		return nil, err
	}

	if a.flags.storage != "" {
		backend := config.StorageBackend(a.flags.storage)
		if ok, errs := backend.IsValid(); !ok {
			return nil, &types.ValidationError{Field: "storage", Reason: errs[0].Error(), Cause: errs[0]}
		}
		cfg.Storage.Backend = backend
	}
	if a.flags.verbose {
		cfg.UI.Verbose = true
	}
	return cfg, nil
}

// newLogger creates the process logger: Debug when verbose, Warn otherwise.
func (a *App) newLogger(verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix:          config.AppName,
		ReportTimestamp: verbose,
		Level:           level,
	})
}

// open loads the configuration, opens the store and the shopping session.
// Callers must close the returned shop.
func (a *App) open(ctx context.Context) (*shop, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	logger := a.newLogger(cfg.UI.Verbose)

	opts := kvstore.Options{
		Backend: kvstore.Backend(cfg.Storage.Backend),
		DSN:     cfg.Storage.DSN,
	}
	if opts.Backend == kvstore.BackendFile {
		if opts.Path, err = config.StorePath(cfg); err != nil {
			return nil, err
		}
	}

	store, err := a.OpenStore(ctx, opts)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open storage").
			WithResource(string(opts.Backend)).
			WithIssue(issue.StorageUnavailableId).
			Wrap(err).
			BuildError()
	}
	logger.Debug("storage opened", "backend", opts.Backend, "path", opts.Path)

	sess := session.New(ctx, store, session.Options{
		Products:        a.Products(cfg, logger),
		Directory:       a.Directory(cfg, logger),
		Clock:           a.Clock,
		Logger:          logger,
		HistoryCapacity: cfg.Catalog.HistoryCapacity,
	})
	return &shop{cfg: cfg, session: sess, store: store, logger: logger}, nil
}

// withShop opens a shop, runs fn and closes the store. Errors from either
// are classified into an ExitError.
func (a *App) withShop(ctx context.Context, fn func(*shop) error) error {
	s, err := a.open(ctx)
	if err != nil {
		return a.fail(err, config.ColorSchemeAuto)
	}
	runErr := fn(s)
	if closeErr := s.store.Close(); closeErr != nil {
		s.logger.Warn("storage close failed", "err", closeErr)
	}
	if runErr != nil {
		return a.fail(runErr, s.cfg.UI.ColorScheme)
	}
	return nil
}

// fail renders the catalogued issue for err, if any, to stderr and wraps err
// with its exit code.
func (a *App) fail(err error, scheme config.ColorScheme) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	code, id := classify(err)
	if id != 0 {
		if rendered, renderErr := issue.Get(id).Render(glamourStyle(scheme, a.stderr)); renderErr == nil {
			fmt.Fprint(a.stderr, rendered)
		}
	}
	return &ExitError{Code: code, Err: err}
}

// glamourStyle picks the issue rendering style. Output that is not a
// terminal gets plain text.
func glamourStyle(scheme config.ColorScheme, w io.Writer) string {
	if !isTerminal(w) {
		return "notty"
	}
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		if lipgloss.HasDarkBackground() {
			return "dark"
		}
		return "light"
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
