// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for keranjang.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "keranjang",
		Short: "A shopping cart for the checkout counter",
		Long: TitleStyle.Render("keranjang") + SubtitleStyle.Render(" - a shopping cart for the checkout counter") + `

keranjang keeps a running cart while you shop: scan barcodes or type product
names, adjust quantities, and log in as a member to get your discount.
The cart, the prices you entered and the products you bought are kept
between runs.

` + SubtitleStyle.Render("Examples:") + `
  keranjang scan 8991002101234 --name "Indomie Goreng" --price 3500
  keranjang add --name "Aqua 600ml" --price 4000
  keranjang cart                      Show the cart and totals
  keranjang qty 8991002101234 2       Add two more
  keranjang member login --name budi --phone 1234`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&app.flags.configPath, "config", "", "config file (default is $HOME/.config/keranjang/config.cue)")
	flags.StringVar(&app.flags.storage, "storage", "", "storage backend: memory, file or postgres (overrides the config)")

	rootCmd.AddCommand(
		newScanCommand(app),
		newAddCommand(app),
		newCartCommand(app),
		newQtyCommand(app),
		newRemoveCommand(app),
		newClearCommand(app),
		newSuggestCommand(app),
		newCatalogCommand(app),
		newLookupCommand(app),
		newMemberCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the production App, runs the command line and exits with
// the command's exit code. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}
