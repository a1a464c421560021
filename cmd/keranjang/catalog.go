// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keranjangkita/keranjang/internal/catalog"
	"github.com/keranjangkita/keranjang/internal/issue"
)

func newSuggestCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <query>",
		Short: "Suggest products by name",
		Long: fmt.Sprintf(`Suggest up to %d products whose name contains the query, ignoring case.
Products you bought before come first, then the built-in catalog. Queries
shorter than %d characters suggest nothing.`, catalog.MaxSuggestions, catalog.MinQueryLength),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return app.withShop(cmd.Context(), func(s *shop) error {
				suggestions := s.session.Suggest(cmd.Context(), query)
				if len(suggestions) == 0 {
					fmt.Fprintln(app.stdout, SubtitleStyle.Render(fmt.Sprintf("No suggestions for %q", query)))
					return nil
				}
				writeSuggestions(app, suggestions)
				return nil
			})
		},
	}
}

func newCatalogCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [term]",
		Short: "List every known product",
		Long: `List the product history merged with the built-in catalog, sorted by name.
With a term, only products whose name contains it (ignoring case) are listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.Join(args, " ")
			return app.withShop(cmd.Context(), func(s *shop) error {
				all := s.session.FilterCatalog(cmd.Context(), term)
				fmt.Fprintln(app.stdout, TitleStyle.Render(fmt.Sprintf("Catalog (%d products)", len(all))))
				fmt.Fprintln(app.stdout)
				writeSuggestions(app, all)
				return nil
			})
		},
	}
}

func newLookupCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <query>",
		Short: "Search the product database",
		Long: `Search the product database by name or brand. Results are shown only;
scan a barcode to put a product in the cart.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return app.withShop(cmd.Context(), func(s *shop) error {
				products, err := s.session.SearchGlobal(cmd.Context(), query)
				if err != nil {
					return err
				}
				if len(products) == 0 {
					return issue.NewErrorContext().
						WithOperation("search products").
						WithResource(query).
						WithIssue(issue.ProductNotFoundId).
						WithSuggestion("Check lookup.base_url in your configuration").
						Wrap(errProductNotFound).
						BuildError()
				}
				for _, p := range products {
					brand := p.Brand
					if brand == "" {
						brand = "-"
					}
					fmt.Fprintf(app.stdout, "  %-14s %s %s\n",
						p.Barcode, productStyle.Render(padName(p.Name)), SubtitleStyle.Render(brand))
				}
				return nil
			})
		},
	}
}

func writeSuggestions(app *App, suggestions []catalog.Suggestion) {
	for _, s := range suggestions {
		fmt.Fprintf(app.stdout, "  %s %-10s %s\n",
			productStyle.Render(padName(s.Name)),
			rupiahPrice(s.Price),
			SubtitleStyle.Render(s.Source.String()),
		)
	}
}
