// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keranjangkita/keranjang/internal/cart"
	"github.com/keranjangkita/keranjang/internal/issue"
	"github.com/keranjangkita/keranjang/pkg/types"
)

func newScanCommand(app *App) *cobra.Command {
	var name, price string

	scanCmd := &cobra.Command{
		Use:   "scan <barcode>",
		Short: "Add a scanned product to the cart",
		Long: `Add a scanned product to the cart.

The name defaults to the product database entry for the barcode and the
price to the last price entered for it. Scanning a barcode that is already
in the cart adds one to its quantity.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := scanRequest{
				barcode:  args[0],
				name:     name,
				price:    price,
				hasPrice: cmd.Flags().Changed("price"),
			}
			return app.withShop(cmd.Context(), func(s *shop) error {
				return runScan(cmd.Context(), app, s, req)
			})
		},
	}

	scanCmd.Flags().StringVar(&name, "name", "", "product name (default: product database name)")
	scanCmd.Flags().StringVar(&price, "price", "", "price in rupiah (default: last price entered for this barcode)")

	return scanCmd
}

type scanRequest struct {
	barcode  string
	name     string
	price    string
	hasPrice bool
}

func runScan(ctx context.Context, app *App, s *shop, req scanRequest) error {
	barcode := types.Barcode(strings.TrimSpace(req.barcode))
	if barcode.IsZero() {
		return types.NewValidationError("barcode", "barcode must not be empty")
	}
	if ok, errs := barcode.IsValid(); !ok {
		return &types.ValidationError{Field: "barcode", Reason: errs[0].Error(), Cause: errs[0]}
	}

	draft := s.session.PrepareScan(ctx, barcode)

	name := strings.TrimSpace(req.name)
	if name == "" {
		name = draft.Name
	}
	if name == "" {
		name = nameInCart(s, barcode)
	}
	if name == "" {
		return issue.NewErrorContext().
			WithOperation("scan product").
			WithResource(barcode.String()).
			WithIssue(issue.ProductNotFoundId).
			WithSuggestion("Pass the name with --name").
			Wrap(errProductNotFound).
			BuildError()
	}

	var price types.Price
	switch {
	case req.hasPrice:
		p, err := parsePrice(req.price)
		if err != nil {
			return err
		}
		price = p
	case draft.HasPrice:
		price = draft.Price
		s.logger.Debug("price prefilled from history", "barcode", barcode, "price", price)
	default:
		return types.NewValidationError("price", "no price is known for "+barcode.String()+"; pass --price")
	}

	line, err := s.session.Add(ctx, cart.Candidate{Barcode: barcode, Name: name, Price: price})
	if err != nil {
		return err
	}
	printAdded(app, line)
	return nil
}

func newAddCommand(app *App) *cobra.Command {
	var name, price string

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product by name and price",
		Long: `Add a product by name and price.

A product with the same name (ignoring case and surrounding spaces) and the
same price as a cart line adds one to that line's quantity.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withShop(cmd.Context(), func(s *shop) error {
				p, err := parsePrice(price)
				if err != nil {
					return err
				}
				line, err := s.session.Add(cmd.Context(), cart.Candidate{Name: name, Price: p})
				if err != nil {
					return err
				}
				printAdded(app, line)
				return nil
			})
		},
	}

	addCmd.Flags().StringVar(&name, "name", "", "product name")
	addCmd.Flags().StringVar(&price, "price", "", "price in rupiah")

	return addCmd
}

func newCartCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "cart",
		Aliases: []string{"ls"},
		Short:   "Show the cart and totals",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withShop(cmd.Context(), func(s *shop) error {
				lines := s.session.Lines()
				if len(lines) == 0 {
					fmt.Fprintln(app.stdout, SubtitleStyle.Render("Cart is empty"))
					return nil
				}

				fmt.Fprintln(app.stdout, TitleStyle.Render(fmt.Sprintf("Cart (%d items)", s.session.ItemCount())))
				fmt.Fprintln(app.stdout)
				for _, l := range lines {
					writeLine(app.stdout, l)
				}
				fmt.Fprintln(app.stdout)

				m := s.session.Member(cmd.Context())
				if m != nil {
					fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("Member:"), describeMember(*m))
				}
				writeTotals(app.stdout, s.session.Totals(cmd.Context()), m)
				return nil
			})
		},
	}
}

func newQtyCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "qty <id> <delta>",
		Short: "Change the quantity of a cart line",
		Long: `Change the quantity of a cart line by delta. The quantity never drops
below 1; use 'keranjang remove' to take a line out.

Negative deltas must follow '--':
  keranjang qty 8991002101234 -- -1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withShop(cmd.Context(), func(s *shop) error {
				delta, err := strconv.Atoi(strings.TrimSpace(args[1]))
				if err != nil {
					return &types.ValidationError{Field: "delta", Reason: "must be a whole number", Cause: err}
				}
				line, err := s.session.UpdateQuantity(cmd.Context(), args[0], delta)
				if err != nil {
					return err
				}
				fmt.Fprintf(app.stdout, "%s %s × %d\n", SuccessStyle.Render("✓"), productStyle.Render(line.Name), line.Quantity)
				return nil
			})
		},
	}
}

func newRemoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a line from the cart",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withShop(cmd.Context(), func(s *shop) error {
				if err := s.session.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(app.stdout, "%s Removed %s\n", SuccessStyle.Render("✓"), args[0])
				return nil
			})
		},
	}
}

func newClearCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Long:  "Empty the cart. The product history and the logged-in member are kept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withShop(cmd.Context(), func(s *shop) error {
				s.session.Clear(cmd.Context())
				fmt.Fprintf(app.stdout, "%s Cart cleared\n", SuccessStyle.Render("✓"))
				return nil
			})
		},
	}
}

// nameInCart returns the name of the cart line scanned as barcode, if any.
func nameInCart(s *shop, barcode types.Barcode) string {
	for _, l := range s.session.Lines() {
		if l.Barcode == barcode {
			return l.Name
		}
	}
	return ""
}

// parsePrice reads a typed price. Anything without digits is rejected.
func parsePrice(raw string) (types.Price, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, types.NewValidationError("price", "price is required")
	}
	p, err := types.ParsePrice(raw)
	if err != nil {
		return 0, &types.ValidationError{Field: "price", Reason: "must contain digits", Cause: err}
	}
	return p, nil
}

func printAdded(app *App, line cart.Line) {
	fmt.Fprintf(app.stdout, "%s %s × %d  %s  %s\n",
		SuccessStyle.Render("✓"),
		productStyle.Render(line.Name),
		line.Quantity,
		amountStyle.Render(rupiah(line.Subtotal())),
		SubtitleStyle.Render("id "+line.ID),
	)
}
