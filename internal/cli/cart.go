package cli

import (
	"context"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fjod/krmotors/internal/domain"
)

// cartView is the JSON form of the cart.
type cartView struct {
	Items []domain.CartLineItem `json:"items"`
	Count int                   `json:"count"`
	Total float64               `json:"total"`
}

func (a *app) showCart(items []domain.CartLineItem) error {
	if items == nil {
		items = []domain.CartLineItem{}
	}
	view := cartView{Items: items}
	for _, item := range items {
		view.Count += item.Quantity
		view.Total += item.Subtotal()
	}
	return a.out.Success(view, func(w io.Writer) { renderCart(w, items) })
}

func newCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart",
		Args:  cobra.NoArgs,
		RunE: runE(rootOpts, func(ctx context.Context, a *app, _ []string) error {
			return a.showCart(a.cart.GetCart(ctx))
		}),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: runE(rootOpts, func(ctx context.Context, a *app, _ []string) error {
			return a.showCart(a.cart.GetCart(ctx))
		}),
	})

	var qty int
	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Long:  "Add a product to the cart. A negative --qty takes units away; the line goes when it reaches zero.",
		Args:  cobra.ExactArgs(1),
		RunE: runE(rootOpts, func(ctx context.Context, a *app, args []string) error {
			if qty > domain.MaxLineQuantity || qty < -domain.MaxLineQuantity {
				return &domain.ValidationError{Field: "qty", Message: "quantity must be between -99 and 99"}
			}
			p, err := a.catalog.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return a.showCart(a.cart.AddToCart(ctx, domain.LineFromProduct(*p, 0), qty))
		}),
	}
	add.Flags().IntVarP(&qty, "qty", "n", 1, "quantity to add")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: runE(rootOpts, func(ctx context.Context, a *app, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return &domain.ValidationError{Field: "quantity", Message: "quantity must be a whole number"}
			}
			if n > domain.MaxLineQuantity {
				return &domain.ValidationError{Field: "quantity", Message: "quantity must be at most 99"}
			}
			return a.showCart(a.cart.SetQuantity(ctx, args[0], n))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: runE(rootOpts, func(ctx context.Context, a *app, args []string) error {
			return a.showCart(a.cart.RemoveFromCart(ctx, args[0]))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: runE(rootOpts, func(ctx context.Context, a *app, _ []string) error {
			a.cart.Clear(ctx)
			return a.showCart(nil)
		}),
	})

	return cmd
}
