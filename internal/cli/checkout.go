package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fjod/krmotors/internal/checkout"
	"github.com/fjod/krmotors/internal/domain"
	"github.com/fjod/krmotors/internal/session"
)

func newCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	var address, phone string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Long: `Place one order for everything in the cart. Requires a login.

The cart is emptied when the backend accepts the order and kept as it
was when it does not.`,
		Args: cobra.NoArgs,
		RunE: runE(rootOpts, func(ctx context.Context, a *app, _ []string) error {
			s, err := a.sessions.Current(ctx)
			if errors.Is(err, session.ErrNoSession) {
				s = nil
			} else if err != nil {
				return err
			}

			res, err := checkout.New(a.cart, a.client, a.log).Submit(ctx, s, address, phone)
			if err != nil {
				return err
			}
			return a.out.Success(res, func(w io.Writer) {
				if res.OrderID != "" {
					fmt.Fprintf(w, "Order %s placed.\n", res.OrderID)
				} else {
					fmt.Fprintln(w, "Order placed.")
				}
				fmt.Fprintf(w, "Items: %d  Total: %s\n", res.Items, domain.FormatPrice(res.Total))
			})
		}),
	}

	cmd.Flags().StringVar(&address, "address", "", "delivery address")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone number")

	return cmd
}
