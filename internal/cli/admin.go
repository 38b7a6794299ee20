package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fjod/krmotors/internal/domain"
)

// adminRunE is runE for commands that need an admin session.
func adminRunE(opts *RootOptions, fn func(ctx context.Context, a *app, s *domain.Session, args []string) error) func(*cobra.Command, []string) error {
	return runE(opts, func(ctx context.Context, a *app, args []string) error {
		s, err := a.sessions.RequireAdmin(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, a, s, args)
	})
}

func newAdminCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin console: products, orders and admin accounts",
	}
	cmd.AddCommand(newAdminProductsCommand(rootOpts))
	cmd.AddCommand(newAdminOrdersCommand(rootOpts))
	cmd.AddCommand(newAdminUsersCommand(rootOpts))
	return cmd
}

func newAdminProductsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Create or delete products",
	}

	var p domain.NewProduct
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: adminRunE(rootOpts, func(ctx context.Context, a *app, s *domain.Session, _ []string) error {
			if err := p.Validate(); err != nil {
				return err
			}
			created, err := a.client.CreateProduct(ctx, s.Token, p)
			if err != nil {
				return err
			}
			return a.out.Success(created, func(w io.Writer) {
				fmt.Fprintf(w, "Created %s", created.Name)
				if created.ProductID != "" {
					fmt.Fprintf(w, " (%s)", created.ProductID)
				}
				fmt.Fprintln(w, ".")
			})
		}),
	}
	create.Flags().StringVar(&p.Name, "name", "", "product name")
	create.Flags().Float64Var(&p.Price, "price", 0, "selling price")
	create.Flags().Float64Var(&p.LabellPrice, "labell-price", 0, "list price shown struck through")
	create.Flags().IntVar(&p.Stock, "stock", 0, "units in stock")
	create.Flags().StringSliceVar(&p.Images, "image", nil, "image URL (repeatable)")
	create.Flags().StringVar(&p.Description, "description", "", "description")
	create.Flags().StringVar(&p.Category, "category", "", "category")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <product-id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: adminRunE(rootOpts, func(ctx context.Context, a *app, s *domain.Session, args []string) error {
			if err := a.client.DeleteProduct(ctx, s.Token, args[0]); err != nil {
				return err
			}
			return a.out.Success(map[string]string{"deleted": args[0]}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted product %s.\n", args[0])
			})
		}),
	})

	return cmd
}

func newAdminOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders or change their status",
	}

	var page, limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: adminRunE(rootOpts, func(ctx context.Context, a *app, s *domain.Session, _ []string) error {
			if page < 1 || limit < 1 {
				return &domain.ValidationError{Field: "page", Message: "page and limit must be positive"}
			}
			orders, err := a.client.ListOrders(ctx, s.Token, page, limit)
			if err != nil {
				return err
			}
			return a.out.Success(orders, func(w io.Writer) { renderOrders(w, orders) })
		}),
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&limit, "limit", 10, "orders per page")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "update <order-id> <status>",
		Short: "Set the status of an order",
		Long:  "Set the status of an order: Pending, Processing, Shipped, Delivered or Cancelled.",
		Args:  cobra.ExactArgs(2),
		RunE: adminRunE(rootOpts, func(ctx context.Context, a *app, s *domain.Session, args []string) error {
			status, err := domain.ParseOrderStatus(args[1])
			if err != nil {
				return err
			}
			if err := a.client.UpdateOrderStatus(ctx, s.Token, args[0], status); err != nil {
				return err
			}
			return a.out.Success(map[string]string{"orderId": args[0], "status": string(status)}, func(w io.Writer) {
				fmt.Fprintf(w, "Order %s is now %s.\n", args[0], status)
			})
		}),
	})

	return cmd
}

func newAdminUsersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage admin accounts",
	}

	var reg domain.Registration
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: adminRunE(rootOpts, func(ctx context.Context, a *app, s *domain.Session, _ []string) error {
			if err := reg.Validate(); err != nil {
				return err
			}
			if err := a.client.CreateAdmin(ctx, s.Token, reg); err != nil {
				return err
			}
			return a.out.Success(map[string]string{"email": reg.Email}, func(w io.Writer) {
				fmt.Fprintf(w, "Admin %s created.\n", reg.Email)
			})
		}),
	}
	registrationFlags(create, &reg)
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List admin accounts",
		Args:  cobra.NoArgs,
		RunE: adminRunE(rootOpts, func(ctx context.Context, a *app, s *domain.Session, _ []string) error {
			admins, err := a.client.ListAdmins(ctx, s.Token)
			if err != nil {
				return err
			}
			return a.out.Success(admins, func(w io.Writer) { renderUsers(w, admins) })
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <email>",
		Short: "Delete an admin account",
		Args:  cobra.ExactArgs(1),
		RunE: adminRunE(rootOpts, func(ctx context.Context, a *app, s *domain.Session, args []string) error {
			if err := a.client.DeleteAdmin(ctx, s.Token, args[0]); err != nil {
				return err
			}
			return a.out.Success(map[string]string{"deleted": args[0]}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted admin %s.\n", args[0])
			})
		}),
	})

	return cmd
}
