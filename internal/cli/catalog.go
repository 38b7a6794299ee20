package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/fjod/krmotors/internal/domain"
)

func newProductsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		query    string
		minPrice float64
		maxPrice float64
		sortKey  string
	)

	var cmd *cobra.Command
	cmd = &cobra.Command{
		Use:   "products",
		Short: "List the catalog",
		Long: `List the catalog, optionally filtered by name and price range.

Sort keys: latest (default), price-low-high, price-high-low.`,
		Args: cobra.NoArgs,
		RunE: runE(rootOpts, func(ctx context.Context, a *app, _ []string) error {
			key, err := domain.ParseSortKey(sortKey)
			if err != nil {
				return err
			}
			criteria := domain.FilterCriteria{Query: query, SortKey: key}
			if cmd.Flags().Changed("min") {
				if err := domain.ValidatePrice("min", minPrice); err != nil {
					return err
				}
				criteria.MinPrice = domain.PriceBound(minPrice)
			}
			if cmd.Flags().Changed("max") {
				if err := domain.ValidatePrice("max", maxPrice); err != nil {
					return err
				}
				criteria.MaxPrice = domain.PriceBound(maxPrice)
			}
			view, err := a.catalog.List(ctx, criteria)
			if err != nil {
				return err
			}
			return a.out.Success(view, func(w io.Writer) { renderCatalog(w, view) })
		}),
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "name contains (case-insensitive)")
	cmd.Flags().Float64Var(&minPrice, "min", 0, "minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max", 0, "maximum price")
	cmd.Flags().StringVar(&sortKey, "sort", string(domain.DefaultSortKey), "sort key")

	return cmd
}

func newProductCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: runE(rootOpts, func(ctx context.Context, a *app, args []string) error {
			p, err := a.catalog.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return a.out.Success(p, func(w io.Writer) { renderProduct(w, p) })
		}),
	}
}
