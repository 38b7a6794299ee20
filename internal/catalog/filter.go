// Package catalog derives the catalog page's view of the product list.
package catalog

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/fjod/krmotors/internal/domain"
)

// Apply filters and sorts products by the criteria. It never modifies the
// input slice. Sorting is stable: products with equal keys keep their
// input order.
func Apply(products []domain.ProductSummary, c domain.FilterCriteria) []domain.ProductSummary {
	query := strings.ToLower(strings.TrimSpace(c.Query))
	lo, hi := c.PriceRange()

	out := make([]domain.ProductSummary, 0, len(products))
	for _, p := range products {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if c.PriceBounded() && (p.Price < lo || p.Price > hi) {
			continue
		}
		out = append(out, p)
	}

	switch c.SortKey {
	case domain.SortPriceLowHigh:
		slices.SortStableFunc(out, func(a, b domain.ProductSummary) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case domain.SortPriceHighLow:
		slices.SortStableFunc(out, func(a, b domain.ProductSummary) int {
			return cmp.Compare(b.Price, a.Price)
		})
	default:
		slices.SortStableFunc(out, func(a, b domain.ProductSummary) int {
			return compareIDs(b.ProductID, a.ProductID)
		})
	}
	return out
}

// compareIDs orders product identifiers by recency. Numeric ids compare
// as numbers and rank below any non-numeric id; non-numeric ids compare
// by length then text, which orders hex ObjectIDs by creation time.
func compareIDs(a, b string) int {
	x, errA := strconv.ParseInt(a, 10, 64)
	y, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(x, y)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	if len(a) != len(b) {
		return cmp.Compare(len(a), len(b))
	}
	return strings.Compare(a, b)
}

// PriceBounds returns the lowest and highest price in products, for
// seeding the price filter. Both are zero for an empty list.
func PriceBounds(products []domain.ProductSummary) (lo, hi float64) {
	for i, p := range products {
		if i == 0 || p.Price < lo {
			lo = p.Price
		}
		if i == 0 || p.Price > hi {
			hi = p.Price
		}
	}
	return lo, hi
}
