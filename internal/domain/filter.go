package domain

import (
	"fmt"
	"math"
	"strings"
)

type SortKey string

const (
	SortLatest       SortKey = "latest"
	SortPriceLowHigh SortKey = "price-low-high"
	SortPriceHighLow SortKey = "price-high-low"
)

const DefaultSortKey = SortLatest

// ParseSortKey maps user input to a SortKey. Empty input selects the
// default.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return DefaultSortKey, nil
	case SortLatest, SortPriceLowHigh, SortPriceHighLow:
		return k, nil
	default:
		return "", &ValidationError{
			Field:   "sort",
			Message: fmt.Sprintf("unknown sort key %q", s),
		}
	}
}

// FilterCriteria is the catalog page's filter state. A nil bound leaves
// that side of the price range open.
type FilterCriteria struct {
	Query    string   `json:"query"`
	MinPrice *float64 `json:"minPrice,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
	SortKey  SortKey  `json:"sortKey"`
}

// PriceBound wraps v for use as a FilterCriteria bound.
func PriceBound(v float64) *float64 {
	return &v
}

// PriceBounded reports whether the price filter is active.
func (c FilterCriteria) PriceBounded() bool {
	return c.MinPrice != nil || c.MaxPrice != nil
}

// PriceRange returns the inclusive bounds in ascending order. A missing
// lower bound is zero and a missing upper bound is +Inf. Bounds are only
// swapped when both were given.
func (c FilterCriteria) PriceRange() (lo, hi float64) {
	lo, hi = 0, math.Inf(1)
	if c.MinPrice != nil {
		lo = *c.MinPrice
	}
	if c.MaxPrice != nil {
		hi = *c.MaxPrice
	}
	if c.MinPrice != nil && c.MaxPrice != nil && lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// ValidatePrice rejects price bounds that cannot filter or be encoded:
// negative, NaN and infinite values.
func ValidatePrice(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return &ValidationError{Field: field, Message: "price must be a non-negative number"}
	}
	return nil
}
