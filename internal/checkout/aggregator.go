// Package checkout turns the cart into one order submission.
package checkout

import (
	"fmt"
	"strings"

	"github.com/fjod/krmotors/internal/domain"
)

// ComputeTotal sums price * quantity over the cart.
func ComputeTotal(cart []domain.CartLineItem) float64 {
	var total float64
	for _, item := range cart {
		total += item.Subtotal()
	}
	return total
}

// BuildOrderPayload validates the delivery details and the cart and
// assembles the order body. Errors are *domain.ValidationError.
func BuildOrderPayload(cart []domain.CartLineItem, address, phone string) (domain.OrderDraft, error) {
	address = strings.TrimSpace(address)
	phone = strings.TrimSpace(phone)

	if address == "" {
		return domain.OrderDraft{}, &domain.ValidationError{Field: "address", Message: "delivery address is required"}
	}
	if phone == "" {
		return domain.OrderDraft{}, &domain.ValidationError{Field: "phone", Message: "phone number is required"}
	}
	if len(cart) == 0 {
		return domain.OrderDraft{}, ErrEmptyCart
	}

	items := make([]domain.OrderLine, 0, len(cart))
	for _, item := range cart {
		if item.Quantity < 1 {
			return domain.OrderDraft{}, &domain.ValidationError{
				Field:   "items",
				Message: fmt.Sprintf("quantity of %s must be at least 1", item.ProductID),
			}
		}
		items = append(items, domain.OrderLine{ProductID: item.ProductID, Qty: item.Quantity})
	}

	return domain.OrderDraft{
		Address: address,
		Phone:   phone,
		Items:   items,
	}, nil
}
