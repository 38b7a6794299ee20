package checkout

import (
	"errors"

	"github.com/fjod/krmotors/internal/domain"
)

var (
	ErrEmptyCart         = &domain.ValidationError{Field: "cart", Message: "cart is empty, nothing to checkout"}
	ErrLoginRequired     = errors.New("login required to place an order")
	ErrSubmitInProgress  = errors.New("order submission already in progress")
	ErrIllegalTransition = errors.New("illegal transition of checkout state")
)
