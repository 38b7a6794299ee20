package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fjod/krmotors/internal/backend"
	"github.com/fjod/krmotors/internal/domain"
)

// Cart is the cart the checkout reads and, after success, clears.
type Cart interface {
	GetCart(ctx context.Context) []domain.CartLineItem
	Clear(ctx context.Context)
}

// OrderPlacer submits an order to the backend.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, token string, draft domain.OrderDraft) (*backend.OrderReceipt, error)
}

type Result struct {
	OrderID  string  `json:"orderId,omitempty"`
	Total    float64 `json:"total"`
	Items    int     `json:"items"`
	Message  string  `json:"message,omitempty"`
	Redirect string  `json:"redirect"`
}

// Checkout drives Idle -> Validating -> Submitting -> Success|Failed for
// one cart. Every Submit is a single attempt; nothing is retried.
type Checkout struct {
	cart   Cart
	orders OrderPlacer
	log    *slog.Logger

	mu      sync.Mutex
	state   domain.CheckoutState
	lastErr error
}

func New(cart Cart, orders OrderPlacer, log *slog.Logger) *Checkout {
	return &Checkout{
		cart:   cart,
		orders: orders,
		log:    log,
		state:  domain.CheckoutIdle,
	}
}

// State returns the current state and the error of the last failure.
func (c *Checkout) State() (domain.CheckoutState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.lastErr
}

// Submit places the order for the current cart. Validation failures make
// no network call. On success the cart is cleared; on failure the cart is
// left as it was so the user can try again.
func (c *Checkout) Submit(ctx context.Context, sess *domain.Session, address, phone string) (*Result, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}

	if sess == nil || sess.Token == "" {
		return nil, c.fail(ErrLoginRequired)
	}

	cart := c.cart.GetCart(ctx)
	draft, err := BuildOrderPayload(cart, address, phone)
	if err != nil {
		return nil, c.fail(err)
	}

	if err := c.transition(domain.CheckoutSubmitting); err != nil {
		return nil, err
	}
	total := ComputeTotal(cart)
	receipt, err := c.orders.PlaceOrder(ctx, sess.Token, draft)
	if err != nil {
		c.log.WarnContext(ctx, "order submission failed", "error", err, "items", len(draft.Items))
		return nil, c.fail(fmt.Errorf("failed to place order: %w", err))
	}

	c.cart.Clear(ctx)
	if err := c.transition(domain.CheckoutSuccess); err != nil {
		return nil, err
	}
	c.log.InfoContext(ctx, "order placed", "order_id", receipt.Reference(), "total", total)

	return &Result{
		OrderID:  receipt.Reference(),
		Total:    total,
		Items:    len(draft.Items),
		Message:  receipt.Message,
		Redirect: "/",
	}, nil
}

// begin starts a new attempt. A finished attempt returns to Idle first.
func (c *Checkout) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case domain.CheckoutValidating, domain.CheckoutSubmitting:
		return ErrSubmitInProgress
	case domain.CheckoutSuccess, domain.CheckoutFailed:
		c.state = domain.CheckoutIdle
		c.lastErr = nil
	}
	return c.transitionLocked(domain.CheckoutValidating)
}

func (c *Checkout) transition(to domain.CheckoutState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transitionLocked(to)
}

func (c *Checkout) transitionLocked(to domain.CheckoutState) error {
	if !domain.CanTransitionTo(c.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, c.state, to)
	}
	c.state = to
	return nil
}

func (c *Checkout) fail(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = domain.CheckoutFailed
	c.lastErr = err
	return err
}
