package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fjod/krmotors/internal/cartstore"
	"github.com/fjod/krmotors/internal/checkout"
	"github.com/fjod/krmotors/internal/session"
)

type CheckoutHandler struct {
	carts   *cartstore.Carts
	orders  checkout.OrderPlacer
	log     *slog.Logger
	timeout time.Duration

	// visitors with a submission in flight
	inflight sync.Map
}

func NewCheckoutHandler(carts *cartstore.Carts, orders checkout.OrderPlacer, log *slog.Logger, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		carts:   carts,
		orders:  orders,
		log:     log,
		timeout: timeout,
	}
}

type CheckoutRequestDTO struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	visitorID := getVisitorID(r.Context())
	if _, busy := h.inflight.LoadOrStore(visitorID, struct{}{}); busy {
		handleError(w, checkout.ErrSubmitInProgress)
		return
	}
	defer h.inflight.Delete(visitorID)

	log := h.log.With("visitor_id", visitorID, "request_id", getRequestID(r.Context()))
	co := checkout.New(h.carts.For(visitorID), h.orders, log)

	res, err := co.Submit(ctx, session.FromContext(r.Context()), req.Address, req.Phone)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}
