package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/krmotors/internal/cartstore"
	"github.com/fjod/krmotors/internal/checkout"
	"github.com/fjod/krmotors/internal/domain"
)

// ProductLookup resolves a product id for cart additions that only carry
// the id.
type ProductLookup interface {
	Get(ctx context.Context, id string) (*domain.ProductSummary, error)
}

type CartHandler struct {
	carts    *cartstore.Carts
	products ProductLookup
	timeout  time.Duration
}

func NewCartHandler(carts *cartstore.Carts, products ProductLookup, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	Product   *domain.ProductSummary `json:"product,omitempty"`
	ProductID string                 `json:"productId,omitempty"`
	Quantity  int                    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items []domain.CartLineItem `json:"items"`
	Total float64               `json:"total"`
	Count int                   `json:"count"`
}

func cartResponse(items []domain.CartLineItem) CartResponseDTO {
	if items == nil {
		items = []domain.CartLineItem{}
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return CartResponseDTO{
		Items: items,
		Total: checkout.ComputeTotal(items),
		Count: count,
	}
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart := h.carts.For(getVisitorID(r.Context()))
	respondJSON(w, http.StatusOK, cartResponse(cart.GetCart(r.Context())))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity > domain.MaxLineQuantity || req.Quantity < -domain.MaxLineQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between -99 and 99")
		return
	}

	product := req.Product
	if product == nil || product.ProductID == "" {
		if req.ProductID == "" {
			respondError(w, http.StatusBadRequest, "invalid_product_id", "product or productId is required")
			return
		}
		p, err := h.products.Get(ctx, req.ProductID)
		if err != nil {
			handleError(w, err)
			return
		}
		product = p
	}

	cart := h.carts.For(getVisitorID(r.Context()))
	items := cart.AddToCart(ctx, domain.LineFromProduct(*product, 0), req.Quantity)
	respondJSON(w, http.StatusCreated, cartResponse(items))
}

// PUT /api/v1/cart/items/{product_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity > domain.MaxLineQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	cart := h.carts.For(getVisitorID(r.Context()))
	respondJSON(w, http.StatusOK, cartResponse(cart.SetQuantity(r.Context(), productID, req.Quantity)))
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart := h.carts.For(getVisitorID(r.Context()))
	respondJSON(w, http.StatusOK, cartResponse(cart.RemoveFromCart(r.Context(), chi.URLParam(r, "product_id"))))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cart := h.carts.For(getVisitorID(r.Context()))
	cart.Clear(r.Context())
	respondJSON(w, http.StatusOK, cartResponse(nil))
}
