package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/krmotors/internal/domain"
	"github.com/fjod/krmotors/internal/session"
)

const (
	defaultOrdersPage  = 1
	defaultOrdersLimit = 10
	maxOrdersLimit     = 100
)

// AdminBackend is the part of the backend the admin console uses.
type AdminBackend interface {
	CreateProduct(ctx context.Context, token string, p domain.NewProduct) (*domain.ProductSummary, error)
	DeleteProduct(ctx context.Context, token, id string) error
	ListOrders(ctx context.Context, token string, page, limit int) (*domain.OrderPage, error)
	UpdateOrderStatus(ctx context.Context, token, orderID string, status domain.OrderStatus) error
	CreateAdmin(ctx context.Context, token string, r domain.Registration) error
	ListAdmins(ctx context.Context, token string) ([]domain.User, error)
	DeleteAdmin(ctx context.Context, token, email string) error
}

// AdminHandler serves /api/v1/admin. Every route runs behind
// RequireAdmin; the backend still checks the token itself.
type AdminHandler struct {
	admin   AdminBackend
	timeout time.Duration
}

func NewAdminHandler(admin AdminBackend, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		admin:   admin,
		timeout: timeout,
	}
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

func token(r *http.Request) string {
	return session.FromContext(r.Context()).Token
}

// POST /api/v1/admin/products
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.NewProduct
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	p, err := h.admin.CreateProduct(ctx, token(r), req)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// DELETE /api/v1/admin/products/{id}
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.admin.DeleteProduct(ctx, token(r), chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/admin/orders?page=&limit=
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	page := queryInt(r, "page", defaultOrdersPage)
	limit := queryInt(r, "limit", defaultOrdersLimit)
	if page < 1 {
		page = defaultOrdersPage
	}
	if limit < 1 || limit > maxOrdersLimit {
		limit = defaultOrdersLimit
	}

	orders, err := h.admin.ListOrders(ctx, token(r), page, limit)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// PUT /api/v1/admin/orders/{order_id}
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateStatusRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		handleError(w, err)
		return
	}

	if err := h.admin.UpdateOrderStatus(ctx, token(r), chi.URLParam(r, "order_id"), status); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

// POST /api/v1/admin/admins
func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.Registration
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}
	if err := h.admin.CreateAdmin(ctx, token(r), req); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, MessageResponseDTO{Message: "admin created"})
}

// GET /api/v1/admin/admins
func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	admins, err := h.admin.ListAdmins(ctx, token(r))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"admins": admins})
}

// DELETE /api/v1/admin/admins/{email}
func (h *AdminHandler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.admin.DeleteAdmin(ctx, token(r), chi.URLParam(r, "email")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return v
}
