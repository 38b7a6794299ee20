package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/krmotors/internal/catalog"
	"github.com/fjod/krmotors/internal/domain"
)

// CatalogService is the read side of the catalog.
type CatalogService interface {
	List(ctx context.Context, c domain.FilterCriteria) (*catalog.View, error)
	Get(ctx context.Context, id string) (*domain.ProductSummary, error)
	Search(ctx context.Context, term string) ([]domain.ProductSummary, error)
}

type CatalogHandler struct {
	catalog CatalogService
	timeout time.Duration
}

func NewCatalogHandler(catalog CatalogService, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

// GET /api/v1/products?q=&min=&max=&sort=
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	criteria, err := criteriaFromQuery(r)
	if err != nil {
		handleError(w, err)
		return
	}

	view, err := h.catalog.List(ctx, criteria)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// GET /api/v1/products/{id}
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	p, err := h.catalog.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// GET /api/v1/products/search/{term}
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.Search(ctx, chi.URLParam(r, "term"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"products": products})
}

func criteriaFromQuery(r *http.Request) (domain.FilterCriteria, error) {
	q := r.URL.Query()

	sortKey, err := domain.ParseSortKey(q.Get("sort"))
	if err != nil {
		return domain.FilterCriteria{}, err
	}
	minPrice, err := parsePrice(q.Get("min"), "min")
	if err != nil {
		return domain.FilterCriteria{}, err
	}
	maxPrice, err := parsePrice(q.Get("max"), "max")
	if err != nil {
		return domain.FilterCriteria{}, err
	}

	return domain.FilterCriteria{
		Query:    q.Get("q"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		SortKey:  sortKey,
	}, nil
}

// parsePrice reads an optional price bound. An absent bound is nil.
func parsePrice(s, field string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &domain.ValidationError{Field: field, Message: "price must be a non-negative number"}
	}
	if err := domain.ValidatePrice(field, v); err != nil {
		return nil, err
	}
	return &v, nil
}
