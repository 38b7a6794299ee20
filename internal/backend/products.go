package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fjod/krmotors/internal/domain"
)

// GET /products
func (c *Client) ListProducts(ctx context.Context) ([]domain.ProductSummary, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.endpoint("products"), "", nil, &raw); err != nil {
		return nil, err
	}
	products, err := decodeList[domain.ProductSummary](raw, "products", "data")
	if err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// GET /products/:id
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.ProductSummary, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.endpoint("products", id), "", nil, &raw); err != nil {
		return nil, err
	}
	return decodeProduct(raw)
}

// GET /products/search/:term
func (c *Client) SearchProducts(ctx context.Context, term string) ([]domain.ProductSummary, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.endpoint("products", "search", term), "", nil, &raw); err != nil {
		return nil, err
	}
	products, err := decodeList[domain.ProductSummary](raw, "products", "data")
	if err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// POST /products
func (c *Client) CreateProduct(ctx context.Context, token string, p domain.NewProduct) (*domain.ProductSummary, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, c.endpoint("products"), token, p, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return &domain.ProductSummary{Name: p.Name, Price: p.Price}, nil
	}
	return decodeProduct(raw)
}

// DELETE /products/:id
func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, c.endpoint("products", id), token, nil, nil)
}

// decodeProduct accepts the product itself or {"product": {...}}.
func decodeProduct(raw json.RawMessage) (*domain.ProductSummary, error) {
	var wrapped struct {
		Product *domain.ProductSummary `json:"product"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Product != nil {
		return wrapped.Product, nil
	}

	var p domain.ProductSummary
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &p, nil
}
