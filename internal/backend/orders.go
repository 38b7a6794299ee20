package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fjod/krmotors/internal/domain"
)

// OrderReceipt is the backend's answer to a placed order.
type OrderReceipt struct {
	ID      string `json:"_id"`
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

// Reference returns whichever order identifier the backend sent.
func (r OrderReceipt) Reference() string {
	if r.OrderID != "" {
		return r.OrderID
	}
	return r.ID
}

// POST /orders
func (c *Client) PlaceOrder(ctx context.Context, token string, draft domain.OrderDraft) (*OrderReceipt, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, c.endpoint("orders"), token, draft, &raw); err != nil {
		return nil, err
	}

	receipt := &OrderReceipt{}
	if len(raw) == 0 {
		return receipt, nil
	}
	var wrapped struct {
		Order *OrderReceipt `json:"order"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Order != nil {
		receipt = wrapped.Order
	} else if err := json.Unmarshal(raw, receipt); err != nil {
		return nil, fmt.Errorf("failed to decode order receipt: %w", err)
	}
	return receipt, nil
}

// GET /orders/:page/:limit
func (c *Client) ListOrders(ctx context.Context, token string, page, limit int) (*domain.OrderPage, error) {
	var raw json.RawMessage
	endpoint := c.endpoint("orders", strconv.Itoa(page), strconv.Itoa(limit))
	if err := c.do(ctx, http.MethodGet, endpoint, token, nil, &raw); err != nil {
		return nil, err
	}

	orders, err := decodeList[domain.Order](raw, "orders", "data")
	if err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	result := &domain.OrderPage{Page: page}
	// the envelope may carry paging totals; a bare array does not
	_ = json.Unmarshal(raw, result)
	result.Orders = orders
	if result.Page == 0 {
		result.Page = page
	}
	if result.Total == 0 {
		result.Total = len(orders)
	}
	return result, nil
}

// PUT /orders/:orderId
func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID string, status domain.OrderStatus) error {
	body := map[string]domain.OrderStatus{"status": status}
	return c.do(ctx, http.MethodPut, c.endpoint("orders", orderID), token, body, nil)
}
