package domain

import (
	"fmt"
	"strings"
	"time"
)

// OrderLine references one product in an order submission.
type OrderLine struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// OrderDraft is the body of POST /orders. It lives only until it is
// submitted.
type OrderDraft struct {
	Address string      `json:"address"`
	Phone   string      `json:"phone"`
	Items   []OrderLine `json:"items"`
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus matches s case-insensitively against the known statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range orderStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown order status %q", s)}
}

// OrderItem is a line of a placed order as the admin console sees it.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price,omitempty"`
}

// Order is a placed order as returned by the backend.
type Order struct {
	ID        string      `json:"_id"`
	Address   string      `json:"address"`
	Phone     string      `json:"phone"`
	Items     []OrderItem `json:"items"`
	Status    OrderStatus `json:"status"`
	Total     float64     `json:"total"`
	User      string      `json:"user,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// OrderPage is one page of GET /orders/:page/:limit.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Pages  int     `json:"pages"`
}
