package domain

import "strconv"

// MaxLineQuantity bounds a single quantity change or set on a cart line.
const MaxLineQuantity = 99

// CartLineItem is one product-and-quantity pair in the visitor's cart.
// The JSON names are also the persisted layout.
type CartLineItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Subtotal returns price * quantity for the line.
func (i CartLineItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// LineFromProduct builds a cart line for p with the given quantity. The
// first image, if any, becomes the line image.
func LineFromProduct(p ProductSummary, quantity int) CartLineItem {
	item := CartLineItem{
		ProductID: p.ProductID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
	}
	if len(p.Images) > 0 {
		item.Image = p.Images[0]
	}
	return item
}

// FormatPrice renders a price with two decimals.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
