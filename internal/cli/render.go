package cli

import (
	"fmt"
	"io"

	"github.com/fjod/krmotors/internal/catalog"
	"github.com/fjod/krmotors/internal/checkout"
	"github.com/fjod/krmotors/internal/domain"
)

const (
	idWidth   = 24
	nameWidth = 28
)

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func renderCatalog(w io.Writer, v *catalog.View) {
	if len(v.Products) == 0 {
		fmt.Fprintf(w, "No products match (%d in catalog).\n", v.Total)
		return
	}
	fmt.Fprintf(w, "%-*s %-*s %12s %6s\n", idWidth, "ID", nameWidth, "NAME", "PRICE", "STOCK")
	for _, p := range v.Products {
		fmt.Fprintf(w, "%-*s %-*s %12s %6d\n", idWidth, p.ProductID, nameWidth, truncate(p.Name, nameWidth), domain.FormatPrice(p.Price), p.Stock)
	}
	fmt.Fprintf(w, "\n%d of %d products, prices %s to %s\n",
		len(v.Products), v.Total, domain.FormatPrice(v.MinPrice), domain.FormatPrice(v.MaxPrice))
}

func renderProduct(w io.Writer, p *domain.ProductSummary) {
	fmt.Fprintf(w, "%s\n", p.Name)
	fmt.Fprintf(w, "  id:       %s\n", p.ProductID)
	fmt.Fprintf(w, "  price:    %s\n", domain.FormatPrice(p.Price))
	if p.LabellPrice > p.Price {
		fmt.Fprintf(w, "  was:      %s\n", domain.FormatPrice(p.LabellPrice))
	}
	if p.InStock() {
		fmt.Fprintf(w, "  stock:    %d\n", p.Stock)
	} else {
		fmt.Fprintln(w, "  stock:    out of stock")
	}
	if p.Category != "" {
		fmt.Fprintf(w, "  category: %s\n", p.Category)
	}
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", p.Description)
	}
}

func renderCart(w io.Writer, items []domain.CartLineItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
		fmt.Fprintf(w, "%-*s %-*s %3d x %10s = %12s\n",
			idWidth, item.ProductID, nameWidth, truncate(item.Name, nameWidth),
			item.Quantity, domain.FormatPrice(item.Price), domain.FormatPrice(item.Subtotal()))
	}
	fmt.Fprintf(w, "\nItems: %d  Total: %s\n", count, domain.FormatPrice(checkout.ComputeTotal(items)))
}

func renderOrders(w io.Writer, page *domain.OrderPage) {
	if len(page.Orders) == 0 {
		fmt.Fprintln(w, "No orders.")
		return
	}
	fmt.Fprintf(w, "%-*s %-10s %12s %6s  %s\n", idWidth, "ORDER", "STATUS", "TOTAL", "ITEMS", "PHONE")
	for _, o := range page.Orders {
		fmt.Fprintf(w, "%-*s %-10s %12s %6d  %s\n", idWidth, o.ID, o.Status, domain.FormatPrice(o.Total), len(o.Items), o.Phone)
	}
	fmt.Fprintf(w, "\nPage %d of %d (%d orders)\n", page.Page, page.Pages, page.Total)
}

func renderUsers(w io.Writer, users []domain.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No admins.")
		return
	}
	for _, u := range users {
		fmt.Fprintf(w, "%-*s %s\n", nameWidth, u.DisplayName(), u.Email)
	}
}
