// Package http is the storefront gateway: the JSON API the browser UI
// talks to.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fjod/krmotors/internal/cartstore"
	"github.com/fjod/krmotors/internal/checkout"
)

// Backend is everything the gateway calls on the remote API.
type Backend interface {
	AccountBackend
	AdminBackend
	checkout.OrderPlacer
}

type RouterConfig struct {
	Catalog        CatalogService
	Carts          *cartstore.Carts
	Backend        Backend
	Log            *slog.Logger
	RequestTimeout time.Duration
	MaxBodySize    int64
	CookieSecure   bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	catalogHandler := NewCatalogHandler(cfg.Catalog, cfg.RequestTimeout)
	cartHandler := NewCartHandler(cfg.Carts, cfg.Catalog, cfg.RequestTimeout)
	checkoutHandler := NewCheckoutHandler(cfg.Carts, cfg.Backend, cfg.Log, cfg.RequestTimeout)
	authHandler := NewAuthHandler(cfg.Backend, cfg.RequestTimeout)
	adminHandler := NewAdminHandler(cfg.Backend, cfg.RequestTimeout)

	r := chi.NewRouter()

	// Global middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(cfg.Log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(MaxBodyMiddleware(cfg.MaxBodySize))
	r.Use(SessionMiddleware(time.Now))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.List)
			r.Get("/search/{term}", catalogHandler.Search)
			r.Get("/{id}", catalogHandler.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(VisitorMiddleware(cfg.CookieSecure))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
				r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			})

			r.With(RequireSession).Post("/checkout", checkoutHandler.Checkout)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/google", authHandler.GoogleLogin)
			r.Post("/send-otp", authHandler.SendOTP)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.With(RequireSession).Get("/me", authHandler.Me)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin(cfg.Backend))

			r.Post("/products", adminHandler.CreateProduct)
			r.Delete("/products/{id}", adminHandler.DeleteProduct)
			r.Get("/orders", adminHandler.ListOrders)
			r.Put("/orders/{order_id}", adminHandler.UpdateOrderStatus)
			r.Post("/admins", adminHandler.CreateAdmin)
			r.Get("/admins", adminHandler.ListAdmins)
			r.Delete("/admins/{email}", adminHandler.DeleteAdmin)
		})
	})

	return r
}
