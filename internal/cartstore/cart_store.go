package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/fjod/krmotors/internal/domain"
)

// CartStore is the authoritative client-side cart, persisted under one
// key of a Store. Reads never fail: missing or corrupt state is an empty
// cart. A failed write is logged and leaves the cart as it was, so the
// caller gets the last persisted snapshot back.
type CartStore struct {
	store Store
	key   string
	log   *slog.Logger
	mu    *sync.Mutex
}

func NewCartStore(store Store, key string, log *slog.Logger) *CartStore {
	return &CartStore{
		store: store,
		key:   key,
		log:   log.With("cart_key", key),
		mu:    &sync.Mutex{},
	}
}

// GetCart returns the persisted line items in insertion order.
func (c *CartStore) GetCart(ctx context.Context) []domain.CartLineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// AddToCart applies a signed quantity delta to the line for item.ProductID.
// An existing line is removed when its quantity drops to zero or below. A
// missing line is inserted only for a positive delta. item.Quantity is
// ignored. Quantities saturate at math.MaxInt instead of wrapping.
func (c *CartStore) AddToCart(ctx context.Context, item domain.CartLineItem, delta int) []domain.CartLineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.load(ctx)
	items := slices.Clone(before)
	for i := range items {
		if items[i].ProductID != item.ProductID {
			continue
		}
		items[i].Quantity = addQuantity(items[i].Quantity, delta)
		if items[i].Quantity <= 0 {
			items = slices.Delete(items, i, i+1)
		}
		return c.commit(ctx, before, items)
	}

	if delta > 0 && item.ProductID != "" {
		item.Quantity = delta
		return c.commit(ctx, before, append(items, item))
	}
	return before
}

// SetQuantity sets the quantity of an existing line. Zero or below removes
// it; an unknown product is a no-op.
func (c *CartStore) SetQuantity(ctx context.Context, productID string, quantity int) []domain.CartLineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.load(ctx)
	items := slices.Clone(before)
	for i := range items {
		if items[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			items = slices.Delete(items, i, i+1)
		} else {
			items[i].Quantity = quantity
		}
		return c.commit(ctx, before, items)
	}
	return before
}

// addQuantity returns q+delta clamped to the int range.
func addQuantity(q, delta int) int {
	switch {
	case delta > 0 && q > math.MaxInt-delta:
		return math.MaxInt
	case delta < 0 && q < math.MinInt-delta:
		return math.MinInt
	}
	return q + delta
}

// RemoveFromCart deletes the line for productID.
func (c *CartStore) RemoveFromCart(ctx context.Context, productID string) []domain.CartLineItem {
	return c.SetQuantity(ctx, productID, 0)
}

// Clear empties the cart.
func (c *CartStore) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Delete(ctx, c.key); err != nil {
		c.log.WarnContext(ctx, "cart clear failed", "error", err)
	}
}

// Count returns the total number of units in the cart.
func (c *CartStore) Count(ctx context.Context) int {
	n := 0
	for _, item := range c.GetCart(ctx) {
		n += item.Quantity
	}
	return n
}

func (c *CartStore) load(ctx context.Context) []domain.CartLineItem {
	data, err := c.store.Load(ctx, c.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.log.WarnContext(ctx, "cart load failed", "error", err)
		}
		return []domain.CartLineItem{}
	}

	var items []domain.CartLineItem
	if err := json.Unmarshal(data, &items); err != nil {
		c.log.DebugContext(ctx, "discarding corrupt cart", "error", err)
		return []domain.CartLineItem{}
	}

	valid := make([]domain.CartLineItem, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			continue
		}
		valid = append(valid, item)
	}
	return valid
}

// commit persists items and returns them, or returns before when the
// write fails.
func (c *CartStore) commit(ctx context.Context, before, items []domain.CartLineItem) []domain.CartLineItem {
	data, err := json.Marshal(items)
	if err != nil {
		c.log.WarnContext(ctx, "cart marshal failed", "error", err)
		return before
	}
	if err := c.store.Save(ctx, c.key, data); err != nil {
		c.log.WarnContext(ctx, "cart save failed", "error", err)
		return before
	}
	return items
}

const lockStripes = 64

// Carts hands out CartStores for many visitors over one Store. Stores for
// the same key share a lock, so concurrent requests of one visitor do not
// lose updates inside this process.
type Carts struct {
	store Store
	log   *slog.Logger
	locks [lockStripes]sync.Mutex
}

func NewCarts(store Store, log *slog.Logger) *Carts {
	return &Carts{store: store, log: log}
}

// For returns the cart of the given visitor.
func (c *Carts) For(visitorID string) *CartStore {
	key := VisitorKey(visitorID)
	h := fnv.New32a()
	h.Write([]byte(key))

	return &CartStore{
		store: c.store,
		key:   key,
		log:   c.log.With("cart_key", key),
		mu:    &c.locks[h.Sum32()%lockStripes],
	}
}
