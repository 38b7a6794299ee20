package cartstore

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/fjod/krmotors/internal/domain"
	"github.com/fjod/krmotors/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore returns err from every operation.
type failingStore struct {
	err error
}

func (f failingStore) Load(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Save(context.Context, string, []byte) error   { return f.err }
func (f failingStore) Delete(context.Context, string) error         { return f.err }

func newTestCart(t *testing.T) (*CartStore, *MemoryStore) {
	t.Helper()
	mem := NewMemoryStore()
	return NewCartStore(mem, CartKey, logger.Discard()), mem
}

func brakePad() domain.CartLineItem {
	return domain.CartLineItem{ProductID: "p1", Name: "Brake pad", Price: 100, Image: "pad.jpg"}
}

func oilFilter() domain.CartLineItem {
	return domain.CartLineItem{ProductID: "p2", Name: "Oil filter", Price: 50, Image: "filter.jpg"}
}

func TestGetCart_EmptyWhenNoState(t *testing.T) {
	cart, _ := newTestCart(t)

	items := cart.GetCart(context.Background())

	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestGetCart_CorruptStateIsEmpty(t *testing.T) {
	cart, mem := newTestCart(t)
	ctx := context.Background()
	require.NoError(t, mem.Save(ctx, CartKey, []byte(`{not json`)))

	assert.Empty(t, cart.GetCart(ctx))

	// the next write replaces the corrupt value
	cart.AddToCart(ctx, brakePad(), 1)
	assert.Len(t, cart.GetCart(ctx), 1)
}

func TestGetCart_DropsInvalidLines(t *testing.T) {
	cart, mem := newTestCart(t)
	ctx := context.Background()
	raw := `[{"productId":"p1","price":1,"quantity":2},{"productId":"","quantity":1},{"productId":"p3","quantity":0}]`
	require.NoError(t, mem.Save(ctx, CartKey, []byte(raw)))

	items := cart.GetCart(ctx)

	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
}

func TestAddToCart_NewItem(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	for _, d := range []int{1, 3, 7} {
		cart.Clear(ctx)
		items := cart.AddToCart(ctx, brakePad(), d)

		require.Len(t, items, 1)
		assert.Equal(t, "p1", items[0].ProductID)
		assert.Equal(t, d, items[0].Quantity)
		assert.Equal(t, "pad.jpg", items[0].Image)
	}
}

func TestAddToCart_MergesQuantity(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	cart.AddToCart(ctx, brakePad(), 2)
	items := cart.AddToCart(ctx, brakePad(), 3)

	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddToCart_NegativeDelta(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		delta   int
		want    int
		present bool
	}{
		{"decrement", 3, -1, 2, true},
		{"to zero removes", 3, -3, 0, false},
		{"overshoot removes", 2, -5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, _ := newTestCart(t)
			ctx := context.Background()
			cart.AddToCart(ctx, oilFilter(), 1)
			cart.AddToCart(ctx, brakePad(), tt.start)

			items := cart.AddToCart(ctx, brakePad(), tt.delta)

			found := false
			for _, it := range items {
				if it.ProductID == "p1" {
					found = true
					assert.Equal(t, tt.want, it.Quantity)
				}
			}
			assert.Equal(t, tt.present, found)
			assert.Equal(t, items, cart.GetCart(ctx))
		})
	}
}

func TestAddToCart_NonPositiveDeltaForMissingItemIsNoop(t *testing.T) {
	cart, mem := newTestCart(t)
	ctx := context.Background()

	items := cart.AddToCart(ctx, brakePad(), -2)
	assert.Empty(t, items)
	items = cart.AddToCart(ctx, brakePad(), 0)
	assert.Empty(t, items)

	_, err := mem.Load(ctx, CartKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddToCart_PreservesInsertionOrder(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	cart.AddToCart(ctx, oilFilter(), 1)
	cart.AddToCart(ctx, brakePad(), 1)
	items := cart.AddToCart(ctx, oilFilter(), 4)

	require.Len(t, items, 2)
	assert.Equal(t, "p2", items[0].ProductID)
	assert.Equal(t, "p1", items[1].ProductID)
}

func TestAddToCart_PersistsBeforeReturning(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()
	NewCartStore(mem, CartKey, logger.Discard()).AddToCart(ctx, brakePad(), 2)

	// a second store over the same backend sees the write
	items := NewCartStore(mem, CartKey, logger.Discard()).GetCart(ctx)

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddToCart_StoreFailureIsSwallowed(t *testing.T) {
	cart := NewCartStore(failingStore{err: errors.New("quota exceeded")}, CartKey, logger.Discard())
	ctx := context.Background()

	items := cart.AddToCart(ctx, brakePad(), 1)

	assert.Empty(t, items)
	assert.Empty(t, cart.GetCart(ctx))
	cart.Clear(ctx)
}

// readOnlyStore serves reads from a MemoryStore and rejects writes.
type readOnlyStore struct {
	*MemoryStore
}

func (readOnlyStore) Save(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

func TestAddToCart_FailedSaveReturnsPersistedState(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()
	NewCartStore(mem, CartKey, logger.Discard()).AddToCart(ctx, brakePad(), 2)
	cart := NewCartStore(readOnlyStore{mem}, CartKey, logger.Discard())

	items := cart.AddToCart(ctx, brakePad(), 3)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	items = cart.SetQuantity(ctx, "p1", 0)
	require.Len(t, items, 1)
	assert.Equal(t, items, cart.GetCart(ctx))
}

func TestAddToCart_QuantitySaturates(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	cart.AddToCart(ctx, brakePad(), math.MaxInt)
	items := cart.AddToCart(ctx, brakePad(), 1)

	require.Len(t, items, 1)
	assert.Equal(t, math.MaxInt, items[0].Quantity)

	items = cart.AddToCart(ctx, brakePad(), -1)
	require.Len(t, items, 1)
	assert.Equal(t, math.MaxInt-1, items[0].Quantity)
}

func TestAddQuantity(t *testing.T) {
	assert.Equal(t, 5, addQuantity(2, 3))
	assert.Equal(t, -1, addQuantity(2, -3))
	assert.Equal(t, math.MaxInt, addQuantity(math.MaxInt-1, 5))
	assert.Equal(t, math.MinInt, addQuantity(math.MinInt+1, -5))
}

func TestSetQuantityAndRemove(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()
	cart.AddToCart(ctx, brakePad(), 1)
	cart.AddToCart(ctx, oilFilter(), 1)

	items := cart.SetQuantity(ctx, "p1", 6)
	assert.Equal(t, 6, items[0].Quantity)

	items = cart.SetQuantity(ctx, "unknown", 3)
	assert.Len(t, items, 2)

	items = cart.RemoveFromCart(ctx, "p1")
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)

	assert.Equal(t, 1, cart.Count(ctx))
}

func TestClear(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()
	cart.AddToCart(ctx, brakePad(), 2)

	cart.Clear(ctx)

	assert.Empty(t, cart.GetCart(ctx))
	assert.Equal(t, 0, cart.Count(ctx))
}

func TestCarts_VisitorsAreIsolated(t *testing.T) {
	carts := NewCarts(NewMemoryStore(), logger.Discard())
	ctx := context.Background()

	carts.For("alice").AddToCart(ctx, brakePad(), 1)
	carts.For("bob").AddToCart(ctx, oilFilter(), 2)

	alice := carts.For("alice").GetCart(ctx)
	require.Len(t, alice, 1)
	assert.Equal(t, "p1", alice[0].ProductID)
	assert.Equal(t, 2, carts.For("bob").Count(ctx))
}

func TestCarts_ConcurrentAddsSameVisitor(t *testing.T) {
	carts := NewCarts(NewMemoryStore(), logger.Discard())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			carts.For("visitor").AddToCart(ctx, brakePad(), 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, carts.For("visitor").Count(ctx))
}
