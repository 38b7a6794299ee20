package cartstore

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/krmotors/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupMongo(t *testing.T) *MongoStore {
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	store := NewMongoStore(db)
	require.NoError(t, store.CreateIndexes(ctx, 24*time.Hour))
	return store
}

func TestMongoStore_RoundTrip(t *testing.T) {
	store := setupMongo(t)
	ctx := context.Background()

	_, err := store.Load(ctx, "cart:v1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, "cart:v1", []byte("one")))
	require.NoError(t, store.Save(ctx, "cart:v1", []byte("two")))

	v, err := store.Load(ctx, "cart:v1")
	require.NoError(t, err)
	assert.Equal(t, "two", string(v))

	require.NoError(t, store.Delete(ctx, "cart:v1"))
	_, err = store.Load(ctx, "cart:v1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoStore_BacksCartStore(t *testing.T) {
	store := setupMongo(t)
	ctx := context.Background()
	carts := NewCarts(store, logger.Discard())

	carts.For("v1").AddToCart(ctx, brakePad(), 2)
	carts.For("v1").AddToCart(ctx, oilFilter(), 1)

	items := carts.For("v1").GetCart(ctx)
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ProductID)
}
