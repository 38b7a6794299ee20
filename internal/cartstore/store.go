package cartstore

import (
	"context"
	"errors"
)

// Fixed keys of the locally persisted state.
const (
	CartKey  = "cart"
	TokenKey = "token"
)

var ErrNotFound = errors.New("key not found")

// Store is the persistence behind the cart and the session. Consumers
// swap implementations freely: an in-memory map in tests, a SQLite file
// for the CLI, Redis or MongoDB for the gateway.
type Store interface {
	// Load returns the value stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// VisitorKey returns the storage key of an anonymous visitor's cart.
func VisitorKey(visitorID string) string {
	return CartKey + ":" + visitorID
}
