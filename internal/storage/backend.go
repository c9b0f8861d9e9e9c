package storage

import (
	"context"
	"errors"
)

// Key is the fixed key the persisted cart representation lives under.
const Key = "cartItems"

// ErrNotFound is returned by Load when nothing has been persisted yet.
var ErrNotFound = errors.New("storage: key not found")

// Backend persists the serialized cart under a fixed key.
type Backend interface {
	// Load returns the stored payload, or ErrNotFound when absent.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored payload.
	Save(ctx context.Context, data []byte) error

	// Delete removes the stored payload. Deleting an absent key is not an error.
	Delete(ctx context.Context) error
}
