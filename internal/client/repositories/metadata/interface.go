// Package metadata is a small key/value table in the local client database.
// It backs the session store: one row per slot (cached user, session token).
package metadata

import "context"

type Repository interface {
	// Get returns the stored value and true, or nil and false when key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set inserts or overwrites key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
