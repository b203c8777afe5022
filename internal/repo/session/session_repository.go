package session

import (
	"context"
)

// Repository defines the interface for local session persistence. It is a
// small key-value store; callers own the serialization of stored records.
type Repository interface {
	// Put stores value under key, overwriting any prior value.
	Put(ctx context.Context, key string, value []byte) error

	// Get retrieves the value stored under key.
	// Returns the value and true if found, or nil and false if not found.
	// Returns an error if the operation fails.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Delete removes the value stored under key. Deleting an absent key
	// is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the repository.
	// Returns an error if cleanup fails.
	Close() error
}

// RepositoryFactory is a function that creates a new Repository instance.
// Returns an error if initialization fails.
type RepositoryFactory func() (Repository, error)
