// Package kvstore provides the key/value storage handle handed to modules
// during initialization.
//
// The loading core never interprets stored values; it only passes the handle
// through. Two backends are provided: an in-memory map for tests and
// ephemeral deployments, and a SQLite-backed store for persistence.
package kvstore

import (
	"context"
	"time"
)

// Store is the full storage contract: the module-facing get/set/delete
// surface plus deterministic teardown for the owning runtime.
type Store interface {
	// Get returns the value stored under key. The boolean reports presence;
	// an expired entry is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key. A ttl of zero means the entry never
	// expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key if present.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}
