// Package store defines the durable key/value contract the session and
// cart managers persist through. Values are opaque strings; structured
// records are serialized by the owning manager before Set and parsed after
// Get.
package store

import (
	"context"
	"errors"
)

// ErrNotFound reports an absent key. Managers treat it as "no stored
// state" and fall back to their empty default.
var ErrNotFound = errors.New("store: key not found")

// Store is a string-keyed durable store. Each manager writes only its own
// keys; there is no cross-manager coordination.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
