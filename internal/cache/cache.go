// Package cache provides the bounded registry used to keep one in-memory
// owner per ledger location.
package cache

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Size returns the current number of items in the cache
	Size() int
}

// EvictFunc is called, outside the cache lock, for every entry dropped to make room.
type EvictFunc[T any] func(key string, data T)
