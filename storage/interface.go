package storage

import "time"

// Cacher provides caching services
type Cacher interface {
	// Clear is used to completely clear the cache
	Clear()
	// Put adds a value to the cache. Returns true if an eviction occurred
	Put(key []byte, value interface{}, sizeInBytes int) (evicted bool)
	// Get looks up a key's value from the cache
	Get(key []byte) (value interface{}, ok bool)
	// Has checks if a key is in the cache, without updating the recent-ness
	Has(key []byte) bool
	// Remove removes the provided key from the cache
	Remove(key []byte)
	// Keys returns a slice of the keys in the cache
	Keys() [][]byte
	// Len returns the number of items in the cache
	Len() int
	// IsInterfaceNil returns true if there is no value under the interface
	IsInterfaceNil() bool
}

// TimeCacher defines the cache that can keep a record for a bounded time
type TimeCacher interface {
	Add(key string) error
	Upsert(key string, span time.Duration) error
	Has(key string) bool
	Sweep()
	IsInterfaceNil() bool
}
