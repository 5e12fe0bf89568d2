package cache

import (
	"time"

	"github.com/multiversx/mx-chain-storage-go/lrucache"
	"github.com/multiversx/mx-chain-storage-go/timecache"
	"github.com/multiversx/mx-swarm-go/storage"
)

// NewLRUCache returns an instance of a LRU cache with a fixed capacity
func NewLRUCache(size int) (storage.Cacher, error) {
	if size < 1 {
		return nil, storage.ErrInvalidCacheSize
	}

	return lrucache.NewCache(size)
}

// NewTimeCache returns an instance of a time cache with the provided default span
func NewTimeCache(defaultSpan time.Duration) storage.TimeCacher {
	return timecache.NewTimeCache(defaultSpan)
}
