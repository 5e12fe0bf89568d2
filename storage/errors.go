package storage

import "errors"

// ErrNilCacher signals that a nil cacher has been provided
var ErrNilCacher = errors.New("nil cacher")

// ErrNilTimeCache signals that a nil time cache has been provided
var ErrNilTimeCache = errors.New("nil time cache")

// ErrInvalidCacheSize signals that an invalid cache size has been provided
var ErrInvalidCacheSize = errors.New("invalid cache size")
