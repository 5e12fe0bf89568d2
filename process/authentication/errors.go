package authentication

import "errors"

// ErrTampered signals that the recomputed integrity tag does not match the one carried by the envelope
var ErrTampered = errors.New("message authentication failed: tampered")

// ErrReplay signals that the envelope's nonce has already been spent
var ErrReplay = errors.New("message authentication failed: nonce replay")

// ErrStale signals that the envelope is older than the accepted maximum age
var ErrStale = errors.New("message authentication failed: stale message")

// ErrNilMarshalizer signals that a nil marshalizer has been provided
var ErrNilMarshalizer = errors.New("nil marshalizer")

// ErrNilHasher signals that a nil hasher has been provided
var ErrNilHasher = errors.New("nil hasher")

// ErrNilSyncTimer signals that a nil sync timer has been provided
var ErrNilSyncTimer = errors.New("nil sync timer")

// ErrNilNonceCache signals that a nil nonce cache has been provided
var ErrNilNonceCache = errors.New("nil nonce cache")

// ErrInvalidSharedKey signals that the provided shared key is missing or too short
var ErrInvalidSharedKey = errors.New("invalid shared key")

// ErrInvalidMaxMessageAge signals that the provided maximum message age is not usable
var ErrInvalidMaxMessageAge = errors.New("invalid max message age")
