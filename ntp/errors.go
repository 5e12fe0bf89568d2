package ntp

import "errors"

// ErrIndexOutOfBounds signals that the provided host index exceeds the configured host list
var ErrIndexOutOfBounds = errors.New("host index out of bounds")
