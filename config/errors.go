package config

import "errors"

// ErrNilConfig signals that a nil configuration has been provided
var ErrNilConfig = errors.New("nil configuration")
