package round

import (
	"errors"
)

// ErrNilSyncTimer is raised when a valid sync timer is expected but nil used
var ErrNilSyncTimer = errors.New("sync timer is nil")

// ErrInvalidTimeoutDuration signals that a non positive timeout duration was provided
var ErrInvalidTimeoutDuration = errors.New("timeout duration should be strictly positive")
