package ntp

import "time"

// SyncTimer defines an interface for time synchronization
type SyncTimer interface {
	StartSyncingTime()
	ClockOffset() time.Duration
	FormattedCurrentTime() string
	CurrentTime() time.Time
	Close() error
	IsInterfaceNil() bool
}
