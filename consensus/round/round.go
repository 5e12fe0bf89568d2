package round

import (
	"time"

	"github.com/multiversx/mx-chain-core-go/core/check"

	"github.com/multiversx/mx-swarm-go/consensus"
	"github.com/multiversx/mx-swarm-go/ntp"
)

var _ consensus.RoundHandler = (*round)(nil)

// round defines the data needed by one consensus round: the moment it started
// and how long it is allowed to run. A round is immutable after construction
type round struct {
	startTime time.Time
	timeout   time.Duration
	syncTimer ntp.SyncTimer
}

// NewRound creates a new round object started at the sync timer's current time
func NewRound(syncTimer ntp.SyncTimer, timeout time.Duration) (*round, error) {
	if check.IfNil(syncTimer) {
		return nil, ErrNilSyncTimer
	}
	if timeout <= 0 {
		return nil, ErrInvalidTimeoutDuration
	}

	rnd := &round{
		startTime: syncTimer.CurrentTime(),
		timeout:   timeout,
		syncTimer: syncTimer,
	}

	return rnd, nil
}

// StartTime returns the time stamp the round started at
func (rnd *round) StartTime() time.Time {
	return rnd.startTime
}

// Timeout returns the total time the round is allowed to run
func (rnd *round) Timeout() time.Duration {
	return rnd.timeout
}

// Deadline returns the moment the round expires
func (rnd *round) Deadline() time.Time {
	return rnd.startTime.Add(rnd.timeout)
}

// RemainingTime returns the time left until the round deadline, clamped at zero
func (rnd *round) RemainingTime() time.Duration {
	currentTime := rnd.syncTimer.CurrentTime()
	remainingTime := rnd.Deadline().Sub(currentTime)
	if remainingTime < 0 {
		return 0
	}

	return remainingTime
}

// IsExpired returns true if the round deadline has passed
func (rnd *round) IsExpired() bool {
	return rnd.RemainingTime() == 0
}

// IsInterfaceNil returns true if there is no value under the interface
func (rnd *round) IsInterfaceNil() bool {
	return rnd == nil
}
