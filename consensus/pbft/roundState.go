package pbft

import (
	"github.com/multiversx/mx-swarm-go/consensus"
)

// RoundState holds the protocol steps completed by one agent inside a round.
// Access is synchronized by the owning RoundConsensus
type RoundState struct {
	jobsDone map[consensus.MessageType]bool
}

// NewRoundState creates a new RoundState object
func NewRoundState() *RoundState {
	rs := RoundState{}
	rs.jobsDone = make(map[consensus.MessageType]bool)
	return &rs
}

// JobDone returns true if the job for the given message type was completed
func (rs *RoundState) JobDone(msgType consensus.MessageType) bool {
	return rs.jobsDone[msgType]
}

// SetJobDone sets the completion state of the job for the given message type
func (rs *RoundState) SetJobDone(msgType consensus.MessageType, value bool) {
	rs.jobsDone[msgType] = value
}

// ResetJobsDone clears all the recorded jobs
func (rs *RoundState) ResetJobsDone() {
	rs.jobsDone = make(map[consensus.MessageType]bool)
}
