package pbft

import (
	"github.com/multiversx/mx-swarm-go/consensus"
)

// PhaseStatus defines the type used to refer the state of one protocol step
type PhaseStatus int

const (
	// PsNotFinished defines the un-finished state of the protocol step
	PsNotFinished PhaseStatus = iota
	// PsFinished defines the finished state of the protocol step
	PsFinished
)

// RoundStatus defines the data needed by the engine to know the state of each
// protocol step in the current round
type RoundStatus struct {
	status map[consensus.MessageType]PhaseStatus
}

// NewRoundStatus creates a new RoundStatus object
func NewRoundStatus() *RoundStatus {
	rstat := RoundStatus{}
	rstat.status = make(map[consensus.MessageType]PhaseStatus)
	return &rstat
}

// ResetRoundStatus resets the state of each protocol step
func (rstat *RoundStatus) ResetRoundStatus() {
	for k := range rstat.status {
		rstat.status[k] = PsNotFinished
	}
}

// Status returns the status of the given protocol step
func (rstat *RoundStatus) Status(msgType consensus.MessageType) PhaseStatus {
	return rstat.status[msgType]
}

// SetStatus sets the status of the given protocol step
func (rstat *RoundStatus) SetStatus(msgType consensus.MessageType, status PhaseStatus) {
	rstat.status[msgType] = status
}
