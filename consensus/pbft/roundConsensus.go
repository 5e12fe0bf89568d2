package pbft

import (
	"sync"

	"github.com/multiversx/mx-swarm-go/consensus"
)

// RoundConsensus defines the data needed by the engine to track, for each agent
// taking part in the round, which protocol steps it has completed
type RoundConsensus struct {
	consensusGroup   []string
	agentRoundStates map[string]*RoundState
	mut              sync.RWMutex
}

// NewRoundConsensus creates a new RoundConsensus object
func NewRoundConsensus(consensusGroup []string) *RoundConsensus {
	rcns := RoundConsensus{
		consensusGroup: consensusGroup,
	}

	rcns.agentRoundStates = make(map[string]*RoundState)

	for i := 0; i < len(consensusGroup); i++ {
		rcns.agentRoundStates[rcns.consensusGroup[i]] = NewRoundState()
	}

	return &rcns
}

// ConsensusGroup returns the ids of the agents taking part in the round
func (rcns *RoundConsensus) ConsensusGroup() []string {
	return rcns.consensusGroup
}

// ConsensusGroupSize returns the number of agents taking part in the round
func (rcns *RoundConsensus) ConsensusGroupSize() int {
	return len(rcns.consensusGroup)
}

// IsAgentInConsensusGroup checks if the given agent is part of the round's group
func (rcns *RoundConsensus) IsAgentInConsensusGroup(agentID string) bool {
	for i := 0; i < len(rcns.consensusGroup); i++ {
		if rcns.consensusGroup[i] == agentID {
			return true
		}
	}

	return false
}

// JobDone returns the state of the action done, by the agent represented by the key
// parameter, in the protocol step given by the msgType parameter
func (rcns *RoundConsensus) JobDone(key string, msgType consensus.MessageType) (bool, error) {
	rcns.mut.RLock()
	defer rcns.mut.RUnlock()

	roundState := rcns.agentRoundStates[key]
	if roundState == nil {
		return false, ErrAgentNotInConsensusGroup
	}

	return roundState.JobDone(msgType), nil
}

// SetJobDone sets the state of the action done, by the agent represented by the key
// parameter, in the protocol step given by the msgType parameter
func (rcns *RoundConsensus) SetJobDone(key string, msgType consensus.MessageType, value bool) error {
	rcns.mut.Lock()
	defer rcns.mut.Unlock()

	roundState := rcns.agentRoundStates[key]
	if roundState == nil {
		return ErrAgentNotInConsensusGroup
	}

	roundState.SetJobDone(msgType, value)

	return nil
}

// ComputeSize returns the number of agents that completed the job for the given protocol step
func (rcns *RoundConsensus) ComputeSize(msgType consensus.MessageType) int {
	rcns.mut.RLock()
	defer rcns.mut.RUnlock()

	n := 0
	for i := 0; i < len(rcns.consensusGroup); i++ {
		roundState := rcns.agentRoundStates[rcns.consensusGroup[i]]
		if roundState == nil {
			continue
		}
		if roundState.JobDone(msgType) {
			n++
		}
	}

	return n
}

// ResetRoundState resets the state of each agent from the current consensus group
func (rcns *RoundConsensus) ResetRoundState() {
	rcns.mut.Lock()
	defer rcns.mut.Unlock()

	for i := 0; i < len(rcns.consensusGroup); i++ {
		roundState := rcns.agentRoundStates[rcns.consensusGroup[i]]
		if roundState == nil {
			continue
		}
		roundState.ResetJobsDone()
	}
}
