package pbft

import (
	"sort"
	"sync"

	"github.com/multiversx/mx-swarm-go/consensus"
	"github.com/multiversx/mx-swarm-go/data"
)

// ConsensusState defines the complete data needed by the engine to run one
// byzantine agreement round
type ConsensusState struct {
	*RoundConsensus
	*RoundThreshold
	*RoundStatus

	roundID    string
	roundIndex int64
	proposalID string
	primaryID  string
	value      []byte
	valueHash  string
	agreedHash string

	mutVotes     sync.RWMutex
	prepareVotes map[string]string
	commitVotes  map[string]string

	mutFaults sync.RWMutex
	faults    []data.FaultRecord
}

// NewConsensusState creates a new ConsensusState object
func NewConsensusState(
	roundID string,
	roundIndex int64,
	proposalID string,
	primaryID string,
	rcns *RoundConsensus,
	rthr *RoundThreshold,
	rstat *RoundStatus,
) *ConsensusState {
	cns := ConsensusState{
		RoundConsensus: rcns,
		RoundThreshold: rthr,
		RoundStatus:    rstat,
		roundID:        roundID,
		roundIndex:     roundIndex,
		proposalID:     proposalID,
		primaryID:      primaryID,
	}

	cns.prepareVotes = make(map[string]string)
	cns.commitVotes = make(map[string]string)
	cns.faults = make([]data.FaultRecord, 0)

	return &cns
}

// RoundID returns the unique id of the round
func (cns *ConsensusState) RoundID() string {
	return cns.roundID
}

// RoundIndex returns the sequence number of the round inside the coordinator's lifetime
func (cns *ConsensusState) RoundIndex() int64 {
	return cns.roundIndex
}

// ProposalID returns the id of the proposal the round decides on
func (cns *ConsensusState) ProposalID() string {
	return cns.proposalID
}

// PrimaryID returns the id of the agent driving the round
func (cns *ConsensusState) PrimaryID() string {
	return cns.primaryID
}

// Value returns the marshalled form of the proposed value
func (cns *ConsensusState) Value() []byte {
	return cns.value
}

// ValueHash returns the hash of the proposed value
func (cns *ConsensusState) ValueHash() string {
	return cns.valueHash
}

// SetProposedValue sets the marshalled proposed value together with its hash
func (cns *ConsensusState) SetProposedValue(value []byte, valueHash string) {
	cns.value = value
	cns.valueHash = valueHash
}

// AgreedHash returns the value hash the prepare quorum settled on
func (cns *ConsensusState) AgreedHash() string {
	return cns.agreedHash
}

// SetAgreedHash sets the value hash the prepare quorum settled on
func (cns *ConsensusState) SetAgreedHash(agreedHash string) {
	cns.agreedHash = agreedHash
}

// AddVote records the vote cast by the given agent in the given voting phase and
// marks the corresponding job as done for that agent
func (cns *ConsensusState) AddVote(agentID string, msgType consensus.MessageType, valueHash string) error {
	if !cns.IsAgentInConsensusGroup(agentID) {
		return ErrAgentNotInConsensusGroup
	}

	cns.mutVotes.Lock()
	switch msgType {
	case consensus.MtPrepare:
		cns.prepareVotes[agentID] = valueHash
	case consensus.MtCommit:
		cns.commitVotes[agentID] = valueHash
	default:
		cns.mutVotes.Unlock()
		return ErrInvalidVoteType
	}
	cns.mutVotes.Unlock()

	return cns.SetJobDone(agentID, msgType, true)
}

// Vote returns the vote cast by the given agent in the given voting phase
func (cns *ConsensusState) Vote(agentID string, msgType consensus.MessageType) (string, bool) {
	cns.mutVotes.RLock()
	defer cns.mutVotes.RUnlock()

	valueHash, ok := cns.votesNoLock(msgType)[agentID]

	return valueHash, ok
}

// NumVotes returns how many agents have voted in the given phase
func (cns *ConsensusState) NumVotes(msgType consensus.MessageType) int {
	cns.mutVotes.RLock()
	defer cns.mutVotes.RUnlock()

	return len(cns.votesNoLock(msgType))
}

// QuorumVoteHash returns the value hash that gathered at least the configured
// threshold of votes in the given phase, if any. At most one hash can ever reach
// the threshold since each agent holds a single counted vote per phase
func (cns *ConsensusState) QuorumVoteHash(msgType consensus.MessageType) (string, bool) {
	threshold := cns.Threshold(msgType)
	if threshold <= 0 {
		return "", false
	}

	cns.mutVotes.RLock()
	defer cns.mutVotes.RUnlock()

	counts := make(map[string]int)
	for _, valueHash := range cns.votesNoLock(msgType) {
		counts[valueHash]++
		if counts[valueHash] >= threshold {
			return valueHash, true
		}
	}

	return "", false
}

// Voters returns the agents whose vote in the given phase matches the given value
// hash, in lexicographic order
func (cns *ConsensusState) Voters(msgType consensus.MessageType, valueHash string) []string {
	cns.mutVotes.RLock()
	defer cns.mutVotes.RUnlock()

	voters := make([]string, 0)
	for agentID, vote := range cns.votesNoLock(msgType) {
		if vote == valueHash {
			voters = append(voters, agentID)
		}
	}
	sort.Strings(voters)

	return voters
}

// Dissenters returns the agents holding a recorded vote, in either phase, that
// differs from the given value hash, deduplicated and in lexicographic order
func (cns *ConsensusState) Dissenters(valueHash string) []string {
	cns.mutVotes.RLock()
	defer cns.mutVotes.RUnlock()

	seen := make(map[string]struct{})
	for agentID, vote := range cns.prepareVotes {
		if vote != valueHash {
			seen[agentID] = struct{}{}
		}
	}
	for agentID, vote := range cns.commitVotes {
		if vote != valueHash {
			seen[agentID] = struct{}{}
		}
	}

	dissenters := make([]string, 0, len(seen))
	for agentID := range seen {
		dissenters = append(dissenters, agentID)
	}
	sort.Strings(dissenters)

	return dissenters
}

// NonResponders returns the agents that did not complete the job for the given
// protocol step, preserving the consensus group order
func (cns *ConsensusState) NonResponders(msgType consensus.MessageType) []string {
	nonResponders := make([]string, 0)
	for _, agentID := range cns.ConsensusGroup() {
		jobDone, err := cns.JobDone(agentID, msgType)
		if err != nil || !jobDone {
			nonResponders = append(nonResponders, agentID)
		}
	}

	return nonResponders
}

// AddFault appends one fault record observed while the round was running
func (cns *ConsensusState) AddFault(record data.FaultRecord) {
	cns.mutFaults.Lock()
	cns.faults = append(cns.faults, record.Clone())
	cns.mutFaults.Unlock()
}

// Faults returns a copy of the fault records observed so far
func (cns *ConsensusState) Faults() []data.FaultRecord {
	cns.mutFaults.RLock()
	defer cns.mutFaults.RUnlock()

	faults := make([]data.FaultRecord, 0, len(cns.faults))
	for _, record := range cns.faults {
		faults = append(faults, record.Clone())
	}

	return faults
}

func (cns *ConsensusState) votesNoLock(msgType consensus.MessageType) map[string]string {
	switch msgType {
	case consensus.MtPrepare:
		return cns.prepareVotes
	case consensus.MtCommit:
		return cns.commitVotes
	}

	return nil
}
