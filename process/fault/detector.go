package fault

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-swarm-go/config"
	"github.com/multiversx/mx-swarm-go/data"
	"github.com/multiversx/mx-swarm-go/ntp"
	"github.com/multiversx/mx-swarm-go/storage"
)

var log = logger.GetOrCreate("process/fault")

const keySeparator = "_"

// ArgsDetector defines the arguments needed to create a new fault detector
type ArgsDetector struct {
	VotesCache storage.Cacher
	SyncTimer  ntp.SyncTimer
	Policy     config.FaultPolicyConfig
}

// detector recognizes fault patterns in observed agent behavior. It never
// mutates reputation: emitted records are handed over to the reputation store
// by the caller.
type detector struct {
	votesCache storage.Cacher
	syncTimer  ntp.SyncTimer
	policy     config.FaultPolicyConfig
}

// NewDetector will create a new fault detector component
func NewDetector(args ArgsDetector) (*detector, error) {
	err := checkNewDetectorParams(args)
	if err != nil {
		return nil, err
	}

	return &detector{
		votesCache: args.VotesCache,
		syncTimer:  args.SyncTimer,
		policy:     args.Policy,
	}, nil
}

func checkNewDetectorParams(args ArgsDetector) error {
	if check.IfNil(args.VotesCache) {
		return ErrNilVotesCache
	}
	if check.IfNil(args.SyncTimer) {
		return ErrNilSyncTimer
	}

	penalties := map[string]float64{
		"TimeoutPenalty":           args.Policy.TimeoutPenalty,
		"EquivocationPenalty":      args.Policy.EquivocationPenalty,
		"InconsistentVotePenalty":  args.Policy.InconsistentVotePenalty,
		"ConflictingResultPenalty": args.Policy.ConflictingResultPenalty,
	}
	for name, penalty := range penalties {
		if penalty <= 0 || penalty > 1 {
			return fmt.Errorf("%w for %s, provided %v, expected a value in (0, 1]",
				ErrInvalidPenalty, name, penalty)
		}
	}

	return nil
}

// DetectVoteInconsistency compares a newly observed vote against the first vote
// recorded for the same (agent, proposal) pair. The first vote is authoritative:
// it is recorded and never faulted; any later differing vote emits one
// INCONSISTENT_VOTE record, while repeating the original vote emits nothing.
func (d *detector) DetectVoteInconsistency(agentID string, proposalID string, vote string) (*data.FaultRecord, error) {
	err := checkIDs(agentID, proposalID)
	if err != nil {
		return nil, err
	}

	key := voteKey(agentID, proposalID)
	original, found := d.votesCache.Get(key)
	if !found {
		d.votesCache.Put(key, vote, len(vote))
		return nil, nil
	}

	originalVote, _ := original.(string)
	if originalVote == vote {
		return nil, nil
	}

	log.Debug("inconsistent vote detected",
		"agent", agentID,
		"proposal", proposalID,
		"original vote", originalVote,
		"new vote", vote)

	record := d.newFaultRecord(
		agentID,
		data.FaultInconsistentVote,
		d.policy.InconsistentVotePenalty,
		fmt.Sprintf("agent changed its vote for proposal %s", proposalID),
		map[string]string{
			"proposal_id":   proposalID,
			"original_vote": originalVote,
			"new_vote":      vote,
		},
	)

	return &record, nil
}

// DetectEquivocation checks the value hashes an agent is claimed to have sent to
// its recipients for one proposal. Any two claims carrying different hashes are
// equivocation; identical hashes towards every recipient are never a fault.
func (d *detector) DetectEquivocation(agentID string, proposalID string, claims []data.ValueClaim) (*data.FaultRecord, error) {
	err := checkIDs(agentID, proposalID)
	if err != nil {
		return nil, err
	}
	if len(claims) < 2 {
		return nil, nil
	}

	first := claims[0]
	for _, claim := range claims[1:] {
		if claim.ValueHash == first.ValueHash {
			continue
		}

		log.Debug("equivocation detected",
			"agent", agentID,
			"proposal", proposalID,
			"first recipient", first.Recipient,
			"second recipient", claim.Recipient)

		record := d.newFaultRecord(
			agentID,
			data.FaultEquivocation,
			d.policy.EquivocationPenalty,
			fmt.Sprintf("agent sent different values for proposal %s", proposalID),
			map[string]string{
				"proposal_id":      proposalID,
				"first_recipient":  first.Recipient,
				"first_hash":       first.ValueHash,
				"second_recipient": claim.Recipient,
				"second_hash":      claim.ValueHash,
			},
		)

		return &record, nil
	}

	return nil, nil
}

// DetectResultConflict compares one agent's reported result hash against the
// group's consensus result hash for the same proposal
func (d *detector) DetectResultConflict(agentID string, proposalID string, reportedHash string, consensusHash string) (*data.FaultRecord, error) {
	err := checkIDs(agentID, proposalID)
	if err != nil {
		return nil, err
	}
	if reportedHash == consensusHash {
		return nil, nil
	}

	log.Debug("conflicting result detected",
		"agent", agentID,
		"proposal", proposalID,
		"reported", reportedHash,
		"consensus", consensusHash)

	record := d.newFaultRecord(
		agentID,
		data.FaultConflictingResult,
		d.policy.ConflictingResultPenalty,
		fmt.Sprintf("agent result conflicts with the consensus result for proposal %s", proposalID),
		map[string]string{
			"proposal_id":      proposalID,
			"reported_result":  reportedHash,
			"consensus_result": consensusHash,
		},
	)

	return &record, nil
}

// RecordTimeout produces the explicit fault record for an agent that failed to
// respond within the round's deadline
func (d *detector) RecordTimeout(agentID string, proposalID string, timeout time.Duration) (*data.FaultRecord, error) {
	err := checkIDs(agentID, proposalID)
	if err != nil {
		return nil, err
	}

	record := d.newFaultRecord(
		agentID,
		data.FaultTimeout,
		d.policy.TimeoutPenalty,
		fmt.Sprintf("agent did not respond within %v for proposal %s", timeout, proposalID),
		map[string]string{
			"proposal_id":     proposalID,
			"timeout_seconds": fmt.Sprintf("%.0f", timeout.Seconds()),
		},
	)

	return &record, nil
}

// ResetProposal drops the recorded first votes for the provided proposal so a
// later round with the same proposal id starts from a clean registry
func (d *detector) ResetProposal(proposalID string) {
	prefix := []byte(proposalID + keySeparator)
	for _, key := range d.votesCache.Keys() {
		if bytes.HasPrefix(key, prefix) {
			d.votesCache.Remove(key)
		}
	}
}

func (d *detector) newFaultRecord(
	agentID string,
	faultType data.FaultType,
	severity float64,
	description string,
	evidence map[string]string,
) data.FaultRecord {
	return data.FaultRecord{
		ID:          uuid.NewString(),
		AgentID:     agentID,
		Type:        faultType,
		Severity:    severity,
		Description: description,
		Evidence:    evidence,
		Timestamp:   d.syncTimer.CurrentTime().Unix(),
	}
}

func checkIDs(agentID string, proposalID string) error {
	if len(agentID) == 0 {
		return ErrEmptyAgentID
	}
	if len(proposalID) == 0 {
		return ErrEmptyProposalID
	}

	return nil
}

func voteKey(agentID string, proposalID string) []byte {
	return []byte(proposalID + keySeparator + agentID)
}

// IsInterfaceNil returns true if there is no value under the interface
func (d *detector) IsInterfaceNil() bool {
	return d == nil
}
