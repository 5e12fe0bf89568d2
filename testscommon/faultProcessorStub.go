package testscommon

import (
	"time"

	"github.com/multiversx/mx-swarm-go/data"
)

// FaultProcessorStub -
type FaultProcessorStub struct {
	DetectVoteInconsistencyCalled func(agentID string, proposalID string, vote string) (*data.FaultRecord, error)
	DetectEquivocationCalled      func(agentID string, proposalID string, claims []data.ValueClaim) (*data.FaultRecord, error)
	DetectResultConflictCalled    func(agentID string, proposalID string, reportedHash string, consensusHash string) (*data.FaultRecord, error)
	RecordTimeoutCalled           func(agentID string, proposalID string, timeout time.Duration) (*data.FaultRecord, error)
	ResetProposalCalled           func(proposalID string)
}

// DetectVoteInconsistency -
func (stub *FaultProcessorStub) DetectVoteInconsistency(agentID string, proposalID string, vote string) (*data.FaultRecord, error) {
	if stub.DetectVoteInconsistencyCalled != nil {
		return stub.DetectVoteInconsistencyCalled(agentID, proposalID, vote)
	}

	return nil, nil
}

// DetectEquivocation -
func (stub *FaultProcessorStub) DetectEquivocation(agentID string, proposalID string, claims []data.ValueClaim) (*data.FaultRecord, error) {
	if stub.DetectEquivocationCalled != nil {
		return stub.DetectEquivocationCalled(agentID, proposalID, claims)
	}

	return nil, nil
}

// DetectResultConflict -
func (stub *FaultProcessorStub) DetectResultConflict(agentID string, proposalID string, reportedHash string, consensusHash string) (*data.FaultRecord, error) {
	if stub.DetectResultConflictCalled != nil {
		return stub.DetectResultConflictCalled(agentID, proposalID, reportedHash, consensusHash)
	}

	return nil, nil
}

// RecordTimeout -
func (stub *FaultProcessorStub) RecordTimeout(agentID string, proposalID string, timeout time.Duration) (*data.FaultRecord, error) {
	if stub.RecordTimeoutCalled != nil {
		return stub.RecordTimeoutCalled(agentID, proposalID, timeout)
	}

	return nil, nil
}

// ResetProposal -
func (stub *FaultProcessorStub) ResetProposal(proposalID string) {
	if stub.ResetProposalCalled != nil {
		stub.ResetProposalCalled(proposalID)
	}
}

// IsInterfaceNil -
func (stub *FaultProcessorStub) IsInterfaceNil() bool {
	return stub == nil
}
