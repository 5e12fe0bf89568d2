package testscommon

import "github.com/multiversx/mx-swarm-go/data"

// ConsensusCoordinatorStub -
type ConsensusCoordinatorStub struct {
	RunRoundCalled func(proposalID string, value interface{}, participants []string) (*data.BFTResult, error)
}

// RunRound -
func (stub *ConsensusCoordinatorStub) RunRound(proposalID string, value interface{}, participants []string) (*data.BFTResult, error) {
	if stub.RunRoundCalled != nil {
		return stub.RunRoundCalled(proposalID, value, participants)
	}

	return &data.BFTResult{
		ProposalID:       proposalID,
		Success:          true,
		ConsensusReached: true,
		Value:            value,
		Phase:            data.PhaseDecided,
		Participants:     participants,
	}, nil
}

// IsInterfaceNil -
func (stub *ConsensusCoordinatorStub) IsInterfaceNil() bool {
	return stub == nil
}
