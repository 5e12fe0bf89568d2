package testscommon

import "github.com/multiversx/mx-swarm-go/data"

// ReputationProcessorStub -
type ReputationProcessorStub struct {
	GetReputationCalled        func(agentID string) data.AgentReputation
	UpdateReputationCalled     func(agentID string, success bool, fault *data.FaultRecord) error
	RehabilitateAgentCalled    func(agentID string) bool
	GetEligibleAgentsCalled    func(agentIDs []string) []string
	RegisterFaultHandlerCalled func(handler func(record data.FaultRecord))
	FaultReportCalled          func(agentID string) []data.FaultRecord
	StatsCalled                func() data.ReputationStats
}

// GetReputation -
func (stub *ReputationProcessorStub) GetReputation(agentID string) data.AgentReputation {
	if stub.GetReputationCalled != nil {
		return stub.GetReputationCalled(agentID)
	}

	return data.AgentReputation{AgentID: agentID}
}

// UpdateReputation -
func (stub *ReputationProcessorStub) UpdateReputation(agentID string, success bool, fault *data.FaultRecord) error {
	if stub.UpdateReputationCalled != nil {
		return stub.UpdateReputationCalled(agentID, success, fault)
	}

	return nil
}

// RehabilitateAgent -
func (stub *ReputationProcessorStub) RehabilitateAgent(agentID string) bool {
	if stub.RehabilitateAgentCalled != nil {
		return stub.RehabilitateAgentCalled(agentID)
	}

	return false
}

// GetEligibleAgents -
func (stub *ReputationProcessorStub) GetEligibleAgents(agentIDs []string) []string {
	if stub.GetEligibleAgentsCalled != nil {
		return stub.GetEligibleAgentsCalled(agentIDs)
	}

	return agentIDs
}

// RegisterFaultHandler -
func (stub *ReputationProcessorStub) RegisterFaultHandler(handler func(record data.FaultRecord)) {
	if stub.RegisterFaultHandlerCalled != nil {
		stub.RegisterFaultHandlerCalled(handler)
	}
}

// FaultReport -
func (stub *ReputationProcessorStub) FaultReport(agentID string) []data.FaultRecord {
	if stub.FaultReportCalled != nil {
		return stub.FaultReportCalled(agentID)
	}

	return make([]data.FaultRecord, 0)
}

// Stats -
func (stub *ReputationProcessorStub) Stats() data.ReputationStats {
	if stub.StatsCalled != nil {
		return stub.StatsCalled()
	}

	return data.ReputationStats{}
}

// IsInterfaceNil -
func (stub *ReputationProcessorStub) IsInterfaceNil() bool {
	return stub == nil
}
