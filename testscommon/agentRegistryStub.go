package testscommon

// AgentRegistryStub -
type AgentRegistryStub struct {
	CapabilityFactorCalled func(agentID string, requiredCapabilities []string) (float64, error)
}

// CapabilityFactor -
func (stub *AgentRegistryStub) CapabilityFactor(agentID string, requiredCapabilities []string) (float64, error) {
	if stub.CapabilityFactorCalled != nil {
		return stub.CapabilityFactorCalled(agentID, requiredCapabilities)
	}

	return 1, nil
}

// IsInterfaceNil -
func (stub *AgentRegistryStub) IsInterfaceNil() bool {
	return stub == nil
}
