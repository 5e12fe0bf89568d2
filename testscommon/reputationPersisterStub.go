package testscommon

import "github.com/multiversx/mx-swarm-go/data"

// ReputationPersisterStub -
type ReputationPersisterStub struct {
	SaveCalled func(records map[string]*data.AgentReputation) error
	LoadCalled func() (map[string]*data.AgentReputation, error)
}

// Save -
func (stub *ReputationPersisterStub) Save(records map[string]*data.AgentReputation) error {
	if stub.SaveCalled != nil {
		return stub.SaveCalled(records)
	}

	return nil
}

// Load -
func (stub *ReputationPersisterStub) Load() (map[string]*data.AgentReputation, error) {
	if stub.LoadCalled != nil {
		return stub.LoadCalled()
	}

	return make(map[string]*data.AgentReputation), nil
}

// IsInterfaceNil -
func (stub *ReputationPersisterStub) IsInterfaceNil() bool {
	return stub == nil
}
