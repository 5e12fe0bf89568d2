package reputation

import "github.com/multiversx/mx-swarm-go/data"

// Persister defines the behavior of a component able to persist the full
// reputation snapshot between mutations and to reload it at startup
type Persister interface {
	Save(records map[string]*data.AgentReputation) error
	Load() (map[string]*data.AgentReputation, error)
	IsInterfaceNil() bool
}
