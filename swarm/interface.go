package swarm

import (
	"time"

	"github.com/multiversx/mx-swarm-go/data"
)

// MessageAuthenticator defines the envelope operations the engine exposes on
// behalf of the authentication component
type MessageAuthenticator interface {
	Authenticate(message data.SwarmMessage) (data.AuthenticatedMessage, error)
	Verify(envelope data.AuthenticatedMessage) error
	HashValue(value interface{}) (string, error)
	IsInterfaceNil() bool
}

// ReputationStore defines the trust state operations consumed by the engine
type ReputationStore interface {
	GetReputation(agentID string) data.AgentReputation
	UpdateReputation(agentID string, success bool, faultRecord *data.FaultRecord) error
	RehabilitateAgent(agentID string) bool
	GetEligibleAgents(agentIDs []string) []string
	RegisterFaultHandler(handler func(record data.FaultRecord))
	FaultReport(agentID string) []data.FaultRecord
	Stats() data.ReputationStats
	IsInterfaceNil() bool
}

// FaultDetector defines the behavior checks consumed by the engine. Detectors
// only observe: every emitted record is applied to the reputation store by the
// engine itself
type FaultDetector interface {
	DetectVoteInconsistency(agentID string, proposalID string, vote string) (*data.FaultRecord, error)
	DetectEquivocation(agentID string, proposalID string, claims []data.ValueClaim) (*data.FaultRecord, error)
	DetectResultConflict(agentID string, proposalID string, reportedHash string, consensusHash string) (*data.FaultRecord, error)
	RecordTimeout(agentID string, proposalID string, timeout time.Duration) (*data.FaultRecord, error)
	IsInterfaceNil() bool
}

// ConsensusCoordinator defines the byzantine agreement round runner consumed
// by the engine
type ConsensusCoordinator interface {
	RunRound(proposalID string, value interface{}, participants []string) (*data.BFTResult, error)
	IsInterfaceNil() bool
}

// AgentRegistry defines the capability surface the engine consumes from the
// external agent registry. The returned factor is multiplied into the
// candidate's reputation score when ranking delegates, 1 meaning a full match
type AgentRegistry interface {
	CapabilityFactor(agentID string, requiredCapabilities []string) (float64, error)
	IsInterfaceNil() bool
}
