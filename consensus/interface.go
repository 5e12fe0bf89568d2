package consensus

import (
	"time"

	"github.com/multiversx/mx-swarm-go/data"
)

// RoundHandler defines the actions which should be handled by a consensus round implementation
type RoundHandler interface {
	StartTime() time.Time
	Timeout() time.Duration
	Deadline() time.Time
	// RemainingTime returns the time left until the round deadline, clamped at zero
	RemainingTime() time.Duration
	IsExpired() bool
	IsInterfaceNil() bool
}

// MessageBusDriver defines what a transport implementation used by the consensus
// engine should do. Receive must not block waiting for traffic: it returns the
// envelopes already queued for the given round, possibly none
type MessageBusDriver interface {
	Send(envelope data.AuthenticatedMessage) error
	Receive(roundID string) ([]data.AuthenticatedMessage, error)
	IsInterfaceNil() bool
}

// ReputationProcessor defines the reputation operations needed while running one consensus round
type ReputationProcessor interface {
	GetEligibleAgents(agentIDs []string) []string
	UpdateReputation(agentID string, success bool, fault *data.FaultRecord) error
	IsInterfaceNil() bool
}

// FaultProcessor defines the fault detection operations needed while running one consensus round
type FaultProcessor interface {
	DetectVoteInconsistency(agentID string, proposalID string, vote string) (*data.FaultRecord, error)
	DetectResultConflict(agentID string, proposalID string, reportedHash string, consensusHash string) (*data.FaultRecord, error)
	RecordTimeout(agentID string, proposalID string, timeout time.Duration) (*data.FaultRecord, error)
	ResetProposal(proposalID string)
	IsInterfaceNil() bool
}

// MessageAuthenticator defines the operations needed to seal outbound consensus
// traffic and to check inbound envelopes before their votes are counted
type MessageAuthenticator interface {
	Authenticate(message data.SwarmMessage) (data.AuthenticatedMessage, error)
	Verify(envelope data.AuthenticatedMessage) error
	HashValue(value interface{}) (string, error)
	IsInterfaceNil() bool
}
