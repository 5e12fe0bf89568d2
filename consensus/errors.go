package consensus

import (
	"errors"
)

// ErrInsufficientParticipants is raised when a round starts with fewer eligible
// agents than byzantine fault tolerance requires
var ErrInsufficientParticipants = errors.New("insufficient eligible participants for byzantine fault tolerance")

// ErrNoQuorum is raised when every eligible agent has voted and no value hash
// reached the quorum
var ErrNoQuorum = errors.New("no value hash reached the quorum")

// ErrRoundTimeout is raised when the round deadline passes before a decision
var ErrRoundTimeout = errors.New("consensus round timed out")

// ErrNilMessageBus is raised when a valid message bus is expected but nil used
var ErrNilMessageBus = errors.New("message bus is nil")

// ErrNilAuthenticator is raised when a valid message authenticator is expected but nil used
var ErrNilAuthenticator = errors.New("message authenticator is nil")

// ErrNilReputationProcessor is raised when a valid reputation processor is expected but nil used
var ErrNilReputationProcessor = errors.New("reputation processor is nil")

// ErrNilFaultProcessor is raised when a valid fault processor is expected but nil used
var ErrNilFaultProcessor = errors.New("fault processor is nil")

// ErrNilMarshalizer is raised when a valid marshalizer is expected but nil used
var ErrNilMarshalizer = errors.New("marshalizer is nil")

// ErrNilSyncTimer is raised when a valid sync timer is expected but nil used
var ErrNilSyncTimer = errors.New("sync timer is nil")

// ErrNilRoundHandler is raised when a valid round handler is expected but nil used
var ErrNilRoundHandler = errors.New("round handler is nil")

// ErrNilConsensusState is raised when a valid consensus state is expected but nil used
var ErrNilConsensusState = errors.New("consensus state is nil")

// ErrEmptyAgentID signals that an empty agent id was provided
var ErrEmptyAgentID = errors.New("empty agent id")

// ErrEmptyProposalID signals that an empty proposal id was provided
var ErrEmptyProposalID = errors.New("empty proposal id")

// ErrNilValue signals that a nil proposal value was provided
var ErrNilValue = errors.New("nil proposal value")

// ErrInvalidTimeout signals that an out of range round timeout was provided
var ErrInvalidTimeout = errors.New("invalid round timeout")

// ErrInvalidMinParticipants signals that an out of range minimum participants value was provided
var ErrInvalidMinParticipants = errors.New("invalid minimum participants")

// ErrAgentNotEligible is raised when a message sender is not part of the round's eligible set
var ErrAgentNotEligible = errors.New("agent is not part of the eligible set")

// ErrInvalidMessage signals that a malformed consensus message was received
var ErrInvalidMessage = errors.New("invalid consensus message")
