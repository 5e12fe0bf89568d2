package pbft

import (
	"errors"
)

// ErrAgentNotInConsensusGroup is raised when a job state is requested for an agent outside the round's group
var ErrAgentNotInConsensusGroup = errors.New("agent is not in the consensus group")

// ErrInvalidVoteType signals that a vote was cast with a message type that is not a voting phase
var ErrInvalidVoteType = errors.New("message type is not a voting phase")
