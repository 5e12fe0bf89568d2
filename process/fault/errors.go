package fault

import "errors"

// ErrNilVotesCache signals that a nil votes cache has been provided
var ErrNilVotesCache = errors.New("nil votes cache")

// ErrNilSyncTimer signals that a nil sync timer has been provided
var ErrNilSyncTimer = errors.New("nil sync timer")

// ErrEmptyAgentID signals that an empty agent id has been provided
var ErrEmptyAgentID = errors.New("empty agent id")

// ErrEmptyProposalID signals that an empty proposal id has been provided
var ErrEmptyProposalID = errors.New("empty proposal id")

// ErrInvalidPenalty signals that a configured penalty is outside the (0, 1] interval
var ErrInvalidPenalty = errors.New("invalid penalty")
