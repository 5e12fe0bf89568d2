package swarm

import "github.com/pkg/errors"

// ErrNilAuthenticator signals that a nil message authenticator has been provided
var ErrNilAuthenticator = errors.New("nil message authenticator")

// ErrNilReputationStore signals that a nil reputation store has been provided
var ErrNilReputationStore = errors.New("nil reputation store")

// ErrNilFaultDetector signals that a nil fault detector has been provided
var ErrNilFaultDetector = errors.New("nil fault detector")

// ErrNilCoordinator signals that a nil consensus coordinator has been provided
var ErrNilCoordinator = errors.New("nil consensus coordinator")

// ErrNilRegistry signals that a nil agent registry has been provided
var ErrNilRegistry = errors.New("nil agent registry")

// ErrNilMessageBus signals that a nil message bus driver has been provided
var ErrNilMessageBus = errors.New("nil message bus driver")

// ErrNilSyncTimer signals that a nil sync timer has been provided
var ErrNilSyncTimer = errors.New("nil sync timer")

// ErrEmptyProposalID signals that an empty proposal id has been provided
var ErrEmptyProposalID = errors.New("empty proposal id")

// ErrEmptyTaskID signals that an empty task id has been provided
var ErrEmptyTaskID = errors.New("empty task id")

// ErrEmptyConfigPath signals that no configuration snapshot path was configured
var ErrEmptyConfigPath = errors.New("empty configuration snapshot path")

// ErrNoVotes signals that an empty vote list has been provided
var ErrNoVotes = errors.New("no votes provided")

// ErrInvalidVote signals that a vote misses the voter id or the choice
var ErrInvalidVote = errors.New("invalid vote")

// ErrNoEligibleVoters signals that every provided voter is excluded
var ErrNoEligibleVoters = errors.New("no eligible voters")

// ErrNoCandidates signals that an empty candidate list has been provided
var ErrNoCandidates = errors.New("no candidates provided")

// ErrNoEligibleCandidates signals that no provided candidate is eligible for delegation
var ErrNoEligibleCandidates = errors.New("no eligible candidates")

// ErrNoResults signals that an empty agent results map has been provided
var ErrNoResults = errors.New("no agent results provided")

// ErrInvalidMinAgreement signals a minimum agreement fraction outside [0, 1]
var ErrInvalidMinAgreement = errors.New("invalid minimum agreement fraction")
