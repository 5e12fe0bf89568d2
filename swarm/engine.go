package swarm

import (
	"fmt"
	"time"

	"github.com/multiversx/mx-chain-core-go/core/atomic"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"

	"github.com/multiversx/mx-swarm-go/config"
	"github.com/multiversx/mx-swarm-go/data"
)

var log = logger.GetOrCreate("swarm")

// ArgsEngine holds all the dependencies needed to create an engine
type ArgsEngine struct {
	Authenticator   MessageAuthenticator
	ReputationStore ReputationStore
	FaultDetector   FaultDetector
	Coordinator     ConsensusCoordinator
	Registry        AgentRegistry
	Config          config.BFTConfig
	ConfigPath      string
}

// Engine is the byzantine fault tolerant facade over the swarm: it exposes
// message authentication, reputation tracking, fault detection, consensus
// rounds and the reputation aware voting, delegation and verification
// operations through one value constructed by the host application
type Engine struct {
	authenticator   MessageAuthenticator
	reputationStore ReputationStore
	faultDetector   FaultDetector
	coordinator     ConsensusCoordinator
	registry        AgentRegistry
	cfg             config.BFTConfig
	configPath      string

	roundsRun     atomic.Counter
	roundsDecided atomic.Counter
	roundsFailed  atomic.Counter
}

// NewEngine creates a new engine object
func NewEngine(args ArgsEngine) (*Engine, error) {
	err := checkNewEngineParams(args)
	if err != nil {
		return nil, fmt.Errorf("%w while creating an instance of swarm engine", err)
	}

	return &Engine{
		authenticator:   args.Authenticator,
		reputationStore: args.ReputationStore,
		faultDetector:   args.FaultDetector,
		coordinator:     args.Coordinator,
		registry:        args.Registry,
		cfg:             args.Config,
		configPath:      args.ConfigPath,
	}, nil
}

func checkNewEngineParams(args ArgsEngine) error {
	if check.IfNil(args.Authenticator) {
		return ErrNilAuthenticator
	}
	if check.IfNil(args.ReputationStore) {
		return ErrNilReputationStore
	}
	if check.IfNil(args.FaultDetector) {
		return ErrNilFaultDetector
	}
	if check.IfNil(args.Coordinator) {
		return ErrNilCoordinator
	}
	if check.IfNil(args.Registry) {
		return ErrNilRegistry
	}

	return nil
}

// CreateAuthenticatedMessage wraps the provided message in an envelope carrying
// a fresh nonce, a timestamp and the keyed integrity tag
func (e *Engine) CreateAuthenticatedMessage(message data.SwarmMessage) (data.AuthenticatedMessage, error) {
	return e.authenticator.Authenticate(message)
}

// VerifyAuthenticatedMessage checks the envelope's integrity tag, freshness and
// nonce uniqueness, returning the classified failure reason
func (e *Engine) VerifyAuthenticatedMessage(envelope data.AuthenticatedMessage) error {
	return e.authenticator.Verify(envelope)
}

// HashValue returns the deterministic short digest of an arbitrary structured value
func (e *Engine) HashValue(value interface{}) (string, error) {
	return e.authenticator.HashValue(value)
}

// GetReputation returns the reputation record tracked for the provided agent,
// lazily creating a fresh one on first observation
func (e *Engine) GetReputation(agentID string) data.AgentReputation {
	return e.reputationStore.GetReputation(agentID)
}

// UpdateReputation records the outcome of one interaction with the provided agent
func (e *Engine) UpdateReputation(agentID string, success bool, faultRecord *data.FaultRecord) error {
	return e.reputationStore.UpdateReputation(agentID, success, faultRecord)
}

// RehabilitateAgent clears the exclusion of an agent whose score recovered
// above the rehabilitation threshold
func (e *Engine) RehabilitateAgent(agentID string) bool {
	return e.reputationStore.RehabilitateAgent(agentID)
}

// GetEligibleAgents filters the provided agents to the ones allowed to take
// part in byzantine sensitive operations, preserving the input order
func (e *Engine) GetEligibleAgents(agentIDs []string) []string {
	return e.reputationStore.GetEligibleAgents(agentIDs)
}

// RegisterFaultHandler registers a handler invoked synchronously for every new
// fault record applied to the store
func (e *Engine) RegisterFaultHandler(handler func(record data.FaultRecord)) {
	e.reputationStore.RegisterFaultHandler(handler)
}

// DetectVoteInconsistency checks the observed vote against the first vote
// recorded for the same (agent, proposal) pair and applies the emitted fault,
// if any, to the reputation store
func (e *Engine) DetectVoteInconsistency(agentID string, proposalID string, vote string) (*data.FaultRecord, error) {
	record, err := e.faultDetector.DetectVoteInconsistency(agentID, proposalID, vote)

	return e.applyFault(record, err)
}

// DetectEquivocation checks the claimed per recipient value hashes for pairwise
// mismatches and applies the emitted fault, if any, to the reputation store
func (e *Engine) DetectEquivocation(agentID string, proposalID string, claims []data.ValueClaim) (*data.FaultRecord, error) {
	record, err := e.faultDetector.DetectEquivocation(agentID, proposalID, claims)

	return e.applyFault(record, err)
}

// DetectResultConflict compares an agent's reported result hash against the
// group's consensus hash and applies the emitted fault, if any, to the
// reputation store
func (e *Engine) DetectResultConflict(agentID string, proposalID string, reportedHash string, consensusHash string) (*data.FaultRecord, error) {
	record, err := e.faultDetector.DetectResultConflict(agentID, proposalID, reportedHash, consensusHash)

	return e.applyFault(record, err)
}

// RecordTimeout records an agent that failed to respond within the round's
// deadline and applies the fault to the reputation store
func (e *Engine) RecordTimeout(agentID string, proposalID string, timeout time.Duration) (*data.FaultRecord, error) {
	record, err := e.faultDetector.RecordTimeout(agentID, proposalID, timeout)

	return e.applyFault(record, err)
}

func (e *Engine) applyFault(record *data.FaultRecord, err error) (*data.FaultRecord, error) {
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	errUpdate := e.reputationStore.UpdateReputation(record.AgentID, false, record)
	if errUpdate != nil {
		log.Warn("could not apply the detected fault", "agent", record.AgentID, "error", errUpdate)
	}

	return record, nil
}

// RunConsensus drives one byzantine agreement round for the provided proposal
// over the eligible subset of the participants
func (e *Engine) RunConsensus(proposalID string, value interface{}, participants []string) (*data.BFTResult, error) {
	e.roundsRun.Increment()

	result, err := e.coordinator.RunRound(proposalID, value, participants)
	if result != nil && result.Success {
		e.roundsDecided.Increment()
		return result, err
	}

	e.roundsFailed.Increment()

	return result, err
}

// Stats returns the engine round counters together with the aggregated
// reputation statistics
func (e *Engine) Stats() data.EngineStats {
	return data.EngineStats{
		RoundsRun:     e.roundsRun.Get(),
		RoundsDecided: e.roundsDecided.Get(),
		RoundsFailed:  e.roundsFailed.Get(),
		Reputation:    e.reputationStore.Stats(),
	}
}

// FaultReport returns the recorded fault history of one agent or, for an empty
// agent id, of all tracked agents
func (e *Engine) FaultReport(agentID string) []data.FaultRecord {
	return e.reputationStore.FaultReport(agentID)
}

// SaveConfig writes the engine's policy snapshot at the configured path
func (e *Engine) SaveConfig() error {
	if len(e.configPath) == 0 {
		return ErrEmptyConfigPath
	}

	cfg := e.cfg

	return config.SaveBFTConfig(&cfg, e.configPath)
}

// LoadConfig reads back the policy snapshot stored at the configured path. The
// engine's own policy is fixed at construction; the returned snapshot is for
// the host application to inspect or use on the next start
func (e *Engine) LoadConfig() (*config.BFTConfig, error) {
	if len(e.configPath) == 0 {
		return nil, ErrEmptyConfigPath
	}

	return config.LoadBFTConfig(e.configPath)
}

// IsInterfaceNil returns true if there is no value under the interface
func (e *Engine) IsInterfaceNil() bool {
	return e == nil
}
