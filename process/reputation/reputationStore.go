package reputation

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-swarm-go/config"
	"github.com/multiversx/mx-swarm-go/data"
	"github.com/multiversx/mx-swarm-go/storage"
)

var log = logger.GetOrCreate("process/reputation")

const maxScore = 1.0
const minScore = 0.0
const initialScore = maxScore

// ArgsReputationStore defines the arguments needed to create a new reputation store
type ArgsReputationStore struct {
	Config         config.ReputationConfig
	Persister      Persister
	BlacklistCache storage.TimeCacher
}

// reputationStore owns the mapping from agent id to trust score and fault
// history. The score is derived from the fault history and the interaction
// counters, never set directly; the exclusion state is recomputed after every
// update and can only be cleared through RehabilitateAgent. Excluded agents
// are mirrored into a time cache so host applications can consult the
// blacklist without reaching into the store.
type reputationStore struct {
	exclusionThreshold        float64
	rehabilitationThreshold   float64
	minReputationForConsensus float64
	maxFaultsBeforeExclusion  int
	successRecovery           float64
	blacklistSpan             time.Duration

	mut     sync.RWMutex
	records map[string]*data.AgentReputation

	mutHandlers sync.RWMutex
	handlers    []func(record data.FaultRecord)

	persister      Persister
	blacklistCache storage.TimeCacher
}

// NewReputationStore creates a new reputation store and reloads the persisted
// snapshot, if one exists
func NewReputationStore(args ArgsReputationStore) (*reputationStore, error) {
	err := checkNewReputationStoreParams(args)
	if err != nil {
		return nil, fmt.Errorf("%w while creating an instance of reputationStore", err)
	}

	store := &reputationStore{
		exclusionThreshold:        args.Config.ExclusionThreshold,
		rehabilitationThreshold:   args.Config.RehabilitationThreshold,
		minReputationForConsensus: args.Config.MinReputationForConsensus,
		maxFaultsBeforeExclusion:  args.Config.MaxFaultsBeforeExclusion,
		successRecovery:           args.Config.SuccessRecovery,
		blacklistSpan:             time.Duration(args.Config.BlacklistSpanInSec) * time.Second,
		records:                   make(map[string]*data.AgentReputation),
		persister:                 args.Persister,
		blacklistCache:            args.BlacklistCache,
	}

	records, err := store.persister.Load()
	if err != nil {
		return nil, fmt.Errorf("%w while loading the persisted reputation snapshot", err)
	}
	for agentID, record := range records {
		if record == nil {
			continue
		}

		store.records[agentID] = record
	}

	log.Debug("reputationStore: created", "loaded agents", len(store.records))

	return store, nil
}

func checkNewReputationStoreParams(args ArgsReputationStore) error {
	if check.IfNil(args.Persister) {
		return ErrNilPersister
	}
	if check.IfNil(args.BlacklistCache) {
		return ErrNilBlacklistCache
	}

	cfg := args.Config
	if cfg.ExclusionThreshold < 0 || cfg.ExclusionThreshold >= 1 {
		return fmt.Errorf("%w, ExclusionThreshold should be in interval [0, 1)", ErrInvalidThreshold)
	}
	if cfg.RehabilitationThreshold <= cfg.ExclusionThreshold || cfg.RehabilitationThreshold > 1 {
		return fmt.Errorf("%w, RehabilitationThreshold should be in interval (ExclusionThreshold, 1]", ErrInvalidThreshold)
	}
	if cfg.MinReputationForConsensus < 0 || cfg.MinReputationForConsensus > 1 {
		return fmt.Errorf("%w, MinReputationForConsensus should be in interval [0, 1]", ErrInvalidThreshold)
	}
	if cfg.MaxFaultsBeforeExclusion < 1 {
		return fmt.Errorf("%w, should be a positive value", ErrInvalidMaxFaults)
	}
	if cfg.SuccessRecovery <= 0 || cfg.SuccessRecovery >= 1 {
		return fmt.Errorf("%w, should be in interval (0, 1)", ErrInvalidSuccessRecovery)
	}
	if cfg.BlacklistSpanInSec < 1 {
		return fmt.Errorf("%w, should be a positive value", ErrInvalidBlacklistSpan)
	}

	return nil
}

// GetReputation returns the reputation record tracked for the provided agent,
// lazily creating a fresh one (score 1.0, no interactions, not excluded) on
// first observation. The returned record is a deep copy.
func (rs *reputationStore) GetReputation(agentID string) data.AgentReputation {
	rs.mut.Lock()
	defer rs.mut.Unlock()

	return rs.getOrCreateNoLock(agentID).Clone()
}

// UpdateReputation records the outcome of one interaction with an agent. The
// interaction counter always advances; a successful interaction recovers the
// score by the configured step and a provided fault record is appended to the
// history with its severity subtracted from the score, both clamped to [0, 1].
// The exclusion state is recomputed after applying, the snapshot is persisted
// and the registered fault handlers are notified for every appended record.
func (rs *reputationStore) UpdateReputation(agentID string, success bool, faultRecord *data.FaultRecord) error {
	if len(agentID) == 0 {
		return ErrEmptyAgentID
	}
	err := checkFaultRecord(agentID, faultRecord)
	if err != nil {
		return err
	}

	rs.mut.Lock()
	record := rs.getOrCreateNoLock(agentID)
	record.TotalInteractions++
	if success {
		record.SuccessfulInteractions++
		record.Score = math.Min(maxScore, record.Score+rs.successRecovery)
	}
	if faultRecord != nil {
		record.Faults = append(record.Faults, faultRecord.Clone())
		record.Score = math.Max(minScore, record.Score-faultRecord.Severity)
	}
	rs.updateExclusionNoLock(record)
	errPersist := rs.persistNoLock()
	rs.mut.Unlock()

	if faultRecord != nil {
		rs.notifyFaultHandlers(faultRecord.Clone())
	}

	return errPersist
}

// RehabilitateAgent clears the exclusion state of the provided agent, but only
// when its score has already recovered above the rehabilitation threshold.
// There is no direct score reset: the score is rebuilt through successful
// interactions first.
func (rs *reputationStore) RehabilitateAgent(agentID string) bool {
	rs.mut.Lock()
	defer rs.mut.Unlock()

	record := rs.getOrCreateNoLock(agentID)
	if record.Score <= rs.rehabilitationThreshold {
		return false
	}
	if !record.IsExcluded {
		return true
	}

	record.IsExcluded = false
	record.ExclusionReason = ""

	log.Debug("reputationStore: agent rehabilitated",
		"agent", agentID,
		"score", fmt.Sprintf("%.2f", record.Score),
	)

	_ = rs.persistNoLock()

	return true
}

// GetEligibleAgents filters the provided agent set down to the agents allowed
// to take part in consensus: not excluded and with a score at or above the
// configured minimum. Input order is preserved.
func (rs *reputationStore) GetEligibleAgents(agentIDs []string) []string {
	rs.mut.Lock()
	defer rs.mut.Unlock()

	eligible := make([]string, 0, len(agentIDs))
	for _, agentID := range agentIDs {
		if len(agentID) == 0 {
			continue
		}

		record := rs.getOrCreateNoLock(agentID)
		if record.IsExcluded {
			continue
		}
		if record.Score < rs.minReputationForConsensus {
			continue
		}

		eligible = append(eligible, agentID)
	}

	return eligible
}

// RegisterFaultHandler registers a handler invoked synchronously for every new
// fault record. A panicking handler is recovered and never aborts the update.
func (rs *reputationStore) RegisterFaultHandler(handler func(record data.FaultRecord)) {
	if handler == nil {
		return
	}

	rs.mutHandlers.Lock()
	rs.handlers = append(rs.handlers, handler)
	rs.mutHandlers.Unlock()
}

// FaultReport returns the recorded fault history of one agent or, when an
// empty agent id is provided, of all tracked agents in agent id order
func (rs *reputationStore) FaultReport(agentID string) []data.FaultRecord {
	rs.mut.RLock()
	defer rs.mut.RUnlock()

	if len(agentID) > 0 {
		record, found := rs.records[agentID]
		if !found {
			return make([]data.FaultRecord, 0)
		}

		return cloneFaults(record.Faults)
	}

	agentIDs := make([]string, 0, len(rs.records))
	for id := range rs.records {
		agentIDs = append(agentIDs, id)
	}
	sort.Strings(agentIDs)

	report := make([]data.FaultRecord, 0)
	for _, id := range agentIDs {
		report = append(report, cloneFaults(rs.records[id].Faults)...)
	}

	return report
}

// Stats aggregates the tracked population: agent and exclusion counts, the
// average score and the fault totals per type
func (rs *reputationStore) Stats() data.ReputationStats {
	rs.mut.RLock()
	defer rs.mut.RUnlock()

	stats := data.ReputationStats{
		NumAgents:     len(rs.records),
		FaultsPerType: make(map[string]uint64),
	}

	sumScores := 0.0
	for _, record := range rs.records {
		sumScores += record.Score
		if record.IsExcluded {
			stats.NumExcluded++
		}

		stats.TotalFaults += len(record.Faults)
		for _, faultRecord := range record.Faults {
			stats.FaultsPerType[string(faultRecord.Type)]++
		}
	}
	if stats.NumAgents > 0 {
		stats.AverageScore = sumScores / float64(stats.NumAgents)
	}

	return stats
}

func checkFaultRecord(agentID string, record *data.FaultRecord) error {
	if record == nil {
		return nil
	}

	if !record.Type.IsValid() {
		return fmt.Errorf("%w, unknown fault type %s", ErrInvalidFaultRecord, record.Type)
	}
	if record.Severity <= 0 || record.Severity > 1 {
		return fmt.Errorf("%w, severity should be in interval (0, 1]", ErrInvalidFaultRecord)
	}
	if record.AgentID != agentID {
		return fmt.Errorf("%w, fault agent id %s does not match %s", ErrInvalidFaultRecord, record.AgentID, agentID)
	}

	return nil
}

func (rs *reputationStore) getOrCreateNoLock(agentID string) *data.AgentReputation {
	record, found := rs.records[agentID]
	if found {
		return record
	}

	record = &data.AgentReputation{
		AgentID: agentID,
		Score:   initialScore,
		Faults:  make([]data.FaultRecord, 0),
	}
	rs.records[agentID] = record

	return record
}

func (rs *reputationStore) updateExclusionNoLock(record *data.AgentReputation) {
	shouldExclude := record.Score <= rs.exclusionThreshold ||
		len(record.Faults) > rs.maxFaultsBeforeExclusion
	if !shouldExclude || record.IsExcluded {
		return
	}

	record.IsExcluded = true
	record.ExclusionReason = rs.exclusionReason(record)

	log.Debug("reputationStore: agent excluded",
		"agent", record.AgentID,
		"score", fmt.Sprintf("%.2f", record.Score),
		"faults", len(record.Faults),
		"reason", record.ExclusionReason,
	)

	err := rs.blacklistCache.Upsert(record.AgentID, rs.blacklistSpan)
	if err != nil {
		log.Warn("reputationStore: cannot add agent to the blacklist cache",
			"agent", record.AgentID,
			"error", err,
		)
	}
}

func (rs *reputationStore) exclusionReason(record *data.AgentReputation) string {
	if record.Score <= rs.exclusionThreshold {
		return fmt.Sprintf("score %.2f at or below the exclusion threshold %.2f",
			record.Score, rs.exclusionThreshold)
	}

	return fmt.Sprintf("fault count %d above the configured maximum of %d",
		len(record.Faults), rs.maxFaultsBeforeExclusion)
}

func (rs *reputationStore) persistNoLock() error {
	err := rs.persister.Save(rs.records)
	if err != nil {
		log.Warn("reputationStore: cannot persist the reputation snapshot", "error", err)
		return fmt.Errorf("%w while persisting the reputation snapshot", err)
	}

	return nil
}

func (rs *reputationStore) notifyFaultHandlers(record data.FaultRecord) {
	rs.mutHandlers.RLock()
	handlers := make([]func(record data.FaultRecord), len(rs.handlers))
	copy(handlers, rs.handlers)
	rs.mutHandlers.RUnlock()

	for _, handler := range handlers {
		rs.callHandlerSafely(handler, record)
	}
}

func (rs *reputationStore) callHandlerSafely(handler func(record data.FaultRecord), record data.FaultRecord) {
	defer func() {
		r := recover()
		if r != nil {
			log.Warn("reputationStore: recovered panic in a fault handler", "reason", r)
		}
	}()

	handler(record.Clone())
}

func cloneFaults(faults []data.FaultRecord) []data.FaultRecord {
	cloned := make([]data.FaultRecord, 0, len(faults))
	for _, faultRecord := range faults {
		cloned = append(cloned, faultRecord.Clone())
	}

	return cloned
}

// IsInterfaceNil returns true if there is no value under the interface
func (rs *reputationStore) IsInterfaceNil() bool {
	return rs == nil
}
