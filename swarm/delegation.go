package swarm

import (
	"fmt"
	"sort"

	"github.com/multiversx/mx-swarm-go/data"
)

// Delegate selects the agent a task should be handed to. Candidates are
// filtered to the eligible subset and ranked by reputation score; when
// capabilities are required, the registry's match factor multiplies into the
// score. The ranking is deterministic: score descending, agent id ascending on
// equal scores. Delegation fails when no candidate is eligible, any fallback
// being the caller's responsibility
func (e *Engine) Delegate(taskID string, requiredCapabilities []string, candidates []string) (*data.DelegationResult, error) {
	if len(taskID) == 0 {
		return nil, ErrEmptyTaskID
	}

	uniqueCandidates := uniqueAgentIDs(candidates)
	if len(uniqueCandidates) == 0 {
		return nil, ErrNoCandidates
	}

	eligible := e.reputationStore.GetEligibleAgents(uniqueCandidates)
	excluded := missingAgentIDs(uniqueCandidates, eligible)
	if len(eligible) == 0 {
		return nil, ErrNoEligibleCandidates
	}

	ranking := make([]data.CandidateScore, 0, len(eligible))
	for _, agentID := range eligible {
		score := e.reputationStore.GetReputation(agentID).Score
		if len(requiredCapabilities) > 0 {
			factor, err := e.registry.CapabilityFactor(agentID, requiredCapabilities)
			if err != nil {
				return nil, fmt.Errorf("%w while matching the capabilities of agent %s", err, agentID)
			}

			score = score * factor
		}

		ranking = append(ranking, data.CandidateScore{
			AgentID: agentID,
			Score:   score,
		})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].Score == ranking[j].Score {
			return ranking[i].AgentID < ranking[j].AgentID
		}

		return ranking[i].Score > ranking[j].Score
	})

	delegate := ranking[0]
	log.Debug("task delegated",
		"task", taskID,
		"delegate", delegate.AgentID,
		"score", delegate.Score,
		"candidates", len(uniqueCandidates),
		"excluded", len(excluded))

	return &data.DelegationResult{
		TaskID:             taskID,
		DelegateID:         delegate.AgentID,
		Score:              delegate.Score,
		Ranking:            ranking,
		ExcludedCandidates: excluded,
	}, nil
}

func uniqueAgentIDs(agentIDs []string) []string {
	seen := make(map[string]struct{}, len(agentIDs))
	unique := make([]string, 0, len(agentIDs))
	for _, agentID := range agentIDs {
		if len(agentID) == 0 {
			continue
		}
		_, exists := seen[agentID]
		if exists {
			continue
		}
		seen[agentID] = struct{}{}
		unique = append(unique, agentID)
	}

	return unique
}

func missingAgentIDs(all []string, kept []string) []string {
	keptSet := make(map[string]struct{}, len(kept))
	for _, agentID := range kept {
		keptSet[agentID] = struct{}{}
	}

	missing := make([]string, 0)
	for _, agentID := range all {
		_, exists := keptSet[agentID]
		if !exists {
			missing = append(missing, agentID)
		}
	}

	return missing
}
