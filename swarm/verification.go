package swarm

import (
	"fmt"
	"sort"

	"github.com/multiversx/mx-swarm-go/data"
)

// VerifyResults takes the per agent results reported for one proposal and
// returns the majority result by value hash as consensus truth. Every agent
// whose result differs from the majority receives one conflicting result
// fault, applied to the reputation store. Unanimous results yield no faults
func (e *Engine) VerifyResults(proposalID string, agentResults map[string]interface{}) (*data.VerificationResult, error) {
	return e.checkResults(proposalID, agentResults, 0)
}

// CrossCheckResults works like VerifyResults with a minimum agreement fraction
// on top: when the largest agreeing group holds less than the required share
// of the responses, the check reports not agreed with no consensus value, but
// the minority faults are still applied
func (e *Engine) CrossCheckResults(proposalID string, agentResults map[string]interface{}, minAgreement float64) (*data.VerificationResult, error) {
	if minAgreement < 0 || minAgreement > 1 {
		return nil, fmt.Errorf("%w, provided %v, expected a value in [0, 1]", ErrInvalidMinAgreement, minAgreement)
	}

	return e.checkResults(proposalID, agentResults, minAgreement)
}

func (e *Engine) checkResults(proposalID string, agentResults map[string]interface{}, minAgreement float64) (*data.VerificationResult, error) {
	if len(proposalID) == 0 {
		return nil, ErrEmptyProposalID
	}
	if len(agentResults) == 0 {
		return nil, ErrNoResults
	}

	// tallying iterates in sorted agent id order so majority ties resolve the
	// same way on every run
	agentIDs := make([]string, 0, len(agentResults))
	for agentID := range agentResults {
		agentIDs = append(agentIDs, agentID)
	}
	sort.Strings(agentIDs)

	hashes := make(map[string]string, len(agentIDs))
	counts := make(map[string]int)
	hashesOrder := make([]string, 0)
	for _, agentID := range agentIDs {
		hash, err := e.authenticator.HashValue(agentResults[agentID])
		if err != nil {
			return nil, fmt.Errorf("%w while hashing the result of agent %s", err, agentID)
		}

		hashes[agentID] = hash
		_, seen := counts[hash]
		if !seen {
			hashesOrder = append(hashesOrder, hash)
		}
		counts[hash]++
	}

	majorityHash := hashesOrder[0]
	for _, hash := range hashesOrder[1:] {
		if counts[hash] > counts[majorityHash] {
			majorityHash = hash
		}
	}
	agreementRatio := float64(counts[majorityHash]) / float64(len(agentIDs))

	faults := e.faultDissentingResults(proposalID, agentIDs, hashes, majorityHash)

	result := &data.VerificationResult{
		ProposalID:     proposalID,
		AgreementRatio: agreementRatio,
		Faults:         faults,
	}

	if agreementRatio < minAgreement {
		log.Debug("cross check below the required agreement",
			"proposal", proposalID,
			"ratio", agreementRatio,
			"required", minAgreement)

		return result, nil
	}

	result.Agreed = true
	result.ValueHash = majorityHash
	for _, agentID := range agentIDs {
		if hashes[agentID] == majorityHash {
			result.Value = agentResults[agentID]
			break
		}
	}

	return result, nil
}

func (e *Engine) faultDissentingResults(
	proposalID string,
	agentIDs []string,
	hashes map[string]string,
	majorityHash string,
) []data.FaultRecord {
	faults := make([]data.FaultRecord, 0)
	for _, agentID := range agentIDs {
		if hashes[agentID] == majorityHash {
			continue
		}

		record, err := e.faultDetector.DetectResultConflict(agentID, proposalID, hashes[agentID], majorityHash)
		if err != nil {
			log.Warn("could not check the dissenting result", "agent", agentID, "error", err)
			continue
		}
		if record == nil {
			continue
		}

		faults = append(faults, *record)
		errUpdate := e.reputationStore.UpdateReputation(agentID, false, record)
		if errUpdate != nil {
			log.Warn("could not apply the conflicting result fault", "agent", agentID, "error", errUpdate)
		}
	}

	return faults
}
