package swarm

import (
	"fmt"

	"github.com/multiversx/mx-swarm-go/data"
)

// WeightedVote tallies the provided votes for one proposal. When weighting is
// requested, each vote weighs the voter's confidence times its reputation
// score; otherwise every vote weighs 1. Votes cast by excluded agents are
// dropped entirely and reported in the result. The winning choice is the one
// with the highest total weight, ties going to the choice observed first
func (e *Engine) WeightedVote(proposalID string, votes []data.Vote, weightedByReputation bool) (*data.VoteResult, error) {
	if len(proposalID) == 0 {
		return nil, ErrEmptyProposalID
	}
	if len(votes) == 0 {
		return nil, ErrNoVotes
	}

	for _, vote := range votes {
		if len(vote.VoterID) == 0 || len(vote.Choice) == 0 {
			return nil, fmt.Errorf("%w, VoterID and Choice should not be empty", ErrInvalidVote)
		}
	}

	tally := make(map[string]float64)
	choicesOrder := make([]string, 0)
	excludedVoters := make([]string, 0)
	excludedSet := make(map[string]struct{})

	for _, vote := range votes {
		reputation := e.reputationStore.GetReputation(vote.VoterID)
		if reputation.IsExcluded {
			_, alreadyListed := excludedSet[vote.VoterID]
			if !alreadyListed {
				excludedSet[vote.VoterID] = struct{}{}
				excludedVoters = append(excludedVoters, vote.VoterID)
			}
			continue
		}

		weight := 1.0
		if weightedByReputation {
			weight = vote.Confidence * reputation.Score
		}

		_, seen := tally[vote.Choice]
		if !seen {
			choicesOrder = append(choicesOrder, vote.Choice)
		}
		tally[vote.Choice] += weight
	}

	if len(tally) == 0 {
		return nil, ErrNoEligibleVoters
	}

	winner := choicesOrder[0]
	for _, choice := range choicesOrder[1:] {
		if tally[choice] > tally[winner] {
			winner = choice
		}
	}

	log.Debug("weighted vote tallied",
		"proposal", proposalID,
		"choice", winner,
		"total weight", tally[winner],
		"weighted", weightedByReputation,
		"excluded voters", len(excludedVoters))

	return &data.VoteResult{
		Choice:         winner,
		TotalWeight:    tally[winner],
		Tally:          tally,
		ExcludedVoters: excludedVoters,
		Weighted:       weightedByReputation,
	}, nil
}
