package swarm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multiversx/mx-swarm-go/data"
	"github.com/multiversx/mx-swarm-go/swarm"
	"github.com/multiversx/mx-swarm-go/testscommon"
)

func createVotingEngine(scores map[string]float64, excluded map[string]struct{}) *swarm.Engine {
	args := createMockEngineArgs()
	args.ReputationStore = &testscommon.ReputationProcessorStub{
		GetReputationCalled: func(agentID string) data.AgentReputation {
			_, isExcluded := excluded[agentID]
			score, hasScore := scores[agentID]
			if !hasScore {
				score = 1.0
			}

			return data.AgentReputation{
				AgentID:    agentID,
				Score:      score,
				IsExcluded: isExcluded,
			}
		},
	}
	engine, _ := swarm.NewEngine(args)

	return engine
}

func TestEngine_WeightedVoteInvalidArgs(t *testing.T) {
	t.Parallel()

	engine := createVotingEngine(nil, nil)
	votes := []data.Vote{{VoterID: "agent-1", Choice: "approve", Confidence: 1}}

	result, err := engine.WeightedVote("", votes, true)
	assert.Nil(t, result)
	assert.Equal(t, swarm.ErrEmptyProposalID, err)

	result, err = engine.WeightedVote("proposal-1", nil, true)
	assert.Nil(t, result)
	assert.Equal(t, swarm.ErrNoVotes, err)

	result, err = engine.WeightedVote("proposal-1", []data.Vote{{Choice: "approve"}}, true)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, swarm.ErrInvalidVote)

	result, err = engine.WeightedVote("proposal-1", []data.Vote{{VoterID: "agent-1"}}, true)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, swarm.ErrInvalidVote)
}

func TestEngine_WeightedVoteUnweightedCountsEveryVoteOnce(t *testing.T) {
	t.Parallel()

	engine := createVotingEngine(map[string]float64{"agent-1": 0.1}, nil)
	votes := []data.Vote{
		{VoterID: "agent-1", Choice: "approve", Confidence: 0.2},
		{VoterID: "agent-2", Choice: "approve", Confidence: 0.3},
		{VoterID: "agent-3", Choice: "reject", Confidence: 1},
	}

	result, err := engine.WeightedVote("proposal-1", votes, false)

	assert.Nil(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "approve", result.Choice)
	assert.Equal(t, 2.0, result.TotalWeight)
	assert.Equal(t, map[string]float64{"approve": 2.0, "reject": 1.0}, result.Tally)
	assert.Empty(t, result.ExcludedVoters)
	assert.False(t, result.Weighted)
}

func TestEngine_WeightedVoteHighReputationPairWinsTiedCount(t *testing.T) {
	t.Parallel()

	scores := map[string]float64{
		"agent-1": 0.9,
		"agent-2": 0.9,
		"agent-3": 0.2,
		"agent-4": 0.3,
	}
	engine := createVotingEngine(scores, nil)
	votes := []data.Vote{
		{VoterID: "agent-3", Choice: "reject", Confidence: 1},
		{VoterID: "agent-1", Choice: "approve", Confidence: 1},
		{VoterID: "agent-4", Choice: "reject", Confidence: 1},
		{VoterID: "agent-2", Choice: "approve", Confidence: 1},
	}

	result, err := engine.WeightedVote("proposal-1", votes, true)

	assert.Nil(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "approve", result.Choice)
	assert.InDelta(t, 1.8, result.TotalWeight, 1e-9)
	assert.InDelta(t, 0.5, result.Tally["reject"], 1e-9)
	assert.True(t, result.Weighted)
}

func TestEngine_WeightedVoteConfidenceScalesTheWeight(t *testing.T) {
	t.Parallel()

	engine := createVotingEngine(map[string]float64{"agent-1": 1.0, "agent-2": 1.0}, nil)
	votes := []data.Vote{
		{VoterID: "agent-1", Choice: "approve", Confidence: 0.4},
		{VoterID: "agent-2", Choice: "reject", Confidence: 0.9},
	}

	result, err := engine.WeightedVote("proposal-1", votes, true)

	assert.Nil(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "reject", result.Choice)
	assert.InDelta(t, 0.9, result.TotalWeight, 1e-9)
}

func TestEngine_WeightedVoteDropsExcludedVoters(t *testing.T) {
	t.Parallel()

	excluded := map[string]struct{}{"agent-3": {}}
	engine := createVotingEngine(nil, excluded)
	votes := []data.Vote{
		{VoterID: "agent-1", Choice: "approve", Confidence: 1},
		{VoterID: "agent-3", Choice: "reject", Confidence: 1},
		{VoterID: "agent-2", Choice: "approve", Confidence: 1},
		{VoterID: "agent-3", Choice: "reject", Confidence: 1},
	}

	result, err := engine.WeightedVote("proposal-1", votes, false)

	assert.Nil(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "approve", result.Choice)
	assert.Equal(t, []string{"agent-3"}, result.ExcludedVoters)
	_, rejectTallied := result.Tally["reject"]
	assert.False(t, rejectTallied)
}

func TestEngine_WeightedVoteAllVotersExcludedShouldErr(t *testing.T) {
	t.Parallel()

	excluded := map[string]struct{}{"agent-1": {}, "agent-2": {}}
	engine := createVotingEngine(nil, excluded)
	votes := []data.Vote{
		{VoterID: "agent-1", Choice: "approve", Confidence: 1},
		{VoterID: "agent-2", Choice: "reject", Confidence: 1},
	}

	result, err := engine.WeightedVote("proposal-1", votes, true)

	assert.Nil(t, result)
	assert.Equal(t, swarm.ErrNoEligibleVoters, err)
}

func TestEngine_WeightedVoteTieGoesToFirstObservedChoice(t *testing.T) {
	t.Parallel()

	engine := createVotingEngine(nil, nil)
	votes := []data.Vote{
		{VoterID: "agent-1", Choice: "reject", Confidence: 1},
		{VoterID: "agent-2", Choice: "approve", Confidence: 1},
	}

	result, err := engine.WeightedVote("proposal-1", votes, false)

	assert.Nil(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "reject", result.Choice)
	assert.Equal(t, 1.0, result.TotalWeight)
}
