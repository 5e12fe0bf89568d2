package pbft_test

import (
	"testing"
	"time"

	"github.com/multiversx/mx-chain-core-go/marshal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multiversx/mx-swarm-go/config"
	"github.com/multiversx/mx-swarm-go/consensus"
	"github.com/multiversx/mx-swarm-go/consensus/pbft"
	"github.com/multiversx/mx-swarm-go/data"
	"github.com/multiversx/mx-swarm-go/testscommon"
)

// echoAgents simulates the remote side of the message bus: every propose or commit
// message sent to an agent queues that agent's vote, which the next drain returns
type echoAgents struct {
	marshalizer  marshal.Marshalizer
	queue        []data.AuthenticatedMessage
	silentAgents map[string]struct{}
	prepareVotes map[string]string
	commitVotes  map[string]string
}

func newEchoAgents() *echoAgents {
	return &echoAgents{
		marshalizer:  &marshal.JsonMarshalizer{},
		queue:        make([]data.AuthenticatedMessage, 0),
		silentAgents: make(map[string]struct{}),
		prepareVotes: make(map[string]string),
		commitVotes:  make(map[string]string),
	}
}

func (ea *echoAgents) bus() *testscommon.MessageBusStub {
	return &testscommon.MessageBusStub{
		SendCalled:    ea.handleSend,
		ReceiveCalled: ea.handleReceive,
	}
}

func (ea *echoAgents) handleSend(envelope data.AuthenticatedMessage) error {
	buff, err := ea.marshalizer.Marshal(envelope.Message.Payload)
	if err != nil {
		return err
	}

	cnsMsg := &consensus.Message{}
	err = ea.marshalizer.Unmarshal(cnsMsg, buff)
	if err != nil {
		return err
	}

	to := envelope.Message.To
	_, silent := ea.silentAgents[to]
	if silent {
		return nil
	}

	switch cnsMsg.MsgType {
	case consensus.MtPropose:
		ea.enqueueVote(to, cnsMsg, consensus.MtPrepare, ea.voteHash(ea.prepareVotes, to, cnsMsg.ValueHash))
	case consensus.MtCommit:
		ea.enqueueVote(to, cnsMsg, consensus.MtCommit, ea.voteHash(ea.commitVotes, to, cnsMsg.ValueHash))
	}

	return nil
}

func (ea *echoAgents) voteHash(overrides map[string]string, agentID string, defaultHash string) string {
	override, has := overrides[agentID]
	if has {
		return override
	}

	return defaultHash
}

func (ea *echoAgents) enqueueVote(agentID string, cnsMsg *consensus.Message, msgType consensus.MessageType, valueHash string) {
	vote := consensus.NewConsensusMessage(cnsMsg.RoundID, cnsMsg.RoundIndex, cnsMsg.ProposalID, msgType, agentID, valueHash, nil)
	buff, _ := ea.marshalizer.Marshal(vote)

	payload := make(map[string]interface{})
	_ = ea.marshalizer.Unmarshal(&payload, buff)

	ea.queue = append(ea.queue, data.AuthenticatedMessage{
		Message: data.SwarmMessage{
			ID:          cnsMsg.RoundID + "/" + agentID + "/" + consensus.GetMessageTypeName(msgType),
			From:        agentID,
			To:          "primary",
			MessageType: consensus.ConsensusTopic,
			Payload:     payload,
		},
	})
}

func (ea *echoAgents) handleReceive(_ string) ([]data.AuthenticatedMessage, error) {
	batch := ea.queue
	ea.queue = make([]data.AuthenticatedMessage, 0)

	return batch, nil
}

func createMockCoordinatorArgs() pbft.ArgsCoordinator {
	return pbft.ArgsCoordinator{
		OwnAgentID: "primary",
		Config: config.ConsensusConfig{
			TimeoutInSec:    30,
			MinParticipants: 4,
		},
		Authenticator:       &testscommon.MessageAuthenticatorStub{},
		MessageBus:          &testscommon.MessageBusStub{},
		ReputationProcessor: &testscommon.ReputationProcessorStub{},
		FaultProcessor:      &testscommon.FaultProcessorStub{},
		Marshalizer:         &marshal.JsonMarshalizer{},
		SyncTimer:           &testscommon.SyncTimerStub{},
	}
}

type reputationUpdateCall struct {
	agentID string
	success bool
	fault   *data.FaultRecord
}

func trackReputationUpdates(args *pbft.ArgsCoordinator) *[]reputationUpdateCall {
	updates := make([]reputationUpdateCall, 0)
	args.ReputationProcessor = &testscommon.ReputationProcessorStub{
		UpdateReputationCalled: func(agentID string, success bool, fault *data.FaultRecord) error {
			updates = append(updates, reputationUpdateCall{agentID: agentID, success: success, fault: fault})
			return nil
		},
	}

	return &updates
}

func TestNewCoordinator(t *testing.T) {
	t.Parallel()

	t.Run("empty own agent id should error", func(t *testing.T) {
		t.Parallel()

		args := createMockCoordinatorArgs()
		args.OwnAgentID = ""
		c, err := pbft.NewCoordinator(args)

		assert.Nil(t, c)
		assert.ErrorIs(t, err, consensus.ErrEmptyAgentID)
	})
	t.Run("nil authenticator should error", func(t *testing.T) {
		t.Parallel()

		args := createMockCoordinatorArgs()
		args.Authenticator = nil
		c, err := pbft.NewCoordinator(args)

		assert.Nil(t, c)
		assert.ErrorIs(t, err, consensus.ErrNilAuthenticator)
	})
	t.Run("nil message bus should error", func(t *testing.T) {
		t.Parallel()

		args := createMockCoordinatorArgs()
		args.MessageBus = nil
		c, err := pbft.NewCoordinator(args)

		assert.Nil(t, c)
		assert.ErrorIs(t, err, consensus.ErrNilMessageBus)
	})
	t.Run("nil reputation processor should error", func(t *testing.T) {
		t.Parallel()

		args := createMockCoordinatorArgs()
		args.ReputationProcessor = nil
		c, err := pbft.NewCoordinator(args)

		assert.Nil(t, c)
		assert.ErrorIs(t, err, consensus.ErrNilReputationProcessor)
	})
	t.Run("nil fault processor should error", func(t *testing.T) {
		t.Parallel()

		args := createMockCoordinatorArgs()
		args.FaultProcessor = nil
		c, err := pbft.NewCoordinator(args)

		assert.Nil(t, c)
		assert.ErrorIs(t, err, consensus.ErrNilFaultProcessor)
	})
	t.Run("nil marshalizer should error", func(t *testing.T) {
		t.Parallel()

		args := createMockCoordinatorArgs()
		args.Marshalizer = nil
		c, err := pbft.NewCoordinator(args)

		assert.Nil(t, c)
		assert.ErrorIs(t, err, consensus.ErrNilMarshalizer)
	})
	t.Run("nil sync timer should error", func(t *testing.T) {
		t.Parallel()

		args := createMockCoordinatorArgs()
		args.SyncTimer = nil
		c, err := pbft.NewCoordinator(args)

		assert.Nil(t, c)
		assert.ErrorIs(t, err, consensus.ErrNilSyncTimer)
	})
	t.Run("invalid timeout should error", func(t *testing.T) {
		t.Parallel()

		args := createMockCoordinatorArgs()
		args.Config.TimeoutInSec = 0
		c, err := pbft.NewCoordinator(args)

		assert.Nil(t, c)
		assert.ErrorIs(t, err, consensus.ErrInvalidTimeout)
	})
	t.Run("min participants below the bft floor should error", func(t *testing.T) {
		t.Parallel()

		args := createMockCoordinatorArgs()
		args.Config.MinParticipants = 3
		c, err := pbft.NewCoordinator(args)

		assert.Nil(t, c)
		assert.ErrorIs(t, err, consensus.ErrInvalidMinParticipants)
	})
	t.Run("should work", func(t *testing.T) {
		t.Parallel()

		c, err := pbft.NewCoordinator(createMockCoordinatorArgs())

		assert.Nil(t, err)
		assert.NotNil(t, c)
		assert.False(t, c.IsInterfaceNil())
	})
}

func TestCoordinator_RunRoundInvalidArgsShouldErr(t *testing.T) {
	t.Parallel()

	c, _ := pbft.NewCoordinator(createMockCoordinatorArgs())

	result, err := c.RunRound("", "value", []string{"agent-1"})
	assert.Nil(t, result)
	assert.Equal(t, consensus.ErrEmptyProposalID, err)

	result, err = c.RunRound("proposal-1", nil, []string{"agent-1"})
	assert.Nil(t, result)
	assert.Equal(t, consensus.ErrNilValue, err)
}

func TestCoordinator_RunRoundInsufficientParticipantsShouldFail(t *testing.T) {
	t.Parallel()

	numSends := 0

	args := createMockCoordinatorArgs()
	args.MessageBus = &testscommon.MessageBusStub{
		SendCalled: func(envelope data.AuthenticatedMessage) error {
			numSends++
			return nil
		},
	}
	args.ReputationProcessor = &testscommon.ReputationProcessorStub{
		GetEligibleAgentsCalled: func(agentIDs []string) []string {
			return []string{"agent-1", "agent-2", "agent-3"}
		},
	}
	c, _ := pbft.NewCoordinator(args)

	result, err := c.RunRound("proposal-1", "value", []string{"agent-1", "agent-2", "agent-3", "agent-4"})

	assert.ErrorIs(t, err, consensus.ErrInsufficientParticipants)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, data.PhaseFailed, result.Phase)
	assert.Equal(t, consensus.ErrInsufficientParticipants.Error(), result.FailReason)
	assert.Equal(t, []string{"agent-1", "agent-2", "agent-3"}, result.Participants)
	assert.Equal(t, []string{"agent-4"}, result.ExcludedAgents)
	assert.Empty(t, result.Faults)
	assert.Equal(t, 0, numSends)
}

func TestCoordinator_RunRoundShouldDecide(t *testing.T) {
	t.Parallel()

	agents := []string{"agent-1", "agent-2", "agent-3", "agent-4"}
	resetProposals := make([]string, 0)

	ea := newEchoAgents()
	args := createMockCoordinatorArgs()
	args.MessageBus = ea.bus()
	args.FaultProcessor = &testscommon.FaultProcessorStub{
		ResetProposalCalled: func(proposalID string) {
			resetProposals = append(resetProposals, proposalID)
		},
	}
	updates := trackReputationUpdates(&args)
	c, _ := pbft.NewCoordinator(args)

	result, err := c.RunRound("proposal-1", "payload-1", agents)

	assert.Nil(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.True(t, result.ConsensusReached)
	assert.Equal(t, data.PhaseDecided, result.Phase)
	assert.Equal(t, "proposal-1", result.ProposalID)
	assert.NotEmpty(t, result.RoundID)
	assert.Equal(t, "payload-1", result.Value)
	assert.Equal(t, "payload-1", result.ValueHash)
	assert.Equal(t, 1, result.FaultTolerance)
	assert.Equal(t, 3, result.Quorum)
	assert.Equal(t, agents, result.Participants)
	assert.Empty(t, result.ExcludedAgents)
	assert.Empty(t, result.Faults)

	assert.Equal(t, []string{"proposal-1/prepare", "proposal-1/commit"}, resetProposals)

	require.Equal(t, 4, len(*updates))
	for _, update := range *updates {
		assert.True(t, update.success)
		assert.Nil(t, update.fault)
	}
}

func TestCoordinator_RunRoundSevenParticipantsShouldDecide(t *testing.T) {
	t.Parallel()

	agents := []string{"agent-1", "agent-2", "agent-3", "agent-4", "agent-5", "agent-6", "agent-7"}

	ea := newEchoAgents()
	args := createMockCoordinatorArgs()
	args.MessageBus = ea.bus()
	c, _ := pbft.NewCoordinator(args)

	result, err := c.RunRound("proposal-1", "payload-1", agents)

	assert.Nil(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.FaultTolerance)
	assert.Equal(t, 5, result.Quorum)
	assert.Equal(t, agents, result.Participants)
}

func TestCoordinator_RunRoundShouldDecideWithOneDissenter(t *testing.T) {
	t.Parallel()

	agents := []string{"agent-1", "agent-2", "agent-3", "agent-4"}

	ea := newEchoAgents()
	ea.prepareVotes["agent-4"] = "other-hash"
	ea.commitVotes["agent-4"] = "other-hash"

	args := createMockCoordinatorArgs()
	args.MessageBus = ea.bus()
	args.FaultProcessor = &testscommon.FaultProcessorStub{
		DetectResultConflictCalled: func(agentID string, proposalID string, reportedHash string, consensusHash string) (*data.FaultRecord, error) {
			if reportedHash == consensusHash {
				return nil, nil
			}

			record := data.FaultRecord{
				ID:       "fault-" + agentID,
				AgentID:  agentID,
				Type:     data.FaultConflictingResult,
				Severity: 0.2,
				Evidence: map[string]string{
					"reported_result":  reportedHash,
					"consensus_result": consensusHash,
				},
			}

			return &record, nil
		},
	}
	updates := trackReputationUpdates(&args)
	c, _ := pbft.NewCoordinator(args)

	result, err := c.RunRound("proposal-1", "payload-1", agents)

	assert.Nil(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Equal(t, data.PhaseDecided, result.Phase)
	assert.Equal(t, "payload-1", result.ValueHash)
	assert.Equal(t, []string{"agent-1", "agent-2", "agent-3"}, result.Participants)

	require.Equal(t, 1, len(result.Faults))
	assert.Equal(t, "agent-4", result.Faults[0].AgentID)
	assert.Equal(t, data.FaultConflictingResult, result.Faults[0].Type)

	successes := make([]string, 0)
	faulted := make([]string, 0)
	for _, update := range *updates {
		if update.success {
			successes = append(successes, update.agentID)
			continue
		}
		faulted = append(faulted, update.agentID)
		assert.Equal(t, data.FaultConflictingResult, update.fault.Type)
	}
	assert.ElementsMatch(t, []string{"agent-1", "agent-2", "agent-3"}, successes)
	assert.Equal(t, []string{"agent-4"}, faulted)
}

func TestCoordinator_RunRoundTimeoutShouldFaultNonResponders(t *testing.T) {
	t.Parallel()

	agents := []string{"agent-1", "agent-2", "agent-3", "agent-4"}

	currentTime := time.Unix(1700000000, 0)
	args := createMockCoordinatorArgs()
	args.SyncTimer = &testscommon.SyncTimerStub{
		CurrentTimeCalled: func() time.Time {
			defer func() {
				currentTime = currentTime.Add(10 * time.Second)
			}()
			return currentTime
		},
	}
	args.FaultProcessor = &testscommon.FaultProcessorStub{
		RecordTimeoutCalled: func(agentID string, proposalID string, timeout time.Duration) (*data.FaultRecord, error) {
			record := data.FaultRecord{
				ID:       "timeout-" + agentID,
				AgentID:  agentID,
				Type:     data.FaultTimeout,
				Severity: 0.2,
				Evidence: map[string]string{"timeout_seconds": "30"},
			}

			return &record, nil
		},
	}
	updates := trackReputationUpdates(&args)
	c, _ := pbft.NewCoordinator(args)

	result, err := c.RunRound("proposal-1", "payload-1", agents)

	assert.ErrorIs(t, err, consensus.ErrRoundTimeout)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, data.PhaseFailed, result.Phase)
	assert.Equal(t, consensus.ErrRoundTimeout.Error(), result.FailReason)
	assert.Equal(t, agents, result.Participants)
	assert.Greater(t, result.DurationSec, float64(0))

	require.Equal(t, 4, len(result.Faults))
	for i, record := range result.Faults {
		assert.Equal(t, agents[i], record.AgentID)
		assert.Equal(t, data.FaultTimeout, record.Type)
	}

	require.Equal(t, 4, len(*updates))
	for _, update := range *updates {
		assert.False(t, update.success)
		assert.Equal(t, data.FaultTimeout, update.fault.Type)
	}
}

func TestCoordinator_RunRoundSplitVotesShouldFailWithNoQuorum(t *testing.T) {
	t.Parallel()

	agents := []string{"agent-1", "agent-2", "agent-3", "agent-4"}

	ea := newEchoAgents()
	ea.prepareVotes["agent-3"] = "other-hash"
	ea.prepareVotes["agent-4"] = "other-hash"

	args := createMockCoordinatorArgs()
	args.MessageBus = ea.bus()
	updates := trackReputationUpdates(&args)
	c, _ := pbft.NewCoordinator(args)

	result, err := c.RunRound("proposal-1", "payload-1", agents)

	assert.ErrorIs(t, err, consensus.ErrNoQuorum)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, data.PhaseFailed, result.Phase)
	assert.Equal(t, consensus.ErrNoQuorum.Error(), result.FailReason)
	assert.Empty(t, result.Faults)
	assert.Empty(t, *updates)
}

func TestCoordinator_RunRoundDeduplicatesAndReportsExcluded(t *testing.T) {
	t.Parallel()

	var requestedAgents []string

	ea := newEchoAgents()
	args := createMockCoordinatorArgs()
	args.MessageBus = ea.bus()
	args.ReputationProcessor = &testscommon.ReputationProcessorStub{
		GetEligibleAgentsCalled: func(agentIDs []string) []string {
			requestedAgents = agentIDs
			return []string{"agent-1", "agent-2", "agent-3", "agent-4"}
		},
	}
	c, _ := pbft.NewCoordinator(args)

	participants := []string{"agent-1", "agent-1", "agent-2", "", "agent-3", "agent-4", "agent-5"}
	result, err := c.RunRound("proposal-1", "payload-1", participants)

	assert.Nil(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"agent-1", "agent-2", "agent-3", "agent-4", "agent-5"}, requestedAgents)
	assert.Equal(t, []string{"agent-5"}, result.ExcludedAgents)
	assert.Equal(t, []string{"agent-1", "agent-2", "agent-3", "agent-4"}, result.Participants)
}
