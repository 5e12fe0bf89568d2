package pbft

import (
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/multiversx/mx-chain-core-go/core/atomic"
	"github.com/multiversx/mx-chain-core-go/core/check"
	"github.com/multiversx/mx-chain-core-go/marshal"
	logger "github.com/multiversx/mx-chain-logger-go"

	"github.com/multiversx/mx-swarm-go/config"
	"github.com/multiversx/mx-swarm-go/consensus"
	"github.com/multiversx/mx-swarm-go/consensus/round"
	"github.com/multiversx/mx-swarm-go/data"
	"github.com/multiversx/mx-swarm-go/ntp"
)

var log = logger.GetOrCreate("consensus/pbft")

// sleepTime defines the time between two consecutive drains of the message bus
const sleepTime = time.Duration(5 * time.Millisecond)

// minRequiredParticipants is the smallest group byzantine fault tolerance is defined for
const minRequiredParticipants = 4

// ArgsCoordinator holds all the dependencies needed to create a coordinator
type ArgsCoordinator struct {
	OwnAgentID          string
	Config              config.ConsensusConfig
	Authenticator       consensus.MessageAuthenticator
	MessageBus          consensus.MessageBusDriver
	ReputationProcessor consensus.ReputationProcessor
	FaultProcessor      consensus.FaultProcessor
	Marshalizer         marshal.Marshalizer
	SyncTimer           ntp.SyncTimer
}

// coordinator drives byzantine agreement rounds from proposal to decision. It holds
// no per round state of its own, so rounds for different proposals can run from
// different goroutines
type coordinator struct {
	ownAgentID          string
	timeout             time.Duration
	minParticipants     int
	authenticator       consensus.MessageAuthenticator
	messageBus          consensus.MessageBusDriver
	reputationProcessor consensus.ReputationProcessor
	faultProcessor      consensus.FaultProcessor
	marshalizer         marshal.Marshalizer
	syncTimer           ntp.SyncTimer
	roundIndex          atomic.Counter
}

// NewCoordinator creates a new coordinator object
func NewCoordinator(args ArgsCoordinator) (*coordinator, error) {
	err := checkNewCoordinatorParams(args)
	if err != nil {
		return nil, fmt.Errorf("%w while creating an instance of pbft coordinator", err)
	}

	c := &coordinator{
		ownAgentID:          args.OwnAgentID,
		timeout:             time.Duration(args.Config.TimeoutInSec) * time.Second,
		minParticipants:     args.Config.MinParticipants,
		authenticator:       args.Authenticator,
		messageBus:          args.MessageBus,
		reputationProcessor: args.ReputationProcessor,
		faultProcessor:      args.FaultProcessor,
		marshalizer:         args.Marshalizer,
		syncTimer:           args.SyncTimer,
	}

	return c, nil
}

func checkNewCoordinatorParams(args ArgsCoordinator) error {
	if len(args.OwnAgentID) == 0 {
		return consensus.ErrEmptyAgentID
	}
	if check.IfNil(args.Authenticator) {
		return consensus.ErrNilAuthenticator
	}
	if check.IfNil(args.MessageBus) {
		return consensus.ErrNilMessageBus
	}
	if check.IfNil(args.ReputationProcessor) {
		return consensus.ErrNilReputationProcessor
	}
	if check.IfNil(args.FaultProcessor) {
		return consensus.ErrNilFaultProcessor
	}
	if check.IfNil(args.Marshalizer) {
		return consensus.ErrNilMarshalizer
	}
	if check.IfNil(args.SyncTimer) {
		return consensus.ErrNilSyncTimer
	}
	if args.Config.TimeoutInSec < 1 {
		return fmt.Errorf("%w, TimeoutInSec should be at least 1", consensus.ErrInvalidTimeout)
	}
	if args.Config.MinParticipants < minRequiredParticipants {
		return fmt.Errorf("%w, MinParticipants should be at least %d",
			consensus.ErrInvalidMinParticipants, minRequiredParticipants)
	}

	return nil
}

// RunRound drives one byzantine agreement attempt for the given proposal through
// the propose, prepare and commit phases. Round failures return a populated result
// alongside the sentinel error naming the failure cause
func (c *coordinator) RunRound(proposalID string, value interface{}, participants []string) (*data.BFTResult, error) {
	if len(proposalID) == 0 {
		return nil, consensus.ErrEmptyProposalID
	}
	if value == nil {
		return nil, consensus.ErrNilValue
	}

	c.roundIndex.Increment()
	roundID := uuid.NewString()
	roundIndex := c.roundIndex.Get()

	c.faultProcessor.ResetProposal(phaseProposalID(proposalID, consensus.MtPrepare))
	c.faultProcessor.ResetProposal(phaseProposalID(proposalID, consensus.MtCommit))

	uniqueParticipants := deduplicate(participants)
	eligible := c.reputationProcessor.GetEligibleAgents(uniqueParticipants)
	excluded := difference(uniqueParticipants, eligible)

	n := len(eligible)
	if n < c.minParticipants {
		log.Debug("consensus round rejected, not enough eligible participants",
			"round", roundID,
			"proposal", proposalID,
			"eligible", n,
			"required", c.minParticipants)

		result := &data.BFTResult{
			RoundID:        roundID,
			ProposalID:     proposalID,
			Phase:          data.PhaseFailed,
			Participants:   eligible,
			ExcludedAgents: excluded,
			Faults:         make([]data.FaultRecord, 0),
			FailReason:     consensus.ErrInsufficientParticipants.Error(),
		}

		return result, consensus.ErrInsufficientParticipants
	}

	faultTolerance := (n - 1) / 3
	quorum := 2*faultTolerance + 1

	cns := c.createConsensusState(roundID, roundIndex, proposalID, eligible, quorum)

	valueHash, err := c.authenticator.HashValue(value)
	if err != nil {
		return nil, fmt.Errorf("%w while hashing the proposed value", err)
	}
	valueBuff, err := c.marshalizer.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w while marshalling the proposed value", err)
	}
	cns.SetProposedValue(valueBuff, valueHash)

	wrk, err := NewWorker(ArgsWorker{
		ConsensusState:      cns,
		Authenticator:       c.authenticator,
		FaultProcessor:      c.faultProcessor,
		ReputationProcessor: c.reputationProcessor,
		Marshalizer:         c.marshalizer,
	})
	if err != nil {
		return nil, err
	}

	roundHandler, err := round.NewRound(c.syncTimer, c.timeout)
	if err != nil {
		return nil, err
	}

	log.Debug("consensus round started",
		"round", roundID,
		"index", roundIndex,
		"proposal", proposalID,
		"participants", n,
		"fault tolerance", faultTolerance,
		"quorum", quorum)

	c.broadcast(cns, consensus.MtPropose, valueHash, valueBuff)

	return c.runPhases(cns, wrk, roundHandler, value, excluded, faultTolerance, quorum)
}

func (c *coordinator) createConsensusState(
	roundID string,
	roundIndex int64,
	proposalID string,
	eligible []string,
	quorum int,
) *ConsensusState {
	rcns := NewRoundConsensus(eligible)
	rthr := NewRoundThreshold()
	rthr.SetThreshold(consensus.MtPrepare, quorum)
	rthr.SetThreshold(consensus.MtCommit, quorum)
	rstat := NewRoundStatus()

	return NewConsensusState(roundID, roundIndex, proposalID, c.ownAgentID, rcns, rthr, rstat)
}

// runPhases drains the message bus for the round until the commit quorum is
// reached, the deadline passes or the vote maps can no longer produce a quorum.
// The deadline is checked between drains, never while blocked on the network
func (c *coordinator) runPhases(
	cns *ConsensusState,
	wrk *worker,
	roundHandler consensus.RoundHandler,
	value interface{},
	excluded []string,
	faultTolerance int,
	quorum int,
) (*data.BFTResult, error) {
	for {
		if roundHandler.RemainingTime() == 0 {
			c.faultNonResponders(cns)
			return c.failRound(cns, roundHandler, excluded, faultTolerance, quorum, consensus.ErrRoundTimeout)
		}

		envelopes, err := c.messageBus.Receive(cns.RoundID())
		if err != nil {
			log.Warn("could not drain the message bus", "round", cns.RoundID(), "error", err)
			time.Sleep(sleepTime)
			continue
		}

		if len(envelopes) == 0 {
			time.Sleep(sleepTime)
			continue
		}

		for _, envelope := range envelopes {
			errProcess := wrk.ProcessEnvelope(envelope)
			if errProcess != nil {
				log.Trace("discarded consensus envelope", "round", cns.RoundID(), "error", errProcess)
			}
		}

		c.tryAdvance(cns)

		if cns.Status(consensus.MtCommit) == PsFinished {
			return c.finishDecidedRound(cns, roundHandler, value, excluded, faultTolerance, quorum)
		}

		if c.isQuorumImpossible(cns) {
			return c.failRound(cns, roundHandler, excluded, faultTolerance, quorum, consensus.ErrNoQuorum)
		}
	}
}

// tryAdvance checks the pending phase against its threshold and moves the round
// forward: a prepare quorum fixes the agreed hash and triggers the commit phase,
// a commit quorum on the agreed hash decides the round
func (c *coordinator) tryAdvance(cns *ConsensusState) {
	if cns.Status(consensus.MtPrepare) != PsFinished {
		agreedHash, ok := cns.QuorumVoteHash(consensus.MtPrepare)
		if !ok {
			return
		}

		cns.SetStatus(consensus.MtPrepare, PsFinished)
		cns.SetAgreedHash(agreedHash)

		log.Debug("prepare quorum reached",
			"round", cns.RoundID(),
			"hash", agreedHash,
			"votes", cns.NumVotes(consensus.MtPrepare))

		c.broadcast(cns, consensus.MtCommit, agreedHash, nil)
	}

	if cns.Status(consensus.MtCommit) == PsFinished {
		return
	}

	commitHash, ok := cns.QuorumVoteHash(consensus.MtCommit)
	if !ok || commitHash != cns.AgreedHash() {
		return
	}

	cns.SetStatus(consensus.MtCommit, PsFinished)

	log.Debug("commit quorum reached",
		"round", cns.RoundID(),
		"hash", commitHash,
		"votes", cns.NumVotes(consensus.MtCommit))
}

// isQuorumImpossible returns true when every agent in the group has a counted vote
// in the pending phase and still no hash reaches the threshold. Counted votes are
// immutable, so such a phase can never recover
func (c *coordinator) isQuorumImpossible(cns *ConsensusState) bool {
	pendingPhase := consensus.MtPrepare
	if cns.Status(consensus.MtPrepare) == PsFinished {
		pendingPhase = consensus.MtCommit
	}

	if cns.NumVotes(pendingPhase) < cns.ConsensusGroupSize() {
		return false
	}

	_, hasQuorum := cns.QuorumVoteHash(pendingPhase)

	return !hasQuorum
}

func (c *coordinator) finishDecidedRound(
	cns *ConsensusState,
	roundHandler consensus.RoundHandler,
	value interface{},
	excluded []string,
	faultTolerance int,
	quorum int,
) (*data.BFTResult, error) {
	agreedHash := cns.AgreedHash()
	faulted := c.faultDissenters(cns, agreedHash)

	quorumVoters := cns.Voters(consensus.MtCommit, agreedHash)
	for _, agentID := range quorumVoters {
		_, wasFaulted := faulted[agentID]
		if wasFaulted {
			continue
		}

		errUpdate := c.reputationProcessor.UpdateReputation(agentID, true, nil)
		if errUpdate != nil {
			log.Warn("could not apply the successful round update", "agent", agentID, "error", errUpdate)
		}
	}

	finalValue := value
	if agreedHash != cns.ValueHash() {
		finalValue = nil
		log.Warn("quorum agreed on a hash differing from the proposed value",
			"round", cns.RoundID(),
			"proposed", cns.ValueHash(),
			"agreed", agreedHash)
	}

	result := &data.BFTResult{
		RoundID:          cns.RoundID(),
		ProposalID:       cns.ProposalID(),
		Success:          true,
		ConsensusReached: true,
		Value:            finalValue,
		ValueHash:        agreedHash,
		Phase:            data.PhaseDecided,
		Participants:     quorumVoters,
		ExcludedAgents:   excluded,
		FaultTolerance:   faultTolerance,
		Quorum:           quorum,
		Faults:           cns.Faults(),
		DurationSec:      c.syncTimer.CurrentTime().Sub(roundHandler.StartTime()).Seconds(),
	}

	log.Debug("consensus round decided",
		"round", cns.RoundID(),
		"proposal", cns.ProposalID(),
		"hash", agreedHash,
		"quorum voters", len(quorumVoters),
		"dissenting votes", len(faulted))

	return result, nil
}

// faultDissenters applies one conflicting result fault to every agent whose final
// recorded vote differs from the agreed hash. An agent that prepared another hash
// but committed the agreed one follows the protocol and is not faulted
func (c *coordinator) faultDissenters(cns *ConsensusState, agreedHash string) map[string]struct{} {
	faulted := make(map[string]struct{})
	for _, agentID := range cns.Dissenters(agreedHash) {
		reportedHash, ok := cns.Vote(agentID, consensus.MtCommit)
		if !ok {
			reportedHash, _ = cns.Vote(agentID, consensus.MtPrepare)
		}

		record, err := c.faultProcessor.DetectResultConflict(agentID, cns.ProposalID(), reportedHash, agreedHash)
		if err != nil {
			log.Warn("could not check the dissenting vote", "agent", agentID, "error", err)
			continue
		}
		if record == nil {
			continue
		}

		cns.AddFault(*record)
		faulted[agentID] = struct{}{}

		errUpdate := c.reputationProcessor.UpdateReputation(agentID, false, record)
		if errUpdate != nil {
			log.Warn("could not apply the conflicting result fault", "agent", agentID, "error", errUpdate)
		}
	}

	return faulted
}

func (c *coordinator) faultNonResponders(cns *ConsensusState) {
	pendingPhase := consensus.MtPrepare
	if cns.Status(consensus.MtPrepare) == PsFinished {
		pendingPhase = consensus.MtCommit
	}

	for _, agentID := range cns.NonResponders(pendingPhase) {
		record, err := c.faultProcessor.RecordTimeout(agentID, cns.ProposalID(), c.timeout)
		if err != nil {
			log.Warn("could not record the timeout fault", "agent", agentID, "error", err)
			continue
		}

		cns.AddFault(*record)

		errUpdate := c.reputationProcessor.UpdateReputation(agentID, false, record)
		if errUpdate != nil {
			log.Warn("could not apply the timeout fault", "agent", agentID, "error", errUpdate)
		}
	}
}

func (c *coordinator) failRound(
	cns *ConsensusState,
	roundHandler consensus.RoundHandler,
	excluded []string,
	faultTolerance int,
	quorum int,
	cause error,
) (*data.BFTResult, error) {
	log.Debug("consensus round failed",
		"round", cns.RoundID(),
		"proposal", cns.ProposalID(),
		"reason", cause.Error())
	log.Trace("consensus state on round failure", "dump", spew.Sdump(cns))

	result := &data.BFTResult{
		RoundID:        cns.RoundID(),
		ProposalID:     cns.ProposalID(),
		Phase:          data.PhaseFailed,
		Participants:   cns.ConsensusGroup(),
		ExcludedAgents: excluded,
		FaultTolerance: faultTolerance,
		Quorum:         quorum,
		Faults:         cns.Faults(),
		DurationSec:    c.syncTimer.CurrentTime().Sub(roundHandler.StartTime()).Seconds(),
		FailReason:     cause.Error(),
	}

	return result, cause
}

// broadcast sends one consensus message of the given type to every agent in the
// round's group. Sends are best effort: a failing recipient is logged and skipped,
// the round's deadline bounds the damage
func (c *coordinator) broadcast(cns *ConsensusState, msgType consensus.MessageType, valueHash string, value []byte) {
	for _, agentID := range cns.ConsensusGroup() {
		cnsMsg := consensus.NewConsensusMessage(
			cns.RoundID(),
			cns.RoundIndex(),
			cns.ProposalID(),
			msgType,
			c.ownAgentID,
			valueHash,
			value,
		)

		err := c.sendMessage(cnsMsg, agentID)
		if err != nil {
			log.Warn("could not send consensus message",
				"type", consensus.GetMessageTypeName(msgType),
				"to", agentID,
				"error", err)
		}
	}
}

func (c *coordinator) sendMessage(cnsMsg *consensus.Message, to string) error {
	payload, err := c.messagePayload(cnsMsg)
	if err != nil {
		return err
	}

	swarmMessage := data.SwarmMessage{
		ID:          uuid.NewString(),
		From:        c.ownAgentID,
		To:          to,
		MessageType: consensus.ConsensusTopic,
		Payload:     payload,
		Timestamp:   c.syncTimer.CurrentTime().Unix(),
	}

	envelope, err := c.authenticator.Authenticate(swarmMessage)
	if err != nil {
		return err
	}

	return c.messageBus.Send(envelope)
}

func (c *coordinator) messagePayload(cnsMsg *consensus.Message) (map[string]interface{}, error) {
	buff, err := c.marshalizer.Marshal(cnsMsg)
	if err != nil {
		return nil, err
	}

	payload := make(map[string]interface{})
	err = c.marshalizer.Unmarshal(&payload, buff)
	if err != nil {
		return nil, err
	}

	return payload, nil
}

func deduplicate(agentIDs []string) []string {
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

func difference(all []string, kept []string) []string {
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

// IsInterfaceNil returns true if there is no value under the interface
func (c *coordinator) IsInterfaceNil() bool {
	return c == nil
}
