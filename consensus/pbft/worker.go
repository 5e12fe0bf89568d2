package pbft

import (
	"fmt"

	"github.com/multiversx/mx-chain-core-go/core/check"
	"github.com/multiversx/mx-chain-core-go/marshal"

	"github.com/multiversx/mx-swarm-go/consensus"
	"github.com/multiversx/mx-swarm-go/data"
)

// ArgsWorker holds all the dependencies needed to create a worker
type ArgsWorker struct {
	ConsensusState      *ConsensusState
	Authenticator       consensus.MessageAuthenticator
	FaultProcessor      consensus.FaultProcessor
	ReputationProcessor consensus.ReputationProcessor
	Marshalizer         marshal.Marshalizer
}

// worker handles the intake of consensus traffic for one round: it verifies each
// envelope, decodes the protocol message and records the vote on the consensus
// state. It runs inline on the caller's goroutine
type worker struct {
	consensusState      *ConsensusState
	authenticator       consensus.MessageAuthenticator
	faultProcessor      consensus.FaultProcessor
	reputationProcessor consensus.ReputationProcessor
	marshalizer         marshal.Marshalizer
}

// NewWorker creates a new worker object
func NewWorker(args ArgsWorker) (*worker, error) {
	err := checkNewWorkerParams(args)
	if err != nil {
		return nil, fmt.Errorf("%w while creating an instance of pbft worker", err)
	}

	wrk := &worker{
		consensusState:      args.ConsensusState,
		authenticator:       args.Authenticator,
		faultProcessor:      args.FaultProcessor,
		reputationProcessor: args.ReputationProcessor,
		marshalizer:         args.Marshalizer,
	}

	return wrk, nil
}

func checkNewWorkerParams(args ArgsWorker) error {
	if args.ConsensusState == nil {
		return consensus.ErrNilConsensusState
	}
	if check.IfNil(args.Authenticator) {
		return consensus.ErrNilAuthenticator
	}
	if check.IfNil(args.FaultProcessor) {
		return consensus.ErrNilFaultProcessor
	}
	if check.IfNil(args.ReputationProcessor) {
		return consensus.ErrNilReputationProcessor
	}
	if check.IfNil(args.Marshalizer) {
		return consensus.ErrNilMarshalizer
	}

	return nil
}

// ProcessEnvelope verifies one inbound envelope and applies its vote on the
// consensus state. Envelopes failing the authenticity checks are dropped without
// reputation side effects since their claimed sender cannot be trusted
func (wrk *worker) ProcessEnvelope(envelope data.AuthenticatedMessage) error {
	err := wrk.authenticator.Verify(envelope)
	if err != nil {
		log.Trace("dropped consensus envelope failing verification",
			"claimed sender", envelope.Message.From,
			"error", err)
		return err
	}

	cnsMsg, err := wrk.decodeMessage(envelope.Message)
	if err != nil {
		return fmt.Errorf("%w, malformed payload: %s", consensus.ErrInvalidMessage, err.Error())
	}

	err = wrk.checkMessage(envelope.Message, cnsMsg)
	if err != nil {
		return err
	}

	return wrk.applyVote(cnsMsg)
}

func (wrk *worker) decodeMessage(message data.SwarmMessage) (*consensus.Message, error) {
	buff, err := wrk.marshalizer.Marshal(message.Payload)
	if err != nil {
		return nil, err
	}

	cnsMsg := &consensus.Message{}
	err = wrk.marshalizer.Unmarshal(cnsMsg, buff)
	if err != nil {
		return nil, err
	}

	return cnsMsg, nil
}

func (wrk *worker) checkMessage(swarmMessage data.SwarmMessage, cnsMsg *consensus.Message) error {
	if swarmMessage.MessageType != consensus.ConsensusTopic {
		return fmt.Errorf("%w, unexpected topic %s", consensus.ErrInvalidMessage, swarmMessage.MessageType)
	}
	if cnsMsg.RoundID != wrk.consensusState.RoundID() {
		return fmt.Errorf("%w, round id mismatch", consensus.ErrInvalidMessage)
	}
	if cnsMsg.ProposalID != wrk.consensusState.ProposalID() {
		return fmt.Errorf("%w, proposal id mismatch", consensus.ErrInvalidMessage)
	}
	if cnsMsg.AgentID != swarmMessage.From {
		return fmt.Errorf("%w, envelope sender and vote sender differ", consensus.ErrInvalidMessage)
	}
	if cnsMsg.MsgType != consensus.MtPrepare && cnsMsg.MsgType != consensus.MtCommit {
		return fmt.Errorf("%w, unexpected message type %s",
			consensus.ErrInvalidMessage, consensus.GetMessageTypeName(cnsMsg.MsgType))
	}
	if len(cnsMsg.ValueHash) == 0 {
		return fmt.Errorf("%w, empty value hash", consensus.ErrInvalidMessage)
	}
	if !wrk.consensusState.IsAgentInConsensusGroup(cnsMsg.AgentID) {
		return consensus.ErrAgentNotEligible
	}

	return nil
}

func (wrk *worker) applyVote(cnsMsg *consensus.Message) error {
	faultRecord, err := wrk.faultProcessor.DetectVoteInconsistency(
		cnsMsg.AgentID,
		phaseProposalID(wrk.consensusState.ProposalID(), cnsMsg.MsgType),
		cnsMsg.ValueHash,
	)
	if err != nil {
		return err
	}
	if faultRecord != nil {
		wrk.consensusState.AddFault(*faultRecord)
		errUpdate := wrk.reputationProcessor.UpdateReputation(cnsMsg.AgentID, false, faultRecord)
		if errUpdate != nil {
			log.Warn("could not apply the inconsistent vote fault",
				"agent", cnsMsg.AgentID,
				"error", errUpdate)
		}

		log.Debug("discarded changed vote, the original vote remains authoritative",
			"agent", cnsMsg.AgentID,
			"phase", consensus.GetMessageTypeName(cnsMsg.MsgType))

		return nil
	}

	return wrk.consensusState.AddVote(cnsMsg.AgentID, cnsMsg.MsgType, cnsMsg.ValueHash)
}

// phaseProposalID qualifies the proposal id with the voting phase: a changed vote
// inside one phase is a fault, while adopting the agreed hash when moving from
// prepare to commit is legitimate protocol behavior
func phaseProposalID(proposalID string, msgType consensus.MessageType) string {
	switch msgType {
	case consensus.MtPrepare:
		return proposalID + "/prepare"
	case consensus.MtCommit:
		return proposalID + "/commit"
	}

	return proposalID
}

// IsInterfaceNil returns true if there is no value under the interface
func (wrk *worker) IsInterfaceNil() bool {
	return wrk == nil
}
