package consensus

// Message defines the data needed by the byzantine agreement engine to communicate
// between agents over the message bus inside one round
type Message struct {
	RoundID    string      `json:"roundId"`
	RoundIndex int64       `json:"roundIndex"`
	ProposalID string      `json:"proposalId"`
	MsgType    MessageType `json:"msgType"`
	AgentID    string      `json:"agentId"`
	ValueHash  string      `json:"valueHash"`
	Value      []byte      `json:"value,omitempty"`
}

// NewConsensusMessage creates a new Message object
func NewConsensusMessage(
	roundID string,
	roundIndex int64,
	proposalID string,
	msgType MessageType,
	agentID string,
	valueHash string,
	value []byte,
) *Message {
	return &Message{
		RoundID:    roundID,
		RoundIndex: roundIndex,
		ProposalID: proposalID,
		MsgType:    msgType,
		AgentID:    agentID,
		ValueHash:  valueHash,
		Value:      value,
	}
}
