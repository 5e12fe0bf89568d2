package consensus

// MessageType specifies what type of consensus message was received
type MessageType int

const (
	// MtUnknown defines ID of a message that has unknown data inside
	MtUnknown MessageType = iota
	// MtPropose defines ID of a message that carries the proposed value
	MtPropose
	// MtPrepare defines ID of a message that carries a prepare vote
	MtPrepare
	// MtCommit defines ID of a message that carries a commit vote
	MtCommit
)

// GetMessageTypeName returns the name of the message from a given message ID
func GetMessageTypeName(messageType MessageType) string {
	switch messageType {
	case MtPropose:
		return "(PROPOSE)"
	case MtPrepare:
		return "(PREPARE)"
	case MtCommit:
		return "(COMMIT)"
	case MtUnknown:
		return "(UNKNOWN)"
	default:
		return "Undefined message type"
	}
}

// ConsensusTopic is the message type set on the transport envelopes exchanged during consensus rounds
const ConsensusTopic = "consensus"
