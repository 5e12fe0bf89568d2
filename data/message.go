package data

// SwarmMessage defines one application-level message exchanged between agents
type SwarmMessage struct {
	ID          string                 `json:"id"`
	From        string                 `json:"from"`
	To          string                 `json:"to"`
	MessageType string                 `json:"messageType"`
	Payload     map[string]interface{} `json:"payload"`
	Timestamp   int64                  `json:"timestamp"`
}

// AuthenticatedMessage is the envelope around one SwarmMessage carrying the
// integrity tag, the single-use nonce and the authentication timestamp
type AuthenticatedMessage struct {
	Message       SwarmMessage `json:"message"`
	MAC           []byte       `json:"mac"`
	Nonce         string       `json:"nonce"`
	AuthTimestamp int64        `json:"authTimestamp"`
}
