package data

// FaultType identifies one recognized fault pattern
type FaultType string

const (
	// FaultTimeout identifies an agent that did not respond within a round's deadline
	FaultTimeout FaultType = "TIMEOUT"
	// FaultEquivocation identifies an agent that sent different values to different recipients
	FaultEquivocation FaultType = "EQUIVOCATION"
	// FaultInconsistentVote identifies an agent that changed its vote for the same proposal
	FaultInconsistentVote FaultType = "INCONSISTENT_VOTE"
	// FaultConflictingResult identifies an agent whose reported result differs from the consensus result
	FaultConflictingResult FaultType = "CONFLICTING_RESULT"
)

// IsValid returns true for the closed set of known fault types
func (ft FaultType) IsValid() bool {
	switch ft {
	case FaultTimeout, FaultEquivocation, FaultInconsistentVote, FaultConflictingResult:
		return true
	}

	return false
}

// ValueClaim pairs one recipient with the hash of the value an agent is
// claimed to have sent to it
type ValueClaim struct {
	Recipient string `json:"recipient"`
	ValueHash string `json:"valueHash"`
}

// FaultRecord holds one detected fault, immutable once created
type FaultRecord struct {
	ID          string            `json:"id"`
	AgentID     string            `json:"agentId"`
	Type        FaultType         `json:"type"`
	Severity    float64           `json:"severity"`
	Description string            `json:"description"`
	Evidence    map[string]string `json:"evidence"`
	Timestamp   int64             `json:"timestamp"`
}

// Clone returns a deep copy of the fault record
func (fr *FaultRecord) Clone() FaultRecord {
	cloned := *fr
	cloned.Evidence = make(map[string]string, len(fr.Evidence))
	for k, v := range fr.Evidence {
		cloned.Evidence[k] = v
	}

	return cloned
}
