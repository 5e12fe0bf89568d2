package data

// ConsensusPhase identifies the stage a PBFT-lite round has reached
type ConsensusPhase string

const (
	// PhasePropose is the distribution stage of the candidate value
	PhasePropose ConsensusPhase = "PROPOSE"
	// PhasePrepare is the value-hash acknowledgement stage
	PhasePrepare ConsensusPhase = "PREPARE"
	// PhaseCommit is the prepare-quorum confirmation stage
	PhaseCommit ConsensusPhase = "COMMIT"
	// PhaseDecided marks a round that reached commit quorum
	PhaseDecided ConsensusPhase = "DECIDED"
	// PhaseFailed marks a round that timed out or could not reach quorum
	PhaseFailed ConsensusPhase = "FAILED"
)

// BFTResult holds the outcome of one PBFT-lite consensus round
type BFTResult struct {
	RoundID          string         `json:"roundId"`
	ProposalID       string         `json:"proposalId"`
	Success          bool           `json:"success"`
	ConsensusReached bool           `json:"consensusReached"`
	Value            interface{}    `json:"value,omitempty"`
	ValueHash        string         `json:"valueHash,omitempty"`
	Phase            ConsensusPhase `json:"phase"`
	Participants     []string       `json:"participants"`
	ExcludedAgents   []string       `json:"excludedAgents"`
	FaultTolerance   int            `json:"faultTolerance"`
	Quorum           int            `json:"quorum"`
	Faults           []FaultRecord  `json:"faults"`
	DurationSec      float64        `json:"durationSec"`
	FailReason       string         `json:"failReason,omitempty"`
}

// Vote holds one cast vote together with the voter's confidence
type Vote struct {
	VoterID    string  `json:"voterId"`
	Choice     string  `json:"choice"`
	Confidence float64 `json:"confidence"`
}

// VoteResult holds the outcome of a reputation-weighted vote
type VoteResult struct {
	Choice         string             `json:"choice"`
	TotalWeight    float64            `json:"totalWeight"`
	Tally          map[string]float64 `json:"tally"`
	ExcludedVoters []string           `json:"excludedVoters"`
	Weighted       bool               `json:"weighted"`
}

// CandidateScore pairs one delegation candidate with its combined score
type CandidateScore struct {
	AgentID string  `json:"agentId"`
	Score   float64 `json:"score"`
}

// DelegationResult holds the outcome of a reputation-ranked delegate selection
type DelegationResult struct {
	TaskID             string           `json:"taskId"`
	DelegateID         string           `json:"delegateId"`
	Score              float64          `json:"score"`
	Ranking            []CandidateScore `json:"ranking"`
	ExcludedCandidates []string         `json:"excludedCandidates"`
}

// VerificationResult holds the outcome of a majority result check
type VerificationResult struct {
	ProposalID     string        `json:"proposalId"`
	Agreed         bool          `json:"agreed"`
	Value          interface{}   `json:"value,omitempty"`
	ValueHash      string        `json:"valueHash,omitempty"`
	AgreementRatio float64       `json:"agreementRatio"`
	Faults         []FaultRecord `json:"faults"`
}

// EngineStats holds process-wide counters exposed by the engine
type EngineStats struct {
	RoundsRun     int64           `json:"roundsRun"`
	RoundsDecided int64           `json:"roundsDecided"`
	RoundsFailed  int64           `json:"roundsFailed"`
	Reputation    ReputationStats `json:"reputation"`
}
