package data

// AgentReputation holds the trust state tracked for one agent
type AgentReputation struct {
	AgentID                string        `json:"agentId"`
	Score                  float64       `json:"score"`
	TotalInteractions      uint64        `json:"totalInteractions"`
	SuccessfulInteractions uint64        `json:"successfulInteractions"`
	Faults                 []FaultRecord `json:"faults"`
	IsExcluded             bool          `json:"isExcluded"`
	ExclusionReason        string        `json:"exclusionReason,omitempty"`
}

// Clone returns a deep copy of the reputation record, fault history included
func (ar *AgentReputation) Clone() AgentReputation {
	cloned := *ar
	cloned.Faults = make([]FaultRecord, 0, len(ar.Faults))
	for _, fault := range ar.Faults {
		cloned.Faults = append(cloned.Faults, fault.Clone())
	}

	return cloned
}

// ReputationStats holds aggregated values over all tracked agents
type ReputationStats struct {
	NumAgents     int               `json:"numAgents"`
	NumExcluded   int               `json:"numExcluded"`
	AverageScore  float64           `json:"averageScore"`
	TotalFaults   int               `json:"totalFaults"`
	FaultsPerType map[string]uint64 `json:"faultsPerType"`
}
