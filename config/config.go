package config

// BFTConfig holds the process-wide engine policy, loaded once and immutable during a run
type BFTConfig struct {
	Reputation     ReputationConfig
	FaultPolicy    FaultPolicyConfig
	Consensus      ConsensusConfig
	Authentication AuthenticationConfig
	NTP            NTPConfig
}

// ReputationConfig holds the score thresholds and recovery policy for tracked agents
type ReputationConfig struct {
	ExclusionThreshold        float64
	RehabilitationThreshold   float64
	MinReputationForConsensus float64
	MaxFaultsBeforeExclusion  int
	SuccessRecovery           float64
	BlacklistSpanInSec        int
}

// FaultPolicyConfig holds the severity applied for each recognized fault type
type FaultPolicyConfig struct {
	TimeoutPenalty           float64
	EquivocationPenalty      float64
	InconsistentVotePenalty  float64
	ConflictingResultPenalty float64
}

// ConsensusConfig holds the PBFT-lite round tunables
type ConsensusConfig struct {
	TimeoutInSec    int
	MinParticipants int
}

// AuthenticationConfig holds the message authenticator tunables
type AuthenticationConfig struct {
	MaxMessageAgeInSec  int
	NonceCacheSpanInSec int
}

// NTPConfig holds the time synchronization tunables
type NTPConfig struct {
	Hosts                 []string
	SyncPeriodInSec       int
	TimeoutInMilliseconds int
	Version               int
}
