package pbft

import (
	"github.com/multiversx/mx-swarm-go/consensus"
)

// RoundThreshold defines the minimum agreements needed for each protocol step to
// consider the step finished. (Ex: PBFT threshold has 2*f + 1 agreements)
type RoundThreshold struct {
	threshold map[consensus.MessageType]int
}

// NewRoundThreshold creates a new RoundThreshold object
func NewRoundThreshold() *RoundThreshold {
	rthr := RoundThreshold{}
	rthr.threshold = make(map[consensus.MessageType]int)
	return &rthr
}

// Threshold returns the threshold of agreements needed in the given protocol step
func (rthr *RoundThreshold) Threshold(msgType consensus.MessageType) int {
	return rthr.threshold[msgType]
}

// SetThreshold sets the threshold of agreements needed in the given protocol step
func (rthr *RoundThreshold) SetThreshold(msgType consensus.MessageType, threshold int) {
	rthr.threshold[msgType] = threshold
}
