package swarm

import (
	"time"

	"github.com/multiversx/mx-chain-core-go/core/check"
	"github.com/multiversx/mx-chain-core-go/hashing/blake2b"
	"github.com/multiversx/mx-chain-core-go/marshal"

	"github.com/multiversx/mx-swarm-go/config"
	"github.com/multiversx/mx-swarm-go/consensus"
	"github.com/multiversx/mx-swarm-go/consensus/pbft"
	"github.com/multiversx/mx-swarm-go/ntp"
	"github.com/multiversx/mx-swarm-go/process/authentication"
	"github.com/multiversx/mx-swarm-go/process/fault"
	"github.com/multiversx/mx-swarm-go/process/reputation"
	"github.com/multiversx/mx-swarm-go/storage/cache"
)

const defaultVotesCacheSize = 10000

// ArgsDefaultEngine holds the primitives needed to assemble the default
// component stack behind an engine
type ArgsDefaultEngine struct {
	OwnAgentID     string
	SharedKey      []byte
	ReputationPath string
	ConfigPath     string
	MessageBus     consensus.MessageBusDriver
	Registry       AgentRegistry
	SyncTimer      ntp.SyncTimer
	Config         config.BFTConfig
}

// NewDefaultEngine assembles the default component stack and returns the
// engine over it: json serialization with blake2b hashing, HMAC message
// authentication with a time cached nonce registry, a file backed reputation
// store mirrored into a blacklist cache, the fault detector and the PBFT-lite
// coordinator, all sharing the provided bus, registry and sync timer. Hosts
// needing other components can assemble them directly through NewEngine
func NewDefaultEngine(args ArgsDefaultEngine) (*Engine, error) {
	if check.IfNil(args.MessageBus) {
		return nil, ErrNilMessageBus
	}
	if check.IfNil(args.SyncTimer) {
		return nil, ErrNilSyncTimer
	}

	marshalizer := &marshal.JsonMarshalizer{}
	hasher := blake2b.NewBlake2b()

	nonceCache := cache.NewTimeCache(time.Duration(args.Config.Authentication.NonceCacheSpanInSec) * time.Second)
	authenticator, err := authentication.NewMessageAuthenticator(authentication.ArgsMessageAuthenticator{
		Marshalizer:   marshalizer,
		Hasher:        hasher,
		SyncTimer:     args.SyncTimer,
		NonceCache:    nonceCache,
		SharedKey:     args.SharedKey,
		MaxMessageAge: time.Duration(args.Config.Authentication.MaxMessageAgeInSec) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	persister, err := reputation.NewFilePersister(marshalizer, args.ReputationPath)
	if err != nil {
		return nil, err
	}

	blacklistCache := cache.NewTimeCache(time.Duration(args.Config.Reputation.BlacklistSpanInSec) * time.Second)
	store, err := reputation.NewReputationStore(reputation.ArgsReputationStore{
		Config:         args.Config.Reputation,
		Persister:      persister,
		BlacklistCache: blacklistCache,
	})
	if err != nil {
		return nil, err
	}

	votesCache, err := cache.NewLRUCache(defaultVotesCacheSize)
	if err != nil {
		return nil, err
	}

	detector, err := fault.NewDetector(fault.ArgsDetector{
		VotesCache: votesCache,
		SyncTimer:  args.SyncTimer,
		Policy:     args.Config.FaultPolicy,
	})
	if err != nil {
		return nil, err
	}

	coordinator, err := pbft.NewCoordinator(pbft.ArgsCoordinator{
		OwnAgentID:          args.OwnAgentID,
		Config:              args.Config.Consensus,
		Authenticator:       authenticator,
		MessageBus:          args.MessageBus,
		ReputationProcessor: store,
		FaultProcessor:      detector,
		Marshalizer:         marshalizer,
		SyncTimer:           args.SyncTimer,
	})
	if err != nil {
		return nil, err
	}

	return NewEngine(ArgsEngine{
		Authenticator:   authenticator,
		ReputationStore: store,
		FaultDetector:   detector,
		Coordinator:     coordinator,
		Registry:        args.Registry,
		Config:          args.Config,
		ConfigPath:      args.ConfigPath,
	})
}
