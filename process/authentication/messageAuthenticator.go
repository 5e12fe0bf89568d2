package authentication

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gowebpki/jcs"
	"github.com/multiversx/mx-chain-core-go/core/check"
	"github.com/multiversx/mx-chain-core-go/hashing"
	"github.com/multiversx/mx-chain-core-go/marshal"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-swarm-go/data"
	"github.com/multiversx/mx-swarm-go/ntp"
	"github.com/multiversx/mx-swarm-go/storage"
)

var log = logger.GetOrCreate("process/authentication")

const (
	minSharedKeyLen = 16
	valueHashLen    = 16
)

// ArgsMessageAuthenticator defines the arguments needed to create a new message authenticator
type ArgsMessageAuthenticator struct {
	Marshalizer   marshal.Marshalizer
	Hasher        hashing.Hasher
	SyncTimer     ntp.SyncTimer
	NonceCache    storage.TimeCacher
	SharedKey     []byte
	MaxMessageAge time.Duration
}

type messageAuthenticator struct {
	marshalizer   marshal.Marshalizer
	hasher        hashing.Hasher
	syncTimer     ntp.SyncTimer
	nonceCache    storage.TimeCacher
	sharedKey     []byte
	maxMessageAge time.Duration
}

type macPayload struct {
	Message   data.SwarmMessage `json:"message"`
	Nonce     string            `json:"nonce"`
	Timestamp int64             `json:"timestamp"`
}

// NewMessageAuthenticator will create a new message authenticator component
func NewMessageAuthenticator(args ArgsMessageAuthenticator) (*messageAuthenticator, error) {
	err := checkArgs(args)
	if err != nil {
		return nil, err
	}

	sharedKey := make([]byte, len(args.SharedKey))
	copy(sharedKey, args.SharedKey)

	return &messageAuthenticator{
		marshalizer:   args.Marshalizer,
		hasher:        args.Hasher,
		syncTimer:     args.SyncTimer,
		nonceCache:    args.NonceCache,
		sharedKey:     sharedKey,
		maxMessageAge: args.MaxMessageAge,
	}, nil
}

func checkArgs(args ArgsMessageAuthenticator) error {
	if check.IfNil(args.Marshalizer) {
		return ErrNilMarshalizer
	}
	if check.IfNil(args.Hasher) {
		return ErrNilHasher
	}
	if check.IfNil(args.SyncTimer) {
		return ErrNilSyncTimer
	}
	if check.IfNil(args.NonceCache) {
		return ErrNilNonceCache
	}
	if len(args.SharedKey) < minSharedKeyLen {
		return fmt.Errorf("%w, provided %d bytes, minimum required %d",
			ErrInvalidSharedKey, len(args.SharedKey), minSharedKeyLen)
	}
	if args.MaxMessageAge <= 0 {
		return fmt.Errorf("%w, provided %v", ErrInvalidMaxMessageAge, args.MaxMessageAge)
	}

	return nil
}

// Authenticate wraps the provided message in an envelope carrying a fresh nonce,
// the current timestamp and the keyed integrity tag over their canonical form
func (ma *messageAuthenticator) Authenticate(message data.SwarmMessage) (data.AuthenticatedMessage, error) {
	nonce := uuid.NewString()
	timestamp := ma.syncTimer.CurrentTime().Unix()

	mac, err := ma.computeMAC(message, nonce, timestamp)
	if err != nil {
		return data.AuthenticatedMessage{}, err
	}

	return data.AuthenticatedMessage{
		Message:       message,
		MAC:           mac,
		Nonce:         nonce,
		AuthTimestamp: timestamp,
	}, nil
}

// Verify recomputes the integrity tag of the provided envelope and classifies the
// failure, if any. The staleness window is checked first so an expired envelope is
// reported as stale no matter the state of its tag, and the nonce is spent only
// when every other check passed.
func (ma *messageAuthenticator) Verify(envelope data.AuthenticatedMessage) error {
	now := ma.syncTimer.CurrentTime().Unix()
	maxAgeSeconds := int64(ma.maxMessageAge.Seconds())
	if now-envelope.AuthTimestamp > maxAgeSeconds {
		log.Trace("message verification failed",
			"reason", "stale",
			"message id", envelope.Message.ID,
			"age in seconds", now-envelope.AuthTimestamp)
		return ErrStale
	}

	expectedMAC, err := ma.computeMAC(envelope.Message, envelope.Nonce, envelope.AuthTimestamp)
	if err != nil {
		return err
	}
	if !hmac.Equal(expectedMAC, envelope.MAC) {
		log.Trace("message verification failed",
			"reason", "tampered",
			"message id", envelope.Message.ID)
		return ErrTampered
	}

	ma.nonceCache.Sweep()
	if ma.nonceCache.Has(envelope.Nonce) {
		log.Trace("message verification failed",
			"reason", "replay",
			"message id", envelope.Message.ID,
			"nonce", envelope.Nonce)
		return ErrReplay
	}

	err = ma.nonceCache.Add(envelope.Nonce)
	if err != nil {
		return err
	}

	return nil
}

// HashValue computes a short deterministic digest of an arbitrary structured value,
// suitable for equality comparison between agents, not for security purposes
func (ma *messageAuthenticator) HashValue(value interface{}) (string, error) {
	canonical, err := ma.canonicalize(value)
	if err != nil {
		return "", err
	}

	digest := hex.EncodeToString(ma.hasher.Compute(string(canonical)))

	return digest[:valueHashLen], nil
}

func (ma *messageAuthenticator) computeMAC(message data.SwarmMessage, nonce string, timestamp int64) ([]byte, error) {
	canonical, err := ma.canonicalize(macPayload{
		Message:   message,
		Nonce:     nonce,
		Timestamp: timestamp,
	})
	if err != nil {
		return nil, err
	}

	mac := hmac.New(sha256.New, ma.sharedKey)
	_, err = mac.Write(canonical)
	if err != nil {
		return nil, err
	}

	return mac.Sum(nil), nil
}

func (ma *messageAuthenticator) canonicalize(value interface{}) ([]byte, error) {
	buff, err := ma.marshalizer.Marshal(value)
	if err != nil {
		return nil, err
	}

	return jcs.Transform(buff)
}

// IsInterfaceNil returns true if there is no value under the interface
func (ma *messageAuthenticator) IsInterfaceNil() bool {
	return ma == nil
}
