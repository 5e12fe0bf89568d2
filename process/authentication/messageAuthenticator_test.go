package authentication_test

import (
	"testing"
	"time"

	"github.com/multiversx/mx-chain-core-go/hashing/blake2b"
	"github.com/multiversx/mx-chain-core-go/marshal"
	"github.com/multiversx/mx-swarm-go/data"
	"github.com/multiversx/mx-swarm-go/process/authentication"
	"github.com/multiversx/mx-swarm-go/storage/cache"
	"github.com/multiversx/mx-swarm-go/testscommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxMessageAge = time.Minute

func createMockArgs() authentication.ArgsMessageAuthenticator {
	return authentication.ArgsMessageAuthenticator{
		Marshalizer:   &marshal.JsonMarshalizer{},
		Hasher:        blake2b.NewBlake2b(),
		SyncTimer:     &testscommon.SyncTimerStub{},
		NonceCache:    cache.NewTimeCache(time.Minute),
		SharedKey:     []byte("test shared key 12345678"),
		MaxMessageAge: testMaxMessageAge,
	}
}

func createTestMessage() data.SwarmMessage {
	return data.SwarmMessage{
		ID:          "msg-1",
		From:        "agent-1",
		To:          "agent-2",
		MessageType: "task_result",
		Payload: map[string]interface{}{
			"result": "output",
			"score":  float64(42),
		},
		Timestamp: time.Now().Unix(),
	}
}

func TestNewMessageAuthenticator(t *testing.T) {
	t.Parallel()

	t.Run("nil marshalizer should error", func(t *testing.T) {
		t.Parallel()

		args := createMockArgs()
		args.Marshalizer = nil

		ma, err := authentication.NewMessageAuthenticator(args)
		assert.Nil(t, ma)
		assert.Equal(t, authentication.ErrNilMarshalizer, err)
	})
	t.Run("nil hasher should error", func(t *testing.T) {
		t.Parallel()

		args := createMockArgs()
		args.Hasher = nil

		ma, err := authentication.NewMessageAuthenticator(args)
		assert.Nil(t, ma)
		assert.Equal(t, authentication.ErrNilHasher, err)
	})
	t.Run("nil sync timer should error", func(t *testing.T) {
		t.Parallel()

		args := createMockArgs()
		args.SyncTimer = nil

		ma, err := authentication.NewMessageAuthenticator(args)
		assert.Nil(t, ma)
		assert.Equal(t, authentication.ErrNilSyncTimer, err)
	})
	t.Run("nil nonce cache should error", func(t *testing.T) {
		t.Parallel()

		args := createMockArgs()
		args.NonceCache = nil

		ma, err := authentication.NewMessageAuthenticator(args)
		assert.Nil(t, ma)
		assert.Equal(t, authentication.ErrNilNonceCache, err)
	})
	t.Run("short shared key should error", func(t *testing.T) {
		t.Parallel()

		args := createMockArgs()
		args.SharedKey = []byte("short")

		ma, err := authentication.NewMessageAuthenticator(args)
		assert.Nil(t, ma)
		assert.ErrorIs(t, err, authentication.ErrInvalidSharedKey)
	})
	t.Run("invalid max message age should error", func(t *testing.T) {
		t.Parallel()

		args := createMockArgs()
		args.MaxMessageAge = 0

		ma, err := authentication.NewMessageAuthenticator(args)
		assert.Nil(t, ma)
		assert.ErrorIs(t, err, authentication.ErrInvalidMaxMessageAge)
	})
	t.Run("should work", func(t *testing.T) {
		t.Parallel()

		ma, err := authentication.NewMessageAuthenticator(createMockArgs())
		require.Nil(t, err)
		require.NotNil(t, ma)
		assert.False(t, ma.IsInterfaceNil())
	})
}

func TestMessageAuthenticator_Authenticate(t *testing.T) {
	t.Parallel()

	ma, _ := authentication.NewMessageAuthenticator(createMockArgs())
	message := createTestMessage()

	envelope, err := ma.Authenticate(message)
	require.Nil(t, err)

	assert.Equal(t, message, envelope.Message)
	assert.NotEmpty(t, envelope.Nonce)
	assert.NotEmpty(t, envelope.MAC)
	assert.InDelta(t, time.Now().Unix(), envelope.AuthTimestamp, 2)

	otherEnvelope, err := ma.Authenticate(message)
	require.Nil(t, err)
	assert.NotEqual(t, envelope.Nonce, otherEnvelope.Nonce)
}

func TestMessageAuthenticator_VerifyRoundTrip(t *testing.T) {
	t.Parallel()

	ma, _ := authentication.NewMessageAuthenticator(createMockArgs())

	envelope, err := ma.Authenticate(createTestMessage())
	require.Nil(t, err)

	err = ma.Verify(envelope)
	assert.Nil(t, err)

	err = ma.Verify(envelope)
	assert.Equal(t, authentication.ErrReplay, err)
}

func TestMessageAuthenticator_VerifyTamperedMessage(t *testing.T) {
	t.Parallel()

	ma, _ := authentication.NewMessageAuthenticator(createMockArgs())

	envelope, err := ma.Authenticate(createTestMessage())
	require.Nil(t, err)

	tampered := envelope
	tampered.Message.Payload = map[string]interface{}{
		"result": "forged output",
	}

	err = ma.Verify(tampered)
	assert.Equal(t, authentication.ErrTampered, err)

	// a failed attempt must not spend the nonce of the genuine envelope
	err = ma.Verify(envelope)
	assert.Nil(t, err)
}

func TestMessageAuthenticator_VerifyStaleMessage(t *testing.T) {
	t.Parallel()

	currentTime := time.Now()
	syncTimer := &testscommon.SyncTimerStub{
		CurrentTimeCalled: func() time.Time {
			return currentTime
		},
	}
	args := createMockArgs()
	args.SyncTimer = syncTimer

	ma, _ := authentication.NewMessageAuthenticator(args)
	envelope, err := ma.Authenticate(createTestMessage())
	require.Nil(t, err)

	currentTime = currentTime.Add(testMaxMessageAge + 2*time.Second)

	err = ma.Verify(envelope)
	assert.Equal(t, authentication.ErrStale, err)

	// staleness must win regardless of the state of the tag
	envelope.MAC = []byte("garbage")
	err = ma.Verify(envelope)
	assert.Equal(t, authentication.ErrStale, err)
}

func TestMessageAuthenticator_HashValue(t *testing.T) {
	t.Parallel()

	ma, _ := authentication.NewMessageAuthenticator(createMockArgs())

	firstValue := map[string]interface{}{"a": 1, "b": "two", "c": []int{1, 2, 3}}
	secondValue := map[string]interface{}{"c": []int{1, 2, 3}, "b": "two", "a": 1}
	thirdValue := map[string]interface{}{"a": 1, "b": "two", "c": []int{1, 2, 4}}

	firstHash, err := ma.HashValue(firstValue)
	require.Nil(t, err)
	assert.Len(t, firstHash, 16)

	secondHash, err := ma.HashValue(secondValue)
	require.Nil(t, err)
	assert.Equal(t, firstHash, secondHash)

	thirdHash, err := ma.HashValue(thirdValue)
	require.Nil(t, err)
	assert.NotEqual(t, firstHash, thirdHash)
}

func TestMessageAuthenticator_HashValueNotSerializableShouldErr(t *testing.T) {
	t.Parallel()

	ma, _ := authentication.NewMessageAuthenticator(createMockArgs())

	hash, err := ma.HashValue(make(chan int))
	assert.Empty(t, hash)
	assert.NotNil(t, err)
}
