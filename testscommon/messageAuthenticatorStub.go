package testscommon

import (
	"fmt"

	"github.com/multiversx/mx-swarm-go/data"
)

// MessageAuthenticatorStub -
type MessageAuthenticatorStub struct {
	AuthenticateCalled func(message data.SwarmMessage) (data.AuthenticatedMessage, error)
	VerifyCalled       func(envelope data.AuthenticatedMessage) error
	HashValueCalled    func(value interface{}) (string, error)
}

// Authenticate -
func (stub *MessageAuthenticatorStub) Authenticate(message data.SwarmMessage) (data.AuthenticatedMessage, error) {
	if stub.AuthenticateCalled != nil {
		return stub.AuthenticateCalled(message)
	}

	return data.AuthenticatedMessage{Message: message}, nil
}

// Verify -
func (stub *MessageAuthenticatorStub) Verify(envelope data.AuthenticatedMessage) error {
	if stub.VerifyCalled != nil {
		return stub.VerifyCalled(envelope)
	}

	return nil
}

// HashValue -
func (stub *MessageAuthenticatorStub) HashValue(value interface{}) (string, error) {
	if stub.HashValueCalled != nil {
		return stub.HashValueCalled(value)
	}

	return fmt.Sprintf("%v", value), nil
}

// IsInterfaceNil -
func (stub *MessageAuthenticatorStub) IsInterfaceNil() bool {
	return stub == nil
}
