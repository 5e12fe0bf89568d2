package testscommon

import "github.com/multiversx/mx-swarm-go/data"

// MessageBusStub -
type MessageBusStub struct {
	SendCalled    func(envelope data.AuthenticatedMessage) error
	ReceiveCalled func(roundID string) ([]data.AuthenticatedMessage, error)
}

// Send -
func (stub *MessageBusStub) Send(envelope data.AuthenticatedMessage) error {
	if stub.SendCalled != nil {
		return stub.SendCalled(envelope)
	}

	return nil
}

// Receive -
func (stub *MessageBusStub) Receive(roundID string) ([]data.AuthenticatedMessage, error) {
	if stub.ReceiveCalled != nil {
		return stub.ReceiveCalled(roundID)
	}

	return make([]data.AuthenticatedMessage, 0), nil
}

// IsInterfaceNil -
func (stub *MessageBusStub) IsInterfaceNil() bool {
	return stub == nil
}
