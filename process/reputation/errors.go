package reputation

import "errors"

// ErrNilPersister signals that a nil snapshot persister has been provided
var ErrNilPersister = errors.New("nil persister")

// ErrNilBlacklistCache signals that a nil blacklist cache has been provided
var ErrNilBlacklistCache = errors.New("nil blacklist cache")

// ErrNilMarshalizer signals that a nil marshalizer has been provided
var ErrNilMarshalizer = errors.New("nil marshalizer")

// ErrInvalidFilePath signals that an empty snapshot file path has been provided
var ErrInvalidFilePath = errors.New("invalid file path")

// ErrInvalidThreshold signals that a reputation threshold is outside its accepted interval
var ErrInvalidThreshold = errors.New("invalid threshold")

// ErrInvalidMaxFaults signals that the maximum fault count before exclusion is not a positive value
var ErrInvalidMaxFaults = errors.New("invalid max faults before exclusion")

// ErrInvalidSuccessRecovery signals that the success recovery step is outside its accepted interval
var ErrInvalidSuccessRecovery = errors.New("invalid success recovery")

// ErrInvalidBlacklistSpan signals that the blacklist span is not a positive value
var ErrInvalidBlacklistSpan = errors.New("invalid blacklist span")

// ErrEmptyAgentID signals that an empty agent id has been provided
var ErrEmptyAgentID = errors.New("empty agent id")

// ErrInvalidFaultRecord signals that a malformed fault record has been provided
var ErrInvalidFaultRecord = errors.New("invalid fault record")
