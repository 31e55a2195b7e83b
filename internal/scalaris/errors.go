package scalaris

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection covers transport failures talking to the node.
	ErrConnection = errors.New("scalaris: connection error")
	// ErrNotConnected is returned by every operation after Close.
	ErrNotConnected = fmt.Errorf("%w: connection closed", ErrConnection)
	// ErrNotFound is returned when a key (or subscription) does not exist.
	ErrNotFound = errors.New("scalaris: not found")
	// ErrTimeout is returned when the node timed out the request.
	ErrTimeout = errors.New("scalaris: timeout")
	// ErrAbort is returned when a write or commit was aborted.
	ErrAbort = errors.New("scalaris: abort")
	// ErrUnknown is returned for replies the client cannot interpret.
	ErrUnknown = errors.New("scalaris: unknown reply")
)

// KeyChangedError is returned by TestAndSet when the stored value differs
// from the expected old value.
type KeyChangedError struct {
	Old any
}

func (e *KeyChangedError) Error() string {
	return fmt.Sprintf("scalaris: key changed, current value %v", e.Old)
}

// AbortError is returned by a commit that failed on some keys. It matches
// ErrAbort with errors.Is.
type AbortError struct {
	Keys []string
}

func (e *AbortError) Error() string {
	if len(e.Keys) == 0 {
		return ErrAbort.Error()
	}
	return fmt.Sprintf("%s on keys %v", ErrAbort, e.Keys)
}

func (e *AbortError) Is(target error) bool { return target == ErrAbort }

// statusError maps a {"status":"fail","reason":...} reply to an error.
func statusError(reason string) error {
	switch reason {
	case "not_found":
		return ErrNotFound
	case "timeout":
		return ErrTimeout
	case "abort":
		return ErrAbort
	default:
		return fmt.Errorf("%w: reason %q", ErrUnknown, reason)
	}
}
