package wiimote

import (
	"errors"
	"fmt"
)

// ErrDeviceUnavailable is returned by RequestStatus when no controller is
// attached. Retrying after the controller reconnects is expected to succeed.
var ErrDeviceUnavailable = errors.New("no controller attached")

// TransportError wraps a failed outbound send with the underlying transport
// error.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
