package dfu

import (
	"errors"
	"fmt"
)

// Sentinel protocol errors (spec §7.1).
var (
	ErrNotInterface       = errors.New("dfu: setup recipient is not this interface")
	ErrUnsupportedRequest = errors.New("dfu: unsupported or non-standard request")
)

// StallError reports that a (state, request) pair outside the DFU 1.1
// transition table (spec §4.5) caused the control endpoint to stall. State
// is the state the machine transitioned to as a result (normally
// DfuError), matching invariant I1: every unlisted pair stalls or moves to
// DfuError, never silently succeeds.
type StallError struct {
	State   State
	Request Request
}

func (e *StallError) Error() string {
	return fmt.Sprintf("dfu: %s not valid in state %s, stalling", e.Request, e.State)
}
