// Package runtime implements the DFU run-time interface: the minimal,
// always-present class instance a device exposes in application mode so a
// host tool can request detach into DFU mode (DFU 1.1 §5.1).
//
// It is deliberately small and does not share the eleven-state table of
// package dfu: the run-time interface only ever sits in APP_IDLE or
// APP_DETACH, and only understands DFU_DETACH and DFU_GETSTATUS.
package runtime

import (
	"sync"

	"github.com/usbarmory/go-dfu/dfu"
)

// Requester is invoked once DFU_DETACH is accepted; the embedding firmware
// is expected to tear down the run-time USB configuration and re-enumerate
// in DFU mode.
type Requester func()

// Class is the run-time DFU class instance (spec §4.3 supplement).
type Class struct {
	mu sync.Mutex

	transport dfu.Transport
	detach    Requester
	detached  bool
}

// New constructs a run-time Class. transport completes control transfers on
// this interface; detach is called once, the first time DFU_DETACH is
// accepted.
func New(transport dfu.Transport, detach Requester) *Class {
	if transport == nil {
		panic("runtime: nil transport")
	}
	if detach == nil {
		panic("runtime: nil detach callback")
	}
	return &Class{transport: transport, detach: detach}
}

// detachRequest is DFU_DETACH's class request code (DFU 1.1 §3.1).
const detachRequest = 0x00

// getStatusRequest is DFU_GETSTATUS's class request code.
const getStatusRequest = 0x03

// Dispatch handles a control transfer addressed to the run-time interface.
// Only the SETUP stage does anything; like package dfu, it expects to be
// invoked once per control-transfer stage by the embedding USB stack.
func (c *Class) Dispatch(stage dfu.Stage, setup dfu.SetupPacket) error {
	if stage != dfu.StageSetup {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch setup.Request {
	case detachRequest:
		if !c.detached {
			c.detached = true
			c.detach()
		}
		return c.transport.Ack()
	case getStatusRequest:
		// A run-time GETSTATUS always reports OK/APP_IDLE: the
		// run-time interface has no error states of its own.
		resp := [6]byte{byte(dfu.StatusOK), 0, 0, 0, byte(dfu.AppIdle), 0}
		return c.transport.Tx(resp[:])
	default:
		return c.transport.Stall()
	}
}
