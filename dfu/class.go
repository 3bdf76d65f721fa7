package dfu

import (
	"errors"
	"io"
	"log"
	"sync"
)

// DefaultTransferSize is the transfer buffer size used when Config.
// TransferSize is zero.
const DefaultTransferSize = 2048

// Config holds the fixed, board-init-time settings of a Class (spec §3:
// these are immutable for the lifetime of the interface).
type Config struct {
	// TransferSize sizes the shared upload/download transfer buffer.
	// Defaults to DefaultTransferSize.
	TransferSize int
	// Port is the USB port number passed to the non-standard request
	// callback. BusReset does not use it; it takes its port as an argument.
	Port int
	// Logger receives diagnostic messages. Defaults to a discarded
	// logger, matching the verbosity knob of the teacher's example
	// package (log.SetOutput(ioutil.Discard) when not verbose).
	Logger *log.Logger
}

// Class is the single, process-wide DFU interface state record (spec §3).
// Exactly one instance exists per device; all mutation happens through
// Dispatch, BusReset, PollTimeoutExpired and SetStatus, serialized by the
// embedding USB stack's control-transfer serialization (spec §5).
type Class struct {
	mu sync.Mutex

	transport Transport
	app       *Application
	log       *log.Logger
	port      int

	state  State
	status Status
	attrs  Attributes

	lastBlockNum       uint16
	lastTransferLen    uint16
	blkTransferInProc  bool
	awaitingDnloadData bool

	buf []byte
}

// New constructs a Class bound to transport and app, and runs init (spec
// §4.1): state becomes AppDetach, status OK, block bookkeeping cleared, and
// attrs are cached from app.InitAttrs.
//
// app must have all required callbacks of Application set; New panics
// otherwise, matching the teacher's habit of panicking on invalid static
// configuration (soc/imx6/usb's USB.Init: "panic(\"invalid USB controller
// instance\")" on a missing required field).
func New(transport Transport, app *Application, cfg Config) *Class {
	if transport == nil {
		panic("dfu: nil transport")
	}
	requireCallbacks(app)

	size := cfg.TransferSize
	if size == 0 {
		size = DefaultTransferSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	c := &Class{
		transport: transport,
		app:       app,
		log:       logger,
		port:      cfg.Port,
		buf:       make([]byte, size),
	}

	c.init()

	return c
}

func requireCallbacks(app *Application) {
	switch {
	case app == nil:
		panic("dfu: nil application")
	case app.InitAttrs == nil:
		panic("dfu: Application.InitAttrs is required")
	case app.FirmwareValidCheck == nil:
		panic("dfu: Application.FirmwareValidCheck is required")
	case app.RebootToRT == nil:
		panic("dfu: Application.RebootToRT is required")
	case app.ReqDnloadData == nil:
		panic("dfu: Application.ReqDnloadData is required")
	case app.ReqUploadData == nil:
		panic("dfu: Application.ReqUploadData is required")
	case app.DeviceDataDoneCheck == nil:
		panic("dfu: Application.DeviceDataDoneCheck is required")
	case app.StartPollTimeout == nil:
		panic("dfu: Application.StartPollTimeout is required")
	}
}

// init implements spec §4.1.
func (c *Class) init() {
	c.state = AppDetach
	c.status = StatusOK
	c.clearBlockBookkeeping()
	c.attrs = c.app.InitAttrs()
}

func (c *Class) clearBlockBookkeeping() {
	c.lastBlockNum = 0
	c.lastTransferLen = 0
	c.blkTransferInProc = false
	c.awaitingDnloadData = false
}

// State returns the current DFU state.
func (c *Class) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status returns the current DFU status code.
func (c *Class) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// SetStatus lets an application callback report a failure (spec §7.2):
// "an application callback reports failure by setting the status field ...
// before returning." The next GETSTATUS surfaces it; state is left
// untouched, it is the caller's responsibility to also drive a transition
// (usually to DfuError) if the protocol requires one.
func (c *Class) SetStatus(status Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

func (c *Class) transition(to State) {
	if c.state != to {
		c.log.Printf("dfu: %s -> %s", c.state, to)
	}
	c.state = to
}

// toError transitions to DfuError without touching status (spec §3
// invariant: "Transitioning to DFU_ERROR never mutates status") and stalls
// the current request. A transport failure while stalling is joined into
// the returned error rather than discarded, consistent with how Tx/Ack
// failures are propagated from the state handlers.
func (c *Class) toError(req Request) error {
	c.transition(DfuError)
	return joinErr(c.transport.Stall(), &StallError{State: DfuError, Request: req})
}

// stall stalls the current request without a state transition, used by the
// DFU_MANIFEST*/DfuUploadIdle/DfuError "stall without state change" policy
// (spec §4.5 table footnote, DFU 1.1 §6).
func (c *Class) stall(req Request) error {
	return joinErr(c.transport.Stall(), &StallError{State: c.state, Request: req})
}

// joinErr attaches a transport failure observed while stalling to err
// (normally a *StallError or a sentinel protocol error) instead of
// discarding it, so a caller that only checks errors.As(err, *StallError)
// still gets the protocol reason while one that cares about the transport
// failure can still find it via errors.Is/errors.As on the joined error.
func joinErr(transportErr, err error) error {
	if transportErr == nil {
		return err
	}
	return errors.Join(err, transportErr)
}
