package dfu

// Transport is the narrow interface the core uses to complete a USB control
// transfer on the default control pipe. The embedding USB stack supplies it;
// the core never touches endpoint registers or DMA buffers directly.
//
// Tx queues data for the IN data stage (zero length is a valid response).
// Rx reads up to len(buf) bytes from the OUT data stage of the control
// transfer currently in progress (used only for DFU_DNLOAD, the one DFU
// request with a host-to-device data stage) and returns the number of
// bytes actually received. Ack sends a zero-length status-stage
// acknowledgement. Stall forces the control endpoint to return a protocol
// STALL.
type Transport interface {
	Tx(data []byte) error
	Rx(buf []byte) (int, error)
	Ack() error
	Stall() error
}

// DnloadDataFunc delivers a downloaded block to the application for
// programming. block is the wValue of the triggering DFU_DNLOAD setup, buf
// holds the received bytes.
//
// The real number of bytes transferred on the wire is not conveyed here:
// len(buf) reflects the requested wLength of the DNLOAD setup, not a
// transport-observed actual transfer count, matching the upstream DFU
// reference implementation this package's state machine is modeled on. An
// embedder whose Transport can report the true transferred length should
// trim buf itself before calling into the application.
type DnloadDataFunc func(block uint16, buf []byte)

// UploadDataFunc fills buf (up to len(buf) bytes) with the next chunk of the
// image to upload and returns the number of bytes actually written. A
// returned length shorter than len(buf), including zero, ends the upload.
type UploadDataFunc func(block uint16, buf []byte) uint16

// Application is the collaborator contract the core requires from the
// embedding firmware. Required callbacks must be non-nil; optional ones may
// be left nil and are skipped.
type Application struct {
	// InitAttrs returns the device's capability bitmask. Required.
	InitAttrs func() Attributes

	// FirmwareValidCheck reports whether the currently flashed image is
	// valid and the device may return to run-time mode. Queried after a
	// bus reset from active DFU states. Required.
	FirmwareValidCheck func() bool

	// RebootToRT is invoked when the state machine transitions to
	// AppIdle; the application is expected to reset the USB stack into
	// run-time mode. Required.
	RebootToRT func()

	// ReqDnloadData delivers a block to be programmed. See
	// DnloadDataFunc. Required.
	ReqDnloadData DnloadDataFunc

	// ReqUploadData fills a block to be sent to the host. See
	// UploadDataFunc. Required.
	ReqUploadData UploadDataFunc

	// DeviceDataDoneCheck confirms that all image bytes have been
	// received and programmed, queried on the zero-length DNLOAD that
	// signals end of download. Required.
	DeviceDataDoneCheck func() bool

	// StartPollTimeout arms the platform poll timer; PollTimeoutExpired
	// is expected to be invoked once it elapses. Required.
	StartPollTimeout func(timeout PollTimeout)

	// GetPollTimeout returns the poll timeout to report in the next
	// GETSTATUS response. Optional; a zero timeout is used if nil.
	GetPollTimeout func() PollTimeout

	// GetStatusDescIndex returns the iString index for GETSTATUS.
	// Optional; 0 is used if nil.
	GetStatusDescIndex func() uint8

	// Abort is called on DFU_ABORT from DfuDnloadIdle/DfuUploadIdle.
	// Optional.
	Abort func()

	// USBReset overrides the post-bus-reset state decision of §4.3 for
	// every state other than AppDetach. Optional; when nil the default
	// firmware-validity-driven transition is used.
	USBReset func(port int, state *State)

	// ReqNonstandard handles a non-standard (vendor) SETUP request.
	// Returns true if handled. Optional; unhandled non-standard
	// requests stall.
	ReqNonstandard func(port int, stage Stage, setup SetupPacket) bool
}

func (a *Application) pollTimeout() PollTimeout {
	if a.GetPollTimeout == nil {
		return PollTimeout{}
	}
	return a.GetPollTimeout()
}

func (a *Application) statusDescIndex() uint8 {
	if a.GetStatusDescIndex == nil {
		return 0
	}
	return a.GetStatusDescIndex()
}
