package dfu

// handleClassRequest implements the DFU class-request transition table
// (spec §4.5). Called with c.mu held, for the SETUP stage of a class
// request addressed to this interface.
//
// Every (state, request) pair not explicitly handled below falls through
// to toError or stall, satisfying invariant I1: an unlisted pair always
// stalls or moves to DfuError, it never silently succeeds.
func (c *Class) handleClassRequest(req Request, setup SetupPacket) error {
	switch c.state {
	case DfuIdle:
		return c.handleIdle(req, setup)
	case DfuDnloadSync:
		return c.handleDnloadSync(req)
	case DfuDnbusy:
		// Any request while the programming operation is in flight
		// stalls (spec §4.5, DFU_DNBUSY row: "any request -> DFU_ERROR").
		return c.toError(req)
	case DfuDnloadIdle:
		return c.handleDnloadIdle(req, setup)
	case DfuManifestSync:
		return c.handleManifestSync(req)
	case DfuManifest, DfuManifestWaitReset:
		// Manifestation in progress, or waiting for the host-issued
		// reset it requires: stall without a state change.
		return c.stall(req)
	case DfuUploadIdle:
		return c.handleUploadIdle(req, setup)
	case DfuError:
		return c.handleError(req)
	default:
		// AppIdle/AppDetach/unknown: unreachable under correct
		// bookkeeping, handled defensively (spec §7).
		return c.toError(req)
	}
}

func (c *Class) handleIdle(req Request, setup SetupPacket) error {
	switch req {
	case RequestDnload:
		if setup.Length == 0 || !c.attrs.CanDownload() {
			return c.toError(req)
		}
		return c.beginDownload(setup)
	case RequestUpload:
		if !c.attrs.CanUpload() {
			return c.toError(req)
		}
		return c.beginUpload(setup)
	case RequestGetStatus:
		return c.replyStatus()
	case RequestGetState:
		return c.replyState()
	case RequestAbort:
		return c.transport.Ack()
	default:
		return c.toError(req)
	}
}

func (c *Class) handleDnloadSync(req Request) error {
	switch req {
	case RequestGetStatus:
		if c.blkTransferInProc {
			c.transition(DfuDnbusy)
		} else {
			c.transition(DfuDnloadIdle)
		}
		return c.replyStatus()
	case RequestGetState:
		return c.replyState()
	default:
		return c.toError(req)
	}
}

func (c *Class) handleDnloadIdle(req Request, setup SetupPacket) error {
	switch req {
	case RequestDnload:
		if setup.Length > 0 {
			if !c.attrs.CanDownload() {
				return c.toError(req)
			}
			return c.beginDownload(setup)
		}
		// Zero-length DNLOAD: the host is signalling end of download.
		if !c.app.DeviceDataDoneCheck() {
			return c.toError(req)
		}
		c.transition(DfuManifestSync)
		return c.transport.Ack()
	case RequestGetStatus:
		return c.replyStatus()
	case RequestGetState:
		return c.replyState()
	case RequestAbort:
		if c.app.Abort != nil {
			c.app.Abort()
		}
		c.clearBlockBookkeeping()
		c.transition(DfuIdle)
		return c.transport.Ack()
	default:
		return c.toError(req)
	}
}

func (c *Class) handleManifestSync(req Request) error {
	switch req {
	case RequestGetStatus:
		if !c.attrs.ManifestationTolerant() {
			c.transition(DfuManifest)
			return c.replyStatus()
		}
		// The status reply reflects the pre-transition state
		// (DfuManifestSync); only after it is sent do we decide
		// whether manifestation succeeded, so a dfu-util-style host
		// polling GETSTATUS in a loop observes the expected sequence
		// (spec §9 open question, resolved in DESIGN.md).
		err := c.replyStatus()
		if c.app.FirmwareValidCheck() {
			c.transition(DfuIdle)
		} else {
			c.transition(DfuError)
		}
		return err
	case RequestGetState:
		return c.replyState()
	default:
		return c.toError(req)
	}
}

func (c *Class) handleUploadIdle(req Request, setup SetupPacket) error {
	switch req {
	case RequestUpload:
		return c.uploadStep(setup)
	case RequestGetStatus:
		return c.replyStatus()
	case RequestGetState:
		return c.replyState()
	case RequestAbort:
		if c.app.Abort != nil {
			c.app.Abort()
		}
		c.transition(DfuIdle)
		return c.transport.Ack()
	default:
		// Stall without a state change: an upload in progress is not
		// a protocol error, it is simply not interrupted by anything
		// but ABORT (spec §4.5 table footnote).
		return c.stall(req)
	}
}

func (c *Class) handleError(req Request) error {
	switch req {
	case RequestGetStatus:
		return c.replyStatus()
	case RequestGetState:
		return c.replyState()
	case RequestClrStatus:
		c.status = StatusOK
		c.clearBlockBookkeeping()
		c.transition(DfuIdle)
		return c.transport.Ack()
	default:
		return c.stall(req)
	}
}
