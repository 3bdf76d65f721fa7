package dfu

// beginDownload records the block bookkeeping for a DFU_DNLOAD setup stage
// and arms the machine to receive the OUT data stage (spec §4.6). Called
// with c.mu held.
//
// The data stage itself is not read here: the control transfer's DATA
// stage arrives as a separate Dispatch call, identified by the
// awaitingDnloadData flag rather than the reserved bRequest sentinel the
// DFU reference implementation this package follows uses for the same
// purpose (spec §9 design note).
func (c *Class) beginDownload(setup SetupPacket) error {
	c.lastBlockNum = setup.Value
	c.lastTransferLen = setup.Length
	c.blkTransferInProc = true
	c.awaitingDnloadData = true
	c.transition(DfuDnloadSync)
	return nil
}

// handleDownloadDataStage completes a DFU_DNLOAD transfer once its OUT data
// stage has arrived (spec §4.6): reads the block off the wire, hands it to
// the application, arms the poll timer and clears block bookkeeping.
//
// len(buf) passed to ReqDnloadData reflects the requested wLength of the
// triggering setup stage, not transport.Rx's actual return count — see
// DnloadDataFunc.
func (c *Class) handleDownloadDataStage(_ SetupPacket) error {
	n := int(c.lastTransferLen)
	if n > len(c.buf) {
		n = len(c.buf)
	}

	if _, err := c.transport.Rx(c.buf[:n]); err != nil {
		c.transport.Stall()
		return err
	}

	c.app.StartPollTimeout(c.app.pollTimeout())
	c.app.ReqDnloadData(c.lastBlockNum, c.buf[:n])

	c.blkTransferInProc = false
	c.lastBlockNum = 0
	c.lastTransferLen = 0

	return nil
}
