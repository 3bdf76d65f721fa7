package dfu

// beginUpload enters DfuUploadIdle and performs the first upload step (spec
// §4.5 DFU_IDLE/UPLOAD row). Called with c.mu held.
func (c *Class) beginUpload(setup SetupPacket) error {
	c.transition(DfuUploadIdle)
	return c.uploadStep(setup)
}

// uploadStep services one DFU_UPLOAD request: fills the shared buffer via
// the application callback and transmits it. A short (including zero)
// result ends the upload, per spec §4.7. Called with c.mu held.
func (c *Class) uploadStep(setup SetupPacket) error {
	n := int(setup.Length)
	if n > len(c.buf) {
		n = len(c.buf)
	}

	got := c.app.ReqUploadData(setup.Value, c.buf[:n])

	if err := c.transport.Tx(c.buf[:got]); err != nil {
		return err
	}

	if int(got) < n {
		c.transition(DfuIdle)
	}

	return nil
}
