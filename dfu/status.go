package dfu

// GETSTATUS response layout, DFU 1.1 §6.1.2, Table 6.2: 6 bytes.
const statusResponseLength = 6

// replyStatus builds and sends the 6-byte GETSTATUS payload for the current
// state and status (spec §4.9). Called with c.mu held.
func (c *Class) replyStatus() error {
	var resp [statusResponseLength]byte

	timeout := c.app.pollTimeout()

	resp[0] = byte(c.status)
	resp[1] = timeout[0]
	resp[2] = timeout[1]
	resp[3] = timeout[2]
	resp[4] = byte(c.state)
	resp[5] = c.app.statusDescIndex()

	return c.transport.Tx(resp[:])
}

// replyState sends the 1-byte GETSTATE payload (spec §4.9).
func (c *Class) replyState() error {
	return c.transport.Tx([]byte{byte(c.state)})
}
