package dfu

// BusReset implements the post-USB-bus-reset transition of spec §4.3. It is
// invoked by the embedding USB stack whenever the host resets the bus,
// independent of any control transfer in progress.
func (c *Class) BusReset(port int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.state == AppDetach:
		c.transition(DfuIdle)
	case c.app.USBReset != nil:
		c.app.USBReset(port, &c.state)
	case c.state == DfuError || isUnknownState(c.state):
		c.transition(AppIdle)
	default:
		if c.app.FirmwareValidCheck() {
			c.transition(AppIdle)
		} else {
			c.transition(DfuError)
		}
	}

	if c.state == AppIdle {
		c.app.RebootToRT()
	}

	c.status = StatusOK
	c.attrs = c.app.InitAttrs()
	c.clearBlockBookkeeping()
}

func isUnknownState(s State) bool {
	_, ok := stateNames[s]
	return !ok
}
