package dfu

// PollTimeoutExpired implements spec §4.8: it is invoked by the embedding
// platform's timer once the most recently armed poll timeout elapses.
// States not listed are no-ops, matching the DFU 1.1 requirement that
// GETSTATUS, not a timer, drives most transitions.
func (c *Class) PollTimeoutExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case DfuDnbusy:
		c.transition(DfuDnloadSync)
	case DfuManifest:
		if c.attrs.ManifestationTolerant() {
			c.transition(DfuManifestSync)
		} else {
			c.transition(DfuManifestWaitReset)
		}
	}
}
