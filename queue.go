package autoattach

// DrainVLANOperations atomically takes every queued VLAN operation across
// all instances. Order is FIFO within a port; the order in which instances
// are visited is unspecified.
func (aa *AutoAttach) DrainVLANOperations() []VLANOperation {
	aa.mu.Lock()
	defer aa.mu.Unlock()

	var out []VLANOperation
	for _, l := range aa.lldps {
		out = append(out, l.queue...)
		l.queue = nil
	}
	return out
}

// PendingOperations returns the number of queued VLAN operations across
// all instances, so a poller can skip the drain when there is nothing to
// do.
func (aa *AutoAttach) PendingOperations() int {
	aa.mu.Lock()
	defer aa.mu.Unlock()

	n := 0
	for _, l := range aa.lldps {
		n += len(l.queue)
	}
	return n
}
