package autoattach

import (
	"net"
	"time"

	"github.com/mdlayher/ethernet"
	"github.com/mdlayher/lldp"
	"github.com/pkg/errors"
)

// LLDPMulticastAddress is the nearest-bridge destination every LLDP frame
// is sent to.
var LLDPMulticastAddress = net.HardwareAddr{0x01, 0x80, 0xc2, 0x00, 0x00, 0x0e}

// ShouldSend reports whether l's transmit timer has expired. The timer is
// advisory: a late poll only delays the frame.
func (aa *AutoAttach) ShouldSend(l *LLDP) bool {
	if l == nil {
		return false
	}

	aa.mu.Lock()
	defer aa.mu.Unlock()
	return !time.Now().Before(l.txDeadline)
}

// WakeTime returns the next transmit deadline, or Never for a nil
// instance.
func (aa *AutoAttach) WakeTime(l *LLDP) time.Time {
	if l == nil {
		return Never
	}

	aa.mu.Lock()
	defer aa.mu.Unlock()
	return l.txDeadline
}

// Wait returns the next wake time together with a channel that fires at
// it, for the host's poll loop.
func (aa *AutoAttach) Wait(l *LLDP) (time.Time, <-chan time.Time) {
	wake := aa.WakeTime(l)
	return wake, time.After(time.Until(wake))
}

// ComposeFrame produces the next advertisement for l's first port record:
// an Ethernet header addressed to the LLDP multicast group, the encoded
// LLDPDU, zero padding up to the minimum frame size. The transmit timer is
// re-armed for one interval.
func (aa *AutoAttach) ComposeFrame(l *LLDP, src net.HardwareAddr) ([]byte, error) {
	if l == nil {
		return nil, errors.New("no instance")
	}

	aa.mu.Lock()
	defer aa.mu.Unlock()

	if len(l.eng.Hardware) == 0 {
		return nil, errors.Errorf("%s has no port record", l.name)
	}
	hw := l.eng.Hardware[0]

	pdu, err := l.eng.Send(hw)
	if err != nil {
		return nil, err
	}

	f := &ethernet.Frame{
		Destination: LLDPMulticastAddress,
		Source:      src,
		EtherType:   lldp.EtherType,
		Payload:     pdu,
	}
	b, err := f.MarshalBinary()
	if err != nil {
		return nil, errors.Wrapf(err, "framing advertisement for %s", l.name)
	}
	if len(b) < MinimumFrameSize {
		b = append(b, make([]byte, MinimumFrameSize-len(b))...)
	}

	l.txDeadline = time.Now().Add(l.txInterval)

	return b, nil
}
