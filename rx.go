package autoattach

import (
	"time"

	"github.com/mdlayher/ethernet"
	"github.com/mdlayher/lldp"
)

// ShouldProcess reports whether a frame with the given EtherType belongs
// to this module. The host checks it before routing a frame here.
func ShouldProcess(etherType ethernet.EtherType) bool {
	return etherType == lldp.EtherType
}

// ProcessFrame decodes one received frame against l's first port record
// and folds any peer-reported mapping status back into the local
// mappings. Undecodable frames only move the engine's counters.
func (aa *AutoAttach) ProcessFrame(l *LLDP, frame []byte) {
	if l == nil {
		return
	}

	aa.mu.Lock()
	defer aa.mu.Unlock()

	if len(l.eng.Hardware) == 0 {
		return
	}
	if err := l.eng.Recv(l.eng.Hardware[0], frame, time.Now()); err != nil {
		aa.log.Infof("discarded frame on %s: %v", l.name, err)
		return
	}

	aa.refreshPeerStatusLocked(l)
}

// refreshPeerStatusLocked overwrites local mapping status with whatever
// the remote ports last reported. Reports for unknown I-SIDs are logged
// and dropped; a report never creates a mapping.
func (aa *AutoAttach) refreshPeerStatusLocked(l *LLDP) {
	for _, hw := range l.eng.Hardware {
		for _, rp := range hw.Remotes {
			for _, im := range rp.Mappings {
				m, ok := l.mappingsByISID[int64(im.ISID)]
				if !ok {
					aa.log.Warnf("no mapping for I-SID=%d on %s", im.ISID, l.name)
					continue
				}
				aa.log.Infof("setting status for I-SID=%d to %d", im.ISID, im.Status)
				m.Status = MappingStatus(im.Status)
			}
		}
	}
}

// AgeOut sweeps l's remote ports, dropping those whose TTL lapsed. The
// daemon calls it from the transmit loop.
func (aa *AutoAttach) AgeOut(l *LLDP) {
	if l == nil {
		return
	}

	aa.mu.Lock()
	defer aa.mu.Unlock()

	now := time.Now()
	for _, hw := range l.eng.Hardware {
		hw.Expire(now)
	}
}
