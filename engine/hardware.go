package engine

import (
	"bytes"
	"time"

	"github.com/mdlayher/lldp"
)

// Auto Attach element types and connection types, from the Avaya
// organizational extension.
const (
	ElementTypeServer    = 1
	ElementTypeProxy     = 2
	ElementTypeTagClient = 6

	ConnTypeSingle = 1
	ConnTypeSMLT   = 2
	ConnTypeMLT    = 3
)

// maxRemotes bounds the number of remote ports learned per hardware
// record. Frames arriving past the bound count as drops.
const maxRemotes = 32

// SystemID identifies an Auto Attach element on the wire.
type SystemID struct {
	MAC      [6]byte
	ConnType byte
	SMLTID   byte
	MLTID    [2]byte
}

// IsZero reports whether the system id has never been set.
func (s SystemID) IsZero() bool {
	return s == SystemID{}
}

// Bytes returns the wire layout of the system id.
func (s SystemID) Bytes() []byte {
	b := make([]byte, 0, 10)
	b = append(b, s.MAC[:]...)
	b = append(b, s.ConnType, s.SMLTID)
	b = append(b, s.MLTID[:]...)
	return b
}

// Element is the Auto Attach element TLV content of a port.
type Element struct {
	Type     byte
	MgmtVLAN uint16
	SystemID SystemID
}

// ISIDVLANMap is one I-SID to VLAN assignment record, exported on local
// ports and learned from remote ones.
type ISIDVLANMap struct {
	ISID   uint32
	VLAN   uint16
	Status uint8
}

// LocalPort is the locally configured half of a port record.
type LocalPort struct {
	IDSubtype lldp.PortIDSubtype
	ID        []byte
	Descr     string

	Element  Element
	Mappings []*ISIDVLANMap
}

// RemotePort is a port discovered from a received LLDPDU.
type RemotePort struct {
	ChassisID    []byte
	ChassisName  string
	ChassisDescr string

	PortID []byte
	TTL    time.Duration

	Element  Element
	Mappings []*ISIDVLANMap

	// Seen is the time of the last advertisement, used for ageout.
	Seen time.Time
}

// Counters are the per-port protocol statistics.
type Counters struct {
	Tx             uint64
	Rx             uint64
	RxDiscarded    uint64
	RxUnrecognized uint64
	Ageout         uint64
	Insert         uint64
	Delete         uint64
	Drop           uint64
}

// Hardware is the protocol state of one physical port.
type Hardware struct {
	Name string
	MTU  int

	Local    LocalPort
	Remotes  []*RemotePort
	Counters Counters
}

func (hw *Hardware) findRemote(chassisID, portID []byte) *RemotePort {
	for _, rp := range hw.Remotes {
		if bytes.Equal(rp.ChassisID, chassisID) && bytes.Equal(rp.PortID, portID) {
			return rp
		}
	}
	return nil
}

func (hw *Hardware) deleteRemote(rp *RemotePort) {
	for i, r := range hw.Remotes {
		if r == rp {
			hw.Remotes = append(hw.Remotes[:i], hw.Remotes[i+1:]...)
			return
		}
	}
}

// Expire drops every remote port whose TTL lapsed before now.
func (hw *Hardware) Expire(now time.Time) {
	kept := hw.Remotes[:0]
	for _, rp := range hw.Remotes {
		if now.After(rp.Seen.Add(rp.TTL)) {
			hw.Counters.Ageout++
			hw.Counters.Delete++
			continue
		}
		kept = append(kept, rp)
	}
	hw.Remotes = kept
}
