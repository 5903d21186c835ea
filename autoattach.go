// Package autoattach manages LLDP protocol instances on bridge ports and
// the Auto Attach service mappings negotiated over them. Each enabled port
// gets one protocol instance; registered I-SID/VLAN mappings fan out to
// every instance, are advertised to the Auto Attach server over LLDP, and
// the VLAN configuration they imply is queued for the owning bridge to
// pick up.
package autoattach

import (
	"sync"
	"time"

	"github.com/extrame/autoattach/engine"
)

// Version is the build identification advertised as the system description
// when none has been configured.
const Version = "autoattach 0.9.0"

const (
	// DefaultTxInterval is the transmit interval installed by Configure.
	DefaultTxInterval = 5 * time.Second

	// DefaultTxHold is how many transmit intervals a peer keeps our
	// advertisement: the advertised TTL is TxInterval times TxHold.
	DefaultTxHold = 4

	// MinimumFrameSize is the smallest Ethernet frame ComposeFrame will
	// produce; shorter frames are zero padded.
	MinimumFrameSize = 68
)

// Never is returned by WakeTime when there is no instance to wake for, so
// callers can take a minimum over possibly missing instances.
var Never = time.Unix(1<<47, 0)

// MappingStatus is the negotiation state of one mapping as last reported
// by the Auto Attach server.
type MappingStatus uint8

const (
	StatusActive             MappingStatus = 2
	StatusRejectGeneric      MappingStatus = 3
	StatusRejectAAResource   MappingStatus = 4
	StatusRejectInvalid      MappingStatus = 6
	StatusRejectVLANResource MappingStatus = 8
	StatusRejectVLANAppIssue MappingStatus = 9
	StatusPending            MappingStatus = 255
)

// String returns the operator-facing name of the status.
func (s MappingStatus) String() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusRejectGeneric:
		return "Reject (Generic)"
	case StatusRejectAAResource:
		return "Reject (AA resources unavailable)"
	case StatusRejectInvalid:
		return "Reject (Invalid)"
	case StatusRejectVLANResource:
		return "Reject (VLAN resources unavailable)"
	case StatusRejectVLANAppIssue:
		return "Reject (Application interaction issue)"
	case StatusPending:
		return "Pending"
	default:
		return "Undefined"
	}
}

// Mapping is one I-SID/VLAN binding. Aux is an identity token owned by the
// bridge, correlating the mapping to the bridge's own configuration record;
// it is only ever compared, never inspected. ISID and VLAN are widened so
// -1 can mean unset.
type Mapping struct {
	ISID   int64
	VLAN   int64
	Aux    any
	Status MappingStatus
}

// VLANOper says what the bridge should do with a VLAN on a port.
type VLANOper uint8

const (
	OperAdd VLANOper = iota + 1
	OperRemove
)

func (o VLANOper) String() string {
	switch o {
	case OperAdd:
		return "add"
	case OperRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// VLANOperation is one queued VLAN configuration step for the bridge.
type VLANOperation struct {
	PortName string
	VLAN     uint16
	Oper     VLANOper
}

// MappingSettings carries a mapping registration.
type MappingSettings struct {
	ISID int64
	VLAN int64
}

// ChassisSettings carries the chassis identity pushed to every instance.
type ChassisSettings struct {
	SystemName        string
	SystemDescription string
}

// Config is the per-port protocol configuration. Ports that do not enable
// the protocol get no instance.
type Config struct {
	Enable bool
}

// AutoAttach owns the instance registry and the global mapping table. One
// mutex guards both and all per-instance state behind them; this is
// control-plane state, small and rarely touched, and a single lock keeps
// the cross-instance invariants trivial.
type AutoAttach struct {
	mu       sync.Mutex
	lldps    map[string]*LLDP
	mappings map[int64]*Mapping

	log Logger
}

// New returns an empty context. Contexts are independent; tests can run
// several side by side.
func New() *AutoAttach {
	return &AutoAttach{
		lldps:    make(map[string]*LLDP),
		mappings: make(map[int64]*Mapping),
		log:      defaultLogger(),
	}
}

// SetLogger replaces the context logger.
func (aa *AutoAttach) SetLogger(l Logger) {
	if l != nil {
		aa.log = l
	}
}

// insertMapping and removeMapping are the only writers of the two mapping
// indices, so the indices cannot diverge through a partial update.
func (l *LLDP) insertMapping(m *Mapping) {
	l.mappingsByISID[m.ISID] = m
	l.mappingsByAux[m.Aux] = m
}

func (l *LLDP) removeMapping(m *Mapping) {
	delete(l.mappingsByISID, m.ISID)
	delete(l.mappingsByAux, m.Aux)
}

// updateMappingOnPort exports m on one port record and queues the VLAN add
// for the bridge.
func (aa *AutoAttach) updateMappingOnPort(l *LLDP, hw *engine.Hardware, m *Mapping) {
	hw.Local.Mappings = append(hw.Local.Mappings, &engine.ISIDVLANMap{
		ISID: uint32(m.ISID),
		VLAN: uint16(m.VLAN),
	})

	// Queued on registration until the negotiation state machine exists;
	// then this belongs to the pending-to-active transition.
	l.queue = append(l.queue, VLANOperation{
		PortName: hw.Name,
		VLAN:     uint16(m.VLAN),
		Oper:     OperAdd,
	})
}

// removeMappingOnPort drops m's exported record from one port and queues
// the VLAN removal.
func (aa *AutoAttach) removeMappingOnPort(l *LLDP, hw *engine.Hardware, m *Mapping) {
	for i, lm := range hw.Local.Mappings {
		if lm.ISID == uint32(m.ISID) {
			aa.log.Infof("removing exported mapping isid=%d vlan=%d from %s", lm.ISID, lm.VLAN, hw.Name)
			hw.Local.Mappings = append(hw.Local.Mappings[:i], hw.Local.Mappings[i+1:]...)

			l.queue = append(l.queue, VLANOperation{
				PortName: hw.Name,
				VLAN:     uint16(m.VLAN),
				Oper:     OperRemove,
			})
			break
		}
	}
}
