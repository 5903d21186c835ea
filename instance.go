package autoattach

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/mdlayher/lldp"

	"github.com/extrame/autoattach/engine"
)

// Netdev is the part of a network device the module needs to build an
// instance.
type Netdev interface {
	Name() string
	HardwareAddr() net.HardwareAddr
}

// LLDP is the protocol instance of one bridge port: its engine state, the
// mappings installed on it and the VLAN operations awaiting bridge pickup.
// All fields are guarded by the owning context's mutex; the reference count
// is atomic but structural teardown still happens under the lock.
type LLDP struct {
	name string
	eng  *engine.Engine

	mappingsByISID map[int64]*Mapping
	mappingsByAux  map[any]*Mapping

	queue []VLANOperation

	txDeadline time.Time
	txInterval time.Duration

	refCnt int32
}

// Name returns the port name the instance is keyed by.
func (l *LLDP) Name() string {
	return l.name
}

func newInstance(name string) *LLDP {
	return &LLDP{
		name: name,
		eng: engine.New(engine.Config{
			TxInterval: DefaultTxInterval,
			TxHold:     DefaultTxHold,
		}),
		mappingsByISID: make(map[int64]*Mapping),
		mappingsByAux:  make(map[any]*Mapping),
		txInterval:     DefaultTxInterval,
		refCnt:         1,
	}
}

func buildChassis(mac net.HardwareAddr) *engine.Chassis {
	return &engine.Chassis{
		IDSubtype:    lldp.ChassisIDSubtypeMACAddress,
		ID:           append([]byte(nil), mac...),
		CapAvailable: engine.CapBridge,
		CapEnabled:   engine.CapBridge,
	}
}

func buildPort(l *LLDP, name string, mtu int, mac net.HardwareAddr) *engine.Hardware {
	hw := l.eng.AllocHardware(name, mtu)
	hw.Local.IDSubtype = lldp.PortIDSubtypeInterfaceName
	hw.Local.ID = []byte(name)

	hw.Local.Element.Type = engine.ElementTypeTagClient
	hw.Local.Element.MgmtVLAN = 0
	copy(hw.Local.Element.SystemID.MAC[:], mac)
	hw.Local.Element.SystemID.ConnType = engine.ConnTypeSingle
	return hw
}

// Create builds a protocol instance for dev and registers it under the
// device name. It returns nil unless cfg explicitly enables the protocol.
// Mappings already registered globally are installed on the new instance,
// each queuing its VLAN add for the bridge.
func (aa *AutoAttach) Create(dev Netdev, mtu int, cfg *Config) *LLDP {
	if cfg == nil || !cfg.Enable {
		return nil
	}

	mac := dev.HardwareAddr()
	l := newInstance(dev.Name())
	l.eng.Chassis = buildChassis(mac)
	buildPort(l, dev.Name(), mtu, mac)

	aa.mu.Lock()
	for _, m := range aa.mappings {
		if _, ok := l.mappingsByISID[m.ISID]; ok {
			continue
		}
		p := *m
		l.insertMapping(&p)
		for _, h := range l.eng.Hardware {
			aa.updateMappingOnPort(l, h, &p)
		}
	}
	aa.lldps[l.name] = l
	aa.mu.Unlock()

	return l
}

// CreateDummy builds a placeholder instance with no real device behind it.
// It is not registered, so it never sees mapping fan-out.
func (aa *AutoAttach) CreateDummy() *LLDP {
	l := newInstance("dummy-lldp")
	l.eng.Chassis = buildChassis(make(net.HardwareAddr, 6))
	buildPort(l, "dummy-port", 1500, make(net.HardwareAddr, 6))
	return l
}

// Ref takes a reference on l and returns it. Safe on nil.
func (aa *AutoAttach) Ref(l *LLDP) *LLDP {
	if l != nil {
		atomic.AddInt32(&l.refCnt, 1)
	}
	return l
}

// Unref drops a reference. The last reference removes the instance from
// the registry and releases its engine state.
func (aa *AutoAttach) Unref(l *LLDP) {
	if l == nil {
		return
	}

	aa.mu.Lock()
	if atomic.AddInt32(&l.refCnt, -1) > 0 {
		aa.mu.Unlock()
		return
	}
	delete(aa.lldps, l.name)
	aa.mu.Unlock()

	l.eng.Cleanup()
}

// Configure arms l for immediate transmission and installs the default
// transmit interval. Always succeeds.
func (aa *AutoAttach) Configure(l *LLDP) bool {
	if l == nil {
		return true
	}

	aa.mu.Lock()
	l.txDeadline = time.Now()
	l.txInterval = DefaultTxInterval
	l.eng.Config.TxInterval = DefaultTxInterval
	aa.mu.Unlock()

	return true
}
