// Package engine holds the per-port LLDP protocol state and the LLDPDU
// codec used by the autoattach module. It plays the role the bundled lldpd
// library plays for a classic LLDP agent: chassis identity, one state record
// per physical port, discovered remote ports and the TLV encode/decode for
// the Auto Attach organizational extension.
package engine

import (
	"time"

	"github.com/mdlayher/lldp"
)

// Chassis capability bits, as carried in the System Capabilities TLV.
const (
	CapOther    = 0x0001
	CapRepeater = 0x0002
	CapBridge   = 0x0004
	CapWLAN     = 0x0008
	CapRouter   = 0x0010
)

// Config is the per-engine protocol configuration.
type Config struct {
	// TxInterval is the advertisement interval.
	TxInterval time.Duration

	// TxHold multiplies TxInterval into the advertised TTL.
	TxHold int
}

// Chassis is the local chassis identity advertised in every LLDPDU.
type Chassis struct {
	IDSubtype lldp.ChassisIDSubtype
	ID        []byte

	Name  string
	Descr string

	CapAvailable uint16
	CapEnabled   uint16
}

// Engine is one LLDP protocol instance: a chassis plus the port records
// attached to it. The autoattach module allocates one engine per bridge
// port today, but nothing here assumes a single Hardware record.
type Engine struct {
	Config   Config
	Chassis  *Chassis
	Hardware []*Hardware
}

// New returns an engine with the given configuration and no ports.
func New(cfg Config) *Engine {
	return &Engine{Config: cfg}
}

// AllocHardware creates a port record, attaches it to the engine and
// returns it.
func (e *Engine) AllocHardware(name string, mtu int) *Hardware {
	hw := &Hardware{
		Name: name,
		MTU:  mtu,
	}
	e.Hardware = append(e.Hardware, hw)
	return hw
}

// Cleanup releases everything learned from the wire. Local configuration
// (chassis, local ports, exported mappings) stays.
func (e *Engine) Cleanup() {
	for _, hw := range e.Hardware {
		hw.Counters.Delete += uint64(len(hw.Remotes))
		hw.Remotes = nil
	}
}
