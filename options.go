package autoattach

import (
	"net"
	"time"
)

// InterfaceFilterFn is called once per interface the daemon could manage.
// Returning nil skips the interface; returning a Config with Enable set
// brings the protocol up on it.
type InterfaceFilterFn func(*net.Interface) *Config

func defaultInterfaceFilterFn(_ *net.Interface) *Config {
	return &Config{Enable: true}
}

// InterfaceFilter decides which interfaces get a protocol instance and
// with what configuration.
func InterfaceFilter(fn InterfaceFilterFn) Option {
	return func(d *Daemon) error {
		d.filterFn = fn
		return nil
	}
}

// SetSourceAddressFn supplies the source MAC for frames sent on an
// interface.
type SetSourceAddressFn func(*net.Interface) net.HardwareAddr

func defaultSetSourceAddressFn(ifi *net.Interface) net.HardwareAddr {
	return ifi.HardwareAddr
}

// SourceAddress sets the Ethernet source address to use for outgoing
// frames.
func SourceAddress(fn SetSourceAddressFn) Option {
	return func(d *Daemon) error {
		d.sourceAddress = fn
		return nil
	}
}

// VLANOperationsFn receives the drained VLAN operation batch on every
// poll. The slice is owned by the callee.
type VLANOperationsFn func([]VLANOperation)

// HandleVLANOperations installs the bridge-side consumer of queued VLAN
// operations.
func HandleVLANOperations(fn VLANOperationsFn) Option {
	return func(d *Daemon) error {
		d.vlanOpsFn = fn
		return nil
	}
}

// ErrListenFn is notified when a per-interface listener dies.
type ErrListenFn func(err error, ifi *net.Interface)

// OnListenErr installs an error callback for interface listeners.
func OnListenErr(fn ErrListenFn) Option {
	return func(d *Daemon) error {
		d.errListenFn = fn
		return nil
	}
}

// PollInterval sets how often the daemon polls the VLAN operation queue.
func PollInterval(every time.Duration) Option {
	return func(d *Daemon) error {
		d.pollEvery = every
		return nil
	}
}

// Option is a functional option handler for Daemon.
type Option func(*Daemon) error

// SetOption runs a functional option against Daemon.
func (d *Daemon) SetOption(option Option) error {
	return option(d)
}
