package autoattach

import (
	"net"
	"sync"
	"time"

	"github.com/extrame/raw"
	"github.com/golang/glog"
	"github.com/mdlayher/ethernet"
	"github.com/mdlayher/lldp"
	"github.com/pkg/errors"
)

// sysNetdev adapts a kernel interface to the Netdev the registry consumes.
type sysNetdev struct {
	ifi *net.Interface
}

func (d sysNetdev) Name() string {
	return d.ifi.Name
}

func (d sysNetdev) HardwareAddr() net.HardwareAddr {
	return d.ifi.HardwareAddr
}

type portListener struct {
	conn *raw.Conn
	lldp *LLDP
	ifi  *net.Interface
	done chan struct{}
}

// Daemon hosts an AutoAttach context on real interfaces: a packet socket
// per enabled port feeding the receive path, a transmit loop driven by the
// per-instance timer, a link watcher creating and releasing instances, and
// a poller handing queued VLAN operations to the bridge callback.
type Daemon struct {
	aa *AutoAttach

	filterFn      InterfaceFilterFn
	sourceAddress SetSourceAddressFn
	vlanOpsFn     VLANOperationsFn
	errListenFn   ErrListenFn

	pollEvery time.Duration

	listeners sync.Map
}

// NewDaemon returns a daemon hosting aa with the optional options
// configured.
func NewDaemon(aa *AutoAttach, opts ...Option) *Daemon {
	d := &Daemon{
		aa:            aa,
		filterFn:      defaultInterfaceFilterFn,
		sourceAddress: defaultSetSourceAddressFn,
		pollEvery:     time.Second,
	}

	for _, opt := range opts {
		d.SetOption(opt)
	}

	return d
}

func (d *Daemon) startNLLoop() {
	nl := NewNLListener(d.aa.log)
	nl.Start()

	go func() {
		for info := range nl.Messages {
			switch info.op {
			case IF_ADD:
				go d.ListenOn(info.ifi)
			case IF_DEL:
				d.CancelListenOn(info.ifi.Name)
			}
		}
	}()
}

// ListenOn brings the protocol up on ifi, if the interface filter enables
// it, and runs the receive loop until the socket is closed.
func (d *Daemon) ListenOn(ifi *net.Interface) {
	if _, ok := d.listeners.Load(ifi.Name); ok {
		return
	}

	cfg := d.filterFn(ifi)
	l := d.aa.Create(sysNetdev{ifi}, ifi.MTU, cfg)
	if l == nil {
		return
	}
	d.aa.Configure(l)

	conn, err := raw.ListenPacket(raw.NewInterface(ifi), uint16(lldp.EtherType), nil)
	if err != nil {
		d.aa.Unref(l)
		err = errors.Wrapf(err, "in listen on [%d]%s", ifi.Index, ifi.Name)
		if d.errListenFn != nil {
			d.errListenFn(err, ifi)
		}
		return
	}

	pl := &portListener{
		conn: conn,
		lldp: l,
		ifi:  ifi,
		done: make(chan struct{}),
	}
	d.listeners.Store(ifi.Name, pl)
	glog.Info("started listener on interface ", ifi.Name)

	go d.sendLoop(pl)

	b := make([]byte, ifi.MTU)
	for {
		n, _, err := conn.ReadFrom(b)
		if err != nil {
			if isShouldFinishError(err) {
				return
			}
			glog.Error("error read from interface ", ifi.Name, ": ", err)
			continue
		}

		var frame ethernet.Frame
		if err := frame.UnmarshalBinary(b[:n]); err != nil {
			continue
		}
		if !ShouldProcess(frame.EtherType) {
			continue
		}
		d.aa.ProcessFrame(l, b[:n])
	}
}

// sendLoop emits advertisements whenever the instance's transmit timer
// says so, sweeping aged-out remotes on the way.
func (d *Daemon) sendLoop(pl *portListener) {
	for {
		_, wake := d.aa.Wait(pl.lldp)
		select {
		case <-pl.done:
			return
		case <-wake:
		}

		if !d.aa.ShouldSend(pl.lldp) {
			continue
		}
		d.aa.AgeOut(pl.lldp)

		b, err := d.aa.ComposeFrame(pl.lldp, d.sourceAddress(pl.ifi))
		if err != nil {
			glog.Error("error composing frame for ", pl.ifi.Name, ": ", err)
			continue
		}
		if _, err := pl.conn.WriteTo(b, &raw.Addr{HardwareAddr: LLDPMulticastAddress}); err != nil {
			glog.Error("error sending pdu out on interface ", pl.ifi.Name, ": ", err)
		}
	}
}

// CancelListenOn tears the protocol down on the named interface.
func (d *Daemon) CancelListenOn(name string) {
	v, ok := d.listeners.LoadAndDelete(name)
	if !ok {
		return
	}
	pl := v.(*portListener)

	close(pl.done)
	pl.conn.Close()
	d.aa.Unref(pl.lldp)
	glog.Info("closed listener on interface ", name)
}

// Run starts the link watcher and blocks in the VLAN operation poll loop.
func (d *Daemon) Run() error {
	d.startNLLoop()

	tick := time.NewTicker(d.pollEvery)
	defer tick.Stop()

	for range tick.C {
		if d.vlanOpsFn == nil {
			continue
		}
		if d.aa.PendingOperations() == 0 {
			continue
		}
		d.vlanOpsFn(d.aa.DrainVLANOperations())
	}

	return nil
}
