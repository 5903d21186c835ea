package autoattach

import (
	"net"
	"syscall"

	"github.com/jsimonetti/rtnetlink"
	"github.com/mdlayher/netlink"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Listen watches rtnetlink for link changes, seeding itself with a dump of
// the current links.
func (l *nlListener) Listen() error {
	nl, err := rtnetlink.Dial(&netlink.Config{Groups: unix.RTNLGRP_LINK})
	if err != nil {
		return errors.Wrap(err, "could not dial rtnetlink")
	}

	// Request the current list of interfaces.
	req := &rtnetlink.LinkMessage{}
	nl.Send(req, unix.RTM_GETLINK, netlink.Request|netlink.Dump)

	for {
		msgs, omsgs, err := nl.Receive()
		if err != nil {
			return errors.Wrap(err, "netlink receive error")
		}

		for i, msg := range msgs {
			m, ok := msg.(*rtnetlink.LinkMessage)
			if !ok {
				continue
			}
			if m.Type != syscall.ARPHRD_ETHER {
				// skip non-ethernet
				continue
			}
			if m.Family != syscall.AF_UNSPEC {
				// skip non-generic
				continue
			}

			switch omsgs[i].Header.Type {
			case unix.RTM_NEWLINK:
				if _, ok := l.list[m.Attributes.Name]; ok {
					continue
				}
				link, err := net.InterfaceByIndex(int(m.Index))
				if err != nil {
					continue
				}
				l.Messages <- &linkMessage{ifi: link, op: IF_ADD}
				l.list[m.Attributes.Name] = 0
				l.log.Infof("netlink reports new interface %s (%d)", m.Attributes.Name, m.Index)

			case unix.RTM_DELLINK:
				if _, ok := l.list[m.Attributes.Name]; !ok {
					continue
				}
				l.Messages <- &linkMessage{
					ifi: &net.Interface{Index: int(m.Index), Name: m.Attributes.Name},
					op:  IF_DEL,
				}
				delete(l.list, m.Attributes.Name)
				l.log.Infof("netlink reports deleted interface %s (%d)", m.Attributes.Name, m.Index)
			}
		}
	}
}
