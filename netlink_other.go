//go:build !linux
// +build !linux

package autoattach

import (
	"math/rand"
	"net"
	"time"
)

// Listen polls the interface list on platforms without rtnetlink.
func (l *nlListener) Listen() error {
	if err := l.search(); err != nil {
		return err
	}
	for range time.Tick(2 * time.Second) {
		if err := l.search(); err != nil {
			return err
		}
	}
	return nil
}

func (l *nlListener) search() error {
	generation := rand.Int31n(100000)

	ifis, err := net.Interfaces()
	if err != nil {
		return err
	}
	for i := range ifis {
		ifi := ifis[i]
		if ifi.Flags&net.FlagUp == 0 || len(ifi.HardwareAddr) == 0 {
			continue
		}
		if _, ok := l.list[ifi.Name]; !ok {
			l.Messages <- &linkMessage{ifi: &ifi, op: IF_ADD}
			l.log.Infof("poll reports new interface %s (%d)", ifi.Name, ifi.Index)
		}
		l.list[ifi.Name] = generation
	}

	for name, seen := range l.list {
		if seen == generation {
			continue
		}
		// Not refreshed this round, so the link is gone.
		l.Messages <- &linkMessage{ifi: &net.Interface{Name: name}, op: IF_DEL}
		delete(l.list, name)
		l.log.Infof("poll reports deleted interface %s", name)
	}
	return nil
}
