package engine

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/mdlayher/ethernet"
	"github.com/mdlayher/lldp"
	"github.com/pkg/errors"
)

// lldpduLen walks the TLV headers in b and returns the number of bytes up
// to and including the End TLV. Received Ethernet frames are commonly
// padded to the minimum frame size, and the padding must not reach the
// LLDPDU parser.
func lldpduLen(b []byte) int {
	off := 0
	for off+2 <= len(b) {
		h := binary.BigEndian.Uint16(b[off : off+2])
		t := uint8(h >> 9)
		l := int(h & 0x1ff)
		off += 2
		if t == 0 {
			return off
		}
		if off+l > len(b) {
			break
		}
		off += l
	}
	return len(b)
}

func unmarshalPDU(payload []byte) (*lldp.Frame, error) {
	payload = payload[:lldpduLen(payload)]

	f := new(lldp.Frame)
	if err := f.UnmarshalBinary(payload); err == nil {
		return f, nil
	}
	// Some drivers hand us the frame check sequence as payload.
	if len(payload) > 4 {
		if err := f.UnmarshalBinary(payload[:len(payload)-4]); err == nil {
			return f, nil
		}
	}
	return nil, errors.New("undecodable LLDPDU")
}

func parseElement(data []byte) (Element, bool) {
	if len(data) < 13 {
		return Element{}, false
	}
	var el Element
	el.Type = data[0]
	el.MgmtVLAN = binary.BigEndian.Uint16(data[1:3])
	copy(el.SystemID.MAC[:], data[3:9])
	el.SystemID.ConnType = data[9]
	el.SystemID.SMLTID = data[10]
	copy(el.SystemID.MLTID[:], data[11:13])
	return el, true
}

func parseAssignments(data []byte) []*ISIDVLANMap {
	var maps []*ISIDVLANMap
	for len(data) >= aaAssignmentLen {
		word := binary.BigEndian.Uint16(data[0:2])
		maps = append(maps, &ISIDVLANMap{
			Status: uint8(word >> 12),
			VLAN:   word & 0x0fff,
			ISID:   uint32(data[2])<<16 | uint32(data[3])<<8 | uint32(data[4]),
		})
		data = data[aaAssignmentLen:]
	}
	return maps
}

// Recv decodes one received Ethernet frame against hw, creating or
// refreshing the matching remote port record. A TTL of zero withdraws the
// remote. Decode failures only move counters.
func (e *Engine) Recv(hw *Hardware, frame []byte, now time.Time) error {
	var eth ethernet.Frame
	if err := eth.UnmarshalBinary(frame); err != nil {
		hw.Counters.RxDiscarded++
		return errors.Wrapf(err, "bad ethernet frame on %s", hw.Name)
	}
	if eth.EtherType != lldp.EtherType {
		hw.Counters.RxDiscarded++
		return errors.Errorf("unexpected ethertype %#04x on %s", uint16(eth.EtherType), hw.Name)
	}

	f, err := unmarshalPDU(eth.Payload)
	if err != nil {
		hw.Counters.RxDiscarded++
		return errors.Wrapf(err, "on %s", hw.Name)
	}
	hw.Counters.Rx++

	rp := hw.findRemote(f.ChassisID.ID, f.PortID.ID)
	if f.TTL == 0 {
		if rp != nil {
			hw.deleteRemote(rp)
			hw.Counters.Delete++
		}
		return nil
	}
	if rp == nil {
		if len(hw.Remotes) >= maxRemotes {
			hw.Counters.Drop++
			return errors.Errorf("remote table full on %s", hw.Name)
		}
		rp = &RemotePort{
			ChassisID: append([]byte(nil), f.ChassisID.ID...),
			PortID:    append([]byte(nil), f.PortID.ID...),
		}
		hw.Remotes = append(hw.Remotes, rp)
		hw.Counters.Insert++
	}

	rp.TTL = f.TTL
	rp.Seen = now
	rp.Mappings = nil

	for _, tlv := range f.Optional {
		switch tlv.Type {
		case lldp.TLVTypeSystemName:
			rp.ChassisName = string(tlv.Value)
		case lldp.TLVTypeSystemDescription:
			rp.ChassisDescr = string(tlv.Value)
		case lldp.TLVTypeOrganizationSpecific:
			if len(tlv.Value) < 4 || !bytes.Equal(tlv.Value[0:3], ouiAvaya[:]) {
				hw.Counters.RxUnrecognized++
				continue
			}
			switch tlv.Value[3] {
			case aaSubtypeElement:
				if el, ok := parseElement(tlv.Value[4:]); ok {
					rp.Element = el
				}
			case aaSubtypeISIDVLANs:
				rp.Mappings = append(rp.Mappings, parseAssignments(tlv.Value[4:])...)
			default:
				hw.Counters.RxUnrecognized++
			}
		}
	}

	return nil
}
