package engine

import (
	"encoding/binary"
	"time"

	"github.com/mdlayher/lldp"
	"github.com/pkg/errors"
)

// Avaya organizational TLVs carrying the Auto Attach extension.
var ouiAvaya = [3]byte{0x00, 0x04, 0x0d}

const (
	aaSubtypeElement   = 11
	aaSubtypeISIDVLANs = 12

	// Each I-SID/VLAN assignment record occupies five octets: the status
	// in the top four bits of a 16-bit word, the VLAN in the low twelve,
	// then a 24-bit I-SID. Only peer-reported statuses fit four bits;
	// Pending is the local pre-report state and never goes on the wire.
	aaAssignmentLen = 5
)

func orgTLV(subtype byte, data []byte) *lldp.TLV {
	v := make([]byte, 0, 4+len(data))
	v = append(v, ouiAvaya[:]...)
	v = append(v, subtype)
	v = append(v, data...)
	return &lldp.TLV{
		Type:   lldp.TLVTypeOrganizationSpecific,
		Length: uint16(len(v)),
		Value:  v,
	}
}

func marshalElement(el Element) []byte {
	b := make([]byte, 0, 13)
	b = append(b, el.Type)
	b = binary.BigEndian.AppendUint16(b, el.MgmtVLAN)
	b = append(b, el.SystemID.Bytes()...)
	return b
}

func marshalAssignments(maps []*ISIDVLANMap) []byte {
	b := make([]byte, 0, len(maps)*aaAssignmentLen)
	for _, m := range maps {
		b = binary.BigEndian.AppendUint16(b, uint16(m.Status&0x0f)<<12|m.VLAN&0x0fff)
		b = append(b, byte(m.ISID>>16), byte(m.ISID>>8), byte(m.ISID))
	}
	return b
}

// Send builds the LLDPDU for hw from the engine's chassis and the port's
// local state. The caller frames it into an Ethernet packet.
func (e *Engine) Send(hw *Hardware) ([]byte, error) {
	c := e.Chassis
	if c == nil {
		return nil, errors.New("engine has no chassis")
	}

	f := &lldp.Frame{
		ChassisID: &lldp.ChassisID{
			Subtype: c.IDSubtype,
			ID:      c.ID,
		},
		PortID: &lldp.PortID{
			Subtype: hw.Local.IDSubtype,
			ID:      hw.Local.ID,
		},
		TTL: e.Config.TxInterval * time.Duration(e.Config.TxHold),
	}

	if hw.Local.Descr != "" {
		f.Optional = append(f.Optional, &lldp.TLV{
			Type:   lldp.TLVTypePortDescription,
			Length: uint16(len(hw.Local.Descr)),
			Value:  []byte(hw.Local.Descr),
		})
	}
	if c.Name != "" {
		f.Optional = append(f.Optional, &lldp.TLV{
			Type:   lldp.TLVTypeSystemName,
			Length: uint16(len(c.Name)),
			Value:  []byte(c.Name),
		})
	}
	if c.Descr != "" {
		f.Optional = append(f.Optional, &lldp.TLV{
			Type:   lldp.TLVTypeSystemDescription,
			Length: uint16(len(c.Descr)),
			Value:  []byte(c.Descr),
		})
	}

	caps := make([]byte, 4)
	binary.BigEndian.PutUint16(caps[0:2], c.CapAvailable)
	binary.BigEndian.PutUint16(caps[2:4], c.CapEnabled)
	f.Optional = append(f.Optional, &lldp.TLV{
		Type:   lldp.TLVTypeSystemCapabilities,
		Length: uint16(len(caps)),
		Value:  caps,
	})

	f.Optional = append(f.Optional, orgTLV(aaSubtypeElement, marshalElement(hw.Local.Element)))
	if len(hw.Local.Mappings) > 0 {
		f.Optional = append(f.Optional, orgTLV(aaSubtypeISIDVLANs, marshalAssignments(hw.Local.Mappings)))
	}

	b, err := f.MarshalBinary()
	if err != nil {
		return nil, errors.Wrapf(err, "marshalling LLDPDU for %s", hw.Name)
	}

	hw.Counters.Tx++
	return b, nil
}
