package autoattach

import (
	"fmt"
	"sort"
	"strings"
)

// chassisIDString renders a byte-string identifier the way operators read
// MAC addresses: two lowercase hex digits per byte, colon separated.
func chassisIDString(b []byte) string {
	if len(b) == 0 {
		return "<None>"
	}
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(':')
		}
		fmt.Fprintf(&sb, "%02x", c)
	}
	return sb.String()
}

func (aa *AutoAttach) sortedInstancesLocked() []*LLDP {
	names := make([]string, 0, len(aa.lldps))
	for name := range aa.lldps {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*LLDP, 0, len(names))
	for _, name := range names {
		out = append(out, aa.lldps[name])
	}
	return out
}

// Status reports the discovered Auto Attach server of every instance. The
// name filter is accepted for interface stability and currently ignored:
// all instances are reported.
func (aa *AutoAttach) Status(_ string) string {
	aa.mu.Lock()
	defer aa.mu.Unlock()

	var b strings.Builder
	for _, l := range aa.sortedInstancesLocked() {
		fmt.Fprintf(&b, "LLDP: %s\n", l.name)

		for _, hw := range l.eng.Hardware {
			for _, rp := range hw.Remotes {
				if rp.Element.SystemID.IsZero() {
					continue
				}

				id := chassisIDString(rp.ChassisID)
				descr := rp.ChassisDescr
				if descr == "" {
					descr = "<None>"
				}
				system := chassisIDString(rp.Element.SystemID.Bytes())

				fmt.Fprintf(&b, "\tAuto Attach Primary Server Id: %s\n", id)
				fmt.Fprintf(&b, "\tAuto Attach Primary Server Descr: %s\n", descr)
				fmt.Fprintf(&b, "\tAuto Attach Primary Server System Id: %s\n", system)
			}
		}
	}
	return b.String()
}

// ShowISID reports every instance's mapping table, after folding in any
// newly parsed peer reports. The name filter is currently ignored.
func (aa *AutoAttach) ShowISID(_ string) string {
	aa.mu.Lock()
	defer aa.mu.Unlock()

	var b strings.Builder
	for _, l := range aa.sortedInstancesLocked() {
		fmt.Fprintf(&b, "LLDP: %s\n", l.name)

		aa.refreshPeerStatusLocked(l)

		fmt.Fprintf(&b, "%-8s %-4s %-11s %-8s\n", "I-SID", "VLAN", "Source", "Status")
		b.WriteString("-------- ---- ----------- --------\n")

		isids := make([]int64, 0, len(l.mappingsByISID))
		for isid := range l.mappingsByISID {
			isids = append(isids, isid)
		}
		sort.Slice(isids, func(i, j int) bool { return isids[i] < isids[j] })

		for _, isid := range isids {
			m := l.mappingsByISID[isid]
			fmt.Fprintf(&b, "%-8d %-4d %-11s %-11s\n", m.ISID, m.VLAN, "Switch", m.Status)
		}
	}
	return b.String()
}

// Statistics reports the per-port protocol counters of every instance.
// The name filter is currently ignored.
func (aa *AutoAttach) Statistics(_ string) string {
	aa.mu.Lock()
	defer aa.mu.Unlock()

	var b strings.Builder
	for _, l := range aa.sortedInstancesLocked() {
		fmt.Fprintf(&b, "Statistics: %s\n", l.name)

		for _, hw := range l.eng.Hardware {
			c := hw.Counters
			fmt.Fprintf(&b, "\ttx cnt: %d\n", c.Tx)
			fmt.Fprintf(&b, "\trx cnt: %d\n", c.Rx)
			fmt.Fprintf(&b, "\trx discarded cnt: %d\n", c.RxDiscarded)
			fmt.Fprintf(&b, "\trx unrecognized cnt: %d\n", c.RxUnrecognized)
			fmt.Fprintf(&b, "\tageout cnt: %d\n", c.Ageout)
			fmt.Fprintf(&b, "\tinsert cnt: %d\n", c.Insert)
			fmt.Fprintf(&b, "\tdelete cnt: %d\n", c.Delete)
			fmt.Fprintf(&b, "\tdrop cnt: %d\n", c.Drop)
		}
	}
	return b.String()
}
