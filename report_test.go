package autoattach

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extrame/autoattach/engine"
)

func TestChassisIDString(t *testing.T) {
	assert.Equal(t, "<None>", chassisIDString(nil))
	assert.Equal(t, "01:80:c2", chassisIDString([]byte{0x01, 0x80, 0xc2}))
	assert.Equal(t, "0a", chassisIDString([]byte{0x0a}))
}

func TestStatusReportListsDiscoveredServer(t *testing.T) {
	aa := New()
	l := aa.Create(dev("eth0", 1), 1500, &Config{Enable: true})

	assert.Equal(t, "LLDP: eth0\n", aa.Status(""), "no server discovered yet")

	aa.ProcessFrame(l, serverFrame(t, nil))

	out := aa.Status("")
	assert.Contains(t, out, "LLDP: eth0\n")
	assert.Contains(t, out, "\tAuto Attach Primary Server Id: 02:5e:00:00:00:01\n")
	assert.Contains(t, out, "\tAuto Attach Primary Server Descr: fabric core\n")
	assert.Contains(t, out, "\tAuto Attach Primary Server System Id: 02:5e:00:00:00:01:01:00:00:00\n")
}

func TestShowISIDLayout(t *testing.T) {
	aa := New()
	aa.Create(dev("eth0", 1), 1500, &Config{Enable: true})
	require.NoError(t, aa.RegisterMapping("a", MappingSettings{ISID: 100, VLAN: 10}))
	require.NoError(t, aa.RegisterMapping("b", MappingSettings{ISID: 5, VLAN: 2}))

	out := aa.ShowISID("")
	assert.Contains(t, out, "LLDP: eth0\n")
	assert.Contains(t, out, "I-SID    VLAN Source      Status  \n")
	assert.Contains(t, out, "-------- ---- ----------- --------\n")

	// Rows come out sorted by I-SID, fixed width, source always Switch.
	assert.Contains(t, out, fmt.Sprintf("%-8d %-4d %-11s %-11s\n", 5, 2, "Switch", "Pending"))
	assert.Contains(t, out, fmt.Sprintf("%-8d %-4d %-11s %-11s\n", 100, 10, "Switch", "Pending"))
}

func TestShowISIDRefreshesPeerStatus(t *testing.T) {
	aa := New()
	l := aa.Create(dev("eth0", 1), 1500, &Config{Enable: true})
	require.NoError(t, aa.RegisterMapping("a", MappingSettings{ISID: 100, VLAN: 10}))

	aa.ProcessFrame(l, serverFrame(t, []*engine.ISIDVLANMap{{ISID: 100, VLAN: 10, Status: 2}}))
	assert.Contains(t, aa.ShowISID(""), "Active")
}

func TestShowISIDUndefinedStatus(t *testing.T) {
	aa := New()
	l := aa.Create(dev("eth0", 1), 1500, &Config{Enable: true})
	require.NoError(t, aa.RegisterMapping("a", MappingSettings{ISID: 100, VLAN: 10}))

	// 7 is not an assigned status value.
	aa.ProcessFrame(l, serverFrame(t, []*engine.ISIDVLANMap{{ISID: 100, VLAN: 10, Status: 7}}))
	assert.Contains(t, aa.ShowISID(""), "Undefined")
}

func TestStatusNames(t *testing.T) {
	assert.Equal(t, "Active", StatusActive.String())
	assert.Equal(t, "Reject (Generic)", StatusRejectGeneric.String())
	assert.Equal(t, "Reject (AA resources unavailable)", StatusRejectAAResource.String())
	assert.Equal(t, "Reject (Invalid)", StatusRejectInvalid.String())
	assert.Equal(t, "Reject (VLAN resources unavailable)", StatusRejectVLANResource.String())
	assert.Equal(t, "Reject (Application interaction issue)", StatusRejectVLANAppIssue.String())
	assert.Equal(t, "Pending", StatusPending.String())
	assert.Equal(t, "Undefined", MappingStatus(7).String())
}

func TestStatisticsReport(t *testing.T) {
	aa := New()
	l := aa.Create(dev("eth0", 1), 1500, &Config{Enable: true})

	aa.ProcessFrame(l, serverFrame(t, nil))
	_, err := aa.ComposeFrame(l, l.eng.Chassis.ID)
	require.NoError(t, err)

	out := aa.Statistics("")
	assert.Contains(t, out, "Statistics: eth0\n")
	assert.Contains(t, out, "\ttx cnt: 1\n")
	assert.Contains(t, out, "\trx cnt: 1\n")
	assert.Contains(t, out, "\trx discarded cnt: 0\n")
	assert.Contains(t, out, "\trx unrecognized cnt: 0\n")
	assert.Contains(t, out, "\tageout cnt: 0\n")
	assert.Contains(t, out, "\tinsert cnt: 1\n")
	assert.Contains(t, out, "\tdelete cnt: 0\n")
	assert.Contains(t, out, "\tdrop cnt: 0\n")
}

func TestReportsCoverAllInstances(t *testing.T) {
	aa := New()
	aa.Create(dev("eth0", 1), 1500, &Config{Enable: true})
	aa.Create(dev("eth1", 2), 1500, &Config{Enable: true})

	// The filter argument is accepted but not applied yet.
	out := aa.ShowISID("eth1")
	assert.Contains(t, out, "LLDP: eth0\n")
	assert.Contains(t, out, "LLDP: eth1\n")
}
