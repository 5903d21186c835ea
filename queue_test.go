package autoattach

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainTakesEverythingAtomically(t *testing.T) {
	aa := New()
	aa.Create(dev("eth0", 1), 1500, &Config{Enable: true})
	aa.Create(dev("eth1", 2), 1500, &Config{Enable: true})

	require.NoError(t, aa.RegisterMapping("a", MappingSettings{ISID: 1, VLAN: 11}))
	require.NoError(t, aa.RegisterMapping("b", MappingSettings{ISID: 2, VLAN: 22}))
	require.Equal(t, 4, aa.PendingOperations())

	ops := aa.DrainVLANOperations()
	assert.Len(t, ops, 4)
	assert.Equal(t, 0, aa.PendingOperations())
	assert.Empty(t, aa.DrainVLANOperations())
}

func TestDrainKeepsPerPortFIFOOrder(t *testing.T) {
	aa := New()
	aa.Create(dev("eth0", 1), 1500, &Config{Enable: true})
	aa.Create(dev("eth1", 2), 1500, &Config{Enable: true})

	require.NoError(t, aa.RegisterMapping("a", MappingSettings{ISID: 1, VLAN: 11}))
	require.NoError(t, aa.RegisterMapping("b", MappingSettings{ISID: 2, VLAN: 22}))
	require.NoError(t, aa.UnregisterMapping("a"))

	// No ordering is promised across ports, only within one.
	byPort := make(map[string][]VLANOperation)
	for _, op := range aa.DrainVLANOperations() {
		byPort[op.PortName] = append(byPort[op.PortName], op)
	}

	for port, ops := range byPort {
		require.Len(t, ops, 3, "port %s", port)
		assert.Equal(t, VLANOperation{PortName: port, VLAN: 11, Oper: OperAdd}, ops[0])
		assert.Equal(t, VLANOperation{PortName: port, VLAN: 22, Oper: OperAdd}, ops[1])
		assert.Equal(t, VLANOperation{PortName: port, VLAN: 11, Oper: OperRemove}, ops[2])
	}
}
