package autoattach

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMappingFansOut(t *testing.T) {
	aa := New()
	l1 := aa.Create(dev("eth0", 1), 1500, &Config{Enable: true})
	l2 := aa.Create(dev("eth1", 2), 1500, &Config{Enable: true})

	require.NoError(t, aa.RegisterMapping("ref", MappingSettings{ISID: 100, VLAN: 10}))

	for _, l := range []*LLDP{l1, l2} {
		m, ok := l.mappingsByISID[100]
		require.True(t, ok, "mapping missing on %s", l.Name())
		assert.Equal(t, int64(10), m.VLAN)
		assert.Equal(t, StatusPending, m.Status)
		require.Len(t, l.eng.Hardware[0].Local.Mappings, 1)
		assert.Equal(t, uint32(100), l.eng.Hardware[0].Local.Mappings[0].ISID)
	}

	assert.Equal(t, 2, aa.PendingOperations())
}

func TestRegisterMappingIdempotentPerInstance(t *testing.T) {
	aa := New()
	l := aa.Create(dev("eth0", 1), 1500, &Config{Enable: true})

	require.NoError(t, aa.RegisterMapping("ref", MappingSettings{ISID: 100, VLAN: 10}))
	require.NoError(t, aa.RegisterMapping("ref", MappingSettings{ISID: 100, VLAN: 10}))

	assert.Len(t, l.mappingsByISID, 1)
	assert.Len(t, l.mappingsByAux, 1)
	assert.Len(t, l.eng.Hardware[0].Local.Mappings, 1)

	ops := aa.DrainVLANOperations()
	require.Len(t, ops, 1)
	assert.Equal(t, OperAdd, ops[0].Oper)
}

func TestRegisterUnregisterRoundTrip(t *testing.T) {
	aa := New()
	l := aa.Create(dev("eth0", 1), 1500, &Config{Enable: true})

	require.NoError(t, aa.RegisterMapping("ref", MappingSettings{ISID: 100, VLAN: 10}))
	require.NoError(t, aa.UnregisterMapping("ref"))

	assert.Empty(t, l.mappingsByISID)
	assert.Empty(t, l.mappingsByAux)
	assert.Empty(t, l.eng.Hardware[0].Local.Mappings)
	assert.Empty(t, aa.mappings, "global table must forget the mapping")

	ops := aa.DrainVLANOperations()
	require.Len(t, ops, 2)
	assert.Equal(t, VLANOperation{PortName: "eth0", VLAN: 10, Oper: OperAdd}, ops[0])
	assert.Equal(t, VLANOperation{PortName: "eth0", VLAN: 10, Oper: OperRemove}, ops[1])
}

func TestUnregisterUnknownAuxIsNoop(t *testing.T) {
	aa := New()
	l := aa.Create(dev("eth0", 1), 1500, &Config{Enable: true})
	require.NoError(t, aa.RegisterMapping("ref", MappingSettings{ISID: 100, VLAN: 10}))

	require.NoError(t, aa.UnregisterMapping("never-registered"))

	assert.Len(t, l.mappingsByISID, 1)
	assert.Len(t, aa.mappings, 1)
}

func TestMappingIndicesStayConsistent(t *testing.T) {
	aa := New()
	l := aa.Create(dev("eth0", 1), 1500, &Config{Enable: true})

	require.NoError(t, aa.RegisterMapping("a", MappingSettings{ISID: 1, VLAN: 11}))
	require.NoError(t, aa.RegisterMapping("b", MappingSettings{ISID: 2, VLAN: 22}))
	require.NoError(t, aa.RegisterMapping("c", MappingSettings{ISID: 3, VLAN: 33}))
	require.NoError(t, aa.UnregisterMapping("b"))

	assert.Len(t, l.mappingsByISID, 2)
	require.Len(t, l.mappingsByAux, 2)
	for aux, m := range l.mappingsByAux {
		byISID, ok := l.mappingsByISID[m.ISID]
		require.True(t, ok, "aux %v present in only one index", aux)
		assert.Same(t, m, byISID)
	}
}

func TestConfigureChassis(t *testing.T) {
	aa := New()
	l := aa.Create(dev("eth0", 1), 1500, &Config{Enable: true})

	aa.ConfigureChassis(ChassisSettings{SystemName: "sw1", SystemDescription: "rack 4"})
	assert.Equal(t, "sw1", l.eng.Chassis.Name)
	assert.Equal(t, "rack 4", l.eng.Chassis.Descr)

	// An empty description falls back to the build identification.
	aa.ConfigureChassis(ChassisSettings{SystemName: "sw1"})
	assert.Equal(t, Version, l.eng.Chassis.Descr)
}
