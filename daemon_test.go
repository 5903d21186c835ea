package autoattach

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDaemonOptions(t *testing.T) {
	aa := New()

	var gotOps []VLANOperation
	d := NewDaemon(aa,
		InterfaceFilter(func(ifi *net.Interface) *Config {
			if ifi.Name != "eth0" {
				return nil
			}
			return &Config{Enable: true}
		}),
		SourceAddress(func(_ *net.Interface) net.HardwareAddr {
			return net.HardwareAddr{0x02, 0, 0, 0, 0, 0xff}
		}),
		HandleVLANOperations(func(ops []VLANOperation) {
			gotOps = ops
		}),
		PollInterval(10*time.Millisecond),
	)

	assert.Equal(t, 10*time.Millisecond, d.pollEvery)

	cfg := d.filterFn(&net.Interface{Name: "eth1"})
	assert.Nil(t, cfg)
	cfg = d.filterFn(&net.Interface{Name: "eth0"})
	require.NotNil(t, cfg)
	assert.True(t, cfg.Enable)

	src := d.sourceAddress(&net.Interface{Name: "eth0"})
	assert.Equal(t, net.HardwareAddr{0x02, 0, 0, 0, 0, 0xff}, src)

	d.vlanOpsFn([]VLANOperation{{PortName: "eth0", VLAN: 5, Oper: OperAdd}})
	require.Len(t, gotOps, 1)
}

func TestSysNetdev(t *testing.T) {
	ifi := &net.Interface{
		Name:         "eth3",
		HardwareAddr: net.HardwareAddr{0x02, 1, 2, 3, 4, 5},
	}
	d := sysNetdev{ifi}
	assert.Equal(t, "eth3", d.Name())
	assert.Equal(t, ifi.HardwareAddr, d.HardwareAddr())
}
