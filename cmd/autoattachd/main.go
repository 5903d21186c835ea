// autoattachd runs the Auto Attach LLDP agent on the local interfaces,
// advertising configured I-SID/VLAN mappings and logging the VLAN
// configuration the negotiation asks for.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/extrame/autoattach"
)

type mappingFlags []autoattach.MappingSettings

func (m *mappingFlags) String() string {
	var parts []string
	for _, s := range *m {
		parts = append(parts, fmt.Sprintf("%d:%d", s.ISID, s.VLAN))
	}
	return strings.Join(parts, ",")
}

func (m *mappingFlags) Set(v string) error {
	isidStr, vlanStr, ok := strings.Cut(v, ":")
	if !ok {
		return fmt.Errorf("mapping %q not in isid:vlan form", v)
	}
	isid, err := strconv.ParseInt(isidStr, 10, 64)
	if err != nil {
		return err
	}
	vlan, err := strconv.ParseInt(vlanStr, 10, 64)
	if err != nil {
		return err
	}
	*m = append(*m, autoattach.MappingSettings{ISID: isid, VLAN: vlan})
	return nil
}

func main() {
	var (
		mappings    mappingFlags
		ifacePat    = flag.String("interfaces", ".*", "regexp of interfaces to run on")
		systemName  = flag.String("system-name", "", "advertised system name")
		systemDescr = flag.String("system-description", "", "advertised system description")
		poll        = flag.Duration("poll", time.Second, "VLAN operation poll interval")
		reportEvery = flag.Duration("report-every", 0, "dump diagnostic reports at this interval (0 disables)")
	)
	flag.Var(&mappings, "mapping", "isid:vlan mapping to register (repeatable)")
	flag.Parse()

	pat, err := regexp.Compile(*ifacePat)
	if err != nil {
		glog.Error("bad -interfaces pattern: ", err)
		os.Exit(2)
	}

	aa := autoattach.New()

	for i, s := range mappings {
		// The flag index stands in for the bridge's configuration record.
		if err := aa.RegisterMapping(i, s); err != nil {
			glog.Error("register mapping: ", err)
			os.Exit(1)
		}
	}
	aa.ConfigureChassis(autoattach.ChassisSettings{
		SystemName:        *systemName,
		SystemDescription: *systemDescr,
	})

	d := autoattach.NewDaemon(aa,
		autoattach.InterfaceFilter(func(ifi *net.Interface) *autoattach.Config {
			if !pat.MatchString(ifi.Name) {
				return nil
			}
			return &autoattach.Config{Enable: true}
		}),
		autoattach.HandleVLANOperations(func(ops []autoattach.VLANOperation) {
			for _, op := range ops {
				glog.Infof("bridge op: %s vlan %d on %s", op.Oper, op.VLAN, op.PortName)
			}
		}),
		autoattach.OnListenErr(func(err error, ifi *net.Interface) {
			glog.Errorf("listener on %s failed: %v", ifi.Name, err)
		}),
		autoattach.PollInterval(*poll),
	)

	if *reportEvery > 0 {
		go func() {
			for range time.Tick(*reportEvery) {
				fmt.Print(aa.Status(""))
				fmt.Print(aa.ShowISID(""))
				fmt.Print(aa.Statistics(""))
			}
		}()
	}

	if err := d.Run(); err != nil {
		glog.Error("daemon exited: ", err)
		os.Exit(1)
	}
}
