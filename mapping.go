package autoattach

// ConfigureChassis pushes the system name and description to every live
// instance. An empty description falls back to the build identification.
func (aa *AutoAttach) ConfigureChassis(s ChassisSettings) {
	descr := s.SystemDescription
	if descr == "" {
		descr = Version
	}

	aa.mu.Lock()
	defer aa.mu.Unlock()

	// All instances for now; per-bridge chassis identity would need the
	// registry partitioned per bridge first.
	for _, l := range aa.lldps {
		c := l.eng.Chassis
		if c == nil {
			continue
		}
		c.Name = s.SystemName
		c.Descr = descr
	}
}

// RegisterMapping records an I-SID/VLAN binding under the bridge-owned
// token aux, then fans it out to every instance that does not carry the
// I-SID yet: the mapping is indexed on the instance, exported on each of
// its port records and the VLAN add is queued for the bridge. Registering
// an I-SID an instance already carries is a no-op for that instance.
func (aa *AutoAttach) RegisterMapping(aux any, s MappingSettings) error {
	aa.log.Infof("adding mapping isid=%d vlan=%d aux=%v", s.ISID, s.VLAN, aux)

	aa.mu.Lock()
	defer aa.mu.Unlock()

	// The seed table is global for now; it would move per bridge together
	// with the registry.
	aa.mappings[s.ISID] = &Mapping{
		ISID:   s.ISID,
		VLAN:   s.VLAN,
		Aux:    aux,
		Status: StatusPending,
	}

	for _, l := range aa.lldps {
		if _, ok := l.mappingsByISID[s.ISID]; ok {
			continue
		}

		m := &Mapping{
			ISID:   s.ISID,
			VLAN:   s.VLAN,
			Aux:    aux,
			Status: StatusPending,
		}
		l.insertMapping(m)

		for _, hw := range l.eng.Hardware {
			aa.updateMappingOnPort(l, hw, m)
		}
	}

	return nil
}

// UnregisterMapping removes the mapping known under aux from every
// instance, withdraws its exported records (queuing the VLAN removals) and
// drops the matching global entry. An unknown aux is a no-op.
func (aa *AutoAttach) UnregisterMapping(aux any) error {
	aa.log.Infof("removing mapping aux=%v", aux)

	aa.mu.Lock()
	defer aa.mu.Unlock()

	for _, l := range aa.lldps {
		m, ok := l.mappingsByAux[aux]
		if !ok {
			continue
		}

		aa.log.Infof("removing mapping isid=%d vlan=%d from %s", m.ISID, m.VLAN, l.name)
		l.removeMapping(m)

		for _, hw := range l.eng.Hardware {
			aa.removeMappingOnPort(l, hw, m)
		}

		// The global entry matches on both I-SID and VLAN.
		if g, ok := aa.mappings[m.ISID]; ok && g.VLAN == m.VLAN {
			delete(aa.mappings, m.ISID)
		}
	}

	return nil
}
