package store

import (
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/naming"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/utils"
)

func (s *Store) CreateECUComposition(spec domain.ECUCompositionSpec) (domain.ECUComposition, error) {
	if err := validateName(domain.KindECUComposition, spec.Name); err != nil {
		return domain.ECUComposition{}, err
	}
	if spec.AutosarVersion != "" {
		if err := validateVersion(domain.KindECUComposition, spec.AutosarVersion); err != nil {
			return domain.ECUComposition{}, err
		}
	}
	var out domain.ECUComposition
	err := s.mutate("create_ecu_composition", func(st *state) error {
		if st.compositionNameTaken(spec.Name, "") {
			return domain.NewConflictError(domain.KindECUComposition, "", "a composition named "+spec.Name+" already exists")
		}
		version := spec.AutosarVersion
		if version == "" {
			version = st.project.AutosarVersion
		}
		out = domain.ECUComposition{
			ID:             s.ids.NewID(utils.PrefixComposition),
			Name:           spec.Name,
			Description:    spec.Description,
			EcuType:        spec.EcuType,
			AutosarVersion: version,
			Instances:      []domain.SWCInstance{},
			Connectors:     []domain.Connector{},
		}
		st.compositions.put(out.ID, out)
		out = cloneComposition(out)
		return nil
	})
	return out, err
}

func (s *Store) UpdateECUComposition(id string, patch domain.ECUCompositionPatch) (domain.ECUComposition, error) {
	var out domain.ECUComposition
	err := s.mutate("update_ecu_composition", func(st *state) error {
		comp, ok := st.compositions.get(id)
		if !ok {
			return domain.NewNotFoundError(domain.KindECUComposition, id)
		}
		if patch.Name != nil {
			comp.Name = *patch.Name
		}
		if patch.Description != nil {
			comp.Description = *patch.Description
		}
		if patch.EcuType != nil {
			comp.EcuType = *patch.EcuType
		}
		if patch.AutosarVersion != nil {
			comp.AutosarVersion = *patch.AutosarVersion
		}
		if err := validateName(domain.KindECUComposition, comp.Name); err != nil {
			return err
		}
		if err := validateVersion(domain.KindECUComposition, comp.AutosarVersion); err != nil {
			return err
		}
		if st.compositionNameTaken(comp.Name, id) {
			return domain.NewConflictError(domain.KindECUComposition, id, "a composition named "+comp.Name+" already exists")
		}
		st.compositions.put(id, comp)
		out = cloneComposition(comp)
		return nil
	})
	return out, err
}

// DeleteECUComposition removes the composition with all of its instances and connectors.
func (s *Store) DeleteECUComposition(id string) (domain.CascadeReport, error) {
	report := domain.NewCascadeReport()
	err := s.mutate("delete_ecu_composition", func(st *state) error {
		comp, ok := st.compositions.get(id)
		if !ok {
			return domain.NewNotFoundError(domain.KindECUComposition, id)
		}
		for _, c := range comp.Connectors {
			report.Add(domain.KindConnector, c.ID)
		}
		for _, inst := range comp.Instances {
			report.Add(domain.KindSWCInstance, inst.ID)
		}
		st.compositions.remove(id)
		report.Add(domain.KindECUComposition, id)
		return nil
	})
	if err != nil {
		return domain.CascadeReport{}, err
	}
	recordCascade(report)
	return report, nil
}

func instanceNameTaken(comp domain.ECUComposition, name, except string) bool {
	for _, inst := range comp.Instances {
		if inst.ID != except && sameName(inst.InstanceName, name) {
			return true
		}
	}
	return false
}

// AddSWCInstance places an SWC in a composition. Without an instance name the instance is
// called {SwcName}_{n}, n counting the SWC's instances in this composition.
func (s *Store) AddSWCInstance(compID string, spec domain.SWCInstanceSpec) (domain.SWCInstance, error) {
	if spec.SWCRef == "" {
		return domain.SWCInstance{}, domain.NewValidationError(domain.KindSWCInstance, "swc_ref", "swc_ref is required")
	}
	if spec.InstanceName != "" {
		if err := validateName(domain.KindSWCInstance, spec.InstanceName); err != nil {
			return domain.SWCInstance{}, err
		}
	}
	var out domain.SWCInstance
	err := s.mutate("add_swc_instance", func(st *state) error {
		comp, ok := st.compositions.get(compID)
		if !ok {
			return domain.NewNotFoundError(domain.KindECUComposition, compID)
		}
		swc, ok := st.swcs.get(spec.SWCRef)
		if !ok {
			return domain.NewNotFoundError(domain.KindSWC, spec.SWCRef)
		}
		name := spec.InstanceName
		if name == "" {
			n := 1
			for _, inst := range comp.Instances {
				if inst.SWCRef == swc.ID {
					n++
				}
			}
			for instanceNameTaken(comp, naming.InstanceName(swc.Name, n), "") {
				n++
			}
			name = naming.InstanceName(swc.Name, n)
			if err := validateName(domain.KindSWCInstance, name); err != nil {
				return err
			}
		} else if instanceNameTaken(comp, name, "") {
			return domain.NewConflictError(domain.KindSWCInstance, "", "composition already has an instance named "+name)
		}
		out = domain.SWCInstance{
			ID:               s.ids.NewID(utils.PrefixInstance),
			InstanceName:     name,
			SWCRef:           swc.ID,
			ECUCompositionID: compID,
		}
		comp.Instances = append(comp.Instances, out)
		st.compositions.put(compID, comp)
		return nil
	})
	return out, err
}

// UpdateSWCInstance renames an instance or points it at another SWC. Retargeting an instance
// that is wired by connectors is a conflict.
func (s *Store) UpdateSWCInstance(compID, id string, patch domain.SWCInstancePatch) (domain.SWCInstance, error) {
	var out domain.SWCInstance
	err := s.mutate("update_swc_instance", func(st *state) error {
		comp, ok := st.compositions.get(compID)
		if !ok {
			return domain.NewNotFoundError(domain.KindECUComposition, compID)
		}
		i, ok := findInstance(comp, id)
		if !ok {
			return domain.NewNotFoundError(domain.KindSWCInstance, id)
		}
		inst := comp.Instances[i]
		if patch.SWCRef != nil && *patch.SWCRef != inst.SWCRef {
			if _, ok := st.swcs.get(*patch.SWCRef); !ok {
				return domain.NewNotFoundError(domain.KindSWC, *patch.SWCRef)
			}
			for _, c := range comp.Connectors {
				if c.SourceInstanceID == id || c.TargetInstanceID == id {
					return domain.NewConflictError(domain.KindSWCInstance, id, "instance is wired by connectors; remove them before changing its SWC")
				}
			}
			inst.SWCRef = *patch.SWCRef
		}
		if patch.InstanceName != nil {
			if err := validateName(domain.KindSWCInstance, *patch.InstanceName); err != nil {
				return err
			}
			if instanceNameTaken(comp, *patch.InstanceName, id) {
				return domain.NewConflictError(domain.KindSWCInstance, id, "composition already has an instance named "+*patch.InstanceName)
			}
			inst.InstanceName = *patch.InstanceName
		}
		comp.Instances[i] = inst
		st.compositions.put(compID, comp)
		out = inst
		return nil
	})
	return out, err
}

// RemoveSWCInstance removes the instance and every connector of the composition touching it.
func (s *Store) RemoveSWCInstance(compID, id string) (domain.CascadeReport, error) {
	report := domain.NewCascadeReport()
	err := s.mutate("remove_swc_instance", func(st *state) error {
		comp, ok := st.compositions.get(compID)
		if !ok {
			return domain.NewNotFoundError(domain.KindECUComposition, compID)
		}
		i, ok := findInstance(comp, id)
		if !ok {
			return domain.NewNotFoundError(domain.KindSWCInstance, id)
		}
		kept := make([]domain.Connector, 0, len(comp.Connectors))
		for _, c := range comp.Connectors {
			if c.SourceInstanceID == id || c.TargetInstanceID == id {
				report.Add(domain.KindConnector, c.ID)
				continue
			}
			kept = append(kept, c)
		}
		comp.Connectors = kept
		comp.Instances = append(comp.Instances[:i:i], comp.Instances[i+1:]...)
		report.Add(domain.KindSWCInstance, id)
		st.compositions.put(compID, comp)
		return nil
	})
	if err != nil {
		return domain.CascadeReport{}, err
	}
	recordCascade(report)
	return report, nil
}

func samePair(c domain.Connector, spec domain.ConnectorSpec) bool {
	fwd := c.SourceInstanceID == spec.SourceInstanceID && c.SourcePortID == spec.SourcePortID &&
		c.TargetInstanceID == spec.TargetInstanceID && c.TargetPortID == spec.TargetPortID
	rev := c.SourceInstanceID == spec.TargetInstanceID && c.SourcePortID == spec.TargetPortID &&
		c.TargetInstanceID == spec.SourceInstanceID && c.TargetPortID == spec.SourcePortID
	return fwd || rev
}

// checkConnector validates a connector against its composition: both instances and ports
// exist, each port belongs to its instance's SWC, directions are opposite and both ports use
// the same interface.
func (st *state) checkConnector(comp domain.ECUComposition, spec domain.ConnectorSpec) (src, tgt domain.SWCInstance, srcPort, tgtPort domain.Port, err error) {
	si, ok := findInstance(comp, spec.SourceInstanceID)
	if !ok {
		err = domain.NewNotFoundError(domain.KindSWCInstance, spec.SourceInstanceID)
		return
	}
	ti, ok := findInstance(comp, spec.TargetInstanceID)
	if !ok {
		err = domain.NewNotFoundError(domain.KindSWCInstance, spec.TargetInstanceID)
		return
	}
	src, tgt = comp.Instances[si], comp.Instances[ti]
	if srcPort, ok = st.ports.get(spec.SourcePortID); !ok {
		err = domain.NewNotFoundError(domain.KindPort, spec.SourcePortID)
		return
	}
	if tgtPort, ok = st.ports.get(spec.TargetPortID); !ok {
		err = domain.NewNotFoundError(domain.KindPort, spec.TargetPortID)
		return
	}
	if srcPort.SWCID != src.SWCRef {
		err = domain.NewIncompatibleError(domain.KindConnector, "", "source port does not belong to the SWC of the source instance")
		return
	}
	if tgtPort.SWCID != tgt.SWCRef {
		err = domain.NewIncompatibleError(domain.KindConnector, "", "target port does not belong to the SWC of the target instance")
		return
	}
	if !srcPort.Direction.Opposite(tgtPort.Direction) {
		err = domain.NewIncompatibleError(domain.KindConnector, "", "connector needs one provided and one required port, both are "+string(srcPort.Direction))
		return
	}
	if srcPort.InterfaceRef != tgtPort.InterfaceRef {
		err = domain.NewIncompatibleError(domain.KindConnector, "", "ports reference different interfaces")
		return
	}
	return
}

// AddECUConnector wires two instances of a composition. Without a name the connector is
// called {srcInstance}_{srcPort}_To_{tgtInstance}_{tgtPort}.
func (s *Store) AddECUConnector(compID string, spec domain.ConnectorSpec) (domain.Connector, error) {
	if spec.SourceInstanceID == "" || spec.TargetInstanceID == "" || spec.SourcePortID == "" || spec.TargetPortID == "" {
		return domain.Connector{}, domain.NewValidationError(domain.KindConnector, "", "source and target instance and port ids are required")
	}
	if spec.SourceInstanceID == spec.TargetInstanceID {
		return domain.Connector{}, domain.NewValidationError(domain.KindConnector, "target_instance_id", "a connector must join two different instances")
	}
	if spec.Name != "" {
		if err := validateName(domain.KindConnector, spec.Name); err != nil {
			return domain.Connector{}, err
		}
	}
	var out domain.Connector
	err := s.mutate("add_ecu_connector", func(st *state) error {
		comp, ok := st.compositions.get(compID)
		if !ok {
			return domain.NewNotFoundError(domain.KindECUComposition, compID)
		}
		src, tgt, srcPort, tgtPort, err := st.checkConnector(comp, spec)
		if err != nil {
			return err
		}
		taken := map[string]bool{}
		for _, c := range comp.Connectors {
			if samePair(c, spec) {
				return domain.NewConflictError(domain.KindConnector, c.ID, "these ports are already connected")
			}
			taken[lower(c.Name)] = true
		}
		name := spec.Name
		if name == "" {
			name = naming.UniqueName(naming.ConnectorName(src.InstanceName, srcPort.Name, tgt.InstanceName, tgtPort.Name), taken)
			if err := validateName(domain.KindConnector, name); err != nil {
				return err
			}
		} else if taken[lower(name)] {
			return domain.NewConflictError(domain.KindConnector, "", "composition already has a connector named "+name)
		}
		out = domain.Connector{
			ID:               s.ids.NewID(utils.PrefixConnector),
			Name:             name,
			SourceInstanceID: spec.SourceInstanceID,
			SourcePortID:     spec.SourcePortID,
			TargetInstanceID: spec.TargetInstanceID,
			TargetPortID:     spec.TargetPortID,
			ECUCompositionID: compID,
		}
		comp.Connectors = append(comp.Connectors, out)
		st.compositions.put(compID, comp)
		return nil
	})
	return out, err
}

func (s *Store) RemoveECUConnector(compID, id string) error {
	return s.mutate("remove_ecu_connector", func(st *state) error {
		comp, ok := st.compositions.get(compID)
		if !ok {
			return domain.NewNotFoundError(domain.KindECUComposition, compID)
		}
		i, ok := findConnector(comp, id)
		if !ok {
			return domain.NewNotFoundError(domain.KindConnector, id)
		}
		comp.Connectors = append(comp.Connectors[:i:i], comp.Connectors[i+1:]...)
		st.compositions.put(compID, comp)
		return nil
	})
}

func (s *Store) GetECUComposition(id string) (domain.ECUComposition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comp, ok := s.state.compositions.get(id)
	if !ok {
		return domain.ECUComposition{}, domain.NewNotFoundError(domain.KindECUComposition, id)
	}
	return cloneComposition(comp), nil
}

func (s *Store) ListECUCompositions() []domain.ECUComposition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.compositions.list(nil, cloneComposition)
}

func (s *Store) FindECUCompositionByName(name string) (domain.ECUComposition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.state.compositions.order {
		if c := s.state.compositions.rows[id]; sameName(c.Name, name) {
			return cloneComposition(c), true
		}
	}
	return domain.ECUComposition{}, false
}

func (s *Store) FindInstanceByName(compID, name string) (domain.SWCInstance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comp, ok := s.state.compositions.get(compID)
	if !ok {
		return domain.SWCInstance{}, false
	}
	for _, inst := range comp.Instances {
		if sameName(inst.InstanceName, name) {
			return inst, true
		}
	}
	return domain.SWCInstance{}, false
}
