package store

import (
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/utils"
)

func (s *Store) CreatePort(spec domain.PortSpec) (domain.Port, error) {
	if err := validateName(domain.KindPort, spec.Name); err != nil {
		return domain.Port{}, err
	}
	if !spec.Direction.Valid() {
		return domain.Port{}, domain.NewValidationError(domain.KindPort, "direction", "direction must be provided or required")
	}
	if spec.SWCID == "" {
		return domain.Port{}, domain.NewValidationError(domain.KindPort, "swc_id", "swc_id is required")
	}
	if spec.InterfaceRef == "" {
		return domain.Port{}, domain.NewValidationError(domain.KindPort, "interface_ref", "interface_ref is required")
	}

	var out domain.Port
	err := s.mutate("create_port", func(st *state) error {
		if _, ok := st.swcs.get(spec.SWCID); !ok {
			return domain.NewNotFoundError(domain.KindSWC, spec.SWCID)
		}
		if _, ok := st.interfaces.get(spec.InterfaceRef); !ok {
			return domain.NewNotFoundError(domain.KindInterface, spec.InterfaceRef)
		}
		if st.portNameTaken(spec.SWCID, spec.Name, "") {
			return domain.NewConflictError(domain.KindPort, "", "SWC already has a port named "+spec.Name)
		}
		out = domain.Port{
			ID:           s.ids.NewID(utils.PrefixPort),
			Name:         spec.Name,
			Direction:    spec.Direction,
			InterfaceRef: spec.InterfaceRef,
			SWCID:        spec.SWCID,
		}
		st.ports.put(out.ID, out)
		return nil
	})
	return out, err
}

// UpdatePort renames a port or relinks it. Changing the interface or direction of a port that
// is wired by a connector, or whose interface is used by access points, is a conflict.
func (s *Store) UpdatePort(id string, patch domain.PortPatch) (domain.Port, error) {
	var out domain.Port
	err := s.mutate("update_port", func(st *state) error {
		port, ok := st.ports.get(id)
		if !ok {
			return domain.NewNotFoundError(domain.KindPort, id)
		}
		next := port
		if patch.Name != nil {
			next.Name = *patch.Name
		}
		if patch.Direction != nil {
			next.Direction = *patch.Direction
		}
		if patch.InterfaceRef != nil {
			next.InterfaceRef = *patch.InterfaceRef
		}
		if err := validateName(domain.KindPort, next.Name); err != nil {
			return err
		}
		if !next.Direction.Valid() {
			return domain.NewValidationError(domain.KindPort, "direction", "direction must be provided or required")
		}
		if _, ok := st.interfaces.get(next.InterfaceRef); !ok {
			return domain.NewNotFoundError(domain.KindInterface, next.InterfaceRef)
		}
		relinked := next.InterfaceRef != port.InterfaceRef
		if (relinked || next.Direction != port.Direction) && st.connectorsUsingPort(id) > 0 {
			return domain.NewConflictError(domain.KindPort, id, "port is wired by connectors; remove them before changing interface or direction")
		}
		if relinked && len(st.accessPointsWhere(func(ap domain.AccessPoint) bool { return ap.PortID == id })) > 0 {
			return domain.NewConflictError(domain.KindPort, id, "access points go through this port; remove them before changing its interface")
		}
		if st.portNameTaken(port.SWCID, next.Name, id) {
			return domain.NewConflictError(domain.KindPort, id, "SWC already has a port named "+next.Name)
		}
		st.ports.put(id, next)
		out = next
		return nil
	})
	return out, err
}

// DeletePort removes the port, the access points that go through it and every connector
// wired to it. Event runnables triggered by the port lose their trigger.
func (s *Store) DeletePort(id string) (domain.CascadeReport, error) {
	report := domain.NewCascadeReport()
	err := s.mutate("delete_port", func(st *state) error {
		if _, ok := st.ports.get(id); !ok {
			return domain.NewNotFoundError(domain.KindPort, id)
		}
		for _, apID := range st.accessPointsWhere(func(ap domain.AccessPoint) bool { return ap.PortID == id }) {
			st.accessPoints.remove(apID)
			report.Add(domain.KindAccessPoint, apID)
		}
		for _, rid := range st.runnables.order {
			if r := st.runnables.rows[rid]; r.TriggerPortID == id {
				r.TriggerPortID = ""
				st.runnables.put(rid, r)
			}
		}
		for _, cid := range st.compositions.order {
			comp := st.compositions.rows[cid]
			kept := comp.Connectors[:0]
			removed := false
			for _, c := range comp.Connectors {
				if c.SourcePortID == id || c.TargetPortID == id {
					report.Add(domain.KindConnector, c.ID)
					removed = true
					continue
				}
				kept = append(kept, c)
			}
			if removed {
				comp.Connectors = kept
				st.compositions.put(cid, comp)
			}
		}
		st.ports.remove(id)
		report.Add(domain.KindPort, id)
		return nil
	})
	if err != nil {
		return domain.CascadeReport{}, err
	}
	recordCascade(report)
	return report, nil
}

func (s *Store) GetPort(id string) (domain.Port, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.ports.get(id)
	if !ok {
		return domain.Port{}, domain.NewNotFoundError(domain.KindPort, id)
	}
	return p, nil
}

// ListPorts returns the ports of one SWC, or of every SWC when swcID is empty.
func (s *Store) ListPorts(swcID string) []domain.Port {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ports.list(func(p domain.Port) bool { return swcID == "" || p.SWCID == swcID }, same[domain.Port])
}

func (s *Store) FindPortByName(swcID, name string) (domain.Port, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.state.ports.order {
		if p := s.state.ports.rows[id]; p.SWCID == swcID && sameName(p.Name, name) {
			return p, true
		}
	}
	return domain.Port{}, false
}
