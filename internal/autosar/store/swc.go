package store

import (
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/utils"
)

func validateSWCShape(name string, cat domain.SWCCategory, kind domain.SWCKind) error {
	if err := validateName(domain.KindSWC, name); err != nil {
		return err
	}
	if !cat.Valid() {
		return domain.NewValidationError(domain.KindSWC, "category", "unknown category "+string(cat))
	}
	if !kind.Valid() {
		return domain.NewValidationError(domain.KindSWC, "kind", "kind must be atomic or composition")
	}
	return nil
}

func (s *Store) CreateSWC(spec domain.SWCSpec) (domain.SWC, error) {
	if err := validateSWCShape(spec.Name, spec.Category, spec.Kind); err != nil {
		return domain.SWC{}, err
	}
	var out domain.SWC
	err := s.mutate("create_swc", func(st *state) error {
		if st.swcNameTaken(spec.Name, "") {
			return domain.NewConflictError(domain.KindSWC, "", "an SWC named "+spec.Name+" already exists")
		}
		out = domain.SWC{
			ID:          s.ids.NewID(utils.PrefixSWC),
			Name:        spec.Name,
			Description: spec.Description,
			Category:    spec.Category,
			Kind:        spec.Kind,
		}
		st.swcs.put(out.ID, out)
		return nil
	})
	return out, err
}

func (s *Store) UpdateSWC(id string, patch domain.SWCPatch) (domain.SWC, error) {
	var out domain.SWC
	err := s.mutate("update_swc", func(st *state) error {
		swc, ok := st.swcs.get(id)
		if !ok {
			return domain.NewNotFoundError(domain.KindSWC, id)
		}
		if patch.Name != nil {
			swc.Name = *patch.Name
		}
		if patch.Description != nil {
			swc.Description = *patch.Description
		}
		if patch.Category != nil {
			swc.Category = *patch.Category
		}
		if patch.Kind != nil {
			swc.Kind = *patch.Kind
		}
		if err := validateSWCShape(swc.Name, swc.Category, swc.Kind); err != nil {
			return err
		}
		if swc.Kind != domain.SWCAtomic && len(st.runnablesOf(id)) > 0 {
			return domain.NewConflictError(domain.KindSWC, id, "only atomic SWCs may own runnables; delete them first")
		}
		if st.swcNameTaken(swc.Name, id) {
			return domain.NewConflictError(domain.KindSWC, id, "an SWC named "+swc.Name+" already exists")
		}
		st.swcs.put(id, swc)
		out = swc
		return nil
	})
	return out, err
}

// DeleteSWC removes the SWC with its ports, runnables and access points, every instance of it
// in any composition, and every connector touching one of those instances.
func (s *Store) DeleteSWC(id string) (domain.CascadeReport, error) {
	report := domain.NewCascadeReport()
	err := s.mutate("delete_swc", func(st *state) error {
		if _, ok := st.swcs.get(id); !ok {
			return domain.NewNotFoundError(domain.KindSWC, id)
		}

		ports := st.portsOf(id)
		runnables := st.runnablesOf(id)
		aps := st.accessPointsWhere(func(ap domain.AccessPoint) bool { return ap.SWCID == id })

		type compCut struct {
			instances  map[string]bool
			connectors map[string]bool
		}
		cuts := map[string]compCut{}
		for _, cid := range st.compositions.order {
			comp := st.compositions.rows[cid]
			cut := compCut{instances: map[string]bool{}, connectors: map[string]bool{}}
			for _, inst := range comp.Instances {
				if inst.SWCRef == id {
					cut.instances[inst.ID] = true
				}
			}
			if len(cut.instances) == 0 {
				continue
			}
			for _, c := range comp.Connectors {
				if cut.instances[c.SourceInstanceID] || cut.instances[c.TargetInstanceID] {
					cut.connectors[c.ID] = true
				}
			}
			cuts[cid] = cut
		}

		// apply
		for _, apID := range aps {
			st.accessPoints.remove(apID)
			report.Add(domain.KindAccessPoint, apID)
		}
		for _, rid := range runnables {
			st.runnables.remove(rid)
			report.Add(domain.KindRunnable, rid)
		}
		for _, pid := range ports {
			st.ports.remove(pid)
			report.Add(domain.KindPort, pid)
		}
		for _, cid := range st.compositions.order {
			cut, ok := cuts[cid]
			if !ok {
				continue
			}
			comp := st.compositions.rows[cid]
			conns := comp.Connectors[:0]
			for _, c := range comp.Connectors {
				if cut.connectors[c.ID] {
					report.Add(domain.KindConnector, c.ID)
					continue
				}
				conns = append(conns, c)
			}
			comp.Connectors = conns
			insts := comp.Instances[:0]
			for _, inst := range comp.Instances {
				if cut.instances[inst.ID] {
					report.Add(domain.KindSWCInstance, inst.ID)
					continue
				}
				insts = append(insts, inst)
			}
			comp.Instances = insts
			st.compositions.put(cid, comp)
		}
		st.swcs.remove(id)
		return nil
	})
	if err != nil {
		return domain.CascadeReport{}, err
	}
	recordCascade(report)
	return report, nil
}

func (s *Store) GetSWC(id string) (domain.SWC, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	swc, ok := s.state.swcs.get(id)
	if !ok {
		return domain.SWC{}, domain.NewNotFoundError(domain.KindSWC, id)
	}
	return swc, nil
}

func (s *Store) ListSWCs() []domain.SWC {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.swcs.list(nil, same[domain.SWC])
}

func (s *Store) FindSWCByName(name string) (domain.SWC, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.state.swcs.order {
		if v := s.state.swcs.rows[id]; sameName(v.Name, name) {
			return v, true
		}
	}
	return domain.SWC{}, false
}
