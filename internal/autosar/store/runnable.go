package store

import (
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/utils"
)

func validateRunnableShape(r domain.Runnable) error {
	if err := validateName(domain.KindRunnable, r.Name); err != nil {
		return err
	}
	if r.SWCID == "" {
		return domain.NewValidationError(domain.KindRunnable, "swc_id", "swc_id is required")
	}
	if !r.RunnableType.Valid() {
		return domain.NewValidationError(domain.KindRunnable, "runnable_type", "runnable_type must be init, periodic or event")
	}
	if r.RunnableType == domain.RunnablePeriodic && r.Period <= 0 {
		return domain.NewValidationError(domain.KindRunnable, "period", "periodic runnables require period > 0")
	}
	if r.RunnableType != domain.RunnablePeriodic && r.Period != 0 {
		return domain.NewValidationError(domain.KindRunnable, "period", "period is only allowed on periodic runnables")
	}
	if r.RunnableType != domain.RunnableEvent && r.TriggerPortID != "" {
		return domain.NewValidationError(domain.KindRunnable, "trigger_port_id", "only event runnables have a trigger port")
	}
	return nil
}

// checkRunnableRefs validates the owner SWC and the trigger port of r.
func (st *state) checkRunnableRefs(r domain.Runnable) error {
	swc, ok := st.swcs.get(r.SWCID)
	if !ok {
		return domain.NewNotFoundError(domain.KindSWC, r.SWCID)
	}
	if r.TriggerPortID != "" {
		port, ok := st.ports.get(r.TriggerPortID)
		if !ok {
			return domain.NewNotFoundError(domain.KindPort, r.TriggerPortID)
		}
		if port.SWCID != r.SWCID {
			return domain.NewIncompatibleError(domain.KindRunnable, r.ID, "trigger port belongs to another SWC")
		}
	}
	if swc.Kind != domain.SWCAtomic {
		return domain.NewValidationError(domain.KindRunnable, "swc_id", "runnables require an atomic SWC")
	}
	return nil
}

func (s *Store) CreateRunnable(swcID string, spec domain.RunnableSpec) (domain.Runnable, error) {
	r := domain.Runnable{
		Name:                     spec.Name,
		SWCID:                    swcID,
		RunnableType:             spec.RunnableType,
		Period:                   spec.Period,
		CanBeInvokedConcurrently: spec.CanBeInvokedConcurrently,
		Symbol:                   spec.Symbol,
		TriggerPortID:            spec.TriggerPortID,
	}
	if err := validateRunnableShape(r); err != nil {
		return domain.Runnable{}, err
	}
	err := s.mutate("create_runnable", func(st *state) error {
		if err := st.checkRunnableRefs(r); err != nil {
			return err
		}
		if st.runnableNameTaken(swcID, r.Name, "") {
			return domain.NewConflictError(domain.KindRunnable, "", "SWC already has a runnable named "+r.Name)
		}
		r.ID = s.ids.NewID(utils.PrefixRunnable)
		st.runnables.put(r.ID, r)
		return nil
	})
	if err != nil {
		return domain.Runnable{}, err
	}
	return r, nil
}

// UpdateRunnable re-checks the trigger, the period rule and name uniqueness. Renaming does not
// rename existing access points.
func (s *Store) UpdateRunnable(id string, patch domain.RunnablePatch) (domain.Runnable, error) {
	var out domain.Runnable
	err := s.mutate("update_runnable", func(st *state) error {
		r, ok := st.runnables.get(id)
		if !ok {
			return domain.NewNotFoundError(domain.KindRunnable, id)
		}
		if patch.Name != nil {
			r.Name = *patch.Name
		}
		if patch.RunnableType != nil {
			r.RunnableType = *patch.RunnableType
		}
		if patch.Period != nil {
			r.Period = *patch.Period
		}
		if patch.CanBeInvokedConcurrently != nil {
			r.CanBeInvokedConcurrently = *patch.CanBeInvokedConcurrently
		}
		if patch.Symbol != nil {
			r.Symbol = *patch.Symbol
		}
		if patch.TriggerPortID != nil {
			r.TriggerPortID = *patch.TriggerPortID
		}
		if err := validateRunnableShape(r); err != nil {
			return err
		}
		if err := st.checkRunnableRefs(r); err != nil {
			return err
		}
		if st.runnableNameTaken(r.SWCID, r.Name, id) {
			return domain.NewConflictError(domain.KindRunnable, id, "SWC already has a runnable named "+r.Name)
		}
		st.runnables.put(id, r)
		out = r
		return nil
	})
	return out, err
}

// DeleteRunnable removes the runnable and its access points.
func (s *Store) DeleteRunnable(id string) (domain.CascadeReport, error) {
	report := domain.NewCascadeReport()
	err := s.mutate("delete_runnable", func(st *state) error {
		if _, ok := st.runnables.get(id); !ok {
			return domain.NewNotFoundError(domain.KindRunnable, id)
		}
		for _, apID := range st.accessPointsWhere(func(ap domain.AccessPoint) bool { return ap.RunnableID == id }) {
			st.accessPoints.remove(apID)
			report.Add(domain.KindAccessPoint, apID)
		}
		st.runnables.remove(id)
		report.Add(domain.KindRunnable, id)
		return nil
	})
	if err != nil {
		return domain.CascadeReport{}, err
	}
	recordCascade(report)
	return report, nil
}

func (s *Store) GetRunnable(id string) (domain.Runnable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.state.runnables.get(id)
	if !ok {
		return domain.Runnable{}, domain.NewNotFoundError(domain.KindRunnable, id)
	}
	return r, nil
}

// ListRunnables returns the runnables of one SWC, or all of them when swcID is empty.
func (s *Store) ListRunnables(swcID string) []domain.Runnable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.runnables.list(func(r domain.Runnable) bool { return swcID == "" || r.SWCID == swcID }, same[domain.Runnable])
}

func (s *Store) FindRunnableByName(swcID, name string) (domain.Runnable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.state.runnables.order {
		if r := s.state.runnables.rows[id]; r.SWCID == swcID && sameName(r.Name, name) {
			return r, true
		}
	}
	return domain.Runnable{}, false
}
