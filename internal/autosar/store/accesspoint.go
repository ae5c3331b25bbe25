package store

import (
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/naming"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/utils"
)

// checkAccessPointRefs runs the existence, then ownership, then compatibility checks for ap.
// It returns the owning SWC and runnable for name generation.
func (st *state) checkAccessPointRefs(ap domain.AccessPoint) (domain.SWC, domain.Runnable, error) {
	swc, ok := st.swcs.get(ap.SWCID)
	if !ok {
		return domain.SWC{}, domain.Runnable{}, domain.NewNotFoundError(domain.KindSWC, ap.SWCID)
	}
	run, ok := st.runnables.get(ap.RunnableID)
	if !ok {
		return domain.SWC{}, domain.Runnable{}, domain.NewNotFoundError(domain.KindRunnable, ap.RunnableID)
	}
	port, ok := st.ports.get(ap.PortID)
	if !ok {
		return domain.SWC{}, domain.Runnable{}, domain.NewNotFoundError(domain.KindPort, ap.PortID)
	}
	iface, ok := st.interfaces.get(port.InterfaceRef)
	if !ok {
		return domain.SWC{}, domain.Runnable{}, domain.NewNotFoundError(domain.KindInterface, port.InterfaceRef)
	}

	if run.SWCID != ap.SWCID {
		return domain.SWC{}, domain.Runnable{}, domain.NewIncompatibleError(domain.KindAccessPoint, ap.ID, "runnable belongs to another SWC")
	}
	if port.SWCID != ap.SWCID {
		return domain.SWC{}, domain.Runnable{}, domain.NewIncompatibleError(domain.KindAccessPoint, ap.ID, "port belongs to another SWC than the runnable")
	}
	if iface.Kind != ap.Type.InterfaceKind() {
		return domain.SWC{}, domain.Runnable{}, domain.NewIncompatibleError(domain.KindAccessPoint, ap.ID,
			string(ap.Type)+" needs a "+string(ap.Type.InterfaceKind())+" port, got "+string(iface.Kind))
	}
	if ap.ElementRef != "" {
		var found bool
		if ap.Type == domain.AccessCall {
			_, found = findOperation(iface, ap.ElementRef)
		} else {
			_, found = findElement(iface, ap.ElementRef)
		}
		if !found {
			return domain.SWC{}, domain.Runnable{}, domain.NewIncompatibleError(domain.KindAccessPoint, ap.ID, "element "+ap.ElementRef+" is not part of interface "+iface.Name)
		}
	}
	return swc, run, nil
}

func validateAccessPointShape(ap domain.AccessPoint) error {
	if !ap.Type.Valid() {
		return domain.NewValidationError(domain.KindAccessPoint, "type", "type must be iRead, iWrite or iCall")
	}
	if !ap.Access.Valid() {
		return domain.NewValidationError(domain.KindAccessPoint, "access", "access must be implicit or explicit")
	}
	if ap.SWCID == "" || ap.RunnableID == "" || ap.PortID == "" {
		return domain.NewValidationError(domain.KindAccessPoint, "", "swc_id, runnable_id and port_id are required")
	}
	if ap.Name != "" {
		return validateName(domain.KindAccessPoint, ap.Name)
	}
	return nil
}

// CreateAccessPoint generates Rte_{Read|Write|Call}_{swc}_{runnable} when no name is given,
// suffixed with _2, _3, ... if the runnable already uses it. Explicit names are never altered.
// A generated name that is not a valid short name fails validation.
func (s *Store) CreateAccessPoint(spec domain.AccessPointSpec) (domain.AccessPoint, error) {
	ap := domain.AccessPoint{
		Name:       spec.Name,
		Type:       spec.Type,
		Access:     spec.Access,
		SWCID:      spec.SWCID,
		RunnableID: spec.RunnableID,
		PortID:     spec.PortID,
		ElementRef: spec.ElementRef,
	}
	if err := validateAccessPointShape(ap); err != nil {
		return domain.AccessPoint{}, err
	}
	err := s.mutate("create_access_point", func(st *state) error {
		swc, run, err := st.checkAccessPointRefs(ap)
		if err != nil {
			return err
		}
		taken := st.accessPointNames(ap.RunnableID, "")
		if ap.Name == "" {
			base, err := naming.AccessPointName(swc.Name, run.Name, ap.Type)
			if err != nil {
				return err
			}
			ap.Name = naming.UniqueName(base, taken)
			if err := validateName(domain.KindAccessPoint, ap.Name); err != nil {
				return err
			}
		} else if taken[lower(ap.Name)] {
			return domain.NewConflictError(domain.KindAccessPoint, "", "runnable already has an access point named "+ap.Name)
		}
		ap.ID = s.ids.NewID(utils.PrefixAccessPoint)
		st.accessPoints.put(ap.ID, ap)
		return nil
	})
	if err != nil {
		return domain.AccessPoint{}, err
	}
	return ap, nil
}

// PreviewAccessPointName returns the name CreateAccessPoint would generate, without committing.
func (s *Store) PreviewAccessPointName(swcID, runnableID string, t domain.AccessType) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	swc, ok := s.state.swcs.get(swcID)
	if !ok {
		return "", domain.NewNotFoundError(domain.KindSWC, swcID)
	}
	run, ok := s.state.runnables.get(runnableID)
	if !ok {
		return "", domain.NewNotFoundError(domain.KindRunnable, runnableID)
	}
	if run.SWCID != swcID {
		return "", domain.NewIncompatibleError(domain.KindAccessPoint, "", "runnable belongs to another SWC")
	}
	base, err := naming.AccessPointName(swc.Name, run.Name, t)
	if err != nil {
		return "", err
	}
	name := naming.UniqueName(base, s.state.accessPointNames(runnableID, ""))
	if err := validateName(domain.KindAccessPoint, name); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Store) UpdateAccessPoint(id string, patch domain.AccessPointPatch) (domain.AccessPoint, error) {
	var out domain.AccessPoint
	err := s.mutate("update_access_point", func(st *state) error {
		ap, ok := st.accessPoints.get(id)
		if !ok {
			return domain.NewNotFoundError(domain.KindAccessPoint, id)
		}
		if patch.Name != nil {
			if *patch.Name == "" {
				return domain.NewValidationError(domain.KindAccessPoint, "name", "name is required")
			}
			ap.Name = *patch.Name
		}
		if patch.Access != nil {
			ap.Access = *patch.Access
		}
		if patch.PortID != nil {
			ap.PortID = *patch.PortID
		}
		if patch.ElementRef != nil {
			ap.ElementRef = *patch.ElementRef
		}
		if err := validateAccessPointShape(ap); err != nil {
			return err
		}
		if _, _, err := st.checkAccessPointRefs(ap); err != nil {
			return err
		}
		if st.accessPointNames(ap.RunnableID, id)[lower(ap.Name)] {
			return domain.NewConflictError(domain.KindAccessPoint, id, "runnable already has an access point named "+ap.Name)
		}
		st.accessPoints.put(id, ap)
		out = ap
		return nil
	})
	return out, err
}

func (s *Store) DeleteAccessPoint(id string) error {
	return s.mutate("delete_access_point", func(st *state) error {
		if _, ok := st.accessPoints.get(id); !ok {
			return domain.NewNotFoundError(domain.KindAccessPoint, id)
		}
		st.accessPoints.remove(id)
		return nil
	})
}

func (s *Store) GetAccessPoint(id string) (domain.AccessPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ap, ok := s.state.accessPoints.get(id)
	if !ok {
		return domain.AccessPoint{}, domain.NewNotFoundError(domain.KindAccessPoint, id)
	}
	return ap, nil
}

// ListAccessPoints returns the access points of one runnable, or all of them when runnableID is empty.
func (s *Store) ListAccessPoints(runnableID string) []domain.AccessPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.accessPoints.list(func(ap domain.AccessPoint) bool {
		return runnableID == "" || ap.RunnableID == runnableID
	}, same[domain.AccessPoint])
}
