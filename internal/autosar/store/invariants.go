package store

import (
	"strings"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/naming"
)

type nameScope map[string]bool

// claim records name in the scope and reports whether it was already there.
func (n nameScope) claim(name string) bool {
	k := strings.ToLower(name)
	if n[k] {
		return true
	}
	n[k] = true
	return false
}

// CheckInvariants verifies a snapshot: every reference resolves, names are unique in their
// scope, access points and connectors respect SWC ownership, and data types are well formed.
// It returns the first violation found.
func CheckInvariants(snap domain.ProjectSnapshot) error {
	if snap.Project.ID == "" {
		return domain.NewValidationError(domain.KindProject, "id", "project id is required")
	}
	if err := validateVersion(domain.KindProject, snap.Project.AutosarVersion); err != nil {
		return err
	}
	st := stateFromSnapshot(snap)

	// ids must be unique inside each collection
	if len(st.swcs.rows) != len(snap.SWCs) || len(st.ports.rows) != len(snap.Ports) ||
		len(st.interfaces.rows) != len(snap.Interfaces) || len(st.dataTypes.rows) != len(snap.DataTypes) ||
		len(st.runnables.rows) != len(snap.Runnables) || len(st.accessPoints.rows) != len(snap.AccessPoints) ||
		len(st.compositions.rows) != len(snap.Compositions) {
		return domain.NewConflictError(domain.KindProject, snap.Project.ID, "duplicate entity id")
	}

	names := nameScope{}
	for _, dt := range snap.DataTypes {
		if err := validateDataTypeShape(dt.Name, dt.Category, dt.BaseType, dt.ArraySize, dt.Elements); err != nil {
			return err
		}
		if names.claim(dt.Name) {
			return domain.NewConflictError(domain.KindDataType, dt.ID, "duplicate name "+dt.Name)
		}
		for _, dep := range dataTypeDeps(dt) {
			if !st.typeRefResolves(dep) {
				return domain.NewNotFoundError(domain.KindDataType, dep)
			}
		}
		if st.typeCycle(dt.ID) {
			return domain.NewConflictError(domain.KindDataType, dt.ID, "data type references itself")
		}
	}

	names = nameScope{}
	for _, iface := range snap.Interfaces {
		if err := validateName(domain.KindInterface, iface.Name); err != nil {
			return err
		}
		if !iface.Kind.Valid() {
			return domain.NewValidationError(domain.KindInterface, "kind", "unknown kind "+string(iface.Kind))
		}
		if names.claim(iface.Name) {
			return domain.NewConflictError(domain.KindInterface, iface.ID, "duplicate name "+iface.Name)
		}
		if iface.Kind == domain.InterfaceSenderReceiver && len(iface.Operations) > 0 {
			return domain.NewValidationError(domain.KindInterface, "operations", "operations require a ClientServer interface")
		}
		if iface.Kind == domain.InterfaceClientServer && len(iface.DataElements) > 0 {
			return domain.NewValidationError(domain.KindInterface, "data_elements", "data elements require a SenderReceiver interface")
		}
		members := nameScope{}
		for _, de := range iface.DataElements {
			if members.claim(de.Name) {
				return domain.NewConflictError(domain.KindDataElement, de.ID, "duplicate name "+de.Name)
			}
			if !st.typeRefResolves(de.ApplicationDataTypeRef) {
				return domain.NewNotFoundError(domain.KindDataType, de.ApplicationDataTypeRef)
			}
		}
		for _, op := range iface.Operations {
			if members.claim(op.Name) {
				return domain.NewConflictError(domain.KindOperation, op.ID, "duplicate name "+op.Name)
			}
			for _, a := range op.Arguments {
				if !st.typeRefResolves(a.TypeRef) {
					return domain.NewNotFoundError(domain.KindDataType, a.TypeRef)
				}
			}
		}
	}

	names = nameScope{}
	for _, swc := range snap.SWCs {
		if err := validateSWCShape(swc.Name, swc.Category, swc.Kind); err != nil {
			return err
		}
		if names.claim(swc.Name) {
			return domain.NewConflictError(domain.KindSWC, swc.ID, "duplicate name "+swc.Name)
		}
	}

	portNames := map[string]nameScope{}
	for _, p := range snap.Ports {
		if _, ok := st.swcs.get(p.SWCID); !ok {
			return domain.NewNotFoundError(domain.KindSWC, p.SWCID)
		}
		if _, ok := st.interfaces.get(p.InterfaceRef); !ok {
			return domain.NewNotFoundError(domain.KindInterface, p.InterfaceRef)
		}
		if !p.Direction.Valid() {
			return domain.NewValidationError(domain.KindPort, "direction", "unknown direction "+string(p.Direction))
		}
		if err := validateName(domain.KindPort, p.Name); err != nil {
			return err
		}
		if portNames[p.SWCID] == nil {
			portNames[p.SWCID] = nameScope{}
		}
		if portNames[p.SWCID].claim(p.Name) {
			return domain.NewConflictError(domain.KindPort, p.ID, "duplicate name "+p.Name)
		}
	}

	runNames := map[string]nameScope{}
	for _, r := range snap.Runnables {
		if err := validateRunnableShape(r); err != nil {
			return err
		}
		if err := st.checkRunnableRefs(r); err != nil {
			return err
		}
		if runNames[r.SWCID] == nil {
			runNames[r.SWCID] = nameScope{}
		}
		if runNames[r.SWCID].claim(r.Name) {
			return domain.NewConflictError(domain.KindRunnable, r.ID, "duplicate name "+r.Name)
		}
	}

	apNames := map[string]nameScope{}
	for _, ap := range snap.AccessPoints {
		if ap.Name == "" {
			return domain.NewValidationError(domain.KindAccessPoint, "name", "name is required")
		}
		if err := validateAccessPointShape(ap); err != nil {
			return err
		}
		if _, _, err := st.checkAccessPointRefs(ap); err != nil {
			return err
		}
		if apNames[ap.RunnableID] == nil {
			apNames[ap.RunnableID] = nameScope{}
		}
		if apNames[ap.RunnableID].claim(ap.Name) {
			return domain.NewConflictError(domain.KindAccessPoint, ap.ID, "duplicate name "+ap.Name)
		}
	}

	names = nameScope{}
	for _, comp := range snap.Compositions {
		if err := validateName(domain.KindECUComposition, comp.Name); err != nil {
			return err
		}
		if err := validateVersion(domain.KindECUComposition, comp.AutosarVersion); err != nil {
			return err
		}
		if names.claim(comp.Name) {
			return domain.NewConflictError(domain.KindECUComposition, comp.ID, "duplicate name "+comp.Name)
		}
		instNames := nameScope{}
		for _, inst := range comp.Instances {
			if inst.ECUCompositionID != comp.ID {
				return domain.NewIncompatibleError(domain.KindSWCInstance, inst.ID, "instance is filed under another composition")
			}
			if _, ok := st.swcs.get(inst.SWCRef); !ok {
				return domain.NewNotFoundError(domain.KindSWC, inst.SWCRef)
			}
			if !naming.IsShortName(inst.InstanceName) {
				return domain.NewValidationError(domain.KindSWCInstance, "instance_name", "invalid instance name "+inst.InstanceName)
			}
			if instNames.claim(inst.InstanceName) {
				return domain.NewConflictError(domain.KindSWCInstance, inst.ID, "duplicate name "+inst.InstanceName)
			}
		}
		connNames := nameScope{}
		for i, c := range comp.Connectors {
			if c.ECUCompositionID != comp.ID {
				return domain.NewIncompatibleError(domain.KindConnector, c.ID, "connector is filed under another composition")
			}
			spec := domain.ConnectorSpec{
				SourceInstanceID: c.SourceInstanceID, SourcePortID: c.SourcePortID,
				TargetInstanceID: c.TargetInstanceID, TargetPortID: c.TargetPortID,
			}
			if c.SourceInstanceID == c.TargetInstanceID {
				return domain.NewValidationError(domain.KindConnector, "target_instance_id", "a connector must join two different instances")
			}
			if _, _, _, _, err := st.checkConnector(comp, spec); err != nil {
				return err
			}
			for _, prev := range comp.Connectors[:i] {
				if samePair(prev, spec) {
					return domain.NewConflictError(domain.KindConnector, c.ID, "duplicate connector")
				}
			}
			if err := validateName(domain.KindConnector, c.Name); err != nil {
				return err
			}
			if connNames.claim(c.Name) {
				return domain.NewConflictError(domain.KindConnector, c.ID, "duplicate name "+c.Name)
			}
		}
	}
	return nil
}
