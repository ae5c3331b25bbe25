package store

import (
	"strings"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/utils"
)

func validateElementSpec(spec domain.DataElementSpec) error {
	if err := validateName(domain.KindDataElement, spec.Name); err != nil {
		return err
	}
	if spec.ApplicationDataTypeRef == "" {
		return domain.NewValidationError(domain.KindDataElement, "application_data_type_ref", "application_data_type_ref is required")
	}
	return nil
}

func validateOperationSpec(spec domain.OperationSpec) error {
	if err := validateName(domain.KindOperation, spec.Name); err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, a := range spec.Arguments {
		if err := validateName(domain.KindOperation, a.Name); err != nil {
			return err
		}
		if !a.Direction.Valid() {
			return domain.NewValidationError(domain.KindOperation, "arguments", "argument direction must be in, out or inout")
		}
		if a.TypeRef == "" {
			return domain.NewValidationError(domain.KindOperation, "arguments", "argument "+a.Name+" needs a type_ref")
		}
		if seen[strings.ToLower(a.Name)] {
			return domain.NewValidationError(domain.KindOperation, "arguments", "duplicate argument "+a.Name)
		}
		seen[strings.ToLower(a.Name)] = true
	}
	return nil
}

func validateInterfaceSpec(spec domain.InterfaceSpec) error {
	if err := validateName(domain.KindInterface, spec.Name); err != nil {
		return err
	}
	if !spec.Kind.Valid() {
		return domain.NewValidationError(domain.KindInterface, "kind", "kind must be SenderReceiver or ClientServer")
	}
	if spec.Kind == domain.InterfaceSenderReceiver && len(spec.Operations) > 0 {
		return domain.NewValidationError(domain.KindInterface, "operations", "operations require a ClientServer interface")
	}
	if spec.Kind == domain.InterfaceClientServer && len(spec.DataElements) > 0 {
		return domain.NewValidationError(domain.KindInterface, "data_elements", "data elements require a SenderReceiver interface")
	}
	seen := map[string]bool{}
	for _, de := range spec.DataElements {
		if err := validateElementSpec(de); err != nil {
			return err
		}
		if seen[strings.ToLower(de.Name)] {
			return domain.NewConflictError(domain.KindDataElement, "", "duplicate data element "+de.Name)
		}
		seen[strings.ToLower(de.Name)] = true
	}
	for _, op := range spec.Operations {
		if err := validateOperationSpec(op); err != nil {
			return err
		}
		if seen[strings.ToLower(op.Name)] {
			return domain.NewConflictError(domain.KindOperation, "", "duplicate operation "+op.Name)
		}
		seen[strings.ToLower(op.Name)] = true
	}
	return nil
}

func (s *Store) newElement(st *state, spec domain.DataElementSpec) (domain.DataElement, error) {
	ref, err := st.resolveTypeRef(domain.KindDataElement, "application_data_type_ref", spec.ApplicationDataTypeRef)
	if err != nil {
		return domain.DataElement{}, err
	}
	return domain.DataElement{
		ID:                     s.ids.NewID(utils.PrefixDataElement),
		Name:                   spec.Name,
		ApplicationDataTypeRef: ref,
		Category:               spec.Category,
		Description:            spec.Description,
	}, nil
}

func (s *Store) newOperation(st *state, spec domain.OperationSpec) (domain.Operation, error) {
	args := make([]domain.Argument, len(spec.Arguments))
	for i, a := range spec.Arguments {
		ref, err := st.resolveTypeRef(domain.KindOperation, "arguments", a.TypeRef)
		if err != nil {
			return domain.Operation{}, err
		}
		args[i] = domain.Argument{Name: a.Name, Direction: a.Direction, TypeRef: ref}
	}
	return domain.Operation{
		ID:          s.ids.NewID(utils.PrefixOperation),
		Name:        spec.Name,
		Description: spec.Description,
		Arguments:   args,
	}, nil
}

func memberNameTaken(iface domain.Interface, name, except string) bool {
	for _, de := range iface.DataElements {
		if de.ID != except && sameName(de.Name, name) {
			return true
		}
	}
	for _, op := range iface.Operations {
		if op.ID != except && sameName(op.Name, name) {
			return true
		}
	}
	return false
}

func (s *Store) CreateInterface(spec domain.InterfaceSpec) (domain.Interface, error) {
	if err := validateInterfaceSpec(spec); err != nil {
		return domain.Interface{}, err
	}
	var out domain.Interface
	err := s.mutate("create_interface", func(st *state) error {
		iface := domain.Interface{
			Name:         spec.Name,
			Kind:         spec.Kind,
			Description:  spec.Description,
			DataElements: []domain.DataElement{},
		}
		for _, ds := range spec.DataElements {
			de, err := s.newElement(st, ds)
			if err != nil {
				return err
			}
			iface.DataElements = append(iface.DataElements, de)
		}
		for _, opSpec := range spec.Operations {
			op, err := s.newOperation(st, opSpec)
			if err != nil {
				return err
			}
			iface.Operations = append(iface.Operations, op)
		}
		if st.interfaceNameTaken(spec.Name, "") {
			return domain.NewConflictError(domain.KindInterface, "", "an interface named "+spec.Name+" already exists")
		}
		iface.ID = s.ids.NewID(utils.PrefixInterface)
		st.interfaces.put(iface.ID, iface)
		out = cloneInterface(iface)
		return nil
	})
	return out, err
}

func (s *Store) UpdateInterface(id string, patch domain.InterfacePatch) (domain.Interface, error) {
	var out domain.Interface
	err := s.mutate("update_interface", func(st *state) error {
		iface, ok := st.interfaces.get(id)
		if !ok {
			return domain.NewNotFoundError(domain.KindInterface, id)
		}
		if patch.Name != nil {
			iface.Name = *patch.Name
		}
		if patch.Description != nil {
			iface.Description = *patch.Description
		}
		if err := validateName(domain.KindInterface, iface.Name); err != nil {
			return err
		}
		if st.interfaceNameTaken(iface.Name, id) {
			return domain.NewConflictError(domain.KindInterface, id, "an interface named "+iface.Name+" already exists")
		}
		st.interfaces.put(id, iface)
		out = cloneInterface(iface)
		return nil
	})
	return out, err
}

// DeleteInterface refuses while any port references the interface.
func (s *Store) DeleteInterface(id string) error {
	return s.mutate("delete_interface", func(st *state) error {
		if _, ok := st.interfaces.get(id); !ok {
			return domain.NewNotFoundError(domain.KindInterface, id)
		}
		if ports := st.portsReferencingInterface(id); len(ports) > 0 {
			return domain.NewConflictError(domain.KindInterface, id, "still referenced by port "+ports[0])
		}
		st.interfaces.remove(id)
		return nil
	})
}

func (s *Store) AddDataElement(ifaceID string, spec domain.DataElementSpec) (domain.DataElement, error) {
	if err := validateElementSpec(spec); err != nil {
		return domain.DataElement{}, err
	}
	var out domain.DataElement
	err := s.mutate("add_data_element", func(st *state) error {
		iface, ok := st.interfaces.get(ifaceID)
		if !ok {
			return domain.NewNotFoundError(domain.KindInterface, ifaceID)
		}
		de, err := s.newElement(st, spec)
		if err != nil {
			return err
		}
		if iface.Kind != domain.InterfaceSenderReceiver {
			return domain.NewValidationError(domain.KindDataElement, "interface", "data elements require a SenderReceiver interface")
		}
		if memberNameTaken(iface, spec.Name, "") {
			return domain.NewConflictError(domain.KindDataElement, "", "interface already has a member named "+spec.Name)
		}
		iface.DataElements = append(iface.DataElements, de)
		st.interfaces.put(ifaceID, iface)
		out = de
		return nil
	})
	return out, err
}

func (s *Store) UpdateDataElement(ifaceID, elemID string, patch domain.DataElementPatch) (domain.DataElement, error) {
	var out domain.DataElement
	err := s.mutate("update_data_element", func(st *state) error {
		iface, ok := st.interfaces.get(ifaceID)
		if !ok {
			return domain.NewNotFoundError(domain.KindInterface, ifaceID)
		}
		i, ok := findElement(iface, elemID)
		if !ok {
			return domain.NewNotFoundError(domain.KindDataElement, elemID)
		}
		de := iface.DataElements[i]
		if patch.Name != nil {
			de.Name = *patch.Name
		}
		if patch.Category != nil {
			de.Category = *patch.Category
		}
		if patch.Description != nil {
			de.Description = *patch.Description
		}
		if err := validateName(domain.KindDataElement, de.Name); err != nil {
			return err
		}
		if patch.ApplicationDataTypeRef != nil {
			ref, err := st.resolveTypeRef(domain.KindDataElement, "application_data_type_ref", *patch.ApplicationDataTypeRef)
			if err != nil {
				return err
			}
			de.ApplicationDataTypeRef = ref
		}
		if memberNameTaken(iface, de.Name, elemID) {
			return domain.NewConflictError(domain.KindDataElement, elemID, "interface already has a member named "+de.Name)
		}
		iface.DataElements[i] = de
		st.interfaces.put(ifaceID, iface)
		out = de
		return nil
	})
	return out, err
}

// RemoveDataElement refuses while access points name the element.
func (s *Store) RemoveDataElement(ifaceID, elemID string) error {
	return s.mutate("remove_data_element", func(st *state) error {
		iface, ok := st.interfaces.get(ifaceID)
		if !ok {
			return domain.NewNotFoundError(domain.KindInterface, ifaceID)
		}
		i, ok := findElement(iface, elemID)
		if !ok {
			return domain.NewNotFoundError(domain.KindDataElement, elemID)
		}
		if users := st.accessPointsWhere(func(ap domain.AccessPoint) bool { return ap.ElementRef == elemID }); len(users) > 0 {
			return domain.NewConflictError(domain.KindDataElement, elemID, "still referenced by access point "+users[0])
		}
		iface.DataElements = append(iface.DataElements[:i:i], iface.DataElements[i+1:]...)
		st.interfaces.put(ifaceID, iface)
		return nil
	})
}

func (s *Store) AddOperation(ifaceID string, spec domain.OperationSpec) (domain.Operation, error) {
	if err := validateOperationSpec(spec); err != nil {
		return domain.Operation{}, err
	}
	var out domain.Operation
	err := s.mutate("add_operation", func(st *state) error {
		iface, ok := st.interfaces.get(ifaceID)
		if !ok {
			return domain.NewNotFoundError(domain.KindInterface, ifaceID)
		}
		op, err := s.newOperation(st, spec)
		if err != nil {
			return err
		}
		if iface.Kind != domain.InterfaceClientServer {
			return domain.NewValidationError(domain.KindOperation, "interface", "operations require a ClientServer interface")
		}
		if memberNameTaken(iface, spec.Name, "") {
			return domain.NewConflictError(domain.KindOperation, "", "interface already has a member named "+spec.Name)
		}
		iface.Operations = append(iface.Operations, op)
		st.interfaces.put(ifaceID, iface)
		out = op
		return nil
	})
	return out, err
}

// RemoveOperation refuses while call points name the operation.
func (s *Store) RemoveOperation(ifaceID, opID string) error {
	return s.mutate("remove_operation", func(st *state) error {
		iface, ok := st.interfaces.get(ifaceID)
		if !ok {
			return domain.NewNotFoundError(domain.KindInterface, ifaceID)
		}
		i, ok := findOperation(iface, opID)
		if !ok {
			return domain.NewNotFoundError(domain.KindOperation, opID)
		}
		if users := st.accessPointsWhere(func(ap domain.AccessPoint) bool { return ap.ElementRef == opID }); len(users) > 0 {
			return domain.NewConflictError(domain.KindOperation, opID, "still referenced by access point "+users[0])
		}
		iface.Operations = append(iface.Operations[:i:i], iface.Operations[i+1:]...)
		st.interfaces.put(ifaceID, iface)
		return nil
	})
}

func (s *Store) GetInterface(id string) (domain.Interface, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	iface, ok := s.state.interfaces.get(id)
	if !ok {
		return domain.Interface{}, domain.NewNotFoundError(domain.KindInterface, id)
	}
	return cloneInterface(iface), nil
}

func (s *Store) ListInterfaces() []domain.Interface {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.interfaces.list(nil, cloneInterface)
}

func (s *Store) FindInterfaceByName(name string) (domain.Interface, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.state.interfaces.order {
		if iface := s.state.interfaces.rows[id]; sameName(iface.Name, name) {
			return cloneInterface(iface), true
		}
	}
	return domain.Interface{}, false
}
