package store

import (
	"strings"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/naming"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/utils"
)

// resolveTypeRef normalizes a data type reference to a platform type name or a DataType id.
// ref may be either of those or the name of a DataType.
func (st *state) resolveTypeRef(kind domain.EntityKind, field, ref string) (string, error) {
	if ref == "" {
		return "", domain.NewValidationError(kind, field, field+" is required")
	}
	if lower := strings.ToLower(ref); domain.PlatformTypes[lower] {
		return lower, nil
	}
	if dt, ok := st.findDataType(ref); ok {
		return dt.ID, nil
	}
	return "", domain.NewNotFoundError(domain.KindDataType, ref)
}

func (st *state) typeRefResolves(ref string) bool {
	if domain.PlatformTypes[ref] {
		return true
	}
	_, ok := st.dataTypes.get(ref)
	return ok
}

func validateDataTypeShape(name string, cat domain.DataTypeCategory, baseType string, arraySize int, elems []domain.RecordElement) error {
	if err := validateName(domain.KindDataType, name); err != nil {
		return err
	}
	// platform names win in resolveTypeRef, so a data type may not take one
	if domain.PlatformTypes[strings.ToLower(name)] {
		return domain.NewValidationError(domain.KindDataType, "name", name+" is a platform type name")
	}
	if !cat.Valid() {
		return domain.NewValidationError(domain.KindDataType, "category", "unknown category "+string(cat))
	}
	switch cat {
	case domain.DataTypePrimitive:
		if strings.TrimSpace(baseType) == "" {
			return domain.NewValidationError(domain.KindDataType, "base_type", "primitive data types require a base type")
		}
	case domain.DataTypeArray:
		if strings.TrimSpace(baseType) == "" {
			return domain.NewValidationError(domain.KindDataType, "base_type", "array data types require an element type")
		}
		if arraySize <= 0 {
			return domain.NewValidationError(domain.KindDataType, "array_size", "array data types require array_size > 0")
		}
	case domain.DataTypeTypedef:
		if strings.TrimSpace(baseType) == "" {
			return domain.NewValidationError(domain.KindDataType, "base_type", "typedef data types require a base type")
		}
	}
	if cat != domain.DataTypeArray && arraySize != 0 {
		return domain.NewValidationError(domain.KindDataType, "array_size", "array_size is only allowed on array data types")
	}
	if cat != domain.DataTypeRecord && len(elems) > 0 {
		return domain.NewValidationError(domain.KindDataType, "elements", "elements are only allowed on record data types")
	}
	seen := map[string]bool{}
	for _, e := range elems {
		if !naming.IsShortName(e.Name) {
			return domain.NewValidationError(domain.KindDataType, "elements", "invalid record element name "+e.Name)
		}
		if seen[strings.ToLower(e.Name)] {
			return domain.NewValidationError(domain.KindDataType, "elements", "duplicate record element "+e.Name)
		}
		seen[strings.ToLower(e.Name)] = true
	}
	return nil
}

// resolveDataTypeRefs normalizes the base type (array, typedef) and record element refs of dt.
func (st *state) resolveDataTypeRefs(dt *domain.DataType) error {
	if dt.BaseType != "" && (dt.Category == domain.DataTypeArray || dt.Category == domain.DataTypeTypedef) {
		ref, err := st.resolveTypeRef(domain.KindDataType, "base_type", dt.BaseType)
		if err != nil {
			return err
		}
		dt.BaseType = ref
	}
	for i, e := range dt.Elements {
		ref, err := st.resolveTypeRef(domain.KindDataType, "elements", e.TypeRef)
		if err != nil {
			return err
		}
		dt.Elements[i].TypeRef = ref
	}
	return nil
}

// dataTypeDeps lists the DataType ids dt refers to.
func dataTypeDeps(dt domain.DataType) []string {
	var deps []string
	if dt.Category == domain.DataTypeArray || dt.Category == domain.DataTypeTypedef {
		if dt.BaseType != "" && !domain.PlatformTypes[dt.BaseType] {
			deps = append(deps, dt.BaseType)
		}
	}
	for _, e := range dt.Elements {
		if !domain.PlatformTypes[e.TypeRef] {
			deps = append(deps, e.TypeRef)
		}
	}
	return deps
}

// typeCycle reports whether following references from start leads back to start.
func (st *state) typeCycle(start string) bool {
	seen := map[string]bool{}
	var walk func(id string) bool
	walk = func(id string) bool {
		dt, ok := st.dataTypes.get(id)
		if !ok {
			return false
		}
		for _, dep := range dataTypeDeps(dt) {
			if dep == start {
				return true
			}
			if seen[dep] {
				continue
			}
			seen[dep] = true
			if walk(dep) {
				return true
			}
		}
		return false
	}
	return walk(start)
}

// dataTypeUsers describes what still references a data type, or "" when nothing does.
func (st *state) dataTypeUsers(id string) string {
	for _, iid := range st.interfaces.order {
		iface := st.interfaces.rows[iid]
		for _, de := range iface.DataElements {
			if de.ApplicationDataTypeRef == id {
				return "data element " + iface.Name + "." + de.Name
			}
		}
		for _, op := range iface.Operations {
			for _, a := range op.Arguments {
				if a.TypeRef == id {
					return "argument " + iface.Name + "." + op.Name + "." + a.Name
				}
			}
		}
	}
	for _, did := range st.dataTypes.order {
		if did == id {
			continue
		}
		for _, dep := range dataTypeDeps(st.dataTypes.rows[did]) {
			if dep == id {
				return "data type " + st.dataTypes.rows[did].Name
			}
		}
	}
	return ""
}

func (s *Store) CreateDataType(spec domain.DataTypeSpec) (domain.DataType, error) {
	if err := validateDataTypeShape(spec.Name, spec.Category, spec.BaseType, spec.ArraySize, spec.Elements); err != nil {
		return domain.DataType{}, err
	}
	var out domain.DataType
	err := s.mutate("create_data_type", func(st *state) error {
		dt := domain.DataType{
			Name:        spec.Name,
			Category:    spec.Category,
			BaseType:    spec.BaseType,
			ArraySize:   spec.ArraySize,
			Description: spec.Description,
			Elements:    append([]domain.RecordElement(nil), spec.Elements...),
		}
		if err := st.resolveDataTypeRefs(&dt); err != nil {
			return err
		}
		if st.dataTypeNameTaken(dt.Name, "") {
			return domain.NewConflictError(domain.KindDataType, "", "a data type named "+dt.Name+" already exists")
		}
		dt.ID = s.ids.NewID(utils.PrefixDataType)
		st.dataTypes.put(dt.ID, dt)
		out = cloneDataType(dt)
		return nil
	})
	return out, err
}

func (s *Store) UpdateDataType(id string, patch domain.DataTypePatch) (domain.DataType, error) {
	var out domain.DataType
	err := s.mutate("update_data_type", func(st *state) error {
		dt, ok := st.dataTypes.get(id)
		if !ok {
			return domain.NewNotFoundError(domain.KindDataType, id)
		}
		if patch.Name != nil {
			dt.Name = *patch.Name
		}
		if patch.BaseType != nil {
			dt.BaseType = *patch.BaseType
		}
		if patch.ArraySize != nil {
			dt.ArraySize = *patch.ArraySize
		}
		if patch.Description != nil {
			dt.Description = *patch.Description
		}
		if patch.Elements != nil {
			dt.Elements = append([]domain.RecordElement(nil), (*patch.Elements)...)
		}
		if err := validateDataTypeShape(dt.Name, dt.Category, dt.BaseType, dt.ArraySize, dt.Elements); err != nil {
			return err
		}
		if err := st.resolveDataTypeRefs(&dt); err != nil {
			return err
		}
		st.dataTypes.put(id, dt)
		if st.typeCycle(id) {
			return domain.NewConflictError(domain.KindDataType, id, "data type would reference itself")
		}
		if st.dataTypeNameTaken(dt.Name, id) {
			return domain.NewConflictError(domain.KindDataType, id, "a data type named "+dt.Name+" already exists")
		}
		out = cloneDataType(dt)
		return nil
	})
	return out, err
}

// DeleteDataType refuses while data elements, operation arguments or other data types still
// reference the type.
func (s *Store) DeleteDataType(id string) error {
	return s.mutate("delete_data_type", func(st *state) error {
		if _, ok := st.dataTypes.get(id); !ok {
			return domain.NewNotFoundError(domain.KindDataType, id)
		}
		if user := st.dataTypeUsers(id); user != "" {
			return domain.NewConflictError(domain.KindDataType, id, "still referenced by "+user)
		}
		st.dataTypes.remove(id)
		return nil
	})
}

func (s *Store) GetDataType(id string) (domain.DataType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dt, ok := s.state.dataTypes.get(id)
	if !ok {
		return domain.DataType{}, domain.NewNotFoundError(domain.KindDataType, id)
	}
	return cloneDataType(dt), nil
}

func (s *Store) ListDataTypes() []domain.DataType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.dataTypes.list(nil, cloneDataType)
}

func (s *Store) FindDataTypeByName(name string) (domain.DataType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.state.dataTypes.order {
		if dt := s.state.dataTypes.rows[id]; sameName(dt.Name, name) {
			return cloneDataType(dt), true
		}
	}
	return domain.DataType{}, false
}
