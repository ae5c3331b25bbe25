package store

import (
	"strings"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
)

// table is an id-keyed collection that remembers insertion order.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() table[T] {
	return table[T]{rows: map[string]T{}}
}

func (t table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) remove(id string) {
	if _, ok := t.rows[id]; !ok {
		return
	}
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
}

func (t table[T]) list(keep func(T) bool, cp func(T) T) []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		v := t.rows[id]
		if keep == nil || keep(v) {
			out = append(out, cp(v))
		}
	}
	return out
}

func (t table[T]) clone(cp func(T) T) table[T] {
	out := table[T]{rows: make(map[string]T, len(t.rows)), order: append([]string(nil), t.order...)}
	for id, v := range t.rows {
		out.rows[id] = cp(v)
	}
	return out
}

type state struct {
	project      domain.Project
	swcs         table[domain.SWC]
	ports        table[domain.Port]
	interfaces   table[domain.Interface]
	dataTypes    table[domain.DataType]
	runnables    table[domain.Runnable]
	accessPoints table[domain.AccessPoint]
	compositions table[domain.ECUComposition]
}

func newState(p domain.Project) state {
	return state{
		project:      p,
		swcs:         newTable[domain.SWC](),
		ports:        newTable[domain.Port](),
		interfaces:   newTable[domain.Interface](),
		dataTypes:    newTable[domain.DataType](),
		runnables:    newTable[domain.Runnable](),
		accessPoints: newTable[domain.AccessPoint](),
		compositions: newTable[domain.ECUComposition](),
	}
}

func (s state) clone() state {
	return state{
		project:      s.project,
		swcs:         s.swcs.clone(same[domain.SWC]),
		ports:        s.ports.clone(same[domain.Port]),
		interfaces:   s.interfaces.clone(cloneInterface),
		dataTypes:    s.dataTypes.clone(cloneDataType),
		runnables:    s.runnables.clone(same[domain.Runnable]),
		accessPoints: s.accessPoints.clone(same[domain.AccessPoint]),
		compositions: s.compositions.clone(cloneComposition),
	}
}

func (s state) snapshot() domain.ProjectSnapshot {
	return domain.ProjectSnapshot{
		Project:      s.project,
		SWCs:         s.swcs.list(nil, same[domain.SWC]),
		Ports:        s.ports.list(nil, same[domain.Port]),
		Interfaces:   s.interfaces.list(nil, cloneInterface),
		DataTypes:    s.dataTypes.list(nil, cloneDataType),
		Runnables:    s.runnables.list(nil, same[domain.Runnable]),
		AccessPoints: s.accessPoints.list(nil, same[domain.AccessPoint]),
		Compositions: s.compositions.list(nil, cloneComposition),
	}
}

func stateFromSnapshot(snap domain.ProjectSnapshot) state {
	st := newState(snap.Project)
	for _, v := range snap.SWCs {
		st.swcs.put(v.ID, v)
	}
	for _, v := range snap.Ports {
		st.ports.put(v.ID, v)
	}
	for _, v := range snap.Interfaces {
		st.interfaces.put(v.ID, cloneInterface(v))
	}
	for _, v := range snap.DataTypes {
		st.dataTypes.put(v.ID, cloneDataType(v))
	}
	for _, v := range snap.Runnables {
		st.runnables.put(v.ID, v)
	}
	for _, v := range snap.AccessPoints {
		st.accessPoints.put(v.ID, v)
	}
	for _, v := range snap.Compositions {
		st.compositions.put(v.ID, cloneComposition(v))
	}
	return st
}

func same[T any](v T) T { return v }

func cloneInterface(i domain.Interface) domain.Interface {
	cp := i
	cp.DataElements = append([]domain.DataElement{}, i.DataElements...)
	if i.Operations != nil {
		cp.Operations = make([]domain.Operation, len(i.Operations))
		for n, op := range i.Operations {
			op.Arguments = append([]domain.Argument(nil), op.Arguments...)
			cp.Operations[n] = op
		}
	}
	return cp
}

func cloneDataType(d domain.DataType) domain.DataType {
	cp := d
	cp.Elements = append([]domain.RecordElement(nil), d.Elements...)
	return cp
}

func cloneComposition(c domain.ECUComposition) domain.ECUComposition {
	cp := c
	cp.Instances = append([]domain.SWCInstance{}, c.Instances...)
	cp.Connectors = append([]domain.Connector{}, c.Connectors...)
	return cp
}

func sameName(a, b string) bool { return strings.EqualFold(a, b) }

func lower(s string) string { return strings.ToLower(s) }

// Name lookups. All are case-insensitive and skip the entity with id `except`.

func (s *state) swcNameTaken(name, except string) bool {
	for _, id := range s.swcs.order {
		if v := s.swcs.rows[id]; id != except && sameName(v.Name, name) {
			return true
		}
	}
	return false
}

func (s *state) interfaceNameTaken(name, except string) bool {
	for _, id := range s.interfaces.order {
		if v := s.interfaces.rows[id]; id != except && sameName(v.Name, name) {
			return true
		}
	}
	return false
}

func (s *state) dataTypeNameTaken(name, except string) bool {
	for _, id := range s.dataTypes.order {
		if v := s.dataTypes.rows[id]; id != except && sameName(v.Name, name) {
			return true
		}
	}
	return false
}

func (s *state) compositionNameTaken(name, except string) bool {
	for _, id := range s.compositions.order {
		if v := s.compositions.rows[id]; id != except && sameName(v.Name, name) {
			return true
		}
	}
	return false
}

func (s *state) portNameTaken(swcID, name, except string) bool {
	for _, id := range s.ports.order {
		if v := s.ports.rows[id]; id != except && v.SWCID == swcID && sameName(v.Name, name) {
			return true
		}
	}
	return false
}

func (s *state) runnableNameTaken(swcID, name, except string) bool {
	for _, id := range s.runnables.order {
		if v := s.runnables.rows[id]; id != except && v.SWCID == swcID && sameName(v.Name, name) {
			return true
		}
	}
	return false
}

// accessPointNames returns the lower-cased names used by a runnable's access points.
func (s *state) accessPointNames(runnableID, except string) map[string]bool {
	out := map[string]bool{}
	for _, id := range s.accessPoints.order {
		if v := s.accessPoints.rows[id]; id != except && v.RunnableID == runnableID {
			out[strings.ToLower(v.Name)] = true
		}
	}
	return out
}

func (s *state) portsOf(swcID string) []string {
	var ids []string
	for _, id := range s.ports.order {
		if s.ports.rows[id].SWCID == swcID {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *state) runnablesOf(swcID string) []string {
	var ids []string
	for _, id := range s.runnables.order {
		if s.runnables.rows[id].SWCID == swcID {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *state) accessPointsWhere(match func(domain.AccessPoint) bool) []string {
	var ids []string
	for _, id := range s.accessPoints.order {
		if match(s.accessPoints.rows[id]) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *state) portsReferencingInterface(ifaceID string) []string {
	var ids []string
	for _, id := range s.ports.order {
		if s.ports.rows[id].InterfaceRef == ifaceID {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *state) connectorsUsingPort(portID string) int {
	n := 0
	for _, cid := range s.compositions.order {
		for _, c := range s.compositions.rows[cid].Connectors {
			if c.SourcePortID == portID || c.TargetPortID == portID {
				n++
			}
		}
	}
	return n
}

// findDataType resolves a DataType by id, then by case-insensitive name.
func (s *state) findDataType(ref string) (domain.DataType, bool) {
	if dt, ok := s.dataTypes.get(ref); ok {
		return dt, true
	}
	for _, id := range s.dataTypes.order {
		if dt := s.dataTypes.rows[id]; sameName(dt.Name, ref) {
			return dt, true
		}
	}
	return domain.DataType{}, false
}

func findElement(iface domain.Interface, id string) (int, bool) {
	for i, de := range iface.DataElements {
		if de.ID == id {
			return i, true
		}
	}
	return -1, false
}

func findOperation(iface domain.Interface, id string) (int, bool) {
	for i, op := range iface.Operations {
		if op.ID == id {
			return i, true
		}
	}
	return -1, false
}

func findInstance(c domain.ECUComposition, id string) (int, bool) {
	for i, inst := range c.Instances {
		if inst.ID == id {
			return i, true
		}
	}
	return -1, false
}

func findConnector(c domain.ECUComposition, id string) (int, bool) {
	for i, conn := range c.Connectors {
		if conn.ID == id {
			return i, true
		}
	}
	return -1, false
}
