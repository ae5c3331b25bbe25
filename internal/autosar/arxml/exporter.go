// Package arxml projects a project snapshot into an AUTOSAR XML document.
//
// The exporter never reads the live store; it works on a ProjectSnapshot so the document is
// always built from one consistent graph. Any reference that fails to resolve aborts the
// export and no bytes are returned.
package arxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/naming"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/platform/metrics"
)

// ErrUnresolvedReference means the snapshot is inconsistent. The store prevents this, so
// seeing it points at a store bug or a hand-edited snapshot file.
var ErrUnresolvedReference = errors.New("arxml: unresolved reference")

const (
	platformTypesPath = "/AUTOSAR_Platform/ImplementationDataTypes/"
	platformBasePath  = "/AUTOSAR_Platform/BaseTypes/"

	pkgDataTypes      = "DataTypes"
	pkgInterfaces     = "PortInterfaces"
	pkgComponentTypes = "ComponentTypes"
	pkgCompositions   = "Compositions"
)

var componentTags = map[domain.SWCCategory]string{
	domain.CategoryApplication:    "APPLICATION-SW-COMPONENT-TYPE",
	domain.CategoryService:        "SERVICE-SW-COMPONENT-TYPE",
	domain.CategoryECUAbstraction: "ECU-ABSTRACTION-SW-COMPONENT-TYPE",
	domain.CategoryComplexDriver:  "COMPLEX-DEVICE-DRIVER-SW-COMPONENT-TYPE",
	domain.CategorySensorActuator: "SENSOR-ACTUATOR-SW-COMPONENT-TYPE",
}

const compositionTag = "COMPOSITION-SW-COMPONENT-TYPE"

type Exporter struct {
	// Indent is used for every nesting level; empty writes a single line.
	Indent string
}

func NewExporter() *Exporter {
	return &Exporter{Indent: "  "}
}

func unresolved(kind domain.EntityKind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrUnresolvedReference, kind, id)
}

// Export renders snap as an ARXML document including the XML declaration.
func (e *Exporter) Export(snap domain.ProjectSnapshot) ([]byte, error) {
	start := time.Now()
	out, err := e.export(snap)
	metrics.Exports.WithLabelValues("arxml", metrics.Result(err)).Inc()
	metrics.ExportDuration.WithLabelValues("arxml").Observe(time.Since(start).Seconds())
	return out, err
}

func (e *Exporter) export(snap domain.ProjectSnapshot) ([]byte, error) {
	doc, err := e.Build(snap)
	if err != nil {
		return nil, err
	}
	body, err := xml.MarshalIndent(doc, "", e.Indent)
	if err != nil {
		return nil, fmt.Errorf("arxml: marshal: %w", err)
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	return append(out, '\n'), nil
}

// WriteFile exports snap to path. Nothing is written when the export fails.
func (e *Exporter) WriteFile(path string, snap domain.ProjectSnapshot) error {
	b, err := e.Export(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Build assembles the document tree without serializing it.
func (e *Exporter) Build(snap domain.ProjectSnapshot) (*Document, error) {
	ix, err := newIndex(snap)
	if err != nil {
		return nil, err
	}

	dataTypes, err := ix.dataTypeElements()
	if err != nil {
		return nil, err
	}
	interfaces, err := ix.interfaceElements()
	if err != nil {
		return nil, err
	}
	components, err := ix.componentElements()
	if err != nil {
		return nil, err
	}
	compositions, err := ix.compositionElements()
	if err != nil {
		return nil, err
	}

	version := snap.Project.AutosarVersion
	xsd, ok := domain.SupportedAutosarVersions[version]
	if !ok {
		xsd = domain.SupportedAutosarVersions[domain.DefaultAutosarVersion]
	}

	root := Package{
		ShortName: ix.root,
		Packages: &PackageList{Items: []Package{
			{ShortName: pkgDataTypes, Elements: dataTypes},
			{ShortName: pkgInterfaces, Elements: interfaces},
			{ShortName: pkgComponentTypes, Elements: components},
			{ShortName: pkgCompositions, Elements: compositions},
		}},
	}
	return &Document{
		Xmlns:          Namespace,
		XmlnsXSI:       XSINamespace,
		SchemaLocation: Namespace + " " + xsd,
		Packages:       &PackageList{Items: []Package{root}},
	}, nil
}

// index resolves ids to entities and package paths for one snapshot.
type index struct {
	snap       domain.ProjectSnapshot
	root       string
	swcs       map[string]domain.SWC
	ports      map[string]domain.Port
	ifaces     map[string]domain.Interface
	dataTypes  map[string]domain.DataType
	runnables  map[string]domain.Runnable
	portsOf    map[string][]domain.Port
	runsOf     map[string][]domain.Runnable
	accessesOf map[string][]domain.AccessPoint
}

func newIndex(snap domain.ProjectSnapshot) (*index, error) {
	ix := &index{
		snap:       snap,
		root:       naming.SanitizeShortName(snap.Project.Name),
		swcs:       make(map[string]domain.SWC, len(snap.SWCs)),
		ports:      make(map[string]domain.Port, len(snap.Ports)),
		ifaces:     make(map[string]domain.Interface, len(snap.Interfaces)),
		dataTypes:  make(map[string]domain.DataType, len(snap.DataTypes)),
		runnables:  make(map[string]domain.Runnable, len(snap.Runnables)),
		portsOf:    map[string][]domain.Port{},
		runsOf:     map[string][]domain.Runnable{},
		accessesOf: map[string][]domain.AccessPoint{},
	}
	for _, s := range snap.SWCs {
		ix.swcs[s.ID] = s
	}
	for _, i := range snap.Interfaces {
		ix.ifaces[i.ID] = i
	}
	for _, d := range snap.DataTypes {
		ix.dataTypes[d.ID] = d
	}
	for _, p := range snap.Ports {
		if _, ok := ix.swcs[p.SWCID]; !ok {
			return nil, unresolved(domain.KindSWC, p.SWCID)
		}
		if _, ok := ix.ifaces[p.InterfaceRef]; !ok {
			return nil, unresolved(domain.KindInterface, p.InterfaceRef)
		}
		ix.ports[p.ID] = p
		ix.portsOf[p.SWCID] = append(ix.portsOf[p.SWCID], p)
	}
	for _, r := range snap.Runnables {
		if _, ok := ix.swcs[r.SWCID]; !ok {
			return nil, unresolved(domain.KindSWC, r.SWCID)
		}
		ix.runnables[r.ID] = r
		ix.runsOf[r.SWCID] = append(ix.runsOf[r.SWCID], r)
	}
	for _, ap := range snap.AccessPoints {
		if _, ok := ix.runnables[ap.RunnableID]; !ok {
			return nil, unresolved(domain.KindRunnable, ap.RunnableID)
		}
		if _, ok := ix.ports[ap.PortID]; !ok {
			return nil, unresolved(domain.KindPort, ap.PortID)
		}
		ix.accessesOf[ap.RunnableID] = append(ix.accessesOf[ap.RunnableID], ap)
	}
	return ix, nil
}

func (ix *index) path(pkg, name string) string {
	return "/" + ix.root + "/" + pkg + "/" + name
}

// Data types

func dataTypeTag(c domain.DataTypeCategory) string {
	switch c {
	case domain.DataTypeArray:
		return "APPLICATION-ARRAY-DATA-TYPE"
	case domain.DataTypeRecord:
		return "APPLICATION-RECORD-DATA-TYPE"
	}
	return "APPLICATION-PRIMITIVE-DATA-TYPE"
}

func dataTypeCategory(c domain.DataTypeCategory) string {
	switch c {
	case domain.DataTypeArray:
		return "ARRAY"
	case domain.DataTypeRecord:
		return "STRUCTURE"
	}
	return "VALUE"
}

// typeRef resolves a normalized type reference: a DataType id or a platform type name.
func (ix *index) typeRef(ref string) (Ref, string, error) {
	if dt, ok := ix.dataTypes[ref]; ok {
		return Ref{Dest: dataTypeTag(dt.Category), Value: ix.path(pkgDataTypes, dt.Name)}, dataTypeCategory(dt.Category), nil
	}
	if domain.PlatformTypes[ref] {
		return Ref{Dest: "IMPLEMENTATION-DATA-TYPE", Value: platformTypesPath + ref}, "VALUE", nil
	}
	return Ref{}, "", unresolved(domain.KindDataType, ref)
}

// baseTypeOf follows a typedef chain down to a platform or primitive base type.
// ok is false when the chain ends without one.
func (ix *index) baseTypeOf(dt domain.DataType) (base string, ok bool, err error) {
	seen := map[string]bool{}
	for {
		if seen[dt.ID] {
			return "", false, unresolved(domain.KindDataType, dt.ID)
		}
		seen[dt.ID] = true
		switch dt.Category {
		case domain.DataTypePrimitive:
			return dt.BaseType, true, nil
		case domain.DataTypeTypedef:
			if dt.BaseType == "" {
				return "", false, nil
			}
			if domain.PlatformTypes[dt.BaseType] {
				return dt.BaseType, true, nil
			}
			next, found := ix.dataTypes[dt.BaseType]
			if !found {
				return "", false, unresolved(domain.KindDataType, dt.BaseType)
			}
			dt = next
		default:
			return "", false, nil
		}
	}
}

func (ix *index) dataTypeElements() (*Elements, error) {
	if len(ix.snap.DataTypes) == 0 {
		return nil, nil
	}
	el := &Elements{}
	for _, dt := range ix.snap.DataTypes {
		switch dt.Category {
		case domain.DataTypePrimitive, domain.DataTypeTypedef:
			p := PrimitiveDataType{UUID: dt.ID, ShortName: dt.Name, Desc: desc(dt.Description), Category: "VALUE"}
			base, ok, err := ix.baseTypeOf(dt)
			if err != nil {
				return nil, err
			}
			if ok {
				p.SwDataProps = &SwDataProps{BaseTypeRef: Ref{Dest: "SW-BASE-TYPE", Value: platformBasePath + base}}
			}
			el.PrimitiveTypes = append(el.PrimitiveTypes, p)

		case domain.DataTypeArray:
			elem := ArrayElement{
				ShortName:           dt.Name + "_Element",
				Category:            "VALUE",
				ArraySizeSemantics:  "FIXED-SIZE",
				MaxNumberOfElements: dt.ArraySize,
			}
			if dt.BaseType != "" {
				ref, cat, err := ix.typeRef(dt.BaseType)
				if err != nil {
					return nil, err
				}
				elem.TypeTref, elem.Category = &ref, cat
			}
			el.ArrayTypes = append(el.ArrayTypes, ArrayDataType{
				UUID: dt.ID, ShortName: dt.Name, Desc: desc(dt.Description), Category: "ARRAY", Element: elem,
			})

		case domain.DataTypeRecord:
			rec := RecordDataType{UUID: dt.ID, ShortName: dt.Name, Desc: desc(dt.Description), Category: "STRUCTURE"}
			for _, re := range dt.Elements {
				ref, cat, err := ix.typeRef(re.TypeRef)
				if err != nil {
					return nil, err
				}
				rec.Elements = append(rec.Elements, RecordElement{ShortName: re.Name, Category: cat, TypeTref: ref})
			}
			el.RecordTypes = append(el.RecordTypes, rec)

		default:
			return nil, fmt.Errorf("%w: data type %s has category %q", ErrUnresolvedReference, dt.ID, dt.Category)
		}
	}
	return el, nil
}

// Port interfaces

func interfaceTag(k domain.InterfaceKind) string {
	if k == domain.InterfaceClientServer {
		return "CLIENT-SERVER-INTERFACE"
	}
	return "SENDER-RECEIVER-INTERFACE"
}

func (ix *index) interfaceRef(i domain.Interface) Ref {
	return Ref{Dest: interfaceTag(i.Kind), Value: ix.path(pkgInterfaces, i.Name)}
}

func (ix *index) elementRef(i domain.Interface, de domain.DataElement) Ref {
	return Ref{Dest: "VARIABLE-DATA-PROTOTYPE", Value: ix.path(pkgInterfaces, i.Name) + "/" + de.Name}
}

func (ix *index) operationRef(i domain.Interface, op domain.Operation) Ref {
	return Ref{Dest: "CLIENT-SERVER-OPERATION", Value: ix.path(pkgInterfaces, i.Name) + "/" + op.Name}
}

func argDirection(d domain.ArgumentDirection) string {
	switch d {
	case domain.ArgOut:
		return "OUT"
	case domain.ArgInOut:
		return "INOUT"
	}
	return "IN"
}

func (ix *index) interfaceElements() (*Elements, error) {
	if len(ix.snap.Interfaces) == 0 {
		return nil, nil
	}
	el := &Elements{}
	for _, i := range ix.snap.Interfaces {
		switch i.Kind {
		case domain.InterfaceSenderReceiver:
			sr := SenderReceiverInterface{UUID: i.ID, ShortName: i.Name, Desc: desc(i.Description)}
			for _, de := range i.DataElements {
				ref, _, err := ix.typeRef(de.ApplicationDataTypeRef)
				if err != nil {
					return nil, err
				}
				sr.DataElements = append(sr.DataElements, VariableDataPrototype{
					UUID: de.ID, ShortName: de.Name, Desc: desc(de.Description), Category: de.Category, TypeTref: ref,
				})
			}
			el.SenderReceiver = append(el.SenderReceiver, sr)

		case domain.InterfaceClientServer:
			cs := ClientServerInterface{UUID: i.ID, ShortName: i.Name, Desc: desc(i.Description)}
			for _, op := range i.Operations {
				csop := ClientServerOperation{UUID: op.ID, ShortName: op.Name, Desc: desc(op.Description)}
				if len(op.Arguments) > 0 {
					csop.Arguments = &Arguments{}
				}
				for _, a := range op.Arguments {
					ref, _, err := ix.typeRef(a.TypeRef)
					if err != nil {
						return nil, err
					}
					csop.Arguments.Items = append(csop.Arguments.Items, ArgumentPrototype{
						ShortName: a.Name, TypeTref: ref, Direction: argDirection(a.Direction),
					})
				}
				cs.Operations = append(cs.Operations, csop)
			}
			el.ClientServer = append(el.ClientServer, cs)

		default:
			return nil, fmt.Errorf("%w: interface %s has kind %q", ErrUnresolvedReference, i.ID, i.Kind)
		}
	}
	return el, nil
}

// Component types

func componentTag(s domain.SWC) (string, error) {
	if s.Kind == domain.SWCComposition {
		return compositionTag, nil
	}
	tag, ok := componentTags[s.Category]
	if !ok {
		return "", fmt.Errorf("%w: swc %s has category %q", ErrUnresolvedReference, s.ID, s.Category)
	}
	return tag, nil
}

func (ix *index) swcRef(s domain.SWC) (Ref, error) {
	tag, err := componentTag(s)
	if err != nil {
		return Ref{}, err
	}
	return Ref{Dest: tag, Value: ix.path(pkgComponentTypes, s.Name)}, nil
}

func portTag(p domain.Port) string {
	if p.Direction == domain.PortProvided {
		return "P-PORT-PROTOTYPE"
	}
	return "R-PORT-PROTOTYPE"
}

func (ix *index) portRef(p domain.Port) Ref {
	s := ix.swcs[p.SWCID]
	return Ref{Dest: portTag(p), Value: ix.path(pkgComponentTypes, s.Name) + "/" + p.Name}
}

func (ix *index) runnableRef(s domain.SWC, r domain.Runnable) Ref {
	return Ref{
		Dest:  "RUNNABLE-ENTITY",
		Value: ix.path(pkgComponentTypes, s.Name) + "/" + naming.InternalBehaviorName(s.Name) + "/" + r.Name,
	}
}

func (ix *index) portPrototypes(s domain.SWC) *Ports {
	owned := ix.portsOf[s.ID]
	if len(owned) == 0 {
		return nil
	}
	out := &Ports{}
	for _, p := range owned {
		iref := ix.interfaceRef(ix.ifaces[p.InterfaceRef])
		pp := PortPrototype{XMLName: xml.Name{Local: portTag(p)}, UUID: p.ID, ShortName: p.Name}
		if p.Direction == domain.PortProvided {
			pp.ProvidedIface = &iref
		} else {
			pp.RequiredIface = &iref
		}
		out.Items = append(out.Items, pp)
	}
	return out
}

func (ix *index) componentElements() (*Elements, error) {
	if len(ix.snap.SWCs) == 0 {
		return nil, nil
	}
	el := &Elements{}
	for _, s := range ix.snap.SWCs {
		tag, err := componentTag(s)
		if err != nil {
			return nil, err
		}
		ct := ComponentType{
			XMLName:   xml.Name{Local: tag},
			UUID:      s.ID,
			ShortName: s.Name,
			Desc:      desc(s.Description),
			Ports:     ix.portPrototypes(s),
		}
		if s.Kind == domain.SWCAtomic {
			ib, err := ix.behavior(s)
			if err != nil {
				return nil, err
			}
			ct.Behaviors = &Behaviors{Items: []InternalBehavior{ib}}
		}
		el.Components = append(el.Components, ct)
	}
	return el, nil
}

func (ix *index) behavior(s domain.SWC) (InternalBehavior, error) {
	ib := InternalBehavior{ShortName: naming.InternalBehaviorName(s.Name)}
	var events []Event
	for _, r := range ix.runsOf[s.ID] {
		ev, ok, err := ix.event(s, r)
		if err != nil {
			return ib, err
		}
		if ok {
			events = append(events, ev)
		}
		re, err := ix.runnableEntity(r)
		if err != nil {
			return ib, err
		}
		ib.Runnables = append(ib.Runnables, re)
	}
	if len(events) > 0 {
		ib.Events = &Events{Items: events}
	}
	return ib, nil
}

// periodSeconds renders a millisecond period as the seconds value TIMING-EVENT expects.
func periodSeconds(ms int) string {
	return strconv.FormatFloat(float64(ms)/1000, 'f', -1, 64)
}

// event derives the RTE event that starts r. Event runnables without a trigger port fall
// back to the port of their first iRead access; with neither, no event is written.
func (ix *index) event(s domain.SWC, r domain.Runnable) (Event, bool, error) {
	start := ix.runnableRef(s, r)
	switch r.RunnableType {
	case domain.RunnableInit:
		return Event{
			XMLName:         xml.Name{Local: "INIT-EVENT"},
			ShortName:       naming.EventName(naming.EventInit, r.Name),
			StartOnEventRef: start,
		}, true, nil

	case domain.RunnablePeriodic:
		return Event{
			XMLName:         xml.Name{Local: "TIMING-EVENT"},
			ShortName:       naming.EventName(naming.EventTiming, r.Name),
			StartOnEventRef: start,
			Period:          periodSeconds(r.Period),
		}, true, nil

	case domain.RunnableEvent:
		portID := r.TriggerPortID
		if portID == "" {
			for _, ap := range ix.accessesOf[r.ID] {
				if ap.Type == domain.AccessRead {
					portID = ap.PortID
					break
				}
			}
		}
		if portID == "" {
			return Event{}, false, nil
		}
		p, ok := ix.ports[portID]
		if !ok {
			return Event{}, false, unresolved(domain.KindPort, portID)
		}
		iface := ix.ifaces[p.InterfaceRef]
		if iface.Kind == domain.InterfaceClientServer {
			ev := Event{
				XMLName:         xml.Name{Local: "OPERATION-INVOKED-EVENT"},
				ShortName:       naming.EventName(naming.EventOperationInvoked, r.Name),
				StartOnEventRef: start,
			}
			if len(iface.Operations) > 0 {
				ev.OperationIref = &OperationIref{
					ContextPPortRef:            ix.portRef(p),
					TargetProvidedOperationRef: ix.operationRef(iface, iface.Operations[0]),
				}
			}
			return ev, true, nil
		}
		ev := Event{
			XMLName:         xml.Name{Local: "DATA-RECEIVED-EVENT"},
			ShortName:       naming.EventName(naming.EventDataReceived, r.Name),
			StartOnEventRef: start,
		}
		if len(iface.DataElements) > 0 {
			ev.DataIref = &DataIref{
				ContextRPortRef:      ix.portRef(p),
				TargetDataElementRef: ix.elementRef(iface, iface.DataElements[0]),
			}
		}
		return ev, true, nil
	}
	return Event{}, false, fmt.Errorf("%w: runnable %s has type %q", ErrUnresolvedReference, r.ID, r.RunnableType)
}

// accessTarget resolves the data element or operation an access point names. An empty
// ElementRef targets the interface's first member when it has one.
func (ix *index) accessTarget(ap domain.AccessPoint, iface domain.Interface) (*Ref, error) {
	if ap.Type == domain.AccessCall {
		for _, op := range iface.Operations {
			if ap.ElementRef == "" || op.ID == ap.ElementRef {
				ref := ix.operationRef(iface, op)
				return &ref, nil
			}
		}
	} else {
		for _, de := range iface.DataElements {
			if ap.ElementRef == "" || de.ID == ap.ElementRef {
				ref := ix.elementRef(iface, de)
				return &ref, nil
			}
		}
	}
	if ap.ElementRef != "" {
		return nil, unresolved(domain.KindAccessPoint, ap.ElementRef)
	}
	return nil, nil
}

func appendAccess(list **VariableAccesses, va VariableAccess) {
	if *list == nil {
		*list = &VariableAccesses{}
	}
	(*list).Items = append((*list).Items, va)
}

func (ix *index) runnableEntity(r domain.Runnable) (RunnableEntity, error) {
	symbol := r.Symbol
	if symbol == "" {
		symbol = r.Name
	}
	re := RunnableEntity{
		UUID:                     r.ID,
		ShortName:                r.Name,
		CanBeInvokedConcurrently: r.CanBeInvokedConcurrently,
		Symbol:                   symbol,
	}
	for _, ap := range ix.accessesOf[r.ID] {
		p := ix.ports[ap.PortID]
		iface := ix.ifaces[p.InterfaceRef]
		target, err := ix.accessTarget(ap, iface)
		if err != nil {
			return re, err
		}

		if ap.Type == domain.AccessCall {
			if re.ServerCallPoints == nil {
				re.ServerCallPoints = &ServerCallPoints{}
			}
			re.ServerCallPoints.Items = append(re.ServerCallPoints.Items, ServerCallPoint{
				ShortName:     ap.Name,
				OperationIref: CallOperation{ContextRPortRef: ix.portRef(p), TargetRequiredOperationRef: target},
				Timeout:       "0",
			})
			continue
		}

		va := VariableAccess{
			ShortName: ap.Name,
			Variable:  AutosarVariableRef{PortPrototypeRef: ix.portRef(p), TargetDataPrototypeRef: target},
		}
		explicit := ap.Access == domain.AccessExplicit
		switch {
		case ap.Type == domain.AccessRead && explicit:
			appendAccess(&re.DataReceivePoints, va)
		case ap.Type == domain.AccessRead:
			appendAccess(&re.DataReadAccesses, va)
		case ap.Type == domain.AccessWrite && explicit:
			appendAccess(&re.DataSendPoints, va)
		case ap.Type == domain.AccessWrite:
			appendAccess(&re.DataWriteAccesses, va)
		default:
			return re, fmt.Errorf("%w: access point %s has type %q", ErrUnresolvedReference, ap.ID, ap.Type)
		}
	}
	return re, nil
}

// Compositions

func (ix *index) compositionElements() (*Elements, error) {
	if len(ix.snap.Compositions) == 0 {
		return nil, nil
	}
	el := &Elements{}
	for _, c := range ix.snap.Compositions {
		ct := CompositionType{UUID: c.ID, ShortName: c.Name, Desc: desc(c.Description)}

		instances := make(map[string]domain.SWCInstance, len(c.Instances))
		if len(c.Instances) > 0 {
			ct.Components = &Components{}
		}
		for _, inst := range c.Instances {
			s, ok := ix.swcs[inst.SWCRef]
			if !ok {
				return nil, unresolved(domain.KindSWC, inst.SWCRef)
			}
			tref, err := ix.swcRef(s)
			if err != nil {
				return nil, err
			}
			instances[inst.ID] = inst
			ct.Components.Items = append(ct.Components.Items, ComponentPrototype{
				UUID: inst.ID, ShortName: inst.InstanceName, TypeTref: tref,
			})
		}

		if len(c.Connectors) > 0 {
			ct.Connectors = &Connectors{}
		}
		for _, cn := range c.Connectors {
			ac, err := ix.assemblyConnector(c, cn, instances)
			if err != nil {
				return nil, err
			}
			ct.Connectors.Items = append(ct.Connectors.Items, ac)
		}
		el.Compositions = append(el.Compositions, ct)
	}
	return el, nil
}

// assemblyConnector orients cn so the provided port sits in PROVIDER-IREF regardless of
// which end the caller called the source.
func (ix *index) assemblyConnector(c domain.ECUComposition, cn domain.Connector, instances map[string]domain.SWCInstance) (AssemblyConnector, error) {
	src, ok := instances[cn.SourceInstanceID]
	if !ok {
		return AssemblyConnector{}, unresolved(domain.KindSWCInstance, cn.SourceInstanceID)
	}
	tgt, ok := instances[cn.TargetInstanceID]
	if !ok {
		return AssemblyConnector{}, unresolved(domain.KindSWCInstance, cn.TargetInstanceID)
	}
	srcPort, ok := ix.ports[cn.SourcePortID]
	if !ok {
		return AssemblyConnector{}, unresolved(domain.KindPort, cn.SourcePortID)
	}
	tgtPort, ok := ix.ports[cn.TargetPortID]
	if !ok {
		return AssemblyConnector{}, unresolved(domain.KindPort, cn.TargetPortID)
	}
	if !srcPort.Direction.Opposite(tgtPort.Direction) {
		return AssemblyConnector{}, fmt.Errorf("%w: connector %s joins two %s ports", ErrUnresolvedReference, cn.ID, srcPort.Direction)
	}
	if srcPort.Direction == domain.PortRequired {
		src, tgt = tgt, src
		srcPort, tgtPort = tgtPort, srcPort
	}

	instRef := func(inst domain.SWCInstance) Ref {
		return Ref{Dest: "SW-COMPONENT-PROTOTYPE", Value: ix.path(pkgCompositions, c.Name) + "/" + inst.InstanceName}
	}
	return AssemblyConnector{
		UUID:      cn.ID,
		ShortName: cn.Name,
		ProviderIref: ProviderIref{
			ContextComponentRef: instRef(src),
			TargetPPortRef:      ix.portRef(srcPort),
		},
		RequesterIref: RequesterIref{
			ContextComponentRef: instRef(tgt),
			TargetRPortRef:      ix.portRef(tgtPort),
		},
	}, nil
}
