package domain

type EntityKind string

const (
	KindProject        EntityKind = "project"
	KindSWC            EntityKind = "swc"
	KindPort           EntityKind = "port"
	KindInterface      EntityKind = "interface"
	KindDataElement    EntityKind = "data_element"
	KindOperation      EntityKind = "operation"
	KindDataType       EntityKind = "data_type"
	KindRunnable       EntityKind = "runnable"
	KindAccessPoint    EntityKind = "access_point"
	KindECUComposition EntityKind = "ecu_composition"
	KindSWCInstance    EntityKind = "swc_instance"
	KindConnector      EntityKind = "connector"
)

type SWCCategory string

const (
	CategoryApplication    SWCCategory = "application"
	CategoryService        SWCCategory = "service"
	CategoryECUAbstraction SWCCategory = "ecu-abstraction"
	CategoryComplexDriver  SWCCategory = "complex-driver"
	CategorySensorActuator SWCCategory = "sensor-actuator"
)

func (c SWCCategory) Valid() bool {
	switch c {
	case CategoryApplication, CategoryService, CategoryECUAbstraction, CategoryComplexDriver, CategorySensorActuator:
		return true
	}
	return false
}

type SWCKind string

const (
	SWCAtomic      SWCKind = "atomic"
	SWCComposition SWCKind = "composition"
)

func (k SWCKind) Valid() bool { return k == SWCAtomic || k == SWCComposition }

type PortDirection string

const (
	PortProvided PortDirection = "provided"
	PortRequired PortDirection = "required"
)

func (d PortDirection) Valid() bool { return d == PortProvided || d == PortRequired }

// Opposite reports whether d and o form a provided/required pair.
func (d PortDirection) Opposite(o PortDirection) bool {
	return (d == PortProvided && o == PortRequired) || (d == PortRequired && o == PortProvided)
}

type InterfaceKind string

const (
	InterfaceSenderReceiver InterfaceKind = "SenderReceiver"
	InterfaceClientServer   InterfaceKind = "ClientServer"
)

func (k InterfaceKind) Valid() bool {
	return k == InterfaceSenderReceiver || k == InterfaceClientServer
}

type DataTypeCategory string

const (
	DataTypePrimitive DataTypeCategory = "primitive"
	DataTypeArray     DataTypeCategory = "array"
	DataTypeRecord    DataTypeCategory = "record"
	DataTypeTypedef   DataTypeCategory = "typedef"
)

func (c DataTypeCategory) Valid() bool {
	switch c {
	case DataTypePrimitive, DataTypeArray, DataTypeRecord, DataTypeTypedef:
		return true
	}
	return false
}

type RunnableType string

const (
	RunnableInit     RunnableType = "init"
	RunnablePeriodic RunnableType = "periodic"
	RunnableEvent    RunnableType = "event"
)

func (t RunnableType) Valid() bool {
	return t == RunnableInit || t == RunnablePeriodic || t == RunnableEvent
}

type AccessType string

const (
	AccessRead  AccessType = "iRead"
	AccessWrite AccessType = "iWrite"
	AccessCall  AccessType = "iCall"
)

func (t AccessType) Valid() bool {
	return t == AccessRead || t == AccessWrite || t == AccessCall
}

// InterfaceKind returns the port interface kind an access of this type goes through.
func (t AccessType) InterfaceKind() InterfaceKind {
	if t == AccessCall {
		return InterfaceClientServer
	}
	return InterfaceSenderReceiver
}

type AccessMode string

const (
	AccessImplicit AccessMode = "implicit"
	AccessExplicit AccessMode = "explicit"
)

func (m AccessMode) Valid() bool { return m == AccessImplicit || m == AccessExplicit }

type ArgumentDirection string

const (
	ArgIn    ArgumentDirection = "in"
	ArgOut   ArgumentDirection = "out"
	ArgInOut ArgumentDirection = "inout"
)

func (d ArgumentDirection) Valid() bool { return d == ArgIn || d == ArgOut || d == ArgInOut }

// DefaultAutosarVersion is used when a project or composition omits one.
const DefaultAutosarVersion = "4.4.0"

// SupportedAutosarVersions maps a release to the schema file the exporter references.
var SupportedAutosarVersions = map[string]string{
	"4.0.3":  "AUTOSAR_4-0-3.xsd",
	"4.2.2":  "AUTOSAR_4-2-2.xsd",
	"4.3.0":  "AUTOSAR_4-3-0.xsd",
	"4.4.0":  "AUTOSAR_00046.xsd",
	"R19-11": "AUTOSAR_00048.xsd",
	"R20-11": "AUTOSAR_00049.xsd",
	"R21-11": "AUTOSAR_00050.xsd",
	"R22-11": "AUTOSAR_00051.xsd",
}

// PlatformTypes are the primitive type names a data element may reference directly.
var PlatformTypes = map[string]bool{
	"boolean": true,
	"uint8":   true,
	"uint16":  true,
	"uint32":  true,
	"uint64":  true,
	"sint8":   true,
	"sint16":  true,
	"sint32":  true,
	"sint64":  true,
	"float32": true,
	"float64": true,
}
