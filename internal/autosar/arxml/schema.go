package arxml

import "encoding/xml"

// The types below cover the subset of the AUTOSAR R4 schema the exporter writes.
// Fields that hold mixed element kinds carry their tag in XMLName.

const (
	Namespace    = "http://autosar.org/schema/r4.0"
	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"
)

type Document struct {
	XMLName        xml.Name     `xml:"AUTOSAR"`
	Xmlns          string       `xml:"xmlns,attr"`
	XmlnsXSI       string       `xml:"xmlns:xsi,attr"`
	SchemaLocation string       `xml:"xsi:schemaLocation,attr"`
	Packages       *PackageList `xml:"AR-PACKAGES"`
}

// encoding/xml writes the wrapper of an "a>b" path even for an empty slice, so optional
// lists are held behind nil-able wrapper structs instead.

type PackageList struct {
	Items []Package `xml:"AR-PACKAGE"`
}

type Package struct {
	ShortName string       `xml:"SHORT-NAME"`
	Elements  *Elements    `xml:"ELEMENTS,omitempty"`
	Packages  *PackageList `xml:"AR-PACKAGES,omitempty"`
}

type Elements struct {
	PrimitiveTypes []PrimitiveDataType       `xml:"APPLICATION-PRIMITIVE-DATA-TYPE,omitempty"`
	ArrayTypes     []ArrayDataType           `xml:"APPLICATION-ARRAY-DATA-TYPE,omitempty"`
	RecordTypes    []RecordDataType          `xml:"APPLICATION-RECORD-DATA-TYPE,omitempty"`
	SenderReceiver []SenderReceiverInterface `xml:"SENDER-RECEIVER-INTERFACE,omitempty"`
	ClientServer   []ClientServerInterface   `xml:"CLIENT-SERVER-INTERFACE,omitempty"`
	Components     []ComponentType
	Compositions   []CompositionType `xml:"COMPOSITION-SW-COMPONENT-TYPE,omitempty"`
}

type Ref struct {
	Dest  string `xml:"DEST,attr"`
	Value string `xml:",chardata"`
}

type Desc struct {
	L2 LText `xml:"L-2"`
}

type LText struct {
	Lang string `xml:"L,attr"`
	Text string `xml:",chardata"`
}

func desc(text string) *Desc {
	if text == "" {
		return nil
	}
	return &Desc{L2: LText{Lang: "EN", Text: text}}
}

// Data types

type PrimitiveDataType struct {
	UUID        string       `xml:"UUID,attr,omitempty"`
	ShortName   string       `xml:"SHORT-NAME"`
	Desc        *Desc        `xml:"DESC,omitempty"`
	Category    string       `xml:"CATEGORY"`
	SwDataProps *SwDataProps `xml:"SW-DATA-DEF-PROPS,omitempty"`
}

type SwDataProps struct {
	BaseTypeRef Ref `xml:"SW-DATA-DEF-PROPS-VARIANTS>SW-DATA-DEF-PROPS-CONDITIONAL>BASE-TYPE-REF"`
}

type ArrayDataType struct {
	UUID      string       `xml:"UUID,attr,omitempty"`
	ShortName string       `xml:"SHORT-NAME"`
	Desc      *Desc        `xml:"DESC,omitempty"`
	Category  string       `xml:"CATEGORY"`
	Element   ArrayElement `xml:"ELEMENT"`
}

type ArrayElement struct {
	ShortName           string `xml:"SHORT-NAME"`
	Category            string `xml:"CATEGORY"`
	TypeTref            *Ref   `xml:"TYPE-TREF,omitempty"`
	ArraySizeSemantics  string `xml:"ARRAY-SIZE-SEMANTICS"`
	MaxNumberOfElements int    `xml:"MAX-NUMBER-OF-ELEMENTS"`
}

type RecordDataType struct {
	UUID      string          `xml:"UUID,attr,omitempty"`
	ShortName string          `xml:"SHORT-NAME"`
	Desc      *Desc           `xml:"DESC,omitempty"`
	Category  string          `xml:"CATEGORY"`
	Elements  []RecordElement `xml:"ELEMENTS>APPLICATION-RECORD-ELEMENT"`
}

type RecordElement struct {
	ShortName string `xml:"SHORT-NAME"`
	Category  string `xml:"CATEGORY"`
	TypeTref  Ref    `xml:"TYPE-TREF"`
}

// Port interfaces

type SenderReceiverInterface struct {
	UUID         string                  `xml:"UUID,attr,omitempty"`
	ShortName    string                  `xml:"SHORT-NAME"`
	Desc         *Desc                   `xml:"DESC,omitempty"`
	IsService    bool                    `xml:"IS-SERVICE"`
	DataElements []VariableDataPrototype `xml:"DATA-ELEMENTS>VARIABLE-DATA-PROTOTYPE"`
}

type VariableDataPrototype struct {
	UUID      string `xml:"UUID,attr,omitempty"`
	ShortName string `xml:"SHORT-NAME"`
	Desc      *Desc  `xml:"DESC,omitempty"`
	Category  string `xml:"CATEGORY,omitempty"`
	TypeTref  Ref    `xml:"TYPE-TREF"`
}

type ClientServerInterface struct {
	UUID       string                  `xml:"UUID,attr,omitempty"`
	ShortName  string                  `xml:"SHORT-NAME"`
	Desc       *Desc                   `xml:"DESC,omitempty"`
	IsService  bool                    `xml:"IS-SERVICE"`
	Operations []ClientServerOperation `xml:"OPERATIONS>CLIENT-SERVER-OPERATION"`
}

type ClientServerOperation struct {
	UUID      string     `xml:"UUID,attr,omitempty"`
	ShortName string     `xml:"SHORT-NAME"`
	Desc      *Desc      `xml:"DESC,omitempty"`
	Arguments *Arguments `xml:"ARGUMENTS,omitempty"`
}

type Arguments struct {
	Items []ArgumentPrototype `xml:"ARGUMENT-DATA-PROTOTYPE"`
}

type ArgumentPrototype struct {
	ShortName string `xml:"SHORT-NAME"`
	TypeTref  Ref    `xml:"TYPE-TREF"`
	Direction string `xml:"DIRECTION"`
}

// Component types

type ComponentType struct {
	XMLName   xml.Name
	UUID      string     `xml:"UUID,attr,omitempty"`
	ShortName string     `xml:"SHORT-NAME"`
	Desc      *Desc      `xml:"DESC,omitempty"`
	Ports     *Ports     `xml:"PORTS,omitempty"`
	Behaviors *Behaviors `xml:"INTERNAL-BEHAVIORS,omitempty"`
}

type Behaviors struct {
	Items []InternalBehavior `xml:"SWC-INTERNAL-BEHAVIOR"`
}

type Ports struct {
	Items []PortPrototype
}

type PortPrototype struct {
	XMLName       xml.Name
	UUID          string `xml:"UUID,attr,omitempty"`
	ShortName     string `xml:"SHORT-NAME"`
	ProvidedIface *Ref   `xml:"PROVIDED-INTERFACE-TREF,omitempty"`
	RequiredIface *Ref   `xml:"REQUIRED-INTERFACE-TREF,omitempty"`
}

type InternalBehavior struct {
	ShortName string           `xml:"SHORT-NAME"`
	Events    *Events          `xml:"EVENTS,omitempty"`
	Runnables []RunnableEntity `xml:"RUNNABLES>RUNNABLE-ENTITY"`
}

type Events struct {
	Items []Event
}

type Event struct {
	XMLName         xml.Name
	ShortName       string         `xml:"SHORT-NAME"`
	StartOnEventRef Ref            `xml:"START-ON-EVENT-REF"`
	OperationIref   *OperationIref `xml:"OPERATION-IREF,omitempty"`
	DataIref        *DataIref      `xml:"DATA-IREF,omitempty"`
	Period          string         `xml:"PERIOD,omitempty"`
}

type DataIref struct {
	ContextRPortRef      Ref `xml:"CONTEXT-R-PORT-REF"`
	TargetDataElementRef Ref `xml:"TARGET-DATA-ELEMENT-REF"`
}

type OperationIref struct {
	ContextPPortRef            Ref `xml:"CONTEXT-P-PORT-REF"`
	TargetProvidedOperationRef Ref `xml:"TARGET-PROVIDED-OPERATION-REF"`
}

type RunnableEntity struct {
	UUID                     string            `xml:"UUID,attr,omitempty"`
	ShortName                string            `xml:"SHORT-NAME"`
	CanBeInvokedConcurrently bool              `xml:"CAN-BE-INVOKED-CONCURRENTLY"`
	DataReadAccesses         *VariableAccesses `xml:"DATA-READ-ACCESSS,omitempty"`
	DataReceivePoints        *VariableAccesses `xml:"DATA-RECEIVE-POINT-BY-ARGUMENTS,omitempty"`
	DataSendPoints           *VariableAccesses `xml:"DATA-SEND-POINTS,omitempty"`
	DataWriteAccesses        *VariableAccesses `xml:"DATA-WRITE-ACCESSS,omitempty"`
	ServerCallPoints         *ServerCallPoints `xml:"SERVER-CALL-POINTS,omitempty"`
	Symbol                   string            `xml:"SYMBOL"`
}

type VariableAccesses struct {
	Items []VariableAccess `xml:"VARIABLE-ACCESS"`
}

type ServerCallPoints struct {
	Items []ServerCallPoint `xml:"SYNCHRONOUS-SERVER-CALL-POINT"`
}

type VariableAccess struct {
	ShortName string             `xml:"SHORT-NAME"`
	Variable  AutosarVariableRef `xml:"ACCESSED-VARIABLE>AUTOSAR-VARIABLE-IREF"`
}

type AutosarVariableRef struct {
	PortPrototypeRef       Ref  `xml:"PORT-PROTOTYPE-REF"`
	TargetDataPrototypeRef *Ref `xml:"TARGET-DATA-PROTOTYPE-REF,omitempty"`
}

type ServerCallPoint struct {
	ShortName     string        `xml:"SHORT-NAME"`
	OperationIref CallOperation `xml:"OPERATION-IREF"`
	Timeout       string        `xml:"TIMEOUT"`
}

type CallOperation struct {
	ContextRPortRef            Ref  `xml:"CONTEXT-R-PORT-REF"`
	TargetRequiredOperationRef *Ref `xml:"TARGET-REQUIRED-OPERATION-REF,omitempty"`
}

// Compositions

type CompositionType struct {
	UUID       string      `xml:"UUID,attr,omitempty"`
	ShortName  string      `xml:"SHORT-NAME"`
	Desc       *Desc       `xml:"DESC,omitempty"`
	Ports      *Ports      `xml:"PORTS,omitempty"`
	Components *Components `xml:"COMPONENTS,omitempty"`
	Connectors *Connectors `xml:"CONNECTORS,omitempty"`
}

type Components struct {
	Items []ComponentPrototype `xml:"SW-COMPONENT-PROTOTYPE"`
}

type Connectors struct {
	Items []AssemblyConnector `xml:"ASSEMBLY-SW-CONNECTOR"`
}

type ComponentPrototype struct {
	UUID      string `xml:"UUID,attr,omitempty"`
	ShortName string `xml:"SHORT-NAME"`
	TypeTref  Ref    `xml:"TYPE-TREF"`
}

type AssemblyConnector struct {
	UUID          string        `xml:"UUID,attr,omitempty"`
	ShortName     string        `xml:"SHORT-NAME"`
	ProviderIref  ProviderIref  `xml:"PROVIDER-IREF"`
	RequesterIref RequesterIref `xml:"REQUESTER-IREF"`
}

type ProviderIref struct {
	ContextComponentRef Ref `xml:"CONTEXT-COMPONENT-REF"`
	TargetPPortRef      Ref `xml:"TARGET-P-PORT-REF"`
}

type RequesterIref struct {
	ContextComponentRef Ref `xml:"CONTEXT-COMPONENT-REF"`
	TargetRPortRef      Ref `xml:"TARGET-R-PORT-REF"`
}
