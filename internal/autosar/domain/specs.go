package domain

// Specs carry the caller-supplied fields of a create call. Patches use pointer fields;
// nil means "leave unchanged".

type SWCSpec struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    SWCCategory `json:"category"`
	Kind        SWCKind     `json:"kind"`
}

type SWCPatch struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	Category    *SWCCategory `json:"category"`
	Kind        *SWCKind     `json:"kind"`
}

type PortSpec struct {
	Name         string        `json:"name"`
	Direction    PortDirection `json:"direction"`
	InterfaceRef string        `json:"interface_ref"`
	SWCID        string        `json:"swc_id"`
}

type PortPatch struct {
	Name         *string        `json:"name"`
	Direction    *PortDirection `json:"direction"`
	InterfaceRef *string        `json:"interface_ref"`
}

type DataElementSpec struct {
	Name                   string `json:"name"`
	ApplicationDataTypeRef string `json:"application_data_type_ref"`
	Category               string `json:"category"`
	Description            string `json:"description"`
}

type DataElementPatch struct {
	Name                   *string `json:"name"`
	ApplicationDataTypeRef *string `json:"application_data_type_ref"`
	Category               *string `json:"category"`
	Description            *string `json:"description"`
}

type OperationSpec struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Arguments   []Argument `json:"arguments"`
}

type InterfaceSpec struct {
	Name         string            `json:"name"`
	Kind         InterfaceKind     `json:"kind"`
	Description  string            `json:"description"`
	DataElements []DataElementSpec `json:"data_elements"`
	Operations   []OperationSpec   `json:"operations"`
}

type InterfacePatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type DataTypeSpec struct {
	Name        string           `json:"name"`
	Category    DataTypeCategory `json:"category"`
	BaseType    string           `json:"base_type"`
	ArraySize   int              `json:"array_size"`
	Description string           `json:"description"`
	Elements    []RecordElement  `json:"elements"`
}

type DataTypePatch struct {
	Name        *string          `json:"name"`
	BaseType    *string          `json:"base_type"`
	ArraySize   *int             `json:"array_size"`
	Description *string          `json:"description"`
	Elements    *[]RecordElement `json:"elements"`
}

type RunnableSpec struct {
	Name                     string       `json:"name"`
	RunnableType             RunnableType `json:"runnable_type"`
	Period                   int          `json:"period"`
	CanBeInvokedConcurrently bool         `json:"can_be_invoked_concurrently"`
	Symbol                   string       `json:"symbol"`
	TriggerPortID            string       `json:"trigger_port_id"`
}

type RunnablePatch struct {
	Name                     *string       `json:"name"`
	RunnableType             *RunnableType `json:"runnable_type"`
	Period                   *int          `json:"period"`
	CanBeInvokedConcurrently *bool         `json:"can_be_invoked_concurrently"`
	Symbol                   *string       `json:"symbol"`
	TriggerPortID            *string       `json:"trigger_port_id"`
}

type AccessPointSpec struct {
	Name       string     `json:"name"`
	Type       AccessType `json:"type"`
	Access     AccessMode `json:"access"`
	SWCID      string     `json:"swc_id"`
	RunnableID string     `json:"runnable_id"`
	PortID     string     `json:"port_id"`
	ElementRef string     `json:"element_ref"`
}

type AccessPointPatch struct {
	Name       *string     `json:"name"`
	Access     *AccessMode `json:"access"`
	PortID     *string     `json:"port_id"`
	ElementRef *string     `json:"element_ref"`
}

type ECUCompositionSpec struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	EcuType        string `json:"ecu_type"`
	AutosarVersion string `json:"autosar_version"`
}

type ECUCompositionPatch struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	EcuType        *string `json:"ecu_type"`
	AutosarVersion *string `json:"autosar_version"`
}

type SWCInstanceSpec struct {
	InstanceName string `json:"instance_name"`
	SWCRef       string `json:"swc_ref"`
}

type SWCInstancePatch struct {
	InstanceName *string `json:"instance_name"`
	SWCRef       *string `json:"swc_ref"`
}

type ConnectorSpec struct {
	Name             string `json:"name"`
	SourceInstanceID string `json:"source_instance_id"`
	SourcePortID     string `json:"source_port_id"`
	TargetInstanceID string `json:"target_instance_id"`
	TargetPortID     string `json:"target_port_id"`
}

type ProjectPatch struct {
	Name            *string `json:"name"`
	AutosarVersion  *string `json:"autosar_version"`
	AutoSaveEnabled *bool   `json:"auto_save_enabled"`
	IsDraft         *bool   `json:"is_draft"`
}
