package domain

import "time"

// Project is the root aggregate. Every other entity belongs to exactly one project.
type Project struct {
	ID              string    `json:"id" yaml:"id"`
	Name            string    `json:"name" yaml:"name"`
	AutosarVersion  string    `json:"autosar_version" yaml:"autosar_version"`
	IsDraft         bool      `json:"is_draft" yaml:"is_draft"`
	AutoSaveEnabled bool      `json:"auto_save_enabled" yaml:"auto_save_enabled"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
	LastModified    time.Time `json:"last_modified" yaml:"last_modified"`
}

type SWC struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Category    SWCCategory `json:"category" yaml:"category"`
	Kind        SWCKind     `json:"kind" yaml:"kind"`
}

type Port struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Direction    PortDirection `json:"direction" yaml:"direction"`
	InterfaceRef string        `json:"interface_ref" yaml:"interface_ref"`
	SWCID        string        `json:"swc_id" yaml:"swc_id"`
}

type Interface struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Kind         InterfaceKind `json:"kind" yaml:"kind"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	DataElements []DataElement `json:"data_elements" yaml:"data_elements"`
	Operations   []Operation   `json:"operations,omitempty" yaml:"operations,omitempty"`
}

// DataElement is a variable carried by a sender/receiver interface.
// ApplicationDataTypeRef holds either a DataType id or a platform type name.
type DataElement struct {
	ID                     string `json:"id" yaml:"id"`
	Name                   string `json:"name" yaml:"name"`
	ApplicationDataTypeRef string `json:"application_data_type_ref" yaml:"application_data_type_ref"`
	Category               string `json:"category,omitempty" yaml:"category,omitempty"`
	Description            string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Operation is a client/server interface operation.
type Operation struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Arguments   []Argument `json:"arguments,omitempty" yaml:"arguments,omitempty"`
}

type Argument struct {
	Name      string            `json:"name" yaml:"name"`
	Direction ArgumentDirection `json:"direction" yaml:"direction"`
	TypeRef   string            `json:"type_ref" yaml:"type_ref"`
}

type DataType struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Category    DataTypeCategory `json:"category" yaml:"category"`
	BaseType    string           `json:"base_type,omitempty" yaml:"base_type,omitempty"`
	ArraySize   int              `json:"array_size,omitempty" yaml:"array_size,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Elements    []RecordElement  `json:"elements,omitempty" yaml:"elements,omitempty"`
}

type RecordElement struct {
	Name    string `json:"name" yaml:"name"`
	TypeRef string `json:"type_ref" yaml:"type_ref"`
}

type Runnable struct {
	ID                       string       `json:"id" yaml:"id"`
	Name                     string       `json:"name" yaml:"name"`
	SWCID                    string       `json:"swc_id" yaml:"swc_id"`
	RunnableType             RunnableType `json:"runnable_type" yaml:"runnable_type"`
	Period                   int          `json:"period" yaml:"period"` // ms, 0 unless periodic
	CanBeInvokedConcurrently bool         `json:"can_be_invoked_concurrently" yaml:"can_be_invoked_concurrently"`
	Symbol                   string       `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	TriggerPortID            string       `json:"trigger_port_id,omitempty" yaml:"trigger_port_id,omitempty"`
}

// AccessPoint is a runnable's read, write or call access through one of its SWC's ports.
type AccessPoint struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Type       AccessType `json:"type" yaml:"type"`
	Access     AccessMode `json:"access" yaml:"access"`
	SWCID      string     `json:"swc_id" yaml:"swc_id"`
	RunnableID string     `json:"runnable_id" yaml:"runnable_id"`
	PortID     string     `json:"port_id" yaml:"port_id"`
	ElementRef string     `json:"element_ref,omitempty" yaml:"element_ref,omitempty"`
}

type ECUComposition struct {
	ID             string        `json:"id" yaml:"id"`
	Name           string        `json:"name" yaml:"name"`
	Description    string        `json:"description,omitempty" yaml:"description,omitempty"`
	EcuType        string        `json:"ecu_type,omitempty" yaml:"ecu_type,omitempty"`
	AutosarVersion string        `json:"autosar_version" yaml:"autosar_version"`
	Instances      []SWCInstance `json:"swc_instances" yaml:"swc_instances"`
	Connectors     []Connector   `json:"connectors" yaml:"connectors"`
}

type SWCInstance struct {
	ID               string `json:"id" yaml:"id"`
	InstanceName     string `json:"instance_name" yaml:"instance_name"`
	SWCRef           string `json:"swc_ref" yaml:"swc_ref"`
	ECUCompositionID string `json:"ecu_composition_id" yaml:"ecu_composition_id"`
}

type Connector struct {
	ID               string `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	SourceInstanceID string `json:"source_instance_id" yaml:"source_instance_id"`
	SourcePortID     string `json:"source_port_id" yaml:"source_port_id"`
	TargetInstanceID string `json:"target_instance_id" yaml:"target_instance_id"`
	TargetPortID     string `json:"target_port_id" yaml:"target_port_id"`
	ECUCompositionID string `json:"ecu_composition_id" yaml:"ecu_composition_id"`
}

// ProjectSnapshot is a self-contained copy of a project graph. It is what gets persisted,
// exported and restored; slices keep creation order.
type ProjectSnapshot struct {
	Project      Project          `json:"project" yaml:"project"`
	SWCs         []SWC            `json:"swcs" yaml:"swcs"`
	Ports        []Port           `json:"ports" yaml:"ports"`
	Interfaces   []Interface      `json:"interfaces" yaml:"interfaces"`
	DataTypes    []DataType       `json:"data_types" yaml:"data_types"`
	Runnables    []Runnable       `json:"runnables" yaml:"runnables"`
	AccessPoints []AccessPoint    `json:"access_points" yaml:"access_points"`
	Compositions []ECUComposition `json:"ecu_compositions" yaml:"ecu_compositions"`
}

// CascadeReport lists every id removed by a delete, grouped by entity kind.
type CascadeReport struct {
	Removed map[EntityKind][]string `json:"removed"`
}

func NewCascadeReport() CascadeReport {
	return CascadeReport{Removed: map[EntityKind][]string{}}
}

func (r CascadeReport) Add(kind EntityKind, id string) {
	r.Removed[kind] = append(r.Removed[kind], id)
}

// Count returns the number of removed entities of the given kind.
func (r CascadeReport) Count(kind EntityKind) int {
	return len(r.Removed[kind])
}

// Total returns the number of removed entities across all kinds.
func (r CascadeReport) Total() int {
	n := 0
	for _, ids := range r.Removed {
		n += len(ids)
	}
	return n
}
