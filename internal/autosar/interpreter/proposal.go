// Package interpreter turns free-text requirements into reviewable entity proposals and replays
// the accepted ones against an entity store. Extraction is pattern based; nothing is applied to
// a store until a reviewer accepts it.
package interpreter

import (
	"fmt"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
)

type Kind string

const (
	KindDataType    Kind = "data_type"
	KindInterface   Kind = "interface"
	KindSWC         Kind = "swc"
	KindPort        Kind = "port"
	KindRunnable    Kind = "runnable"
	KindAccessPoint Kind = "access_point"
	KindComposition Kind = "composition"
	KindConnection  Kind = "connection"
)

// replayRank orders kinds so that every proposal is replayed after the ones it can refer to.
var replayRank = map[Kind]int{
	KindDataType:    0,
	KindInterface:   1,
	KindSWC:         2,
	KindPort:        3,
	KindRunnable:    4,
	KindAccessPoint: 5,
	KindComposition: 6,
	KindConnection:  7,
}

type Status string

const (
	StatusPending         Status = "pending"
	StatusAccepted        Status = "accepted"
	StatusRejected        Status = "rejected"
	StatusNeedsCorrection Status = "needs_correction"
)

func (s Status) reviewable() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusNeedsCorrection
}

// Proposal is one entity the interpreter believes the text asks for. Exactly one of the
// payload fields is set, matching Kind. Cross references are by name.
type Proposal struct {
	ID     string `json:"id"`
	Kind   Kind   `json:"kind"`
	Status Status `json:"status"`
	Source string `json:"source"`

	DataType    *domain.DataTypeSpec       `json:"data_type,omitempty"`
	Interface   *domain.InterfaceSpec      `json:"interface,omitempty"`
	SWC         *domain.SWCSpec            `json:"swc,omitempty"`
	Port        *PortProposal              `json:"port,omitempty"`
	Runnable    *RunnableProposal          `json:"runnable,omitempty"`
	AccessPoint *AccessPointProposal       `json:"access_point,omitempty"`
	Composition *domain.ECUCompositionSpec `json:"composition,omitempty"`
	Connection  *ConnectionProposal        `json:"connection,omitempty"`
}

type PortProposal struct {
	SWC       string               `json:"swc"`
	Name      string               `json:"name"`
	Direction domain.PortDirection `json:"direction"`
	Interface string               `json:"interface"`
}

type RunnableProposal struct {
	SWC         string              `json:"swc"`
	Name        string              `json:"name"`
	Type        domain.RunnableType `json:"runnable_type"`
	Period      int                 `json:"period,omitempty"`
	TriggerPort string              `json:"trigger_port,omitempty"`
}

// AccessPointProposal leaves SWC empty when the text names only the runnable; replay then
// looks the runnable up across all SWCs.
type AccessPointProposal struct {
	SWC      string            `json:"swc,omitempty"`
	Runnable string            `json:"runnable"`
	Port     string            `json:"port"`
	Type     domain.AccessType `json:"type"`
	Access   domain.AccessMode `json:"access"`
}

type ConnectionProposal struct {
	Composition string `json:"composition"`
	SourceSWC   string `json:"source_swc"`
	SourcePort  string `json:"source_port"`
	TargetSWC   string `json:"target_swc"`
	TargetPort  string `json:"target_port"`
}

// key identifies a proposal by what it would create, so repeated sentences yield one proposal.
func (p Proposal) key() string {
	switch p.Kind {
	case KindDataType:
		return fmt.Sprintf("%s/%s", p.Kind, lower(p.DataType.Name))
	case KindInterface:
		return fmt.Sprintf("%s/%s", p.Kind, lower(p.Interface.Name))
	case KindSWC:
		return fmt.Sprintf("%s/%s", p.Kind, lower(p.SWC.Name))
	case KindPort:
		return fmt.Sprintf("%s/%s/%s", p.Kind, lower(p.Port.SWC), lower(p.Port.Name))
	case KindRunnable:
		return fmt.Sprintf("%s/%s/%s", p.Kind, lower(p.Runnable.SWC), lower(p.Runnable.Name))
	case KindAccessPoint:
		a := p.AccessPoint
		return fmt.Sprintf("%s/%s/%s/%s/%s", p.Kind, lower(a.SWC), lower(a.Runnable), lower(a.Port), a.Type)
	case KindComposition:
		return fmt.Sprintf("%s/%s", p.Kind, lower(p.Composition.Name))
	case KindConnection:
		c := p.Connection
		return fmt.Sprintf("%s/%s/%s.%s/%s.%s", p.Kind, lower(c.Composition), lower(c.SourceSWC), lower(c.SourcePort), lower(c.TargetSWC), lower(c.TargetPort))
	}
	return string(p.Kind)
}

// Batch is the result of one extraction. Proposals keep the order they were found in.
type Batch struct {
	ID        string     `json:"id"`
	Proposals []Proposal `json:"proposals"`
}

// Review sets the status of one proposal.
func (b *Batch) Review(id string, status Status) error {
	if !status.reviewable() {
		return domain.NewValidationError("proposal", "status", "status must be accepted, rejected or needs_correction")
	}
	for i := range b.Proposals {
		if b.Proposals[i].ID == id {
			b.Proposals[i].Status = status
			return nil
		}
	}
	return domain.NewNotFoundError("proposal", id)
}

// AcceptAll accepts every proposal that is still pending.
func (b *Batch) AcceptAll() {
	for i := range b.Proposals {
		if b.Proposals[i].Status == StatusPending {
			b.Proposals[i].Status = StatusAccepted
		}
	}
}

// Count returns how many proposals have the given status.
func (b *Batch) Count(status Status) int {
	n := 0
	for _, p := range b.Proposals {
		if p.Status == status {
			n++
		}
	}
	return n
}
