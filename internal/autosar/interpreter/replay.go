package interpreter

import (
	"fmt"
	"sort"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/platform/metrics"
)

// Target is the part of the entity store replay writes through.
type Target interface {
	CreateDataType(spec domain.DataTypeSpec) (domain.DataType, error)
	CreateInterface(spec domain.InterfaceSpec) (domain.Interface, error)
	FindInterfaceByName(name string) (domain.Interface, bool)
	CreateSWC(spec domain.SWCSpec) (domain.SWC, error)
	FindSWCByName(name string) (domain.SWC, bool)
	ListSWCs() []domain.SWC
	CreatePort(spec domain.PortSpec) (domain.Port, error)
	FindPortByName(swcID, name string) (domain.Port, bool)
	CreateRunnable(swcID string, spec domain.RunnableSpec) (domain.Runnable, error)
	FindRunnableByName(swcID, name string) (domain.Runnable, bool)
	CreateAccessPoint(spec domain.AccessPointSpec) (domain.AccessPoint, error)
	CreateECUComposition(spec domain.ECUCompositionSpec) (domain.ECUComposition, error)
	FindECUCompositionByName(name string) (domain.ECUComposition, bool)
	GetECUComposition(id string) (domain.ECUComposition, error)
	AddSWCInstance(compID string, spec domain.SWCInstanceSpec) (domain.SWCInstance, error)
	AddECUConnector(compID string, spec domain.ConnectorSpec) (domain.Connector, error)
}

// Outcome is the result of replaying one proposal. EntityID is set on success, Error on failure.
type Outcome struct {
	ProposalID string `json:"proposal_id"`
	Kind       Kind   `json:"kind"`
	EntityID   string `json:"entity_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

type ReplayReport struct {
	Applied []Outcome `json:"applied"`
	Failed  []Outcome `json:"failed"`
	Skipped int       `json:"skipped"` // proposals that were not accepted
}

// Replay applies the accepted proposals of b to t as ordinary create calls, dependencies first.
// Proposals of one kind keep their batch order. A failing proposal is reported and replay
// continues with the next one; a proposal that depends on a failed one fails in turn when its
// reference does not resolve.
func Replay(t Target, b *Batch) ReplayReport {
	report := ReplayReport{Applied: []Outcome{}, Failed: []Outcome{}}
	accepted := make([]Proposal, 0, len(b.Proposals))
	for _, p := range b.Proposals {
		if p.Status == StatusAccepted {
			accepted = append(accepted, p)
		} else {
			report.Skipped++
		}
	}
	sort.SliceStable(accepted, func(i, j int) bool {
		return replayRank[accepted[i].Kind] < replayRank[accepted[j].Kind]
	})

	for _, p := range accepted {
		id, err := apply(t, p)
		out := Outcome{ProposalID: p.ID, Kind: p.Kind}
		if err != nil {
			out.Error = err.Error()
			report.Failed = append(report.Failed, out)
			metrics.InterpreterProposals.WithLabelValues(string(p.Kind), "failed").Inc()
			continue
		}
		out.EntityID = id
		report.Applied = append(report.Applied, out)
		metrics.InterpreterProposals.WithLabelValues(string(p.Kind), "replayed").Inc()
	}
	return report
}

func apply(t Target, p Proposal) (string, error) {
	switch p.Kind {
	case KindDataType:
		dt, err := t.CreateDataType(*p.DataType)
		return dt.ID, err
	case KindInterface:
		iface, err := t.CreateInterface(*p.Interface)
		return iface.ID, err
	case KindSWC:
		swc, err := t.CreateSWC(*p.SWC)
		return swc.ID, err
	case KindPort:
		return applyPort(t, p.Port)
	case KindRunnable:
		return applyRunnable(t, p.Runnable)
	case KindAccessPoint:
		return applyAccessPoint(t, p.AccessPoint)
	case KindComposition:
		if c, ok := t.FindECUCompositionByName(p.Composition.Name); ok {
			return c.ID, nil
		}
		c, err := t.CreateECUComposition(*p.Composition)
		return c.ID, err
	case KindConnection:
		return applyConnection(t, p.Connection)
	}
	return "", domain.NewValidationError("proposal", "kind", "unknown proposal kind "+string(p.Kind))
}

func findSWC(t Target, name string) (domain.SWC, error) {
	swc, ok := t.FindSWCByName(name)
	if !ok {
		return domain.SWC{}, domain.NewNotFoundError(domain.KindSWC, name)
	}
	return swc, nil
}

func findPort(t Target, swc domain.SWC, name string) (domain.Port, error) {
	port, ok := t.FindPortByName(swc.ID, name)
	if !ok {
		return domain.Port{}, domain.NewNotFoundError(domain.KindPort, swc.Name+"."+name)
	}
	return port, nil
}

func applyPort(t Target, pp *PortProposal) (string, error) {
	swc, err := findSWC(t, pp.SWC)
	if err != nil {
		return "", err
	}
	iface, ok := t.FindInterfaceByName(pp.Interface)
	if !ok {
		return "", domain.NewNotFoundError(domain.KindInterface, pp.Interface)
	}
	port, err := t.CreatePort(domain.PortSpec{Name: pp.Name, Direction: pp.Direction, InterfaceRef: iface.ID, SWCID: swc.ID})
	return port.ID, err
}

func applyRunnable(t Target, rp *RunnableProposal) (string, error) {
	swc, err := findSWC(t, rp.SWC)
	if err != nil {
		return "", err
	}
	spec := domain.RunnableSpec{Name: rp.Name, RunnableType: rp.Type, Period: rp.Period}
	if rp.TriggerPort != "" {
		port, err := findPort(t, swc, rp.TriggerPort)
		if err != nil {
			return "", err
		}
		spec.TriggerPortID = port.ID
	}
	r, err := t.CreateRunnable(swc.ID, spec)
	return r.ID, err
}

func applyAccessPoint(t Target, ap *AccessPointProposal) (string, error) {
	var (
		swc domain.SWC
		run domain.Runnable
		err error
	)
	if ap.SWC != "" {
		if swc, err = findSWC(t, ap.SWC); err != nil {
			return "", err
		}
		r, ok := t.FindRunnableByName(swc.ID, ap.Runnable)
		if !ok {
			return "", domain.NewNotFoundError(domain.KindRunnable, swc.Name+"."+ap.Runnable)
		}
		run = r
	} else if swc, run, err = runnableAnywhere(t, ap.Runnable); err != nil {
		return "", err
	}
	port, err := findPort(t, swc, ap.Port)
	if err != nil {
		return "", err
	}
	out, err := t.CreateAccessPoint(domain.AccessPointSpec{
		Type: ap.Type, Access: ap.Access, SWCID: swc.ID, RunnableID: run.ID, PortID: port.ID,
	})
	return out.ID, err
}

// runnableAnywhere finds the single SWC owning a runnable called name.
func runnableAnywhere(t Target, name string) (domain.SWC, domain.Runnable, error) {
	var (
		owner domain.SWC
		found domain.Runnable
		n     int
	)
	for _, swc := range t.ListSWCs() {
		if r, ok := t.FindRunnableByName(swc.ID, name); ok {
			owner, found = swc, r
			n++
		}
	}
	switch n {
	case 0:
		return domain.SWC{}, domain.Runnable{}, domain.NewNotFoundError(domain.KindRunnable, name)
	case 1:
		return owner, found, nil
	}
	return domain.SWC{}, domain.Runnable{}, domain.NewConflictError(domain.KindRunnable, name, fmt.Sprintf("runnable name is used by %d SWCs; qualify it as Swc.%s", n, name))
}

func applyConnection(t Target, cp *ConnectionProposal) (string, error) {
	comp, ok := t.FindECUCompositionByName(cp.Composition)
	if !ok {
		return "", domain.NewNotFoundError(domain.KindECUComposition, cp.Composition)
	}
	srcSWC, err := findSWC(t, cp.SourceSWC)
	if err != nil {
		return "", err
	}
	tgtSWC, err := findSWC(t, cp.TargetSWC)
	if err != nil {
		return "", err
	}
	srcPort, err := findPort(t, srcSWC, cp.SourcePort)
	if err != nil {
		return "", err
	}
	tgtPort, err := findPort(t, tgtSWC, cp.TargetPort)
	if err != nil {
		return "", err
	}
	src, err := instanceOf(t, comp.ID, srcSWC.ID)
	if err != nil {
		return "", err
	}
	tgt, err := instanceOf(t, comp.ID, tgtSWC.ID)
	if err != nil {
		return "", err
	}
	conn, err := t.AddECUConnector(comp.ID, domain.ConnectorSpec{
		SourceInstanceID: src.ID, SourcePortID: srcPort.ID,
		TargetInstanceID: tgt.ID, TargetPortID: tgtPort.ID,
	})
	return conn.ID, err
}

// instanceOf returns the first instance of swcID in the composition, adding one if there is none.
func instanceOf(t Target, compID, swcID string) (domain.SWCInstance, error) {
	comp, err := t.GetECUComposition(compID)
	if err != nil {
		return domain.SWCInstance{}, err
	}
	for _, inst := range comp.Instances {
		if inst.SWCRef == swcID {
			return inst, nil
		}
	}
	return t.AddSWCInstance(compID, domain.SWCInstanceSpec{SWCRef: swcID})
}
