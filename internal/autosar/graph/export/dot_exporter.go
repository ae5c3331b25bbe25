package export

import (
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
)

// ToDOT renders the wiring of one ECU composition: instances as nodes, connectors as edges
// from the provided port's instance to the required port's instance.
func ToDOT(snap domain.ProjectSnapshot, compID string) (string, error) {
	var comp *domain.ECUComposition
	for i := range snap.Compositions {
		if snap.Compositions[i].ID == compID {
			comp = &snap.Compositions[i]
			break
		}
	}
	if comp == nil {
		return "", domain.NewNotFoundError(domain.KindECUComposition, compID)
	}

	swcs := make(map[string]domain.SWC, len(snap.SWCs))
	for _, s := range snap.SWCs {
		swcs[s.ID] = s
	}
	ports := make(map[string]domain.Port, len(snap.Ports))
	for _, p := range snap.Ports {
		ports[p.ID] = p
	}
	ifaces := make(map[string]domain.Interface, len(snap.Interfaces))
	for _, i := range snap.Interfaces {
		ifaces[i.ID] = i
	}

	var b strings.Builder
	b.WriteString("digraph G {\n  rankdir=LR;\n  node [shape=box, style=rounded];\n")
	title := comp.Name
	if comp.EcuType != "" {
		title = fmt.Sprintf("%s (%s)", comp.Name, comp.EcuType)
	}
	b.WriteString(fmt.Sprintf(`  labelloc="t"; label=%q; fontname="Helvetica";`, title))
	b.WriteString("\n")

	for _, inst := range comp.Instances {
		style := `shape=box,style="rounded,filled",fillcolor="#eef6ff"`
		s := swcs[inst.SWCRef]
		if s.Kind == domain.SWCComposition {
			style = `shape=box3d,style="filled",fillcolor="#fff3cd"`
		}
		label := inst.InstanceName + `\n` + s.Name
		b.WriteString(fmt.Sprintf(`  "%s" [label="%s", %s];`+"\n", inst.ID, label, style))
	}

	for _, cn := range comp.Connectors {
		from, to := cn.SourceInstanceID, cn.TargetInstanceID
		fromPort, toPort := ports[cn.SourcePortID], ports[cn.TargetPortID]
		if fromPort.Direction == domain.PortRequired {
			from, to = to, from
			fromPort, toPort = toPort, fromPort
		}
		lbl := fmt.Sprintf("%s -> %s", fromPort.Name, toPort.Name)
		if i, ok := ifaces[fromPort.InterfaceRef]; ok {
			lbl = fmt.Sprintf("%s [%s]", lbl, i.Name)
		}
		b.WriteString(fmt.Sprintf(`  "%s" -> "%s" [label="%s", tooltip="%s"];`+"\n", from, to, lbl, cn.Name))
	}

	b.WriteString("}\n")
	return b.String(), nil
}
