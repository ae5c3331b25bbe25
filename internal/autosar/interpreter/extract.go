package interpreter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/utils"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/platform/metrics"
)

// DefaultElementType is the type given to data elements whose sentence names none.
const DefaultElementType = "uint32"

// DefaultComposition receives connections whose sentence names no composition.
const DefaultComposition = "MainComposition"

const ident = `([A-Za-z][A-Za-z0-9_]*)`

// Requirement patterns
var (
	rxSentence = regexp.MustCompile(`[;\n]+|\.(?:\s+|$)`)

	rxDataType  = regexp.MustCompile(`(?i)\bdata\s*type\s+` + ident + `\s+(?:is|as)\s+(?:an?\s+)?` + ident)
	rxArray     = regexp.MustCompile(`(?i)\barray\s+(?:type\s+)?` + ident + `\s+of\s+(\d+)\s+` + ident)
	rxRecord    = regexp.MustCompile(`(?i)\brecord\s+(?:type\s+)?` + ident + `\s+with\s+(?:fields|elements)\s+(.+)$`)
	rxInterface = regexp.MustCompile(`(?i)\b(sender[\s-]*receiver|client[\s-]*server)\s+interface\s+` + ident + `(?:\s+with\s+(?:data\s+elements?|elements?|operations?)\s+(.+))?$`)
	rxSWC       = regexp.MustCompile(`(?i)\b(?:(application|service|ecu[\s-]*abstraction|complex[\s-]*(?:device[\s-]*)?driver|sensor[\s-]*actuator)\s+)?(?:swc|software\s+component|component)\s+` + ident)
	rxPort      = regexp.MustCompile(`(?i)\b` + ident + `\s+(provides|requires)\s+(?:port\s+)?` + ident + `\s+(?:via|using|through|on|with)\s+(?:interface\s+)?` + ident)
	rxPeriodic  = regexp.MustCompile(`(?i)\b` + ident + `\s+runs\s+(?:runnable\s+)?` + ident + `\s+every\s+(\d+)\s*ms\b`)
	rxInit      = regexp.MustCompile(`(?i)\b` + ident + `\s+runs\s+(?:runnable\s+)?` + ident + `\s+(?:at|on)\s+init(?:iali[sz]ation)?\b`)
	rxOnEvent   = regexp.MustCompile(`(?i)\b` + ident + `\s+runs\s+(?:runnable\s+)?` + ident + `\s+on\s+(?:event|data|call)(?:\s+(?:from|on|at)\s+(?:port\s+)?` + ident + `)?`)
	rxAccessDot = regexp.MustCompile(`(?i)\b` + ident + `\.` + ident + `\s+(reads|writes|calls)\s+(?:(implicitly|explicitly)\s+)?(?:from\s+|to\s+|through\s+)?(?:port\s+)?` + ident)
	rxAccess    = regexp.MustCompile(`(?i)\b(?:runnable\s+)?` + ident + `\s+(reads|writes|calls)\s+(?:(implicitly|explicitly)\s+)?(?:from\s+|to\s+|through\s+)?(?:port\s+)?` + ident)
	rxComp      = regexp.MustCompile(`(?i)\b(?:ecu\s+)?composition\s+` + ident + `(?:\s+(?:for|on)\s+(?:ecu\s+)?` + ident + `)?`)
	rxConnect   = regexp.MustCompile(`(?i)\bconnect\s+` + ident + `\.` + ident + `\s+(?:to|with|and)\s+` + ident + `\.` + ident + `(?:\s+in\s+(?:composition\s+)?` + ident + `)?`)

	rxListSep = regexp.MustCompile(`\s*(?:,|\band\b)\s*`)
	rxOfType  = regexp.MustCompile(`(?i)^(.*?)\s+of\s+type\s+` + ident + `$`)
)

var categories = map[string]domain.SWCCategory{
	"application":         domain.CategoryApplication,
	"service":             domain.CategoryService,
	"ecuabstraction":      domain.CategoryECUAbstraction,
	"complexdriver":       domain.CategoryComplexDriver,
	"complexdevicedriver": domain.CategoryComplexDriver,
	"sensoractuator":      domain.CategorySensorActuator,
}

// Extract scans text sentence by sentence and returns every proposal it recognizes, all
// pending. Repeated facts produce a single proposal.
func Extract(text string) *Batch {
	ids := utils.NewSequence()
	b := &Batch{ID: utils.NewID("batch"), Proposals: []Proposal{}}
	seen := map[string]bool{}
	add := func(p Proposal) {
		k := p.key()
		if seen[k] {
			return
		}
		seen[k] = true
		p.ID = ids.NewID(utils.PrefixProposal)
		p.Status = StatusPending
		b.Proposals = append(b.Proposals, p)
		metrics.InterpreterProposals.WithLabelValues(string(p.Kind), "proposed").Inc()
	}

	for _, sentence := range rxSentence.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		for _, p := range extractSentence(sentence) {
			p.Source = sentence
			add(p)
		}
	}
	return b
}

func extractSentence(s string) []Proposal {
	var out []Proposal

	for _, m := range rxDataType.FindAllStringSubmatch(s, -1) {
		out = append(out, dataTypeProposal(m[1], m[2]))
	}
	for _, m := range rxArray.FindAllStringSubmatch(s, -1) {
		n, _ := strconv.Atoi(m[2])
		out = append(out, Proposal{Kind: KindDataType, DataType: &domain.DataTypeSpec{
			Name: m[1], Category: domain.DataTypeArray, ArraySize: n, BaseType: typeName(m[3]),
		}})
	}
	if m := rxRecord.FindStringSubmatch(s); m != nil {
		spec := &domain.DataTypeSpec{Name: m[1], Category: domain.DataTypeRecord}
		for _, it := range parseTypedList(m[2]) {
			spec.Elements = append(spec.Elements, domain.RecordElement{Name: it.name, TypeRef: it.typ})
		}
		out = append(out, Proposal{Kind: KindDataType, DataType: spec})
	}
	if m := rxInterface.FindStringSubmatch(s); m != nil {
		out = append(out, interfaceProposal(m[1], m[2], m[3]))
	}
	for _, m := range rxSWC.FindAllStringSubmatch(s, -1) {
		cat := domain.CategoryApplication
		if m[1] != "" {
			cat = categories[squash(m[1])]
		}
		out = append(out, Proposal{Kind: KindSWC, SWC: &domain.SWCSpec{Name: m[2], Category: cat, Kind: domain.SWCAtomic}})
	}
	for _, m := range rxPort.FindAllStringSubmatch(s, -1) {
		dir := domain.PortProvided
		if strings.EqualFold(m[2], "requires") {
			dir = domain.PortRequired
		}
		out = append(out, Proposal{Kind: KindPort, Port: &PortProposal{SWC: m[1], Name: m[3], Direction: dir, Interface: m[4]}})
	}
	for _, m := range rxPeriodic.FindAllStringSubmatch(s, -1) {
		period, _ := strconv.Atoi(m[3])
		out = append(out, Proposal{Kind: KindRunnable, Runnable: &RunnableProposal{SWC: m[1], Name: m[2], Type: domain.RunnablePeriodic, Period: period}})
	}
	for _, m := range rxInit.FindAllStringSubmatch(s, -1) {
		out = append(out, Proposal{Kind: KindRunnable, Runnable: &RunnableProposal{SWC: m[1], Name: m[2], Type: domain.RunnableInit}})
	}
	for _, m := range rxOnEvent.FindAllStringSubmatch(s, -1) {
		out = append(out, Proposal{Kind: KindRunnable, Runnable: &RunnableProposal{SWC: m[1], Name: m[2], Type: domain.RunnableEvent, TriggerPort: m[3]}})
	}

	if ms := rxAccessDot.FindAllStringSubmatch(s, -1); len(ms) > 0 {
		for _, m := range ms {
			out = append(out, accessProposal(m[1], m[2], m[3], m[4], m[5]))
		}
	} else {
		for _, m := range rxAccess.FindAllStringSubmatch(s, -1) {
			out = append(out, accessProposal("", m[1], m[2], m[3], m[4]))
		}
	}

	if m := rxConnect.FindStringSubmatch(s); m != nil {
		comp := m[5]
		if comp == "" {
			comp = DefaultComposition
		}
		out = append(out,
			Proposal{Kind: KindComposition, Composition: &domain.ECUCompositionSpec{Name: comp}},
			Proposal{Kind: KindConnection, Connection: &ConnectionProposal{
				Composition: comp, SourceSWC: m[1], SourcePort: m[2], TargetSWC: m[3], TargetPort: m[4],
			}},
		)
	} else if m := rxComp.FindStringSubmatch(s); m != nil {
		out = append(out, Proposal{Kind: KindComposition, Composition: &domain.ECUCompositionSpec{Name: m[1], EcuType: m[2]}})
	}
	return out
}

func dataTypeProposal(name, base string) Proposal {
	spec := &domain.DataTypeSpec{Name: name, Category: domain.DataTypeTypedef, BaseType: base}
	if domain.PlatformTypes[strings.ToLower(base)] {
		spec.Category = domain.DataTypePrimitive
		spec.BaseType = strings.ToLower(base)
	}
	return Proposal{Kind: KindDataType, DataType: spec}
}

func interfaceProposal(kind, name, members string) Proposal {
	spec := &domain.InterfaceSpec{Name: name, Kind: domain.InterfaceSenderReceiver}
	if strings.HasPrefix(strings.ToLower(kind), "client") {
		spec.Kind = domain.InterfaceClientServer
	}
	for _, it := range parseTypedList(members) {
		if spec.Kind == domain.InterfaceClientServer {
			spec.Operations = append(spec.Operations, domain.OperationSpec{Name: it.name})
			continue
		}
		spec.DataElements = append(spec.DataElements, domain.DataElementSpec{Name: it.name, ApplicationDataTypeRef: it.typ})
	}
	return Proposal{Kind: KindInterface, Interface: spec}
}

func accessProposal(swc, runnable, verb, mode, port string) Proposal {
	t := domain.AccessRead
	switch strings.ToLower(verb) {
	case "writes":
		t = domain.AccessWrite
	case "calls":
		t = domain.AccessCall
	}
	access := domain.AccessImplicit
	if strings.EqualFold(mode, "explicitly") {
		access = domain.AccessExplicit
	}
	return Proposal{Kind: KindAccessPoint, AccessPoint: &AccessPointProposal{SWC: swc, Runnable: runnable, Port: port, Type: t, Access: access}}
}

type typedItem struct {
	name, typ string
}

// parseTypedList reads "A, B:uint8 and C of type T". A trailing "of type T" applies to items
// without their own ":type".
func parseTypedList(s string) []typedItem {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	shared := DefaultElementType
	if m := rxOfType.FindStringSubmatch(s); m != nil {
		s, shared = m[1], typeName(m[2])
	}
	var out []typedItem
	for _, part := range rxListSep.Split(s, -1) {
		name, typ, found := strings.Cut(strings.TrimSpace(part), ":")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if found && strings.TrimSpace(typ) != "" {
			out = append(out, typedItem{name: name, typ: typeName(strings.TrimSpace(typ))})
			continue
		}
		out = append(out, typedItem{name: name, typ: shared})
	}
	return out
}

// typeName lower-cases platform type names and leaves user types as written.
func typeName(s string) string {
	if l := strings.ToLower(s); domain.PlatformTypes[l] {
		return l
	}
	return s
}

func squash(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "\t", "").Replace(strings.ToLower(s))
}

func lower(s string) string { return strings.ToLower(s) }
