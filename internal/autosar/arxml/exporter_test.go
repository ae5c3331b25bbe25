package arxml

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/store"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/utils"
)

// node is a schema-free view of the exported document.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

func parse(t *testing.T, b []byte) node {
	t.Helper()
	var n node
	require.NoError(t, xml.Unmarshal(b, &n))
	return n
}

// all returns every descendant of n (n included) with the given tag, in document order.
func (n node) all(tag string) []node {
	var out []node
	if n.XMLName.Local == tag {
		out = append(out, n)
	}
	for _, c := range n.Children {
		out = append(out, c.all(tag)...)
	}
	return out
}

func (n node) child(tag string) (node, bool) {
	for _, c := range n.Children {
		if c.XMLName.Local == tag {
			return c, true
		}
	}
	return node{}, false
}

func (n node) text(tag string) string {
	c, _ := n.child(tag)
	return strings.TrimSpace(c.Text)
}

func (n node) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return store.New(domain.Project{
		ID:             "swcproj-10000-1000",
		Name:           "Body Control",
		AutosarVersion: "4.4.0",
		CreatedAt:      now,
		LastModified:   now,
	}, store.WithIDGenerator(utils.NewSequence()), store.WithClock(func() time.Time { return now }))
}

type model struct {
	s        *store.Store
	speedIf  domain.Interface
	torqueIf domain.Interface
	engine   domain.SWC
	rSpeed   domain.Port
	pTorque  domain.Port
	main     domain.Runnable
	comp     domain.ECUComposition
}

// newModel builds one SWC with a required and a provided port on distinct interfaces, one
// periodic runnable reading through the required port, and a composition with one instance.
func newModel(t *testing.T) model {
	t.Helper()
	m := model{s: newStore(t)}
	var err error

	m.speedIf, err = m.s.CreateInterface(domain.InterfaceSpec{
		Name: "SpeedIf", Kind: domain.InterfaceSenderReceiver,
		DataElements: []domain.DataElementSpec{{Name: "Speed", ApplicationDataTypeRef: "uint16"}},
	})
	require.NoError(t, err)
	m.torqueIf, err = m.s.CreateInterface(domain.InterfaceSpec{
		Name: "TorqueIf", Kind: domain.InterfaceSenderReceiver,
		DataElements: []domain.DataElementSpec{{Name: "Torque", ApplicationDataTypeRef: "float32"}},
	})
	require.NoError(t, err)

	m.engine, err = m.s.CreateSWC(domain.SWCSpec{Name: "EngineCtrl", Category: domain.CategoryApplication, Kind: domain.SWCAtomic})
	require.NoError(t, err)
	m.rSpeed, err = m.s.CreatePort(domain.PortSpec{Name: "SpeedIn", Direction: domain.PortRequired, InterfaceRef: m.speedIf.ID, SWCID: m.engine.ID})
	require.NoError(t, err)
	m.pTorque, err = m.s.CreatePort(domain.PortSpec{Name: "TorqueOut", Direction: domain.PortProvided, InterfaceRef: m.torqueIf.ID, SWCID: m.engine.ID})
	require.NoError(t, err)

	m.main, err = m.s.CreateRunnable(m.engine.ID, domain.RunnableSpec{Name: "EngineCtrl_10ms", RunnableType: domain.RunnablePeriodic, Period: 10})
	require.NoError(t, err)
	_, err = m.s.CreateAccessPoint(domain.AccessPointSpec{
		Type: domain.AccessRead, Access: domain.AccessImplicit,
		SWCID: m.engine.ID, RunnableID: m.main.ID, PortID: m.rSpeed.ID,
	})
	require.NoError(t, err)

	m.comp, err = m.s.CreateECUComposition(domain.ECUCompositionSpec{Name: "BodyEcu", EcuType: "BCM"})
	require.NoError(t, err)
	_, err = m.s.AddSWCInstance(m.comp.ID, domain.SWCInstanceSpec{SWCRef: m.engine.ID})
	require.NoError(t, err)
	return m
}

func exportModel(t *testing.T, s *store.Store) node {
	t.Helper()
	b, err := NewExporter().Export(s.Snapshot())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(b), xml.Header))
	return parse(t, b)
}

func TestExport_StructuralRoundTrip(t *testing.T) {
	m := newModel(t)
	doc := exportModel(t, m.s)

	comps := doc.all("APPLICATION-SW-COMPONENT-TYPE")
	require.Len(t, comps, 1)
	swc := comps[0]
	assert.Equal(t, "EngineCtrl", swc.text("SHORT-NAME"))

	pports := swc.all("P-PORT-PROTOTYPE")
	rports := swc.all("R-PORT-PROTOTYPE")
	require.Len(t, pports, 1)
	require.Len(t, rports, 1)
	assert.Equal(t, "TorqueOut", pports[0].text("SHORT-NAME"))
	assert.Equal(t, "/Body_Control/PortInterfaces/TorqueIf", pports[0].text("PROVIDED-INTERFACE-TREF"))
	assert.Equal(t, "SpeedIn", rports[0].text("SHORT-NAME"))
	assert.Equal(t, "/Body_Control/PortInterfaces/SpeedIf", rports[0].text("REQUIRED-INTERFACE-TREF"))

	behaviors := swc.all("SWC-INTERNAL-BEHAVIOR")
	require.Len(t, behaviors, 1)
	assert.Equal(t, "EngineCtrl_InternalBehavior", behaviors[0].text("SHORT-NAME"))

	runnables := behaviors[0].all("RUNNABLE-ENTITY")
	require.Len(t, runnables, 1)
	assert.Equal(t, "EngineCtrl_10ms", runnables[0].text("SHORT-NAME"))
	assert.Equal(t, "EngineCtrl_10ms", runnables[0].text("SYMBOL"))

	accesses := runnables[0].all("VARIABLE-ACCESS")
	require.Len(t, accesses, 1)
	assert.Equal(t, "Rte_Read_EngineCtrl_EngineCtrl_10ms", accesses[0].text("SHORT-NAME"))
	iref := accesses[0].all("AUTOSAR-VARIABLE-IREF")
	require.Len(t, iref, 1)
	assert.Equal(t, "/Body_Control/ComponentTypes/EngineCtrl/SpeedIn", iref[0].text("PORT-PROTOTYPE-REF"))
	assert.Equal(t, "/Body_Control/PortInterfaces/SpeedIf/Speed", iref[0].text("TARGET-DATA-PROTOTYPE-REF"))
	assert.Empty(t, runnables[0].all("DATA-WRITE-ACCESSS"))
	assert.Empty(t, runnables[0].all("SERVER-CALL-POINTS"))

	timing := behaviors[0].all("TIMING-EVENT")
	require.Len(t, timing, 1)
	assert.Equal(t, "TE_EngineCtrl_10ms", timing[0].text("SHORT-NAME"))
	assert.Equal(t, "0.01", timing[0].text("PERIOD"))

	compositions := doc.all("COMPOSITION-SW-COMPONENT-TYPE")
	require.Len(t, compositions, 1)
	assert.Equal(t, "BodyEcu", compositions[0].text("SHORT-NAME"))
	protos := compositions[0].all("SW-COMPONENT-PROTOTYPE")
	require.Len(t, protos, 1)
	assert.Equal(t, "EngineCtrl_1", protos[0].text("SHORT-NAME"))
	assert.Equal(t, "/Body_Control/ComponentTypes/EngineCtrl", protos[0].text("TYPE-TREF"))

	assert.Empty(t, doc.all("ASSEMBLY-SW-CONNECTOR"))
	assert.Empty(t, doc.all("CONNECTORS"))
}

func TestExport_PackagesAndSchema(t *testing.T) {
	doc := exportModel(t, newModel(t).s)

	assert.Equal(t, "AUTOSAR", doc.XMLName.Local)
	assert.Equal(t, Namespace, doc.XMLName.Space)
	assert.Contains(t, doc.attr("schemaLocation"), "AUTOSAR_00046.xsd")

	top := doc.all("AR-PACKAGE")
	require.NotEmpty(t, top)
	assert.Equal(t, "Body_Control", top[0].text("SHORT-NAME"))

	var names []string
	sub, ok := top[0].child("AR-PACKAGES")
	require.True(t, ok)
	for _, p := range sub.Children {
		names = append(names, p.text("SHORT-NAME"))
	}
	assert.Equal(t, []string{"DataTypes", "PortInterfaces", "ComponentTypes", "Compositions"}, names)

	srs := doc.all("SENDER-RECEIVER-INTERFACE")
	require.Len(t, srs, 2)
	vdp := srs[0].all("VARIABLE-DATA-PROTOTYPE")
	require.Len(t, vdp, 1)
	tref, _ := vdp[0].child("TYPE-TREF")
	assert.Equal(t, "IMPLEMENTATION-DATA-TYPE", tref.attr("DEST"))
	assert.Equal(t, "/AUTOSAR_Platform/ImplementationDataTypes/uint16", strings.TrimSpace(tref.Text))
}

func TestExport_SchemaFollowsProjectVersion(t *testing.T) {
	s := newStore(t)
	v := "R22-11"
	_, err := s.UpdateProject(domain.ProjectPatch{AutosarVersion: &v})
	require.NoError(t, err)

	doc := exportModel(t, s)
	assert.Contains(t, doc.attr("schemaLocation"), "AUTOSAR_00051.xsd")
}

func TestExport_DataTypes(t *testing.T) {
	s := newStore(t)
	_, err := s.CreateDataType(domain.DataTypeSpec{Name: "Rpm", Category: domain.DataTypePrimitive, BaseType: "uint16"})
	require.NoError(t, err)
	_, err = s.CreateDataType(domain.DataTypeSpec{Name: "EngineRpm", Category: domain.DataTypeTypedef, BaseType: "Rpm"})
	require.NoError(t, err)
	_, err = s.CreateDataType(domain.DataTypeSpec{Name: "RpmHistory", Category: domain.DataTypeArray, BaseType: "Rpm", ArraySize: 8})
	require.NoError(t, err)
	_, err = s.CreateDataType(domain.DataTypeSpec{
		Name: "EngineState", Category: domain.DataTypeRecord,
		Elements: []domain.RecordElement{{Name: "Rpm", TypeRef: "EngineRpm"}, {Name: "Running", TypeRef: "boolean"}},
	})
	require.NoError(t, err)

	doc := exportModel(t, s)

	prims := doc.all("APPLICATION-PRIMITIVE-DATA-TYPE")
	require.Len(t, prims, 2)
	for _, p := range prims {
		base := p.all("BASE-TYPE-REF")
		require.Len(t, base, 1, p.text("SHORT-NAME"))
		assert.Equal(t, "/AUTOSAR_Platform/BaseTypes/uint16", strings.TrimSpace(base[0].Text))
	}

	arrays := doc.all("APPLICATION-ARRAY-DATA-TYPE")
	require.Len(t, arrays, 1)
	elem, ok := arrays[0].child("ELEMENT")
	require.True(t, ok)
	assert.Equal(t, "8", elem.text("MAX-NUMBER-OF-ELEMENTS"))
	assert.Equal(t, "/Body_Control/DataTypes/Rpm", elem.text("TYPE-TREF"))

	records := doc.all("APPLICATION-RECORD-DATA-TYPE")
	require.Len(t, records, 1)
	fields := records[0].all("APPLICATION-RECORD-ELEMENT")
	require.Len(t, fields, 2)
	assert.Equal(t, "/Body_Control/DataTypes/EngineRpm", fields[0].text("TYPE-TREF"))
	assert.Equal(t, "/AUTOSAR_Platform/ImplementationDataTypes/boolean", fields[1].text("TYPE-TREF"))
}

func TestExport_ConnectorOrientation(t *testing.T) {
	m := newModel(t)
	sensor, err := m.s.CreateSWC(domain.SWCSpec{Name: "SpeedSensor", Category: domain.CategorySensorActuator, Kind: domain.SWCAtomic})
	require.NoError(t, err)
	pSpeed, err := m.s.CreatePort(domain.PortSpec{Name: "SpeedOut", Direction: domain.PortProvided, InterfaceRef: m.speedIf.ID, SWCID: sensor.ID})
	require.NoError(t, err)
	inst, err := m.s.AddSWCInstance(m.comp.ID, domain.SWCInstanceSpec{SWCRef: sensor.ID})
	require.NoError(t, err)
	engineInst, ok := m.s.FindInstanceByName(m.comp.ID, "EngineCtrl_1")
	require.True(t, ok)

	// declared from the required side; the document still puts the provider first
	_, err = m.s.AddECUConnector(m.comp.ID, domain.ConnectorSpec{
		SourceInstanceID: engineInst.ID, SourcePortID: m.rSpeed.ID,
		TargetInstanceID: inst.ID, TargetPortID: pSpeed.ID,
	})
	require.NoError(t, err)

	doc := exportModel(t, m.s)
	conns := doc.all("ASSEMBLY-SW-CONNECTOR")
	require.Len(t, conns, 1)
	assert.Equal(t, "EngineCtrl_1_SpeedIn_To_SpeedSensor_1_SpeedOut", conns[0].text("SHORT-NAME"))

	prov, ok := conns[0].child("PROVIDER-IREF")
	require.True(t, ok)
	assert.Equal(t, "/Body_Control/Compositions/BodyEcu/SpeedSensor_1", prov.text("CONTEXT-COMPONENT-REF"))
	assert.Equal(t, "/Body_Control/ComponentTypes/SpeedSensor/SpeedOut", prov.text("TARGET-P-PORT-REF"))

	req, ok := conns[0].child("REQUESTER-IREF")
	require.True(t, ok)
	assert.Equal(t, "/Body_Control/Compositions/BodyEcu/EngineCtrl_1", req.text("CONTEXT-COMPONENT-REF"))
	assert.Equal(t, "/Body_Control/ComponentTypes/EngineCtrl/SpeedIn", req.text("TARGET-R-PORT-REF"))

	assert.Len(t, doc.all("SENSOR-ACTUATOR-SW-COMPONENT-TYPE"), 1)
}

func TestExport_EventsAndAccessKinds(t *testing.T) {
	m := newModel(t)
	diag, err := m.s.CreateInterface(domain.InterfaceSpec{
		Name: "DiagIf", Kind: domain.InterfaceClientServer,
		Operations: []domain.OperationSpec{{
			Name:      "ReadDtc",
			Arguments: []domain.Argument{{Name: "Code", Direction: domain.ArgOut, TypeRef: "uint32"}},
		}},
	})
	require.NoError(t, err)
	rDiag, err := m.s.CreatePort(domain.PortSpec{Name: "DiagClient", Direction: domain.PortRequired, InterfaceRef: diag.ID, SWCID: m.engine.ID})
	require.NoError(t, err)

	initRun, err := m.s.CreateRunnable(m.engine.ID, domain.RunnableSpec{Name: "EngineCtrl_Init", RunnableType: domain.RunnableInit})
	require.NoError(t, err)
	onSpeed, err := m.s.CreateRunnable(m.engine.ID, domain.RunnableSpec{
		Name: "EngineCtrl_OnSpeed", RunnableType: domain.RunnableEvent, TriggerPortID: m.rSpeed.ID, Symbol: "EngineCtrl_OnSpeed_Fn",
	})
	require.NoError(t, err)
	_, err = m.s.CreateAccessPoint(domain.AccessPointSpec{
		Type: domain.AccessWrite, Access: domain.AccessExplicit,
		SWCID: m.engine.ID, RunnableID: onSpeed.ID, PortID: m.pTorque.ID,
	})
	require.NoError(t, err)
	_, err = m.s.CreateAccessPoint(domain.AccessPointSpec{
		Type: domain.AccessCall, Access: domain.AccessImplicit,
		SWCID: m.engine.ID, RunnableID: initRun.ID, PortID: rDiag.ID,
	})
	require.NoError(t, err)

	doc := exportModel(t, m.s)

	inits := doc.all("INIT-EVENT")
	require.Len(t, inits, 1)
	assert.Equal(t, "IE_EngineCtrl_Init", inits[0].text("SHORT-NAME"))
	assert.Equal(t, "/Body_Control/ComponentTypes/EngineCtrl/EngineCtrl_InternalBehavior/EngineCtrl_Init", inits[0].text("START-ON-EVENT-REF"))

	dres := doc.all("DATA-RECEIVED-EVENT")
	require.Len(t, dres, 1)
	assert.Equal(t, "DRE_EngineCtrl_OnSpeed", dres[0].text("SHORT-NAME"))
	diref, ok := dres[0].child("DATA-IREF")
	require.True(t, ok)
	assert.Equal(t, "/Body_Control/PortInterfaces/SpeedIf/Speed", diref.text("TARGET-DATA-ELEMENT-REF"))

	sends := doc.all("DATA-SEND-POINTS")
	require.Len(t, sends, 1)
	assert.Len(t, sends[0].all("VARIABLE-ACCESS"), 1)
	assert.Equal(t, "EngineCtrl_OnSpeed_Fn", doc.all("RUNNABLE-ENTITY")[2].text("SYMBOL"))

	calls := doc.all("SYNCHRONOUS-SERVER-CALL-POINT")
	require.Len(t, calls, 1)
	assert.Equal(t, "Rte_Call_EngineCtrl_EngineCtrl_Init", calls[0].text("SHORT-NAME"))
	opIref, ok := calls[0].child("OPERATION-IREF")
	require.True(t, ok)
	assert.Equal(t, "/Body_Control/PortInterfaces/DiagIf/ReadDtc", opIref.text("TARGET-REQUIRED-OPERATION-REF"))

	args := doc.all("ARGUMENT-DATA-PROTOTYPE")
	require.Len(t, args, 1)
	assert.Equal(t, "OUT", args[0].text("DIRECTION"))
}

func TestExport_CompositionKindSWC(t *testing.T) {
	s := newStore(t)
	_, err := s.CreateSWC(domain.SWCSpec{Name: "Powertrain", Category: domain.CategoryApplication, Kind: domain.SWCComposition})
	require.NoError(t, err)

	doc := exportModel(t, s)
	types := doc.all("COMPOSITION-SW-COMPONENT-TYPE")
	require.Len(t, types, 1)
	assert.Equal(t, "Powertrain", types[0].text("SHORT-NAME"))
	assert.Empty(t, types[0].all("INTERNAL-BEHAVIORS"))
}

func TestExport_FailsFastOnUnresolvedReference(t *testing.T) {
	m := newModel(t)
	snap := m.s.Snapshot()
	snap.AccessPoints[0].PortID = "port_404"

	e := NewExporter()
	b, err := e.Export(snap)
	assert.ErrorIs(t, err, ErrUnresolvedReference)
	assert.Nil(t, b)

	path := filepath.Join(t.TempDir(), "broken.arxml")
	require.ErrorIs(t, e.WriteFile(path, snap), ErrUnresolvedReference)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	snap = m.s.Snapshot()
	snap.Compositions[0].Instances[0].SWCRef = "swc_404"
	_, err = e.Export(snap)
	assert.ErrorIs(t, err, ErrUnresolvedReference)
}

func TestWriteFile(t *testing.T) {
	m := newModel(t)
	path := filepath.Join(t.TempDir(), "body.arxml")
	require.NoError(t, NewExporter().WriteFile(path, m.s.Snapshot()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, parse(t, b).all("RUNNABLE-ENTITY"), 1)
}
