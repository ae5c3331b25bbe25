package export

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/store"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/utils"
)

type wired struct {
	snap   domain.ProjectSnapshot
	compID string
}

func newWired(t *testing.T) wired {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := store.New(domain.Project{ID: "swcproj-10000-1000", Name: "Demo", AutosarVersion: "4.4.0", CreatedAt: now, LastModified: now},
		store.WithIDGenerator(utils.NewSequence()), store.WithClock(func() time.Time { return now }))

	speedIf, err := s.CreateInterface(domain.InterfaceSpec{
		Name: "SpeedIf", Kind: domain.InterfaceSenderReceiver,
		DataElements: []domain.DataElementSpec{{Name: "Speed", ApplicationDataTypeRef: "uint16"}},
	})
	require.NoError(t, err)
	sensor, err := s.CreateSWC(domain.SWCSpec{Name: "SpeedSensor", Category: domain.CategorySensorActuator, Kind: domain.SWCAtomic})
	require.NoError(t, err)
	engine, err := s.CreateSWC(domain.SWCSpec{Name: "EngineCtrl", Category: domain.CategoryApplication, Kind: domain.SWCAtomic})
	require.NoError(t, err)
	pOut, err := s.CreatePort(domain.PortSpec{Name: "SpeedOut", Direction: domain.PortProvided, InterfaceRef: speedIf.ID, SWCID: sensor.ID})
	require.NoError(t, err)
	rIn, err := s.CreatePort(domain.PortSpec{Name: "SpeedIn", Direction: domain.PortRequired, InterfaceRef: speedIf.ID, SWCID: engine.ID})
	require.NoError(t, err)
	run, err := s.CreateRunnable(engine.ID, domain.RunnableSpec{Name: "EngineCtrl_10ms", RunnableType: domain.RunnablePeriodic, Period: 10})
	require.NoError(t, err)
	_, err = s.CreateAccessPoint(domain.AccessPointSpec{Type: domain.AccessRead, Access: domain.AccessImplicit, SWCID: engine.ID, RunnableID: run.ID, PortID: rIn.ID})
	require.NoError(t, err)

	comp, err := s.CreateECUComposition(domain.ECUCompositionSpec{Name: "BodyEcu", EcuType: "BCM"})
	require.NoError(t, err)
	si, err := s.AddSWCInstance(comp.ID, domain.SWCInstanceSpec{SWCRef: sensor.ID})
	require.NoError(t, err)
	ei, err := s.AddSWCInstance(comp.ID, domain.SWCInstanceSpec{SWCRef: engine.ID})
	require.NoError(t, err)
	// declared from the required end
	_, err = s.AddECUConnector(comp.ID, domain.ConnectorSpec{
		SourceInstanceID: ei.ID, SourcePortID: rIn.ID, TargetInstanceID: si.ID, TargetPortID: pOut.ID,
	})
	require.NoError(t, err)

	return wired{snap: s.Snapshot(), compID: comp.ID}
}

func TestToDOT(t *testing.T) {
	w := newWired(t)
	dot, err := ToDOT(w.snap, w.compID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(dot, "digraph G {"))
	assert.Contains(t, dot, `label="BodyEcu (BCM)"`)
	assert.Contains(t, dot, `[label="SpeedSensor_1\nSpeedSensor"`)
	assert.Contains(t, dot, `[label="EngineCtrl_1\nEngineCtrl"`)

	inst := w.snap.Compositions[0].Instances
	edge := `"` + inst[0].ID + `" -> "` + inst[1].ID + `" [label="SpeedOut -> SpeedIn [SpeedIf]"`
	assert.Contains(t, dot, edge)
	assert.Equal(t, 1, strings.Count(dot, " -> \""))
}

func TestToDOT_UnknownComposition(t *testing.T) {
	_, err := ToDOT(newWired(t).snap, "ecu_404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestYAMLRoundTrip(t *testing.T) {
	w := newWired(t)
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, WriteYAML(path, w.snap))

	got, err := ReadSnapshot(path)
	require.NoError(t, err)
	require.NoError(t, store.CheckInvariants(got))

	want, err := yaml.Marshal(w.snap)
	require.NoError(t, err)
	again, err := yaml.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(again))
	assert.True(t, got.Project.LastModified.Equal(w.snap.Project.LastModified))
}

func TestJSONRoundTrip(t *testing.T) {
	w := newWired(t)
	path := filepath.Join(t.TempDir(), "demo.json")
	require.NoError(t, WriteJSON(path, w.snap))

	got, err := ReadSnapshot(path)
	require.NoError(t, err)
	require.NoError(t, store.CheckInvariants(got))
	assert.Equal(t, w.snap.Compositions[0].Connectors, got.Compositions[0].Connectors)
	assert.Len(t, got.AccessPoints, 1)
}

func TestDecodeYAML_Malformed(t *testing.T) {
	_, err := DecodeYAML([]byte("project: [unterminated"))
	assert.Error(t, err)
}
