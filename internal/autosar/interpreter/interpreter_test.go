package interpreter

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/store"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/utils"
)

const requirements = `
Data type VehicleSpeed as uint16.
Array WheelSpeeds of 4 VehicleSpeed.
Sender-receiver interface SpeedIf with data elements Speed of type VehicleSpeed.
Client-server interface DiagIf with operations ReadDtc, ClearDtc.
Application component SpeedSensor. Application component EngineCtrl.
SpeedSensor provides SpeedOut via SpeedIf.
EngineCtrl requires SpeedIn via SpeedIf; EngineCtrl requires DiagClient via DiagIf.
EngineCtrl runs EngineCtrl_10ms every 10 ms.
SpeedSensor runs Sensor_Init on init.
EngineCtrl.EngineCtrl_10ms reads SpeedIn.
EngineCtrl_10ms calls DiagClient.
Connect SpeedSensor.SpeedOut to EngineCtrl.SpeedIn in composition BodyEcu.
`

func byKind(b *Batch, k Kind) []Proposal {
	var out []Proposal
	for _, p := range b.Proposals {
		if p.Kind == k {
			out = append(out, p)
		}
	}
	return out
}

func newStore() *store.Store {
	return store.New(domain.Project{ID: "swcproj_1", Name: "Demo", AutosarVersion: domain.DefaultAutosarVersion},
		store.WithIDGenerator(utils.NewSequence()))
}

func TestExtract(t *testing.T) {
	b := Extract(requirements)
	require.NotEmpty(t, b.ID)
	for _, p := range b.Proposals {
		assert.Equal(t, StatusPending, p.Status, p.Source)
		assert.NotEmpty(t, p.ID)
	}

	dts := byKind(b, KindDataType)
	require.Len(t, dts, 2)
	assert.Equal(t, domain.DataTypePrimitive, dts[0].DataType.Category)
	assert.Equal(t, "uint16", dts[0].DataType.BaseType)
	assert.Equal(t, domain.DataTypeArray, dts[1].DataType.Category)
	assert.Equal(t, 4, dts[1].DataType.ArraySize)
	assert.Equal(t, "VehicleSpeed", dts[1].DataType.BaseType)

	ifaces := byKind(b, KindInterface)
	require.Len(t, ifaces, 2)
	require.Len(t, ifaces[0].Interface.DataElements, 1)
	assert.Equal(t, "VehicleSpeed", ifaces[0].Interface.DataElements[0].ApplicationDataTypeRef)
	assert.Equal(t, domain.InterfaceClientServer, ifaces[1].Interface.Kind)
	require.Len(t, ifaces[1].Interface.Operations, 2)
	assert.Equal(t, "ClearDtc", ifaces[1].Interface.Operations[1].Name)

	assert.Len(t, byKind(b, KindSWC), 2)

	ports := byKind(b, KindPort)
	require.Len(t, ports, 3)
	assert.Equal(t, domain.PortProvided, ports[0].Port.Direction)
	assert.Equal(t, domain.PortRequired, ports[2].Port.Direction)
	assert.Equal(t, "DiagIf", ports[2].Port.Interface)

	runs := byKind(b, KindRunnable)
	require.Len(t, runs, 2)
	assert.Equal(t, domain.RunnablePeriodic, runs[0].Runnable.Type)
	assert.Equal(t, 10, runs[0].Runnable.Period)
	assert.Equal(t, domain.RunnableInit, runs[1].Runnable.Type)

	aps := byKind(b, KindAccessPoint)
	require.Len(t, aps, 2)
	assert.Equal(t, "EngineCtrl", aps[0].AccessPoint.SWC)
	assert.Equal(t, domain.AccessRead, aps[0].AccessPoint.Type)
	assert.Equal(t, "", aps[1].AccessPoint.SWC)
	assert.Equal(t, domain.AccessCall, aps[1].AccessPoint.Type)

	conns := byKind(b, KindConnection)
	require.Len(t, conns, 1)
	assert.Equal(t, "BodyEcu", conns[0].Connection.Composition)
	assert.Len(t, byKind(b, KindComposition), 1)
}

func TestExtract_DeduplicatesAndDefaults(t *testing.T) {
	b := Extract("Service SWC Diag. Service SWC Diag. Sender-receiver interface LampIf with elements On, Level:uint8. Connect A.Out to B.In")
	assert.Len(t, byKind(b, KindSWC), 1)
	assert.Equal(t, domain.CategoryService, byKind(b, KindSWC)[0].SWC.Category)

	elems := byKind(b, KindInterface)[0].Interface.DataElements
	require.Len(t, elems, 2)
	assert.Equal(t, DefaultElementType, elems[0].ApplicationDataTypeRef)
	assert.Equal(t, "uint8", elems[1].ApplicationDataTypeRef)

	assert.Equal(t, DefaultComposition, byKind(b, KindConnection)[0].Connection.Composition)
}

func TestExtract_NothingRecognized(t *testing.T) {
	b := Extract("The car should be fast and safe.")
	assert.Empty(t, b.Proposals)
}

func TestReview(t *testing.T) {
	b := Extract("Application component A. Application component B")
	require.Len(t, b.Proposals, 2)

	require.NoError(t, b.Review(b.Proposals[0].ID, StatusAccepted))
	require.NoError(t, b.Review(b.Proposals[1].ID, StatusNeedsCorrection))
	assert.Equal(t, 1, b.Count(StatusAccepted))

	assert.ErrorIs(t, b.Review(b.Proposals[0].ID, StatusPending), domain.ErrValidation)
	assert.ErrorIs(t, b.Review("prop_99", StatusRejected), domain.ErrNotFound)

	b.AcceptAll()
	assert.Equal(t, 1, b.Count(StatusAccepted), "only pending proposals are accepted")
}

func TestReplay_OnlyAcceptedAndInOrder(t *testing.T) {
	b := Extract(requirements)
	b.AcceptAll()
	// dependents first in the batch: replay must still create dependencies first
	sort.SliceStable(b.Proposals, func(i, j int) bool {
		return replayRank[b.Proposals[i].Kind] > replayRank[b.Proposals[j].Kind]
	})

	st := newStore()
	report := Replay(st, b)
	assert.Empty(t, report.Failed)
	assert.Len(t, report.Applied, len(b.Proposals))

	snap := st.Snapshot()
	assert.Len(t, snap.DataTypes, 2)
	assert.Len(t, snap.Interfaces, 2)
	assert.Len(t, snap.SWCs, 2)
	assert.Len(t, snap.Ports, 3)
	assert.Len(t, snap.Runnables, 2)
	require.Len(t, snap.AccessPoints, 2)
	require.Len(t, snap.Compositions, 1)
	assert.Len(t, snap.Compositions[0].Instances, 2)
	require.Len(t, snap.Compositions[0].Connectors, 1)
	assert.Equal(t, "SpeedSensor_1_SpeedOut_To_EngineCtrl_1_SpeedIn", snap.Compositions[0].Connectors[0].Name)

	names := map[string]bool{}
	for _, ap := range snap.AccessPoints {
		names[ap.Name] = true
	}
	assert.True(t, names["Rte_Read_EngineCtrl_EngineCtrl_10ms"])
	assert.True(t, names["Rte_Call_EngineCtrl_EngineCtrl_10ms"])

	require.NoError(t, store.CheckInvariants(snap))
}

func TestReplay_FailuresDoNotStopIndependentProposals(t *testing.T) {
	b := Extract(`Application component Lamp.
Lamp requires Switch via MissingIf.
Lamp runs Lamp_20ms every 20 ms.`)
	b.AcceptAll()

	st := newStore()
	report := Replay(st, b)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, KindPort, report.Failed[0].Kind)
	assert.Contains(t, report.Failed[0].Error, "MissingIf")
	assert.Len(t, report.Applied, 2)
	assert.Len(t, st.ListSWCs(), 1)
}

func TestReplay_SkipsUnaccepted(t *testing.T) {
	b := Extract("Application component A. Application component B")
	require.NoError(t, b.Review(b.Proposals[1].ID, StatusRejected))
	require.NoError(t, b.Review(b.Proposals[0].ID, StatusAccepted))

	st := newStore()
	report := Replay(st, b)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, report.Applied, 1)
	swcs := st.ListSWCs()
	require.Len(t, swcs, 1)
	assert.Equal(t, "A", swcs[0].Name)
}

func TestReplay_AmbiguousRunnable(t *testing.T) {
	st := newStore()
	b := Extract(`Sender-receiver interface If1 with elements X.
Application component A. Application component B.
A requires In via If1. B requires In via If1.
A runs Main every 10 ms. B runs Main every 10 ms.
Main reads In.`)
	b.AcceptAll()

	report := Replay(st, b)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, KindAccessPoint, report.Failed[0].Kind)
	assert.Contains(t, report.Failed[0].Error, "qualify")
}
