package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/graph/export"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/store"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/utils"
)

func writeSnapshot(t *testing.T) string {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	st := store.New(domain.Project{ID: "swcproj_1", Name: "Demo", AutosarVersion: "4.4.0", CreatedAt: now, LastModified: now},
		store.WithIDGenerator(utils.NewSequence()))

	iface, err := st.CreateInterface(domain.InterfaceSpec{
		Name: "SpeedIf", Kind: domain.InterfaceSenderReceiver,
		DataElements: []domain.DataElementSpec{{Name: "Speed", ApplicationDataTypeRef: "uint16"}},
	})
	require.NoError(t, err)
	swc, err := st.CreateSWC(domain.SWCSpec{Name: "EngineCtrl", Category: domain.CategoryApplication, Kind: domain.SWCAtomic})
	require.NoError(t, err)
	_, err = st.CreatePort(domain.PortSpec{Name: "SpeedIn", Direction: domain.PortRequired, InterfaceRef: iface.ID, SWCID: swc.ID})
	require.NoError(t, err)
	comp, err := st.CreateECUComposition(domain.ECUCompositionSpec{Name: "BodyEcu"})
	require.NoError(t, err)
	_, err = st.AddSWCInstance(comp.ID, domain.SWCInstanceSpec{SWCRef: swc.ID})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, export.WriteYAML(path, st.Snapshot()))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExportCommand(t *testing.T) {
	snap := writeSnapshot(t)

	out, err := execute(t, "export", snap)
	require.NoError(t, err)
	assert.Contains(t, out, "<AUTOSAR")
	assert.Contains(t, out, "<SHORT-NAME>EngineCtrl</SHORT-NAME>")

	file := filepath.Join(t.TempDir(), "demo.json")
	_, err = execute(t, "export", snap, "-f", "json", "-o", file)
	require.NoError(t, err)
	got, err := export.ReadJSON(file)
	require.NoError(t, err)
	assert.Equal(t, "Demo", got.Project.Name)

	_, err = execute(t, "export", snap, "-f", "pdf")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	good := writeSnapshot(t)
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("project:\n  id: p\n  name: Bad\nports:\n  - id: port_9\n    name: Orphan\n    swc_id: swc_missing\n"), 0644))

	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	out, err = execute(t, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, err.Error(), "1 of 2")
}

func TestDotCommand(t *testing.T) {
	snap := writeSnapshot(t)

	out, err := execute(t, "dot", snap)
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "EngineCtrl_1")

	out, err = execute(t, "dot", snap, "-c", "bodyecu")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")

	_, err = execute(t, "dot", snap, "-c", "Nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInterpretCommand(t *testing.T) {
	req := filepath.Join(t.TempDir(), "req.txt")
	require.NoError(t, os.WriteFile(req, []byte("Application component DoorCtrl. DoorCtrl runs Door_20ms every 20 ms."), 0644))

	out, err := execute(t, "interpret", req, "--name", "Doors")
	require.NoError(t, err)
	snap, err := export.DecodeYAML([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "Doors", snap.Project.Name)
	require.Len(t, snap.SWCs, 1)
	assert.Equal(t, "DoorCtrl", snap.SWCs[0].Name)
	require.Len(t, snap.Runnables, 1)
	assert.Equal(t, 20, snap.Runnables[0].Period)

	extended := filepath.Join(t.TempDir(), "ext.yaml")
	_, err = execute(t, "interpret", req, "-s", writeSnapshot(t), "-o", extended)
	require.NoError(t, err)
	ext, err := export.ReadYAML(extended)
	require.NoError(t, err)
	assert.Len(t, ext.SWCs, 2)
}
