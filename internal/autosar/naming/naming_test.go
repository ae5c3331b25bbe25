package naming

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
)

func TestAccessPointName_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		name, err := AccessPointName("EngineCtrl", "EngineCtrl_10ms", domain.AccessWrite)
		require.NoError(t, err)
		assert.Equal(t, "Rte_Write_EngineCtrl_EngineCtrl_10ms", name)
	}
}

func TestAccessPointName_Verbs(t *testing.T) {
	cases := map[domain.AccessType]string{
		domain.AccessRead:  "Rte_Read_Swc_Run",
		domain.AccessWrite: "Rte_Write_Swc_Run",
		domain.AccessCall:  "Rte_Call_Swc_Run",
	}
	for at, want := range cases {
		got, err := AccessPointName("Swc", "Run", at)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestAccessPointName_UnknownType(t *testing.T) {
	_, err := AccessPointName("Swc", "Run", "iPeek")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUniqueName(t *testing.T) {
	taken := map[string]bool{}
	assert.Equal(t, "Rte_Read_A_B", UniqueName("Rte_Read_A_B", taken))

	taken["rte_read_a_b"] = true
	assert.Equal(t, "Rte_Read_A_B_2", UniqueName("Rte_Read_A_B", taken))

	taken["rte_read_a_b_2"] = true
	assert.Equal(t, "Rte_Read_A_B_3", UniqueName("Rte_Read_A_B", taken))
}

func TestIsShortName(t *testing.T) {
	assert.True(t, IsShortName("EngineCtrl_10ms"))
	assert.False(t, IsShortName(""))
	assert.False(t, IsShortName("1Engine"))
	assert.False(t, IsShortName("Engine Ctrl"))
}

func TestGeneratedNames(t *testing.T) {
	assert.Equal(t, "EngineCtrl_1", InstanceName("EngineCtrl", 1))
	assert.Equal(t, "A_1_pOut_To_B_1_rIn", ConnectorName("A_1", "pOut", "B_1", "rIn"))
	assert.Equal(t, "EngineCtrl_InternalBehavior", InternalBehaviorName("EngineCtrl"))
	assert.Equal(t, "TE_Main_10ms", EventName(EventTiming, "Main_10ms"))
}

func TestSanitizeShortName(t *testing.T) {
	assert.Equal(t, "Body_Control_ECU", SanitizeShortName("Body Control-ECU"))
	assert.Equal(t, "P_2026_Demo", SanitizeShortName("2026 Demo"))
	assert.Equal(t, "Project", SanitizeShortName("   "))
	assert.True(t, IsShortName(SanitizeShortName("ÄÖÜ motor")))
}
