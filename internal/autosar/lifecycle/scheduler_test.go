package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/repository"
)

func TestAutoSaveScheduler_RunOnce(t *testing.T) {
	m := newManager(t, repository.NewMemoryRepository())
	m.CreateProject("A", "")

	s := NewAutoSaveScheduler(m, "")
	assert.Equal(t, DefaultAutoSaveSchedule, s.spec)
	assert.Equal(t, 1, s.RunOnce(context.Background()))
	assert.Equal(t, 0, s.RunOnce(context.Background()))
}

func TestAutoSaveScheduler_InvalidSchedule(t *testing.T) {
	m := newManager(t, repository.NewMemoryRepository())
	s := NewAutoSaveScheduler(m, "every now and then")
	assert.Error(t, s.Start())
}

func TestAutoSaveScheduler_Ticks(t *testing.T) {
	m := newManager(t, repository.NewMemoryRepository())
	p, _ := m.CreateProject("A", "")

	s := NewAutoSaveScheduler(m, "@every 1s")
	require.NoError(t, s.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.Stop(ctx)
	}()

	assert.Eventually(t, func() bool { return !m.IsDirty(p.ID) }, 5*time.Second, 50*time.Millisecond)
}
