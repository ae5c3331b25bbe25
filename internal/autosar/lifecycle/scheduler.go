package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultAutoSaveSchedule is used when no schedule is configured.
const DefaultAutoSaveSchedule = "@every 30s"

// AutoSaveScheduler runs Manager.AutoSaveAll on a cron schedule. Runs never overlap: a tick
// that fires while the previous pass is still saving is skipped.
type AutoSaveScheduler struct {
	manager *Manager
	spec    string
	timeout time.Duration
	cron    *cron.Cron
}

func NewAutoSaveScheduler(m *Manager, spec string) *AutoSaveScheduler {
	if spec == "" {
		spec = DefaultAutoSaveSchedule
	}
	return &AutoSaveScheduler{
		manager: m,
		spec:    spec,
		timeout: 20 * time.Second,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
}

// Start registers the job and starts the cron loop. It fails on an invalid schedule.
func (s *AutoSaveScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		return err
	}
	slog.Info("auto-save scheduler started", "schedule", s.spec)
	s.cron.Start()
	return nil
}

// Stop stops the loop and waits for a running pass to finish or ctx to expire.
func (s *AutoSaveScheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *AutoSaveScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.RunOnce(ctx)
}

// RunOnce performs one auto-save pass and returns how many projects were written.
func (s *AutoSaveScheduler) RunOnce(ctx context.Context) int {
	saved, err := s.manager.AutoSaveAll(ctx)
	if err != nil {
		slog.Error("auto-save pass failed", "saved", saved, "error", err)
		return saved
	}
	if saved > 0 {
		slog.Info("auto-save pass", "saved", saved)
	}
	return saved
}
