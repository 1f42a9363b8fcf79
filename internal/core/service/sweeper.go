package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/port"
)

// Sweeper drives the periodic recomputation sweep: arrival deadlines move
// closer over time, so scores are refreshed and stranded pending tasks get
// another shot at a worker pair. It also refreshes the dashboard snapshot
// when a store is wired.
type Sweeper struct {
	dispatch *DispatchService
	snapshot port.SnapshotStore
	log      *zap.Logger
}

// NewSweeper creates a sweeper over the dispatch service. snapshot may be nil.
func NewSweeper(dispatch *DispatchService, snapshot port.SnapshotStore, log *zap.Logger) *Sweeper {
	return &Sweeper{
		dispatch: dispatch,
		snapshot: snapshot,
		log:      log,
	}
}

// Run starts the polling loop and blocks until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	count := 0
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Stopping sweep loop")
			return
		case <-ticker.C:
			count++
			assigned := s.dispatch.DispatchPending()
			if assigned > 0 {
				s.log.Info("Sweep staffed pending tasks", zap.Int("assigned", assigned))
			}

			s.refreshSnapshot(ctx)

			if count%10 == 0 {
				status := s.dispatch.QueueStatus()
				s.log.Info("Sweep heartbeat",
					zap.Int("queued", len(status.Tasks)),
					zap.Int("pending", status.PendingCount),
					zap.Int("in_progress", status.InProgressCount),
					zap.Duration("interval", interval))
			}
		}
	}
}

func (s *Sweeper) refreshSnapshot(ctx context.Context) {
	if s.snapshot == nil {
		return
	}
	storeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.snapshot.Store(storeCtx, s.dispatch.QueueStatus()); err != nil {
		s.log.Warn("Failed to refresh queue snapshot", zap.Error(err))
	}
}
