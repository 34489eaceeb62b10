// Package cleanup removes documents that outlived the retention window.
package cleanup

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"docuchat/internal/model"
)

// Purger deletes documents created before a cutoff and reports how many were removed.
type Purger interface {
	PurgeExpired(ctx context.Context, before time.Time) (int, error)
}

type Scheduler struct {
	purger    Purger
	interval  time.Duration
	retention time.Duration
	log       *zap.Logger
	now       func() time.Time

	// sweep serializes runs so a manual trigger never overlaps the ticker.
	sweep sync.Mutex

	mu     sync.RWMutex
	status model.CleanupStatus
}

// New builds a Scheduler. A non-positive interval disables the periodic sweep but RunOnce still works.
func New(p Purger, interval, retention time.Duration, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		purger:    p,
		interval:  interval,
		retention: retention,
		log:       log,
		now:       time.Now,
		status: model.CleanupStatus{
			Enabled:   interval > 0,
			Interval:  interval.String(),
			Retention: retention.String(),
		},
	}
}

// Start runs the sweep every interval until ctx is cancelled. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info("document cleanup disabled")
		return
	}
	s.log.Info("document cleanup scheduled",
		zap.Duration("interval", s.interval),
		zap.Duration("retention", s.retention),
	)
	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.log.Error("document cleanup failed", zap.Error(err))
			}
		}
	}
}

// RunOnce removes documents older than the retention window.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	s.sweep.Lock()
	defer s.sweep.Unlock()

	started := s.now().UTC()
	removed, err := s.purger.PurgeExpired(ctx, started.Add(-s.retention))

	s.mu.Lock()
	s.status.LastRun = &started
	s.status.LastRemoved = removed
	s.status.TotalRemoved += removed
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.mu.Unlock()

	if err == nil {
		s.log.Info("document cleanup finished", zap.Int("removed", removed), zap.Time("cutoff", started.Add(-s.retention)))
	}
	return removed, err
}

// Status returns a snapshot of the sweep's state.
func (s *Scheduler) Status() model.CleanupStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.status
	if st.LastRun != nil {
		t := *st.LastRun
		st.LastRun = &t
	}
	return st
}
