package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/evoting/internal/logging"
)

// Sweeper runs LifecycleService.Sweep on a fixed interval.
type Sweeper struct {
	lifecycle *LifecycleService
	interval  time.Duration
	log       logging.Logger
	now       func() time.Time
}

func NewSweeper(l *LifecycleService, interval time.Duration, log logging.Logger) *Sweeper {
	return &Sweeper{lifecycle: l, interval: interval, log: log.With("module", "sweeper"), now: time.Now}
}

// Run sweeps once immediately and then every interval until ctx is done.
// A non-positive interval disables the sweeper and Run returns at once.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info(ctx, "sweeper disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.tick(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	activated, closed, err := s.lifecycle.Sweep(ctx, s.now())
	if err != nil {
		s.log.Error(ctx, "sweep failed", "error", err)
		return
	}
	if activated > 0 || closed > 0 {
		s.log.Info(ctx, "sweep applied", "activated", activated, "closed", closed)
	}
}
