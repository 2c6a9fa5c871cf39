package booking

import (
	"context"
	"log"
	"time"
)

// Sweeper drives time-based status transitions on a fixed interval. Each tick
// calls AdvanceStatuses, which is idempotent, so overlapping or repeated runs
// never double-apply a transition.
type Sweeper struct {
	service  *Service
	interval time.Duration
}

func NewSweeper(service *Service, interval time.Duration) *Sweeper {
	return &Sweeper{service: service, interval: interval}
}

// Run sweeps immediately, then on every tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()
	applied, err := s.service.AdvanceStatuses(ctx, start.UTC())
	if err != nil {
		log.Printf("sweep failed: applied=%d latency=%s error=%v", applied, time.Since(start), err)
		return
	}
	log.Printf("sweep completed: applied=%d latency=%s", applied, time.Since(start))
}
