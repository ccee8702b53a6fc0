package signaling

import (
	"context"
	"time"
)

// Sweeper periodically asks the hub to evict expired rooms. Each tick goes
// through the hub's event loop, so it never races with client requests.
type Sweeper struct {
	hub      *Hub
	interval time.Duration
	now      func() time.Time
}

// NewSweeper creates a sweeper ticking every interval. A nil now uses the
// hub's clock.
func NewSweeper(hub *Hub, interval time.Duration, now func() time.Time) *Sweeper {
	if now == nil {
		now = hub.opts.Now
	}
	return &Sweeper{hub: hub, interval: interval, now: now}
}

// Run ticks until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.hub.Sweep(s.now())
		}
	}
}
