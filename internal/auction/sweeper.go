package auction

import (
	"context"
	"log/slog"
	"time"

	"github.com/auctionsystem/auctionhouse/internal/store"
)

// DefaultSweepInterval is how often expired auctions are closed when no
// interval is configured.
const DefaultSweepInterval = time.Minute

// Sweeper periodically closes active auctions whose end time has passed. It
// is the only component that ends auctions by time.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
}

// NewSweeper creates a sweeper running at the given interval.
func NewSweeper(engine *Engine, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{engine: engine, interval: interval}
}

// Run sweeps on a fixed interval until the context is cancelled. An initial
// sweep runs immediately so a restart doesn't leave expired auctions open for
// a full interval.
func (s *Sweeper) Run(ctx context.Context) {
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("auction sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep closes every active item whose end time has passed. A failure to
// close one item is logged and does not stop the rest of the pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	ids, err := store.ListExpiredActiveItemIDs(ctx, s.engine.db, time.Now())
	if err != nil {
		slog.Error("sweep: listing expired auctions", "error", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	slog.Info("sweep: closing expired auctions", "count", len(ids))
	for _, id := range ids {
		if _, err := s.engine.CloseAuction(ctx, id); err != nil {
			slog.Error("sweep: closing auction", "item", id, "error", err)
		}
	}
}
