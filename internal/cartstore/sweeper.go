package cartstore

import (
	"context"
	"log/slog"
	"time"
)

// Expirer is a Store that can drop stale keys itself. Redis and MongoDB
// expire keys natively and do not need it.
type Expirer interface {
	DeleteExpired(ctx context.Context, prefix string, before time.Time) (int64, error)
}

// Sweeper periodically deletes visitor carts that were not written for
// longer than the TTL.
type Sweeper struct {
	store Expirer
	ttl   time.Duration
	tick  time.Duration
	log   *slog.Logger
	now   func() time.Time
}

func NewSweeper(store Expirer, ttl, tick time.Duration, log *slog.Logger) *Sweeper {
	return &Sweeper{
		store: store,
		ttl:   ttl,
		tick:  tick,
		log:   log,
		now:   time.Now,
	}
}

// Run sweeps on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Sweep runs one pass and returns how many carts were removed.
func (s *Sweeper) Sweep(ctx context.Context) int64 {
	n, err := s.store.DeleteExpired(ctx, CartKey+":", s.now().Add(-s.ttl))
	if err != nil {
		s.log.WarnContext(ctx, "cart sweep failed", "error", err)
		return 0
	}
	if n > 0 {
		s.log.InfoContext(ctx, "expired carts removed", "count", n)
	}
	return n
}
