package booking

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper auto-cancels bookings that sat in pending longer than the
// TTL. Helpers only ever expire leads locally, so without the sweeper
// an unclaimed booking would stay pending in the store forever.
type Sweeper struct {
	repo Repository
	feed Feed
	ttl  time.Duration
	cron *cron.Cron
}

func NewSweeper(repo Repository, feed Feed, ttl time.Duration) *Sweeper {
	return &Sweeper{
		repo: repo,
		feed: feed,
		ttl:  ttl,
		cron: cron.New(),
	}
}

// Start schedules the sweep once a minute.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.Sweep(context.Background()); err != nil {
			log.Printf("sweeper: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// Sweep cancels stale pending bookings and publishes an update event
// for each, so connected customers learn their request timed out.
func (s *Sweeper) Sweep(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.ttl)
	ids, err := s.repo.CancelStalePending(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, id := range ids {
		b, err := s.repo.GetByID(ctx, id)
		if err != nil {
			continue
		}
		old := *b
		old.Status = StatusPending
		old.CancelledAt = nil
		s.feed.BookingUpdated(&old, b)
	}

	if len(ids) > 0 {
		log.Printf("sweeper: cancelled %d stale pending bookings", len(ids))
	}
	return nil
}
