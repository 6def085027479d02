// Package scheduler runs the time-based appointment transitions.
package scheduler

import (
	"context"
	"log"
	"time"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
)

// Sweeper completes confirmed appointments whose end time has passed and,
// optionally, expires pending ones nobody acted on.
type Sweeper struct {
	repo          domain.Repository
	clock         timezone.Clock
	interval      time.Duration
	expirePending bool
}

func NewSweeper(
	repo domain.Repository,
	clock timezone.Clock,
	interval time.Duration,
	expirePending bool,
) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		repo:          repo,
		clock:         clock,
		interval:      interval,
		expirePending: expirePending,
	}
}

// Result counts rows moved by one tick.
type Result struct {
	Completed int64
	Expired   int64
}

// Tick runs one sweep at now. Running it again at the same instant moves
// nothing.
func (s *Sweeper) Tick(ctx context.Context, now time.Time) (Result, error) {
	var res Result

	today := timezone.Day(now)
	clock := now.Format("15:04:05")

	n, err := s.repo.MoveElapsed(ctx, domain.StatusConfirmed, domain.StatusCompleted, today, clock, now)
	if err != nil {
		return res, err
	}
	res.Completed = n

	if s.expirePending {
		n, err := s.repo.MoveElapsed(ctx, domain.StatusPending, domain.StatusExpired, today, clock, now)
		if err != nil {
			return res, err
		}
		res.Expired = n
	}

	return res, nil
}

// Start blocks, sweeping every interval until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("sweeper started (every %s)", s.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("sweeper stopped")
			return
		case <-ticker.C:
			res, err := s.Tick(ctx, s.clock.Now())
			if err != nil {
				log.Printf("sweeper tick failed: %v", err)
				continue
			}
			if res.Completed > 0 || res.Expired > 0 {
				log.Printf("sweeper: %d completed, %d expired", res.Completed, res.Expired)
			}
		}
	}
}
