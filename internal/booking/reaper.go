package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Reaper lazily purges slots whose window has passed, together with their
// bookings, when a read path invokes it. Sweeps are throttled to one per
// cooldown; the guard is owned by the instance so tests can reset state and
// control time. Across processes the throttle is uncoordinated, which is
// harmless: a redundant sweep deletes nothing.
type Reaper struct {
	repo     Repository
	cooldown time.Duration
	now      func() time.Time
	log      *zap.Logger

	mu        sync.Mutex
	lastSweep time.Time
}

func NewReaper(repo Repository, cooldown time.Duration, log *zap.Logger) *Reaper {
	return &Reaper{
		repo:     repo,
		cooldown: cooldown,
		now:      time.Now,
		log:      log,
	}
}

// Sweep deletes all past slots and their bookings in one transaction.
// Within the cooldown it is a no-op returning zero.
func (r *Reaper) Sweep(ctx context.Context) (int64, error) {
	now := r.now()

	r.mu.Lock()
	if !r.lastSweep.IsZero() && now.Sub(r.lastSweep) < r.cooldown {
		r.mu.Unlock()
		return 0, nil
	}
	r.lastSweep = now
	r.mu.Unlock()

	h := Horizon{Today: DateOf(now), Now: TimeOfDayOf(now)}

	var removed int64
	err := r.repo.InTx(ctx, func(tx Repository) error {
		ids, err := tx.PastSlotIDs(ctx, h)
		if err != nil {
			return fmt.Errorf("find past slots: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		// Bookings first: they reference the doomed slots.
		bookings, err := tx.DeleteBookingsBySlot(ctx, ids)
		if err != nil {
			return err
		}

		removed, err = tx.DeleteSlotsByID(ctx, ids)
		if err != nil {
			return err
		}

		r.log.Info("swept expired slots",
			zap.Int64("slots", removed),
			zap.Int64("bookings", bookings),
		)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}
