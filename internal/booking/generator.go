package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/studiobook/studio-booking/internal/user"
)

const (
	minStepMinutes = 1
	maxStepMinutes = 480
)

type BulkResult struct {
	Created int
	Skipped int
}

// GenerateSlots bulk-creates contiguous candidate windows of stepMinutes
// covering [start, end) on the given date. An end of 00:00 means midnight
// of the next day for the window bound; the stored slot keeps its own date
// and the wrapped end time. Candidates whose (start, end) pair already
// exists for this manager and date are skipped silently; the remainder is
// inserted in a single transaction.
func (s *Service) GenerateSlots(ctx context.Context, actor *user.User, date time.Time, start, end TimeOfDay, stepMinutes int) (BulkResult, error) {
	if actor.Role != user.RoleManager {
		return BulkResult{}, ErrNotAllowed
	}

	if stepMinutes < minStepMinutes || stepMinutes > maxStepMinutes {
		return BulkResult{}, validationf("step_minutes must be between %d and %d", minStepMinutes, maxStepMinutes)
	}

	endBound := int(end)
	if end == 0 {
		endBound = minutesPerDay
	}
	if endBound <= int(start) {
		return BulkResult{}, validationf("end must be after start")
	}

	var candidates []Window
	for cur := int(start); cur+stepMinutes <= endBound; cur += stepMinutes {
		candidates = append(candidates, Window{
			Start: TimeOfDay(cur),
			End:   TimeOfDay((cur + stepMinutes) % minutesPerDay),
		})
	}
	if len(candidates) == 0 {
		return BulkResult{}, validationf("no slots generated")
	}

	date = DateOf(date)

	existing, err := s.repo.ExistingWindows(ctx, actor.ID, date)
	if err != nil {
		return BulkResult{}, fmt.Errorf("load existing windows: %w", err)
	}

	var toInsert []Slot
	skipped := 0
	for _, w := range candidates {
		if existing[w] {
			skipped++
			continue
		}
		toInsert = append(toInsert, Slot{
			ID:        uuid.New(),
			ManagerID: actor.ID,
			Date:      date,
			Start:     w.Start,
			End:       w.End,
			Status:    SlotFree,
		})
	}

	if len(toInsert) > 0 {
		err := s.repo.InTx(ctx, func(r Repository) error {
			return r.CreateSlots(ctx, toInsert)
		})
		if err != nil {
			return BulkResult{}, fmt.Errorf("insert slots: %w", err)
		}
	}

	return BulkResult{Created: len(toInsert), Skipped: skipped}, nil
}
