package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Window is a (start, end) pair within one calendar date, used by the bulk
// generator's duplicate suppression.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Horizon is the "future or today not yet ended" visibility bound applied
// to listings, and its complement is what the reaper deletes. A slot ending
// at midnight stores the wrapped end 00:00, so end_min 0 compares as already
// ended for the whole of its own day: hidden from listings and reaped early.
type Horizon struct {
	Today time.Time
	Now   TimeOfDay
}

// Repository contains all DB interactions needed by the booking service.
// Implementations of InTx must run fn against a repository whose operations
// share one transaction, committed iff fn returns nil.
type Repository interface {
	InTx(ctx context.Context, fn func(Repository) error) error

	GetSlotByID(ctx context.Context, id uuid.UUID) (*Slot, error)
	CreateSlots(ctx context.Context, slots []Slot) error
	ExistingWindows(ctx context.Context, managerID uuid.UUID, date time.Time) (map[Window]bool, error)

	// UpdateSlotStatus is a compare-and-swap; it fails with ErrSlotNotFree
	// when the slot is no longer in the expected status.
	UpdateSlotStatus(ctx context.Context, id uuid.UUID, from, to SlotStatus) error
	SetSlotStatus(ctx context.Context, id uuid.UUID, to SlotStatus) error
	SoftDeleteSlot(ctx context.Context, id uuid.UUID) error

	// ListSlots returns non-deleted slots for an exact day when day is set,
	// otherwise slots within the horizon; ordered by date, start.
	ListSlots(ctx context.Context, day *time.Time, h *Horizon) ([]Slot, error)

	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetActiveBookingForSlot(ctx context.Context, slotID uuid.UUID) (*Booking, error)

	// CreateBooking fails with ErrSlotTaken when the slot already carries an
	// active booking (partial unique index).
	CreateBooking(ctx context.Context, b *Booking) error

	// UpdateBookingStatus is a compare-and-swap; it fails with
	// ErrInvalidTransition when the booking left the expected status.
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, from, to BookingStatus) (*Booking, error)

	// Expiry reaper
	PastSlotIDs(ctx context.Context, h Horizon) ([]uuid.UUID, error)
	DeleteBookingsBySlot(ctx context.Context, slotIDs []uuid.UUID) (int64, error)
	DeleteSlotsByID(ctx context.Context, slotIDs []uuid.UUID) (int64, error)

	// Joined listing views
	ListIncomingRequests(ctx context.Context, producerID *uuid.UUID, h Horizon) ([]BookingView, error)
	ListManagerQueue(ctx context.Context) ([]BookingView, error)
	ListConfirmedAgenda(ctx context.Context, h Horizon) ([]BookingView, error)
}
