package booking

import (
	"github.com/studiobook/studio-booking/internal/user"
)

type Action string

const (
	ActionProducerAccept Action = "producer_accept"
	ActionProducerReject Action = "producer_reject"
	ActionManagerAccept  Action = "manager_accept"
	ActionManagerReject  Action = "manager_reject"
	ActionProducerCancel Action = "producer_cancel"
	ActionArtistCancel   Action = "artist_cancel"
)

// transitionResult is the committed outcome of a legal transition: the new
// booking status and, when touchSlot is set, the compensating slot status.
type transitionResult struct {
	bookingStatus BookingStatus
	slotStatus    SlotStatus
	touchSlot     bool
}

type transitionRule struct {
	from      BookingStatus
	to        BookingStatus
	slot      SlotStatus
	touchSlot bool
	allowed   func(actor *user.User, b *Booking) bool
}

// A manager may act in the producer's stead on producer-stage actions; a
// producer only on bookings naming them.
func producerStage(actor *user.User, b *Booking) bool {
	if actor.Role == user.RoleManager {
		return true
	}
	return actor.Role == user.RoleProducer && b.ProducerID == actor.ID
}

func managerOnly(actor *user.User, _ *Booking) bool {
	return actor.Role == user.RoleManager
}

// Cancellations require the exact named party, not just the role.
func producerOwner(actor *user.User, b *Booking) bool {
	return actor.Role == user.RoleProducer && b.ProducerID == actor.ID
}

func artistOwner(actor *user.User, b *Booking) bool {
	return actor.Role == user.RoleArtist && b.ArtistID == actor.ID
}

var transitionRules = map[Action]transitionRule{
	ActionProducerAccept: {
		from:    StatusPendingProducer,
		to:      StatusPendingManager,
		allowed: producerStage,
	},
	ActionProducerReject: {
		from:      StatusPendingProducer,
		to:        StatusRejectedByProducer,
		slot:      SlotFree,
		touchSlot: true,
		allowed:   producerStage,
	},
	ActionManagerAccept: {
		from:      StatusPendingManager,
		to:        StatusConfirmed,
		slot:      SlotBooked,
		touchSlot: true,
		allowed:   managerOnly,
	},
	ActionManagerReject: {
		from:      StatusPendingManager,
		to:        StatusRejectedByManager,
		slot:      SlotFree,
		touchSlot: true,
		allowed:   managerOnly,
	},
	ActionProducerCancel: {
		from:      StatusConfirmed,
		to:        StatusCanceledByProducer,
		slot:      SlotFree,
		touchSlot: true,
		allowed:   producerOwner,
	},
	ActionArtistCancel: {
		from:      StatusConfirmed,
		to:        StatusCanceledByArtist,
		slot:      SlotFree,
		touchSlot: true,
		allowed:   artistOwner,
	},
}

// applyTransition validates an action against the current booking and actor
// and returns the resulting status pair. It never mutates anything: terminal
// states are absorbing simply because no rule departs from them.
func applyTransition(action Action, actor *user.User, b *Booking) (transitionResult, error) {
	rule, ok := transitionRules[action]
	if !ok {
		return transitionResult{}, ErrInvalidTransition
	}
	if !rule.allowed(actor, b) {
		return transitionResult{}, ErrNotAllowed
	}
	if b.Status != rule.from {
		return transitionResult{}, ErrInvalidTransition
	}
	return transitionResult{
		bookingStatus: rule.to,
		slotStatus:    rule.slot,
		touchSlot:     rule.touchSlot,
	}, nil
}
