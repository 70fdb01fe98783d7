package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studiobook/studio-booking/internal/user"
)

// memRepo is an in-memory Repository. InTx holds the lock for the whole
// closure and rolls back on error, mimicking the serialized transactions
// and the partial unique index of the real store.
type memRepo struct {
	mu       *sync.Mutex
	noLock   bool
	slots    map[uuid.UUID]*Slot
	bookings map[uuid.UUID]*Booking
	users    map[uuid.UUID]*user.User
}

func newMemRepo() *memRepo {
	return &memRepo{
		mu:       &sync.Mutex{},
		slots:    make(map[uuid.UUID]*Slot),
		bookings: make(map[uuid.UUID]*Booking),
		users:    make(map[uuid.UUID]*user.User),
	}
}

func (r *memRepo) lock() func() {
	if r.noLock {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func cloneMap[V Slot | Booking](m map[uuid.UUID]*V) map[uuid.UUID]*V {
	out := make(map[uuid.UUID]*V, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}

func (r *memRepo) InTx(_ context.Context, fn func(Repository) error) error {
	if r.noLock {
		return fn(r)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	snapSlots := cloneMap(r.slots)
	snapBookings := cloneMap(r.bookings)

	tx := &memRepo{mu: r.mu, noLock: true, slots: r.slots, bookings: r.bookings, users: r.users}
	if err := fn(tx); err != nil {
		r.slots = snapSlots
		r.bookings = snapBookings
		return err
	}
	return nil
}

func (r *memRepo) GetSlotByID(_ context.Context, id uuid.UUID) (*Slot, error) {
	defer r.lock()()
	if s, ok := r.slots[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, ErrSlotNotFound
}

func (r *memRepo) CreateSlots(_ context.Context, slots []Slot) error {
	defer r.lock()()
	for _, s := range slots {
		cp := s
		r.slots[s.ID] = &cp
	}
	return nil
}

func (r *memRepo) ExistingWindows(_ context.Context, managerID uuid.UUID, date time.Time) (map[Window]bool, error) {
	defer r.lock()()
	out := make(map[Window]bool)
	for _, s := range r.slots {
		if s.ManagerID == managerID && s.Date.Equal(date) && !s.Deleted {
			out[Window{Start: s.Start, End: s.End}] = true
		}
	}
	return out, nil
}

func (r *memRepo) UpdateSlotStatus(_ context.Context, id uuid.UUID, from, to SlotStatus) error {
	defer r.lock()()
	s, ok := r.slots[id]
	if !ok || s.Deleted || s.Status != from {
		return ErrSlotNotFree
	}
	s.Status = to
	return nil
}

func (r *memRepo) SetSlotStatus(_ context.Context, id uuid.UUID, to SlotStatus) error {
	defer r.lock()()
	if s, ok := r.slots[id]; ok {
		s.Status = to
	}
	return nil
}

func (r *memRepo) SoftDeleteSlot(_ context.Context, id uuid.UUID) error {
	defer r.lock()()
	s, ok := r.slots[id]
	if !ok || s.Deleted {
		return ErrSlotNotFound
	}
	s.Deleted = true
	return nil
}

func inHorizon(s *Slot, h Horizon) bool {
	if s.Date.After(h.Today) {
		return true
	}
	return s.Date.Equal(h.Today) && s.End >= h.Now
}

func (r *memRepo) ListSlots(_ context.Context, day *time.Time, h *Horizon) ([]Slot, error) {
	defer r.lock()()
	var out []Slot
	for _, s := range r.slots {
		if s.Deleted {
			continue
		}
		if day != nil && !s.Date.Equal(*day) {
			continue
		}
		if day == nil && h != nil && !inHorizon(s, *h) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Start < out[j].Start
	})
	return out, nil
}

func (r *memRepo) GetBookingByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	defer r.lock()()
	if b, ok := r.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, ErrBookingNotFound
}

func (r *memRepo) GetActiveBookingForSlot(_ context.Context, slotID uuid.UUID) (*Booking, error) {
	defer r.lock()()
	for _, b := range r.bookings {
		if b.SlotID == slotID && b.Status.Active() {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (r *memRepo) CreateBooking(_ context.Context, b *Booking) error {
	defer r.lock()()
	if b.Status.Active() {
		for _, existing := range r.bookings {
			if existing.SlotID == b.SlotID && existing.Status.Active() {
				return ErrSlotTaken
			}
		}
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memRepo) UpdateBookingStatus(_ context.Context, id uuid.UUID, from, to BookingStatus) (*Booking, error) {
	defer r.lock()()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if b.Status != from {
		return nil, ErrInvalidTransition
	}
	b.Status = to
	cp := *b
	return &cp, nil
}

func (r *memRepo) PastSlotIDs(_ context.Context, h Horizon) ([]uuid.UUID, error) {
	defer r.lock()()
	var ids []uuid.UUID
	for _, s := range r.slots {
		if !inHorizon(s, h) {
			ids = append(ids, s.ID)
		}
	}
	return ids, nil
}

func (r *memRepo) DeleteBookingsBySlot(_ context.Context, slotIDs []uuid.UUID) (int64, error) {
	defer r.lock()()
	doomed := make(map[uuid.UUID]bool, len(slotIDs))
	for _, id := range slotIDs {
		doomed[id] = true
	}
	var n int64
	for id, b := range r.bookings {
		if doomed[b.SlotID] {
			delete(r.bookings, id)
			n++
		}
	}
	return n, nil
}

func (r *memRepo) DeleteSlotsByID(_ context.Context, slotIDs []uuid.UUID) (int64, error) {
	defer r.lock()()
	var n int64
	for _, id := range slotIDs {
		if _, ok := r.slots[id]; ok {
			delete(r.slots, id)
			n++
		}
	}
	return n, nil
}

func (r *memRepo) view(b *Booking) BookingView {
	s := r.slots[b.SlotID]
	v := BookingView{
		ID:         b.ID,
		SlotID:     b.SlotID,
		Status:     b.Status,
		ArtistID:   b.ArtistID,
		ProducerID: b.ProducerID,
	}
	if s != nil {
		v.Date = s.Date
		v.Start = s.Start
		v.End = s.End
	}
	if a, ok := r.users[b.ArtistID]; ok {
		v.ArtistName = a.Label()
		v.ArtistEmail = a.Email
	}
	if p, ok := r.users[b.ProducerID]; ok {
		v.ProducerName = p.Label()
		v.ProducerEmail = p.Email
	}
	return v
}

func (r *memRepo) ListIncomingRequests(_ context.Context, producerID *uuid.UUID, h Horizon) ([]BookingView, error) {
	defer r.lock()()
	var out []BookingView
	for _, b := range r.bookings {
		if b.Status != StatusPendingProducer {
			continue
		}
		if producerID != nil && b.ProducerID != *producerID {
			continue
		}
		if s, ok := r.slots[b.SlotID]; !ok || !inHorizon(s, h) {
			continue
		}
		out = append(out, r.view(b))
	}
	return out, nil
}

func (r *memRepo) ListManagerQueue(_ context.Context) ([]BookingView, error) {
	defer r.lock()()
	var out []BookingView
	for _, b := range r.bookings {
		if b.Status == StatusPendingManager {
			out = append(out, r.view(b))
		}
	}
	return out, nil
}

func (r *memRepo) ListConfirmedAgenda(_ context.Context, h Horizon) ([]BookingView, error) {
	defer r.lock()()
	var out []BookingView
	for _, b := range r.bookings {
		if b.Status != StatusConfirmed {
			continue
		}
		if s, ok := r.slots[b.SlotID]; !ok || !inHorizon(s, h) {
			continue
		}
		out = append(out, r.view(b))
	}
	return out, nil
}
