package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	redisclient "github.com/studiobook/studio-booking/internal/redis"
	"github.com/studiobook/studio-booking/internal/user"
)

// UserDirectory is the slice of the user store the booking service needs:
// party lookups for validation and notification addressing.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	ActiveManagerEmails(ctx context.Context) ([]string, error)
}

// Notifier delivers a best-effort notification; it never returns an error
// and must not block the transition that queued it.
type Notifier interface {
	Send(ctx context.Context, to []string, subject, html string)
}

// CalendarEvent is the external calendar effect of a confirmed booking.
type CalendarEvent struct {
	Date          time.Time
	Start         TimeOfDay
	End           TimeOfDay
	ArtistName    string
	ArtistEmail   string
	ProducerName  string
	ProducerEmail string
	ManagerName   string
	Description   string
}

type CalendarScheduler interface {
	CreateEvent(ctx context.Context, ev CalendarEvent) error
}

type Service struct {
	repo     Repository
	users    UserDirectory
	locker   redisclient.Locker
	notifier Notifier
	calendar CalendarScheduler // nil when not configured
	reaper   *Reaper
	log      *zap.Logger
	now      func() time.Time

	// Static manager recipient list; when empty the active managers are
	// looked up in the store instead.
	managerEmails []string
}

func NewService(
	repo Repository,
	users UserDirectory,
	locker redisclient.Locker,
	notifier Notifier,
	calendar CalendarScheduler,
	reaper *Reaper,
	managerEmails []string,
	log *zap.Logger,
) *Service {
	return &Service{
		repo:          repo,
		users:         users,
		locker:        locker,
		notifier:      notifier,
		calendar:      calendar,
		reaper:        reaper,
		log:           log,
		now:           time.Now,
		managerEmails: managerEmails,
	}
}

func (s *Service) horizon() Horizon {
	now := s.now()
	return Horizon{Today: DateOf(now), Now: TimeOfDayOf(now)}
}

// sweep runs the lazy reaper on a read path; failures never surface to the
// caller.
func (s *Service) sweep(ctx context.Context) {
	if s.reaper == nil {
		return
	}
	if _, err := s.reaper.Sweep(ctx); err != nil {
		s.log.Warn("expiry sweep failed", zap.Error(err))
	}
}

// Request books a FREE slot for an artist, naming a producer. The critical
// section between the availability check and the insert runs under a
// per-slot Redis lock; the store's partial unique index backs the
// at-most-one-active-booking invariant regardless.
func (s *Service) Request(ctx context.Context, actor *user.User, producerID, slotID uuid.UUID) (*Booking, error) {
	if actor.Role != user.RoleArtist {
		return nil, ErrNotAllowed
	}

	slot, err := s.repo.GetSlotByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.Deleted {
		return nil, ErrSlotNotFound
	}
	if slot.Status != SlotFree {
		return nil, ErrSlotNotFree
	}

	producer, err := s.users.GetByID(ctx, producerID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrProducerNotFound
		}
		return nil, fmt.Errorf("load producer: %w", err)
	}
	if producer.Role != user.RoleProducer || !producer.Active {
		return nil, validationf("selected user is not an active producer")
	}

	created := &Booking{
		ID:         uuid.New(),
		SlotID:     slot.ID,
		ArtistID:   actor.ID,
		ProducerID: producer.ID,
		Status:     StatusPendingProducer,
		Notes:      "",
	}

	err = s.locker.WithSlotLock(ctx, slotID, func(lockCtx context.Context) error {
		return s.repo.InTx(lockCtx, func(tx Repository) error {
			// Re-check inside the critical section.
			existing, err := tx.GetActiveBookingForSlot(lockCtx, slotID)
			if err != nil && !errors.Is(err, ErrBookingNotFound) {
				return fmt.Errorf("check active booking: %w", err)
			}
			if existing != nil {
				return ErrSlotTaken
			}

			if err := tx.UpdateSlotStatus(lockCtx, slotID, SlotFree, SlotPending); err != nil {
				return err
			}

			return tx.CreateBooking(lockCtx, created)
		})
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	s.dispatch(ctx, requestEmail(producer, actor, slot))

	return created, nil
}

// transition commits one state-machine step: booking status CAS plus the
// compensating slot status change, in a single transaction. It returns the
// updated booking and its slot for effect construction.
func (s *Service) transition(ctx context.Context, actor *user.User, bookingID uuid.UUID, action Action) (*Booking, *Slot, error) {
	b, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	result, err := applyTransition(action, actor, b)
	if err != nil {
		return nil, nil, err
	}

	var updated *Booking
	var slot *Slot
	err = s.repo.InTx(ctx, func(tx Repository) error {
		updated, err = tx.UpdateBookingStatus(ctx, b.ID, b.Status, result.bookingStatus)
		if err != nil {
			return err
		}

		if result.touchSlot {
			if err := tx.SetSlotStatus(ctx, b.SlotID, result.slotStatus); err != nil {
				return err
			}
		}

		slot, err = tx.GetSlotByID(ctx, b.SlotID)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return updated, slot, nil
}

// parties loads the artist and producer of a booking for notification
// addressing. A lookup failure only suppresses the notification.
func (s *Service) parties(ctx context.Context, b *Booking) (artist, producer *user.User, ok bool) {
	artist, err := s.users.GetByID(ctx, b.ArtistID)
	if err != nil {
		s.log.Warn("load artist for notification", zap.Error(err))
		return nil, nil, false
	}
	producer, err = s.users.GetByID(ctx, b.ProducerID)
	if err != nil {
		s.log.Warn("load producer for notification", zap.Error(err))
		return nil, nil, false
	}
	return artist, producer, true
}

func (s *Service) resolveManagerEmails(ctx context.Context) []string {
	if len(s.managerEmails) > 0 {
		return s.managerEmails
	}
	emails, err := s.users.ActiveManagerEmails(ctx)
	if err != nil {
		s.log.Warn("load manager emails", zap.Error(err))
		return nil
	}
	return emails
}

func (s *Service) dispatch(ctx context.Context, emails ...Email) {
	for _, e := range emails {
		if len(e.To) == 0 {
			continue
		}
		s.notifier.Send(ctx, e.To, e.Subject, e.HTML)
	}
}

func (s *Service) ProducerAccept(ctx context.Context, actor *user.User, bookingID uuid.UUID) (*Booking, error) {
	b, slot, err := s.transition(ctx, actor, bookingID, ActionProducerAccept)
	if err != nil {
		return nil, err
	}

	if artist, producer, ok := s.parties(ctx, b); ok {
		emails := []Email{producerAcceptedArtistEmail(artist, producer, slot)}
		if managers := s.resolveManagerEmails(ctx); len(managers) > 0 {
			emails = append(emails, producerAcceptedManagerEmail(managers, producer, artist, slot))
		}
		s.dispatch(ctx, emails...)
	}

	return b, nil
}

func (s *Service) ProducerReject(ctx context.Context, actor *user.User, bookingID uuid.UUID) (*Booking, error) {
	b, slot, err := s.transition(ctx, actor, bookingID, ActionProducerReject)
	if err != nil {
		return nil, err
	}

	if artist, producer, ok := s.parties(ctx, b); ok {
		s.dispatch(ctx, producerRejectedEmail(artist, producer, slot))
	}

	return b, nil
}

func (s *Service) ManagerAccept(ctx context.Context, actor *user.User, bookingID uuid.UUID) (*Booking, error) {
	b, slot, err := s.transition(ctx, actor, bookingID, ActionManagerAccept)
	if err != nil {
		return nil, err
	}

	artist, producer, ok := s.parties(ctx, b)

	// Calendar event is best-effort: a failure is logged and the already
	// committed confirmation stands.
	if ok && s.calendar != nil {
		ev := CalendarEvent{
			Date:          slot.Date,
			Start:         slot.Start,
			End:           slot.End,
			ArtistName:    artist.Label(),
			ArtistEmail:   artist.Email,
			ProducerName:  producer.Label(),
			ProducerEmail: producer.Email,
			ManagerName:   actor.Label(),
			Description:   fmt.Sprintf("Booking confirmed (ID %s).", b.ID),
		}
		if err := s.calendar.CreateEvent(ctx, ev); err != nil {
			s.log.Warn("calendar event creation failed", zap.Error(err), zap.String("booking_id", b.ID.String()))
		}
	}

	if ok {
		s.dispatch(ctx, confirmedEmail(artist, producer, slot))
	}

	return b, nil
}

func (s *Service) ManagerReject(ctx context.Context, actor *user.User, bookingID uuid.UUID) (*Booking, error) {
	b, slot, err := s.transition(ctx, actor, bookingID, ActionManagerReject)
	if err != nil {
		return nil, err
	}

	if artist, producer, ok := s.parties(ctx, b); ok {
		s.dispatch(ctx, managerRejectedEmail(artist, producer, slot))
	}

	return b, nil
}

func (s *Service) ProducerCancel(ctx context.Context, actor *user.User, bookingID uuid.UUID) (*Booking, error) {
	b, slot, err := s.transition(ctx, actor, bookingID, ActionProducerCancel)
	if err != nil {
		return nil, err
	}

	if artist, producer, ok := s.parties(ctx, b); ok {
		emails := []Email{
			cancelConfirmationEmail(producer, slot),
			producerCanceledArtistEmail(artist, producer, slot),
		}
		if managers := s.resolveManagerEmails(ctx); len(managers) > 0 {
			emails = append(emails, producerCanceledManagerEmail(managers, artist, producer, slot))
		}
		s.dispatch(ctx, emails...)
	}

	return b, nil
}

func (s *Service) ArtistCancel(ctx context.Context, actor *user.User, bookingID uuid.UUID) (*Booking, error) {
	b, slot, err := s.transition(ctx, actor, bookingID, ActionArtistCancel)
	if err != nil {
		return nil, err
	}

	if artist, producer, ok := s.parties(ctx, b); ok {
		emails := []Email{
			cancelConfirmationEmail(artist, slot),
			artistCanceledProducerEmail(producer, artist, slot),
		}
		if managers := s.resolveManagerEmails(ctx); len(managers) > 0 {
			emails = append(emails, artistCanceledManagerEmail(managers, artist, producer, slot))
		}
		s.dispatch(ctx, emails...)
	}

	return b, nil
}

// Listings

// Availability lists bookable windows. With no explicit day only slots in
// the future (or today, not yet ended) are shown, masking any lag between
// a slot expiring and the next sweep removing it.
func (s *Service) Availability(ctx context.Context, day *time.Time) ([]Slot, error) {
	s.sweep(ctx)

	if day != nil {
		d := DateOf(*day)
		return s.repo.ListSlots(ctx, &d, nil)
	}
	h := s.horizon()
	return s.repo.ListSlots(ctx, nil, &h)
}

func (s *Service) ManagerSlots(ctx context.Context, actor *user.User) ([]Slot, error) {
	if actor.Role != user.RoleManager {
		return nil, ErrNotAllowed
	}

	s.sweep(ctx)

	h := s.horizon()
	return s.repo.ListSlots(ctx, nil, &h)
}

func (s *Service) DeleteSlot(ctx context.Context, actor *user.User, slotID uuid.UUID) error {
	if actor.Role != user.RoleManager {
		return ErrNotAllowed
	}
	return s.repo.SoftDeleteSlot(ctx, slotID)
}

func (s *Service) ProducerIncoming(ctx context.Context, actor *user.User) ([]BookingView, error) {
	if actor.Role != user.RoleProducer && actor.Role != user.RoleManager {
		return nil, ErrNotAllowed
	}

	var producerID *uuid.UUID
	if actor.Role == user.RoleProducer {
		producerID = &actor.ID
	}

	return s.repo.ListIncomingRequests(ctx, producerID, s.horizon())
}

func (s *Service) ManagerPending(ctx context.Context, actor *user.User) ([]BookingView, error) {
	if actor.Role != user.RoleManager {
		return nil, ErrNotAllowed
	}
	return s.repo.ListManagerQueue(ctx)
}

func (s *Service) AgendaConfirmed(ctx context.Context) ([]BookingView, error) {
	return s.repo.ListConfirmedAgenda(ctx, s.horizon())
}
