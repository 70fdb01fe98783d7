package booking

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/studiobook/studio-booking/internal/user"
)

func testUser(role user.Role) *user.User {
	return &user.User{
		ID:     uuid.New(),
		Email:  uuid.NewString() + "@example.com",
		Role:   role,
		Active: true,
	}
}

func TestApplyTransitionLegalSteps(t *testing.T) {
	artist := testUser(user.RoleArtist)
	producer := testUser(user.RoleProducer)
	manager := testUser(user.RoleManager)

	mk := func(status BookingStatus) *Booking {
		return &Booking{
			ID:         uuid.New(),
			SlotID:     uuid.New(),
			ArtistID:   artist.ID,
			ProducerID: producer.ID,
			Status:     status,
		}
	}

	cases := []struct {
		name      string
		action    Action
		actor     *user.User
		booking   *Booking
		wantTo    BookingStatus
		wantSlot  SlotStatus
		touchSlot bool
	}{
		{
			name:    "producer accepts own request",
			action:  ActionProducerAccept,
			actor:   producer,
			booking: mk(StatusPendingProducer),
			wantTo:  StatusPendingManager,
		},
		{
			name:    "manager accepts in producer's stead",
			action:  ActionProducerAccept,
			actor:   manager,
			booking: mk(StatusPendingProducer),
			wantTo:  StatusPendingManager,
		},
		{
			name:      "producer rejects, slot freed",
			action:    ActionProducerReject,
			actor:     producer,
			booking:   mk(StatusPendingProducer),
			wantTo:    StatusRejectedByProducer,
			wantSlot:  SlotFree,
			touchSlot: true,
		},
		{
			name:      "manager confirms, slot booked",
			action:    ActionManagerAccept,
			actor:     manager,
			booking:   mk(StatusPendingManager),
			wantTo:    StatusConfirmed,
			wantSlot:  SlotBooked,
			touchSlot: true,
		},
		{
			name:      "manager rejects, slot freed",
			action:    ActionManagerReject,
			actor:     manager,
			booking:   mk(StatusPendingManager),
			wantTo:    StatusRejectedByManager,
			wantSlot:  SlotFree,
			touchSlot: true,
		},
		{
			name:      "producer cancels confirmed booking",
			action:    ActionProducerCancel,
			actor:     producer,
			booking:   mk(StatusConfirmed),
			wantTo:    StatusCanceledByProducer,
			wantSlot:  SlotFree,
			touchSlot: true,
		},
		{
			name:      "artist cancels confirmed booking",
			action:    ActionArtistCancel,
			actor:     artist,
			booking:   mk(StatusConfirmed),
			wantTo:    StatusCanceledByArtist,
			wantSlot:  SlotFree,
			touchSlot: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := applyTransition(tc.action, tc.actor, tc.booking)
			if err != nil {
				t.Fatalf("applyTransition: %v", err)
			}
			if got.bookingStatus != tc.wantTo {
				t.Errorf("booking status = %s, want %s", got.bookingStatus, tc.wantTo)
			}
			if got.touchSlot != tc.touchSlot {
				t.Errorf("touchSlot = %v, want %v", got.touchSlot, tc.touchSlot)
			}
			if tc.touchSlot && got.slotStatus != tc.wantSlot {
				t.Errorf("slot status = %s, want %s", got.slotStatus, tc.wantSlot)
			}
		})
	}
}

func TestApplyTransitionAuthorization(t *testing.T) {
	artist := testUser(user.RoleArtist)
	producer := testUser(user.RoleProducer)
	otherProducer := testUser(user.RoleProducer)
	otherArtist := testUser(user.RoleArtist)
	manager := testUser(user.RoleManager)

	mk := func(status BookingStatus) *Booking {
		return &Booking{
			ID:         uuid.New(),
			SlotID:     uuid.New(),
			ArtistID:   artist.ID,
			ProducerID: producer.ID,
			Status:     status,
		}
	}

	cases := []struct {
		name    string
		action  Action
		actor   *user.User
		booking *Booking
	}{
		{"artist cannot producer-accept", ActionProducerAccept, artist, mk(StatusPendingProducer)},
		{"unrelated producer cannot accept", ActionProducerAccept, otherProducer, mk(StatusPendingProducer)},
		{"unrelated producer cannot reject", ActionProducerReject, otherProducer, mk(StatusPendingProducer)},
		{"producer cannot manager-accept", ActionManagerAccept, producer, mk(StatusPendingManager)},
		{"artist cannot manager-reject", ActionManagerReject, artist, mk(StatusPendingManager)},
		{"manager cannot producer-cancel", ActionProducerCancel, manager, mk(StatusConfirmed)},
		{"unrelated producer cannot cancel", ActionProducerCancel, otherProducer, mk(StatusConfirmed)},
		{"manager cannot artist-cancel", ActionArtistCancel, manager, mk(StatusConfirmed)},
		{"unrelated artist cannot cancel", ActionArtistCancel, otherArtist, mk(StatusConfirmed)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := applyTransition(tc.action, tc.actor, tc.booking)
			if !errors.Is(err, ErrNotAllowed) {
				t.Fatalf("err = %v, want ErrNotAllowed", err)
			}
		})
	}
}

func TestApplyTransitionWrongState(t *testing.T) {
	artist := testUser(user.RoleArtist)
	producer := testUser(user.RoleProducer)
	manager := testUser(user.RoleManager)

	mk := func(status BookingStatus) *Booking {
		return &Booking{
			ID:         uuid.New(),
			SlotID:     uuid.New(),
			ArtistID:   artist.ID,
			ProducerID: producer.ID,
			Status:     status,
		}
	}

	cases := []struct {
		name    string
		action  Action
		actor   *user.User
		booking *Booking
	}{
		{"producer-accept on manager stage", ActionProducerAccept, producer, mk(StatusPendingManager)},
		{"manager-accept on producer stage", ActionManagerAccept, manager, mk(StatusPendingProducer)},
		{"artist-cancel before confirmation", ActionArtistCancel, artist, mk(StatusPendingManager)},
		{"producer-cancel before confirmation", ActionProducerCancel, producer, mk(StatusPendingProducer)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := applyTransition(tc.action, tc.actor, tc.booking)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("err = %v, want ErrInvalidTransition", err)
			}
		})
	}
}

// Terminal statuses have no outgoing rule for any action.
func TestTerminalStatusesAbsorbing(t *testing.T) {
	artist := testUser(user.RoleArtist)
	producer := testUser(user.RoleProducer)
	manager := testUser(user.RoleManager)

	terminals := []BookingStatus{
		StatusRejectedByProducer,
		StatusRejectedByManager,
		StatusCanceledByProducer,
		StatusCanceledByArtist,
	}
	actors := map[Action]*user.User{
		ActionProducerAccept: producer,
		ActionProducerReject: producer,
		ActionManagerAccept:  manager,
		ActionManagerReject:  manager,
		ActionProducerCancel: producer,
		ActionArtistCancel:   artist,
	}

	for _, status := range terminals {
		b := &Booking{
			ID:         uuid.New(),
			SlotID:     uuid.New(),
			ArtistID:   artist.ID,
			ProducerID: producer.ID,
			Status:     status,
		}
		for action, actor := range actors {
			if _, err := applyTransition(action, actor, b); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("%s from %s: err = %v, want ErrInvalidTransition", action, status, err)
			}
		}
	}
}
