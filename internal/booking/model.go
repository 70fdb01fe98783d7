package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotFree    SlotStatus = "FREE"
	SlotPending SlotStatus = "PENDING"
	SlotBooked  SlotStatus = "BOOKED"
	SlotClosed  SlotStatus = "CLOSED"
)

type BookingStatus string

const (
	StatusPendingProducer    BookingStatus = "PENDING_PRODUCER"
	StatusPendingManager     BookingStatus = "PENDING_MANAGER"
	StatusConfirmed          BookingStatus = "CONFIRMED"
	StatusRejectedByProducer BookingStatus = "REJECTED_BY_PRODUCER"
	StatusRejectedByManager  BookingStatus = "REJECTED_BY_MANAGER"
	StatusCanceledByProducer BookingStatus = "CANCELED_BY_PRODUCER"
	StatusCanceledByArtist   BookingStatus = "CANCELED_BY_ARTIST"
)

// Active reports whether the status counts against the one-active-booking
// limit of a slot.
func (s BookingStatus) Active() bool {
	switch s {
	case StatusPendingProducer, StatusPendingManager, StatusConfirmed:
		return true
	}
	return false
}

// Slot is a manager-defined bookable time window.
type Slot struct {
	ID        uuid.UUID
	ManagerID uuid.UUID
	Date      time.Time // calendar date at UTC midnight
	Start     TimeOfDay
	End       TimeOfDay
	Status    SlotStatus
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Window formats the slot for notifications: "2024-01-10 • 10:00–11:00".
func (s *Slot) Window() string {
	return fmt.Sprintf("%s • %s–%s", s.Date.Format("2006-01-02"), s.Start, s.End)
}

// Booking binds an artist, a producer and a slot through the two-stage
// approval workflow.
type Booking struct {
	ID         uuid.UUID
	SlotID     uuid.UUID
	ArtistID   uuid.UUID
	ProducerID uuid.UUID
	Status     BookingStatus
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BookingView is a booking joined with its slot window and the display
// names of both parties, as served by the listing endpoints.
type BookingView struct {
	ID            uuid.UUID
	SlotID        uuid.UUID
	Date          time.Time
	Start         TimeOfDay
	End           TimeOfDay
	Status        BookingStatus
	ArtistID      uuid.UUID
	ProducerID    uuid.UUID
	ArtistName    string
	ProducerName  string
	ArtistEmail   string
	ProducerEmail string
}
