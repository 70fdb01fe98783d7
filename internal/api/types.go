package api

import (
	"github.com/google/uuid"

	"github.com/studiobook/studio-booking/internal/booking"
	"github.com/studiobook/studio-booking/internal/user"
)

const dateLayout = "2006-01-02"

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type ForgotRequest struct {
	Email string `json:"email"`
}

type ForgotResponse struct {
	Message string `json:"message"`
	Link    string `json:"link,omitempty"` // dev only
}

type ResetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	Role        string    `json:"role"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
	}
}

type SlotResponse struct {
	ID     uuid.UUID         `json:"id"`
	Date   string            `json:"date"`
	Start  booking.TimeOfDay `json:"start"`
	End    booking.TimeOfDay `json:"end"`
	Status string            `json:"status"`
}

func toSlotResponse(s *booking.Slot) SlotResponse {
	return SlotResponse{
		ID:     s.ID,
		Date:   s.Date.Format(dateLayout),
		Start:  s.Start,
		End:    s.End,
		Status: string(s.Status),
	}
}

type BulkSlotsRequest struct {
	Date        string            `json:"date"`
	Start       booking.TimeOfDay `json:"start"`
	End         booking.TimeOfDay `json:"end"`
	StepMinutes int               `json:"step_minutes"`
}

type BulkSlotsResponse struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type CreateBookingRequest struct {
	SlotID     string `json:"slot_id"`
	ProducerID string `json:"producer_id"`
}

type BookingResponse struct {
	ID         uuid.UUID `json:"id"`
	SlotID     uuid.UUID `json:"slot_id"`
	ArtistID   uuid.UUID `json:"artist_id"`
	ProducerID uuid.UUID `json:"producer_id"`
	Status     string    `json:"status"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		SlotID:     b.SlotID,
		ArtistID:   b.ArtistID,
		ProducerID: b.ProducerID,
		Status:     string(b.Status),
	}
}

type BookingViewResponse struct {
	ID            uuid.UUID         `json:"id"`
	SlotID        uuid.UUID         `json:"slot_id"`
	Date          string            `json:"date"`
	Start         booking.TimeOfDay `json:"start"`
	End           booking.TimeOfDay `json:"end"`
	Status        string            `json:"status"`
	ArtistID      uuid.UUID         `json:"artist_id"`
	ProducerID    uuid.UUID         `json:"producer_id"`
	ArtistName    string            `json:"artist_name"`
	ProducerName  string            `json:"producer_name"`
	ArtistEmail   string            `json:"artist_email,omitempty"`
	ProducerEmail string            `json:"producer_email,omitempty"`
}

func toBookingViewResponses(views []booking.BookingView) []BookingViewResponse {
	out := make([]BookingViewResponse, len(views))
	for i, v := range views {
		out[i] = BookingViewResponse{
			ID:            v.ID,
			SlotID:        v.SlotID,
			Date:          v.Date.Format(dateLayout),
			Start:         v.Start,
			End:           v.End,
			Status:        string(v.Status),
			ArtistID:      v.ArtistID,
			ProducerID:    v.ProducerID,
			ArtistName:    v.ArtistName,
			ProducerName:  v.ProducerName,
			ArtistEmail:   v.ArtistEmail,
			ProducerEmail: v.ProducerEmail,
		}
	}
	return out
}
