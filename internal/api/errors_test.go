package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/studiobook/studio-booking/internal/booking"
	redisclient "github.com/studiobook/studio-booking/internal/redis"
	"github.com/studiobook/studio-booking/internal/user"
)

func TestHandleBookingErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &booking.ValidationError{Msg: "step_minutes must be between 1 and 480"}, http.StatusBadRequest},
		{"wrong-status transition", booking.ErrInvalidTransition, http.StatusBadRequest},
		{"not allowed", booking.ErrNotAllowed, http.StatusForbidden},
		{"slot not found", booking.ErrSlotNotFound, http.StatusNotFound},
		{"booking not found", booking.ErrBookingNotFound, http.StatusNotFound},
		{"producer not found", booking.ErrProducerNotFound, http.StatusNotFound},
		{"slot not free", booking.ErrSlotNotFree, http.StatusConflict},
		{"slot taken", booking.ErrSlotTaken, http.StatusConflict},
		{"slot being booked", booking.ErrSlotBeingBooked, http.StatusConflict},
		{"lock not acquired", redisclient.ErrLockNotAcquired, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleBookingError(rec, tc.err)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestHandleUserErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid email", user.ErrInvalidEmail, http.StatusBadRequest},
		{"manager signup", user.ErrManagerSignup, http.StatusForbidden},
		{"email taken", user.ErrEmailTaken, http.StatusConflict},
		{"invalid credentials", user.ErrInvalidCredentials, http.StatusUnauthorized},
		{"inactive user", user.ErrUserInactive, http.StatusUnauthorized},
		{"reset token invalid", user.ErrResetTokenInvalid, http.StatusBadRequest},
		{"user not found", user.ErrUserNotFound, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleUserError(rec, tc.err)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
